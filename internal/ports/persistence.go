package ports

import (
	"context"
	"time"

	"github.com/bnema/observation-displayer/internal/domain"
)

// PersistenceGateway is the asynchronous storage contract used by the
// observation registry. No method blocks; each callback runs at most once,
// on a goroutine owned by the gateway. A failed operation never calls back.
type PersistenceGateway interface {
	StoreNew(record domain.Record, onStored func(id domain.ObservationID))
	MarkInactive(id domain.ObservationID, onDone func())
	MarkAllExpiredInactive(onDone func(count int64))
	LoadAll(onLoaded func(records []domain.Record))
}

// ObservationStore is a synchronous storage backend driven by a gateway.
type ObservationStore interface {
	Insert(ctx context.Context, record domain.Record) (domain.ObservationID, error)
	MarkInactive(ctx context.Context, id domain.ObservationID) error
	MarkExpiredInactive(ctx context.Context, now time.Time) (int64, error)
	ListActive(ctx context.Context) ([]domain.Record, error)
	Close() error
}
