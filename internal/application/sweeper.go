package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/bnema/observation-displayer/internal/logging"
)

const DefaultSweepInterval = time.Minute

type expirySweeper interface {
	SweepExpired() int
}

// Sweeper evicts expired observations on a fixed interval.
type Sweeper struct {
	registry expirySweeper
	interval time.Duration
	logger   *slog.Logger
}

func NewSweeper(registry expirySweeper, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &Sweeper{registry: registry, interval: interval, logger: logger}
}

// Run sweeps every interval until ctx is done. The first sweep happens one
// interval after start.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.registry.SweepExpired(); n > 0 {
				s.logger.Debug("sweep removed expired observations", "count", n)
			}
		}
	}
}
