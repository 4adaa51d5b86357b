// Package gateway turns a synchronous observation store into the
// fire-and-forget persistence contract the registry depends on.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/logging"
	"github.com/bnema/observation-displayer/internal/ports"
)

const defaultOpTimeout = 10 * time.Second

var ErrClosed = errors.New("persistence gateway closed")

type job struct {
	name string
	run  func(ctx context.Context) error
}

// Gateway runs store operations one at a time on a background worker, in
// the order they were requested. Callbacks run on the worker after the
// operation succeeds; failed operations are logged and never call back.
type Gateway struct {
	store     ports.ObservationStore
	clock     ports.Clock
	logger    *slog.Logger
	opTimeout time.Duration

	mu      sync.Mutex
	queue   []job
	closed  bool
	wake    chan struct{}
	stopped chan struct{}
}

var _ ports.PersistenceGateway = (*Gateway)(nil)

type Config struct {
	Clock  ports.Clock
	Logger *slog.Logger
	// OpTimeout bounds each store call.
	OpTimeout time.Duration
}

func New(store ports.ObservationStore, cfg Config) *Gateway {
	if cfg.Clock == nil {
		cfg.Clock = ports.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = defaultOpTimeout
	}

	g := &Gateway{
		store:     store,
		clock:     cfg.Clock,
		logger:    cfg.Logger,
		opTimeout: cfg.OpTimeout,
		wake:      make(chan struct{}, 1),
		stopped:   make(chan struct{}),
	}
	go g.work()

	return g
}

func (g *Gateway) StoreNew(record domain.Record, onStored func(id domain.ObservationID)) {
	g.enqueue("store observation", func(ctx context.Context) error {
		id, err := g.store.Insert(ctx, record)
		if err != nil {
			return err
		}
		if onStored != nil {
			onStored(id)
		}
		return nil
	})
}

func (g *Gateway) MarkInactive(id domain.ObservationID, onDone func()) {
	g.enqueue("mark observation inactive", func(ctx context.Context) error {
		if err := g.store.MarkInactive(ctx, id); err != nil {
			return err
		}
		if onDone != nil {
			onDone()
		}
		return nil
	})
}

func (g *Gateway) MarkAllExpiredInactive(onDone func(count int64)) {
	g.enqueue("mark expired observations inactive", func(ctx context.Context) error {
		count, err := g.store.MarkExpiredInactive(ctx, g.clock.Now())
		if err != nil {
			return err
		}
		if onDone != nil {
			onDone(count)
		}
		return nil
	})
}

func (g *Gateway) LoadAll(onLoaded func(records []domain.Record)) {
	g.enqueue("load observations", func(ctx context.Context) error {
		records, err := g.store.ListActive(ctx)
		if err != nil {
			return err
		}
		if onLoaded != nil {
			onLoaded(records)
		}
		return nil
	})
}

// Close stops accepting work and waits for queued operations to finish or
// for ctx to end. The store itself is left open.
func (g *Gateway) Close(ctx context.Context) error {
	g.mu.Lock()
	if !g.closed {
		g.closed = true
		g.signal()
	}
	g.mu.Unlock()

	select {
	case <-g.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending counts queued operations not yet started.
func (g *Gateway) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.queue)
}

func (g *Gateway) enqueue(name string, run func(ctx context.Context) error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		g.logger.Error("persistence request dropped", "op", name, "error", ErrClosed)
		return
	}
	g.queue = append(g.queue, job{name: name, run: run})
	g.signal()
}

// signal must be called with mu held.
func (g *Gateway) signal() {
	select {
	case g.wake <- struct{}{}:
	default:
	}
}

func (g *Gateway) work() {
	defer close(g.stopped)

	for {
		g.mu.Lock()
		if len(g.queue) == 0 {
			closed := g.closed
			g.mu.Unlock()
			if closed {
				return
			}
			<-g.wake
			continue
		}
		next := g.queue[0]
		g.queue[0] = job{}
		g.queue = g.queue[1:]
		g.mu.Unlock()

		g.run(next)
	}
}

func (g *Gateway) run(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), g.opTimeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			g.logger.Error("persistence callback panicked", "op", j.name, "panic", rec)
		}
	}()

	start := g.clock.Now()
	if err := j.run(ctx); err != nil {
		g.logger.Error("persistence request failed", "op", j.name, "error", err)
		return
	}
	g.logger.Debug("persistence request done", "op", j.name, "took", g.clock.Now().Sub(start))
}
