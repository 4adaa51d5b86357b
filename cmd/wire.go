package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/observation-displayer/internal/adapters/gateway"
	metricsadapter "github.com/bnema/observation-displayer/internal/adapters/metrics"
	"github.com/bnema/observation-displayer/internal/adapters/render/listing"
	"github.com/bnema/observation-displayer/internal/adapters/render/marker"
	sqliterepo "github.com/bnema/observation-displayer/internal/adapters/repo/sqlite"
	tomlrepo "github.com/bnema/observation-displayer/internal/adapters/repo/toml"
	"github.com/bnema/observation-displayer/internal/adapters/templates"
	"github.com/bnema/observation-displayer/internal/application"
	"github.com/bnema/observation-displayer/internal/config"
	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/logging"
	"github.com/bnema/observation-displayer/internal/ports"
)

// ErrDisabled is returned by every storage-backed command when the store
// could not be opened.
var ErrDisabled = errors.New("observation tools are disabled: unable to open the configured storage")

type app struct {
	cfg          config.Config
	logger       *slog.Logger
	store        ports.ObservationStore
	gateway      *gateway.Gateway
	board        *marker.Board
	observations *application.ObservationRegistry
	templates    *templates.Source
	metrics      *metricsadapter.Recorder

	listingRenderer func(application.ListingPage, listing.RenderOptions) (string, error)
	now             func() time.Time

	closeOnce sync.Once
	closeErr  error
}

// lazyApp wires the application on first use so commands that never touch
// storage, like version, work even when it is unavailable.
type lazyApp struct {
	logOutput func() io.Writer

	once sync.Once
	app  *app
	err  error
}

func (l *lazyApp) get() (*app, error) {
	l.once.Do(func() {
		l.app, l.err = wireApp(l.logOutput())
	})
	return l.app, l.err
}

// run hands fn a wired app and releases it afterwards.
func (l *lazyApp) run(fn func(a *app) error) error {
	a, err := l.get()
	if err != nil {
		return err
	}

	return errors.Join(fn(a), a.close())
}

func wireApp(logOutput io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return newApp(cfg, logging.New(logOutput, cfg.LogFormat, cfg.Debug))
}

func newApp(cfg config.Config, logger *slog.Logger) (*app, error) {
	source, err := templates.NewSource(cfg.TemplatesPath, logger)
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.Error("storage unavailable", "driver", cfg.StorageDriver, "path", cfg.StoragePath, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrDisabled, err)
	}

	recorder := metricsadapter.NewRecorder()
	gw := gateway.New(store, gateway.Config{Logger: logger, OpTimeout: cfg.StoreTimeout})
	board := marker.NewBoard()
	placement := domain.MarkerPlacement{Rise: cfg.MarkerRise, Forward: cfg.MarkerForward}

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		gateway: gw,
		board:   board,
		observations: application.NewObservationRegistry(application.ObservationRegistryConfig{
			Gateway:      gw,
			Presenter:    board,
			Metrics:      recorder,
			Logger:       logger,
			Placement:    &placement,
			StoreTimeout: cfg.StoreTimeout,
		}),
		templates:       source,
		metrics:         recorder,
		listingRenderer: listing.Render,
		now:             time.Now,
	}, nil
}

func openStore(cfg config.Config) (ports.ObservationStore, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.StoragePath), 0o700); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
		store, err := sqliterepo.Open(cfg.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	case config.DriverTOML:
		repo, err := tomlrepo.NewRepository(cfg.Viper)
		if err != nil {
			return nil, fmt.Errorf("open toml store: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedDriver, cfg.StorageDriver)
	}
}

// load restores every active observation from storage.
func (a *app) load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.StoreTimeout)
	defer cancel()

	n, err := a.observations.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	a.logger.Debug("loaded observations", "count", n)
	return nil
}

// flush waits for queued storage work, showing its progress on output.
func (a *app) flush(ctx context.Context, output io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.StoreTimeout)
	defer cancel()

	return runFlush(ctx, output, a.gateway)
}

func (a *app) close() error {
	a.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.StoreTimeout)
		defer cancel()

		a.closeErr = errors.Join(a.gateway.Close(ctx), a.store.Close())
	})
	return a.closeErr
}
