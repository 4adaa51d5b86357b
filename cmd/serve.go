package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/observation-displayer/internal/adapters/console"
	"github.com/bnema/observation-displayer/internal/application"
	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const metricsShutdownTimeout = 5 * time.Second

func newServeCmd(deps *lazyApp) *cobra.Command {
	var (
		actor      string
		spawnWorld string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the observation world on stdin/stdout",
		Long: "serve loads every active observation, sweeps expired ones on an interval and reads commands from stdin, one per line: " +
			"\"[actor:] /command args\". Try /observe, /observations list, /menu, /click, /move and /quit.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return deps.run(func(a *app) error {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				if err := a.load(ctx); err != nil {
					return err
				}

				w := newWorld(a, cmd.OutOrStdout(), domain.Location{World: spawnWorld, Y: 64})
				a.logger.Info("observation world ready",
					"observations", a.observations.Len(),
					"driver", a.cfg.StorageDriver,
					"templates", a.templates.Path(),
				)

				g, gctx := errgroup.WithContext(ctx)
				g.Go(func() error {
					return application.NewSweeper(a.observations, a.cfg.SweepInterval, a.logger).Run(gctx)
				})
				if a.cfg.TemplatesWatch {
					g.Go(func() error {
						if err := a.templates.Watch(gctx); err != nil {
							a.logger.Warn("template hot reload disabled", "error", err)
						}
						return nil
					})
				}
				if a.cfg.MetricsAddr != "" {
					g.Go(func() error { return serveMetrics(gctx, a) })
				}
				g.Go(func() error {
					defer stop()
					return console.Serve(gctx, cmd.InOrStdin(), domain.ActorID(actor), w.handle)
				})

				err := g.Wait()
				for _, joined := range w.host.Actors() {
					w.leave(joined)
				}

				flushCtx := context.WithoutCancel(cmd.Context())
				return errors.Join(err, a.flush(flushCtx, cmd.ErrOrStderr()))
			})
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "console", "Actor for lines without an \"actor:\" prefix")
	cmd.Flags().StringVar(&spawnWorld, "world", "world", "World new actors start in")

	return cmd
}

func serveMetrics(ctx context.Context, a *app) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	server := &http.Server{
		Addr:              a.cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("serving metrics", "addr", a.cfg.MetricsAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve metrics: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
