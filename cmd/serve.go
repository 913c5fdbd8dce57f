package main

import (
	"bookkeeper/internal/api"
	"bookkeeper/internal/api/handler/v1handler"
	"bookkeeper/internal/config"
	"bookkeeper/internal/quickentry"
	"bookkeeper/internal/worker"
	"bookkeeper/pkg/logger"
	"bookkeeper/pkg/metrics"
	"bookkeeper/pkg/notifier/webhook"
	"bookkeeper/pkg/storage/postgres"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context, cfg *config.Config, svc quickentry.Service) func(ctx context.Context) {
	server, err := api.NewServer(api.Deps{Deps: v1handler.Deps{QuickEntry: svc}}, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

// setupWorkers starts the confirmation workers when the notifier is enabled.
func setupWorkers(ctx context.Context, cfg *config.Config, strg *postgres.PgSQL) func(ctx context.Context) {
	if !cfg.Notifier.Enabled {
		return func(context.Context) {}
	}

	client := webhook.New(&http.Client{Timeout: cfg.Notifier.Timeout}, cfg.Notifier.URL, cfg.Notifier.Token)
	riverClient, err := worker.Start(ctx, strg.Pool, client, worker.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not start workers", zap.Error(err))
	}

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping workers...")
		if err := riverClient.Stop(ctx); err != nil {
			logger.Error(ctx, "could not stop workers", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts API server and background workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

			mp, err := metrics.NewMeterProvider(nil)
			if err != nil {
				logger.Fatal(ctx, "could not create meter provider", zap.Error(err))
			}
			otel.SetMeterProvider(mp)

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			opts, err := quickentry.NewOptions(cfg)
			if err != nil {
				logger.Fatal(ctx, "invalid quick entry options", zap.Error(err))
			}
			svc, err := quickentry.New(strg, strg, opts)
			if err != nil {
				logger.Fatal(ctx, "could not create quick entry service", zap.Error(err))
			}

			stopWorkers := setupWorkers(ctx, cfg, strg)
			stopWebserver := setupServer(ctx, cfg, svc)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
			stopWorkers(shutdownCtx)
			if err := mp.Shutdown(shutdownCtx); err != nil {
				logger.Warn(shutdownCtx, "could not stop meter provider", zap.Error(err))
			}
		},
	}

	return cmd
}
