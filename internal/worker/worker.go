// Package worker runs the background jobs enqueued by the quick-entry service.
package worker

import (
	"bookkeeper/internal/config"
	"bookkeeper/pkg/logger"
	"bookkeeper/pkg/notifier"
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap/exp/zapslog"
)

// DefaultMaxWorkers is used when Options.MaxWorkers is not positive.
const DefaultMaxWorkers = 10

// Options configure the job processor.
type Options struct {
	// MaxWorkers is the number of jobs worked concurrently.
	MaxWorkers int
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{MaxWorkers: cfg.Worker.MaxWorkers}
}

// NewWorkers registers every worker of the application.
func NewWorkers(client notifier.Client) *river.Workers {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewConfirmationWorker(client))

	return workers
}

// Start creates and starts a River client working the default queue.
func Start(ctx context.Context,
	dbPool *pgxpool.Pool,
	client notifier.Client,
	opts Options) (*river.Client[pgx.Tx], error) {
	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
		},
		Workers: NewWorkers(client),
		Logger:  slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
