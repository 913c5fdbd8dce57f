package worker

import (
	"bookkeeper/internal/quickentry"
	"bookkeeper/pkg/logger"
	"bookkeeper/pkg/notifier"
	"bookkeeper/pkg/serrors"
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

const farFuture = 365 * 24 * time.Hour

// ConfirmationWorker is a River worker delivering entry confirmations through a
// notifier.Client. It shares the provider's rate-limit budget cooperatively
// among its concurrent jobs.
//
// # Rate limiting
//
// The worker keeps the last rate-limit status reported by the provider and the
// number of deliveries in flight. A delivery may start while
//
//	remaining - inFlight > 0
//
// where remaining is the reported Remaining, or Limit once ResetAt has passed.
// Otherwise it waits until ResetAt or until another delivery finishes.
//
// After each delivery the reported status is merged: a new ResetAt is always
// adopted, within the same window only a lower Remaining is. Before the first
// response a synthetic status allows a single probe delivery; a provider that
// answers the probe without rate-limit headers is treated as unlimited.
//
// A confirmation the provider already accepted or refuses as malformed is
// canceled, a rate-limited one is snoozed until ResetAt, and any other failure
// is returned for River to retry.
type ConfirmationWorker struct {
	river.WorkerDefaults[quickentry.ConfirmationJobArgs]

	notifier notifier.Client

	// mu guards inFlight, lastRL and probing.
	mu       sync.Mutex
	inFlight int
	lastRL   *notifier.RateLimitStatus
	probing  bool
	// finished wakes one goroutine waiting in reserve.
	finished chan struct{}
}

// NewConfirmationWorker constructs a ConfirmationWorker delivering through client.
func NewConfirmationWorker(client notifier.Client) *ConfirmationWorker {
	return &ConfirmationWorker{
		notifier: client,
		finished: make(chan struct{}),
	}
}

// Work delivers a single confirmation and maps the outcome to a River action.
func (w *ConfirmationWorker) Work(ctx context.Context, job *river.Job[quickentry.ConfirmationJobArgs]) error {
	fields := []zap.Field{
		zap.Int64("jobID", job.ID),
		zap.String("entryID", job.Args.EntryID),
		zap.String("userID", job.Args.UserID),
	}
	if job.Args.RequestID != "" {
		fields = append(fields, zap.String("requestID", job.Args.RequestID))
	}
	ctx = logger.WithFields(ctx, fields...)

	if err := w.reserve(ctx); err != nil {
		logger.Error(ctx, "error reserving rate limit", zap.Error(err))

		return fmt.Errorf("could not reserve rate limit: %w", err)
	}

	rl, err := w.notifier.Send(ctx, notifier.Confirmation{
		EntryID:   job.Args.EntryID,
		UserID:    job.Args.UserID,
		RequestID: job.Args.RequestID,
		Text:      job.Args.Message,
	})
	w.release(ctx, rl, err == nil)
	if err != nil {
		if errors.Is(err, serrors.ErrConflict) {
			logger.Info(ctx, "confirmation already delivered")

			return river.JobCancel(err) //nolint: wrapcheck
		}
		if errors.Is(err, serrors.ErrBadRequest) {
			logger.Error(ctx, "confirmation rejected by provider", zap.Error(err))

			return river.JobCancel(err) //nolint: wrapcheck
		}

		logger.Error(ctx, "error delivering confirmation", zap.Error(err))

		if errors.Is(err, serrors.ErrRateLimited) {
			return river.JobSnooze(max(time.Until(rl.ResetAt), 0)) //nolint: wrapcheck
		}

		return fmt.Errorf("could not deliver confirmation: %w", err)
	}

	logger.Info(ctx, "confirmation delivered")

	return nil
}

// release ends a delivery, wakes one waiter and merges the reported status.
func (w *ConfirmationWorker) release(ctx context.Context, rl notifier.RateLimitStatus, delivered bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.inFlight = max(w.inFlight-1, 0)

	select {
	case w.finished <- struct{}{}:
	default:
	}

	if rl.ResetAt.IsZero() {
		if delivered && w.probing {
			w.probing = false
			w.lastRL = &notifier.RateLimitStatus{
				Limit:     math.MaxInt32,
				Remaining: math.MaxInt32,
				ResetAt:   time.Now().Add(farFuture),
			}
		}

		return
	}
	w.probing = false
	if w.lastRL != nil && w.lastRL.ResetAt.Equal(rl.ResetAt) && rl.Remaining >= w.lastRL.Remaining {
		return
	}

	w.lastRL = &rl
	logger.Debug(ctx, "received rate limit status",
		zap.Int("limit", rl.Limit),
		zap.Int("remaining", rl.Remaining),
		zap.Time("resetAt", rl.ResetAt),
		zap.Int("inFlight", w.inFlight))
}

// reserve takes one unit of the rate-limit budget, blocking until one is
// available or ctx is done.
func (w *ConfirmationWorker) reserve(ctx context.Context) error {
	for {
		w.mu.Lock()

		if w.lastRL == nil {
			// single probe until the provider reports a real window
			w.lastRL = &notifier.RateLimitStatus{
				Limit:     1,
				Remaining: 1,
				ResetAt:   time.Now().Add(farFuture),
			}
			w.probing = true
		}

		remaining := w.lastRL.Remaining
		if time.Now().After(w.lastRL.ResetAt) {
			remaining = w.lastRL.Limit
		}

		if remaining-w.inFlight > 0 {
			w.inFlight++
			w.mu.Unlock()

			return nil
		}

		resetAt := w.lastRL.ResetAt
		inFlight := w.inFlight
		w.mu.Unlock()

		logger.Debug(ctx, "waiting for rate limit slot",
			zap.Int("remaining", remaining),
			zap.Time("resetAt", resetAt),
			zap.Int("inFlight", inFlight))

		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for rate limit: %w", ctx.Err())
		case <-w.finished:
		case <-time.After(time.Until(resetAt)):
		}
	}
}
