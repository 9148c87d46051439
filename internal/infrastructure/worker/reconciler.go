package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"alx_travel_app/internal/usecase"
)

var ErrReconcilerNotConfigured = errors.New("worker: reconciler missing dependencies")

type pendingReconciler interface {
	ReconcilePending(ctx context.Context, olderThan time.Duration) (usecase.ReconcileSummary, error)
}

// Reconciler periodically re-verifies payments whose gateway callback never
// arrived.
type Reconciler struct {
	Payments  pendingReconciler
	Interval  time.Duration
	OlderThan time.Duration
}

// Run sweeps once per Interval until ctx is cancelled. A failed sweep is
// logged and retried on the next tick.
func (r *Reconciler) Run(ctx context.Context) error {
	if r.Payments == nil {
		return ErrReconcilerNotConfigured
	}
	ticker := time.NewTicker(r.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reconciler) sweep(ctx context.Context) {
	summary, err := r.Payments.ReconcilePending(ctx, r.olderThan())
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.ErrorContext(ctx, "[payment][reconciler] sweep failed", "err", err)
		return
	}
	if summary.Checked > 0 {
		slog.InfoContext(ctx, "[payment][reconciler] sweep done",
			"checked", summary.Checked,
			"completed", summary.Completed,
			"failed", summary.Failed,
			"pending", summary.Pending)
	}
}

func (r *Reconciler) interval() time.Duration {
	if r.Interval <= 0 {
		return time.Minute
	}
	return r.Interval
}

func (r *Reconciler) olderThan() time.Duration {
	if r.OlderThan <= 0 {
		return 15 * time.Minute
	}
	return r.OlderThan
}
