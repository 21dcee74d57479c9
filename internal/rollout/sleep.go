package rollout

import (
	"context"
	"time"

	"github.com/shiftgate/shiftgate/internal/entity"
)

// WaitResult tells a step whether its observation window ran to completion
// or was cut short by cancellation.
type WaitResult int

const (
	WaitElapsed WaitResult = iota
	WaitCancelled
)

// Wait sleeps for d or until ctx is done, whichever is sooner.
func Wait(ctx context.Context, d time.Duration) WaitResult {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return WaitElapsed
	case <-ctx.Done():
		return WaitCancelled
	}
}

// observeWindow polls the metrics source for env every interval until the
// window elapses or ctx is cancelled. Sampling errors are skipped: a window
// that ends with no samples reads as insufficient data to the evaluator.
func observeWindow(ctx context.Context, src MetricsSource, env string, weight int, window, interval time.Duration) ([]entity.HealthSnapshot, WaitResult) {
	if interval <= 0 || interval >= window {
		interval = window / 4
	}
	var snapshots []entity.HealthSnapshot
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.NewTimer(window)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return snapshots, WaitCancelled
		case <-deadline.C:
			return snapshots, WaitElapsed
		case <-ticker.C:
			snap, err := src.Sample(ctx, env, interval)
			if err != nil {
				continue
			}
			snap.CandidateWeight = weight
			snapshots = append(snapshots, snap)
		}
	}
}
