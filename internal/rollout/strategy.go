package rollout

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftgate/shiftgate/internal/entity"
)

// Run is the capability bundle handed to a strategy for one deployment.
// The deadline is carried by the context; strategies never see the overall
// timeout directly.
type Run struct {
	Deployment *entity.Deployment
	Traffic    *TrafficController
	Health     HealthEvaluator
	Metrics    MetricsSource

	// PollInterval paces health sampling inside an observation window.
	PollInterval time.Duration

	// Record appends an advancing transition to the deployment log before
	// the step acts on it.
	Record func(ctx context.Context, split entity.TrafficSplit, note string) error
}

// Strategy encodes the traffic steps and pause/evaluate cycles of one
// rollout style. Execute returns nil on promotion; any error routes the
// deployment into rollback.
type Strategy interface {
	Kind() entity.StrategyKind
	Execute(ctx context.Context, run *Run) error
}

// Registry maps strategy kinds to implementations. New rollout styles are
// added by registration, not by extending a switch.
type Registry struct {
	strategies map[entity.StrategyKind]Strategy
}

// NewRegistry returns a registry with the built-in strategies.
func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[entity.StrategyKind]Strategy)}
	r.Register(&CanaryStrategy{})
	r.Register(&BlueGreenStrategy{})
	return r
}

func (r *Registry) Register(s Strategy) {
	r.strategies[s.Kind()] = s
}

func (r *Registry) Lookup(kind entity.StrategyKind) (Strategy, error) {
	s, ok := r.strategies[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown strategy %q", entity.ErrInvalid, kind)
	}
	return s, nil
}

// executeSteps walks an ascending list of candidate weights. For each step
// it shifts traffic, observes for the configured window, and evaluates the
// collected samples. A breached window or an elapsed deadline aborts
// immediately; traffic is never left partially shifted without the caller
// attempting rollback.
func executeSteps(ctx context.Context, run *Run, steps []int) error {
	window := run.Deployment.Config.ObservationWindow
	for i, weight := range steps {
		step := i + 1
		if err := ctx.Err(); err != nil {
			return stepAbort(ctx, step)
		}
		if err := run.Traffic.SetSplit(ctx, 100-weight, weight); err != nil {
			return err
		}
		split := run.Traffic.LastApplied()
		run.Deployment.Split = split
		if err := run.Record(ctx, split, fmt.Sprintf("step %d/%d", step, len(steps))); err != nil {
			return err
		}

		snapshots, res := observeWindow(ctx, run.Metrics, run.Deployment.CandidateEnv, weight, window, run.PollInterval)
		run.Deployment.Snapshots = append(run.Deployment.Snapshots, snapshots...)
		if res == WaitCancelled {
			return stepAbort(ctx, step)
		}

		verdict := run.Health.Evaluate(snapshots)
		if !verdict.Healthy {
			return &HealthCheckFailure{Step: step, Weight: weight, Reasons: verdict.Reasons}
		}
	}
	return nil
}

// stepAbort distinguishes an elapsed deadline from an operator abort.
func stepAbort(ctx context.Context, step int) error {
	if cause := context.Cause(ctx); cause != nil && cause != context.DeadlineExceeded && cause != context.Canceled {
		return fmt.Errorf("step %d: %w", step, cause)
	}
	return &TimeoutError{Step: step}
}
