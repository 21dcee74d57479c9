package rollout

import (
	"context"
	"time"

	"github.com/shiftgate/shiftgate/internal/entity"
)

// Provider materializes and tears down environments. Implementations talk
// to real infrastructure; the orchestrator never retries a failed call.
type Provider interface {
	CreateEnvironment(ctx context.Context, target, artifact string) (envID string, err error)
	DestroyEnvironment(ctx context.Context, envID string) error
}

// Router applies a traffic weight pair to a target's environments. A failed
// call means the weights were not applied; partial application never happens.
type Router interface {
	SetWeights(ctx context.Context, target, stableEnv, candidateEnv string, stableWeight, candidateWeight int) error
}

// MetricsSource returns one health sample for an environment, aggregated
// over the trailing window.
type MetricsSource interface {
	Sample(ctx context.Context, envID string, window time.Duration) (entity.HealthSnapshot, error)
}

// Notifier emits status events. Calls are fire-and-forget; failures never
// affect deployment outcome.
type Notifier interface {
	Emit(id entity.ID, state entity.DeploymentState, detail string)
}

// DeploymentStore persists deployment aggregates.
type DeploymentStore interface {
	Create(ctx context.Context, d *entity.Deployment) error
	Update(ctx context.Context, d *entity.Deployment) error
	GetByID(ctx context.Context, id entity.ID) (*entity.Deployment, error)
	// LastPromotedEnv returns the candidate environment of the most recent
	// promoted deployment for a target, or "" if there is none.
	LastPromotedEnv(ctx context.Context, target string) (string, error)
}

// TransitionLog is the append-only record of state transitions.
type TransitionLog interface {
	Append(ctx context.Context, tr entity.StateTransition) error
	ListByDeployment(ctx context.Context, id entity.ID) ([]entity.StateTransition, error)
}
