package rollout

import (
	"context"

	"github.com/rs/zerolog"
)

// RollbackManager reverts a failed deployment to the stable environment.
// The target is always all traffic to stable, never a partial state.
type RollbackManager struct {
	log zerolog.Logger
}

func NewRollbackManager(log zerolog.Logger) *RollbackManager {
	return &RollbackManager{log: log}
}

// Rollback applies the (100,0) split. If the router rejects it the caller
// must mark the deployment failed and alert an operator: traffic is in an
// undefined split and nothing more can be done automatically.
func (r *RollbackManager) Rollback(ctx context.Context, traffic *TrafficController, cause error) error {
	r.log.Warn().
		Err(cause).
		Stringer("last_applied", traffic.LastApplied()).
		Msg("rolling back to stable")
	if err := traffic.SetSplit(ctx, 100, 0); err != nil {
		return &RollbackError{Err: err}
	}
	return nil
}
