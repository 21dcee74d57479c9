package rollout

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shiftgate/shiftgate/internal/entity"
)

// TrafficController applies splits for one deployment. It calls the router
// exactly once per invocation and tracks the last split the router
// acknowledged, which is the only split rollback may reason about.
type TrafficController struct {
	router       Router
	target       string
	stableEnv    string
	candidateEnv string
	lastApplied  entity.TrafficSplit
	log          zerolog.Logger
}

func NewTrafficController(router Router, target, stableEnv, candidateEnv string, log zerolog.Logger) *TrafficController {
	return &TrafficController{
		router:       router,
		target:       target,
		stableEnv:    stableEnv,
		candidateEnv: candidateEnv,
		lastApplied:  entity.FullStable,
		log:          log,
	}
}

// SetSplit validates and applies a weight pair. On router error the split
// is considered not applied and LastApplied is unchanged.
func (t *TrafficController) SetSplit(ctx context.Context, stableWeight, candidateWeight int) error {
	split := entity.TrafficSplit{Stable: stableWeight, Candidate: candidateWeight}
	if err := split.Validate(); err != nil {
		return &InvalidSplitError{Split: split}
	}
	if err := t.router.SetWeights(ctx, t.target, t.stableEnv, t.candidateEnv, stableWeight, candidateWeight); err != nil {
		return &TrafficShiftError{Attempted: split, Err: err}
	}
	t.lastApplied = split
	t.log.Info().
		Str("target", t.target).
		Int("stable", stableWeight).
		Int("candidate", candidateWeight).
		Msg("traffic split applied")
	return nil
}

// LastApplied returns the most recent split the router acknowledged.
func (t *TrafficController) LastApplied() entity.TrafficSplit {
	return t.lastApplied
}
