package rollout

import (
	"context"

	"github.com/shiftgate/shiftgate/internal/entity"
)

// CanaryStrategy ramps traffic to the candidate along the configured step
// plateaus, gating each advance on a healthy observation window.
type CanaryStrategy struct{}

func (s *CanaryStrategy) Kind() entity.StrategyKind { return entity.StrategyCanary }

func (s *CanaryStrategy) Execute(ctx context.Context, run *Run) error {
	return executeSteps(ctx, run, run.Deployment.Config.Steps)
}
