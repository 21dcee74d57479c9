package rollout

import (
	"context"

	"github.com/shiftgate/shiftgate/internal/entity"
)

// BlueGreenStrategy is the single-step variant of canary: all traffic moves
// in one shift, is observed for one window, and is promoted or rolled back
// as a unit. No partial split is ever externally visible.
type BlueGreenStrategy struct{}

func (s *BlueGreenStrategy) Kind() entity.StrategyKind { return entity.StrategyBlueGreen }

func (s *BlueGreenStrategy) Execute(ctx context.Context, run *Run) error {
	return executeSteps(ctx, run, []int{100})
}
