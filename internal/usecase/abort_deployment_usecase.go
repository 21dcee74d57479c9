package usecase

import (
	"context"

	"github.com/samber/do"
	"github.com/shiftgate/shiftgate/internal/entity"
	"github.com/shiftgate/shiftgate/internal/rollout"
)

type AbortDeploymentUsecase interface {
	Execute(ctx context.Context, id entity.ID) error
}

type abortDeploymentUsecaseImpl struct {
	orchestrator *rollout.Orchestrator
}

// Execute implements AbortDeploymentUsecase. The abort triggers rollback;
// the terminal state becomes visible once the rollout task finishes.
func (u *abortDeploymentUsecaseImpl) Execute(ctx context.Context, id entity.ID) error {
	return u.orchestrator.Abort(ctx, id)
}

func NewAbortDeploymentUsecase(injector *do.Injector) (AbortDeploymentUsecase, error) {
	return &abortDeploymentUsecaseImpl{
		orchestrator: do.MustInvoke[*rollout.Orchestrator](injector),
	}, nil
}
