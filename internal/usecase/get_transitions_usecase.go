package usecase

import (
	"context"

	"github.com/samber/do"
	"github.com/shiftgate/shiftgate/internal/entity"
	"github.com/shiftgate/shiftgate/internal/repository"
)

type GetTransitionsUsecase interface {
	Execute(ctx context.Context, id entity.ID) ([]entity.StateTransition, error)
}

type getTransitionsUsecaseImpl struct {
	deployments repository.DeploymentRepository
	transitions repository.TransitionRepository
}

// Execute implements GetTransitionsUsecase.
func (u *getTransitionsUsecaseImpl) Execute(ctx context.Context, id entity.ID) ([]entity.StateTransition, error) {
	if _, err := u.deployments.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return u.transitions.ListByDeployment(ctx, id)
}

func NewGetTransitionsUsecase(injector *do.Injector) (GetTransitionsUsecase, error) {
	return &getTransitionsUsecaseImpl{
		deployments: do.MustInvoke[repository.DeploymentRepository](injector),
		transitions: do.MustInvoke[repository.TransitionRepository](injector),
	}, nil
}
