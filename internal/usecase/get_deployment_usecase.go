package usecase

import (
	"context"

	"github.com/samber/do"
	"github.com/shiftgate/shiftgate/internal/entity"
	"github.com/shiftgate/shiftgate/internal/repository"
)

type GetDeploymentUsecase interface {
	Execute(ctx context.Context, id entity.ID) (*entity.Deployment, error)
}

type getDeploymentUsecaseImpl struct {
	deployments repository.DeploymentRepository
}

// Execute implements GetDeploymentUsecase.
func (u *getDeploymentUsecaseImpl) Execute(ctx context.Context, id entity.ID) (*entity.Deployment, error) {
	return u.deployments.GetByID(ctx, id)
}

func NewGetDeploymentUsecase(injector *do.Injector) (GetDeploymentUsecase, error) {
	return &getDeploymentUsecaseImpl{
		deployments: do.MustInvoke[repository.DeploymentRepository](injector),
	}, nil
}
