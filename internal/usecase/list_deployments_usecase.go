package usecase

import (
	"context"

	"github.com/samber/do"
	"github.com/shiftgate/shiftgate/internal/entity"
	"github.com/shiftgate/shiftgate/internal/repository"
)

type ListDeploymentsUsecase interface {
	Execute(ctx context.Context, target string) ([]*entity.Deployment, error)
}

type listDeploymentsUsecaseImpl struct {
	deployments repository.DeploymentRepository
}

// Execute implements ListDeploymentsUsecase. An empty target lists all
// deployments.
func (u *listDeploymentsUsecaseImpl) Execute(ctx context.Context, target string) ([]*entity.Deployment, error) {
	if target != "" {
		return u.deployments.ListByTarget(ctx, target)
	}
	return u.deployments.List(ctx)
}

func NewListDeploymentsUsecase(injector *do.Injector) (ListDeploymentsUsecase, error) {
	return &listDeploymentsUsecaseImpl{
		deployments: do.MustInvoke[repository.DeploymentRepository](injector),
	}, nil
}
