package repository

import (
	"context"

	"github.com/shiftgate/shiftgate/internal/entity"
	"gorm.io/gorm"
)

type TransitionRepository interface {
	Append(ctx context.Context, tr entity.StateTransition) error
	ListByDeployment(ctx context.Context, id entity.ID) ([]entity.StateTransition, error)
}

type transitionRepositoryImpl struct {
	db *gorm.DB
}

func NewTransitionRepository(db *gorm.DB) TransitionRepository {
	return &transitionRepositoryImpl{db: db}
}

// Append adds one entry to the deployment's transition log.
func (r *transitionRepositoryImpl) Append(ctx context.Context, tr entity.StateTransition) error {
	var model Transition
	model.FromEntity(tr)
	return gorm.G[Transition](r.db).Create(ctx, &model)
}

// ListByDeployment returns a deployment's transitions in append order.
func (r *transitionRepositoryImpl) ListByDeployment(ctx context.Context, id entity.ID) ([]entity.StateTransition, error) {
	founds, err := gorm.G[Transition](r.db).Where("deployment_id = ?", id.String()).Order("id ASC").Find(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]entity.StateTransition, len(founds))
	for i, f := range founds {
		res[i] = f.ToEntity()
	}
	return res, nil
}
