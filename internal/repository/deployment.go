package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shiftgate/shiftgate/internal/entity"
	"gorm.io/gorm"
)

type DeploymentRepository interface {
	Create(ctx context.Context, d *entity.Deployment) error
	GetByID(ctx context.Context, id entity.ID) (*entity.Deployment, error)
	List(ctx context.Context) ([]*entity.Deployment, error)
	ListByTarget(ctx context.Context, target string) ([]*entity.Deployment, error)
	Update(ctx context.Context, d *entity.Deployment) error
	LastPromotedEnv(ctx context.Context, target string) (string, error)
}

type deploymentRepositoryImpl struct {
	db *gorm.DB
}

func NewDeploymentRepository(db *gorm.DB) DeploymentRepository {
	return &deploymentRepositoryImpl{db: db}
}

// Create persists a new deployment record.
func (r *deploymentRepositoryImpl) Create(ctx context.Context, d *entity.Deployment) error {
	var model Deployment
	model.FromEntity(d)
	return gorm.G[Deployment](r.db).Create(ctx, &model)
}

// GetByID finds a deployment by id.
func (r *deploymentRepositoryImpl) GetByID(ctx context.Context, id entity.ID) (*entity.Deployment, error) {
	found, err := gorm.G[Deployment](r.db).Where("id = ?", id.String()).First(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: deployment %s", entity.ErrNotFound, id)
		}
		return nil, err
	}
	return found.ToEntity(), nil
}

// List returns all deployments, newest first.
func (r *deploymentRepositoryImpl) List(ctx context.Context) ([]*entity.Deployment, error) {
	founds, err := gorm.G[Deployment](r.db).Order("created_at DESC").Find(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*entity.Deployment, len(founds))
	for i, f := range founds {
		res[i] = f.ToEntity()
	}
	return res, nil
}

// ListByTarget returns a target's deployments, newest first.
func (r *deploymentRepositoryImpl) ListByTarget(ctx context.Context, target string) ([]*entity.Deployment, error) {
	founds, err := gorm.G[Deployment](r.db).Where("target = ?", target).Order("created_at DESC").Find(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*entity.Deployment, len(founds))
	for i, f := range founds {
		res[i] = f.ToEntity()
	}
	return res, nil
}

// Update persists the deployment's mutable fields.
func (r *deploymentRepositoryImpl) Update(ctx context.Context, d *entity.Deployment) error {
	var model Deployment
	model.FromEntity(d)
	_, err := gorm.G[Deployment](r.db).Where("id = ?", d.ID.String()).Select("*").Updates(ctx, model)
	return err
}

// LastPromotedEnv returns the candidate environment of the most recently
// promoted deployment for target, or "" if the target was never deployed.
func (r *deploymentRepositoryImpl) LastPromotedEnv(ctx context.Context, target string) (string, error) {
	found, err := gorm.G[Deployment](r.db).
		Where("target = ? AND state = ?", target, string(entity.DeploymentStatePromoted)).
		Order("created_at DESC").
		First(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return found.CandidateEnv, nil
}
