package usecase

import (
	"context"

	"github.com/samber/do"
	"github.com/shiftgate/shiftgate/internal/config"
	"github.com/shiftgate/shiftgate/internal/entity"
	"github.com/shiftgate/shiftgate/internal/rollout"
)

type StartDeploymentUsecase interface {
	Execute(ctx context.Context, cfg entity.DeploymentConfig) (entity.ID, error)
}

type startDeploymentUsecaseImpl struct {
	orchestrator *rollout.Orchestrator
	defaults     config.Defaults
}

// Execute implements StartDeploymentUsecase.
func (u *startDeploymentUsecaseImpl) Execute(ctx context.Context, cfg entity.DeploymentConfig) (entity.ID, error) {
	u.applyDefaults(&cfg)
	return u.orchestrator.StartDeployment(ctx, cfg)
}

// applyDefaults fills the server-configured defaults for fields the
// request omitted. Validation happens in the orchestrator.
func (u *startDeploymentUsecaseImpl) applyDefaults(cfg *entity.DeploymentConfig) {
	if cfg.ObservationWindow == 0 {
		cfg.ObservationWindow = u.defaults.ObservationWindow.Std()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = u.defaults.Timeout.Std()
	}
	t := &cfg.Thresholds
	if t.MaxErrorRate == 0 && t.MaxLatencyP99 == 0 && t.MinSaturationHeadroom == 0 {
		t.MaxErrorRate = u.defaults.MaxErrorRate
		t.MaxLatencyP99 = u.defaults.MaxLatencyP99.Std()
		t.MinSaturationHeadroom = u.defaults.MinSaturationHeadroom
	}
}

func NewStartDeploymentUsecase(injector *do.Injector) (StartDeploymentUsecase, error) {
	return &startDeploymentUsecaseImpl{
		orchestrator: do.MustInvoke[*rollout.Orchestrator](injector),
		defaults:     do.MustInvoke[config.Config](injector).Defaults,
	}, nil
}
