package rollout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shiftgate/shiftgate/internal/entity"
	"github.com/shiftgate/shiftgate/internal/metrics"
)

// Config carries the orchestrator's collaborators. All of them are injected
// explicitly so tests can construct an isolated orchestrator.
type Config struct {
	Provider    Provider
	Router      Router
	Metrics     MetricsSource
	Notifier    Notifier
	Deployments DeploymentStore
	Transitions TransitionLog
	Strategies  *Registry
	Collector   *metrics.Collector

	// PollInterval paces health sampling inside observation windows.
	// Zero means a quarter of the window.
	PollInterval time.Duration

	Logger zerolog.Logger
}

// Orchestrator drives rollout attempts. Each accepted deployment runs as
// one background task; deployments for distinct targets run concurrently,
// while a per-target lock keeps rollouts of the same target exclusive.
type Orchestrator struct {
	cfg      Config
	rollback *RollbackManager
	locks    *targetLocks

	mu     sync.Mutex
	active map[entity.ID]*activeRun
}

type activeRun struct {
	target string
	cancel context.CancelCauseFunc
	done   chan struct{}
}

func New(cfg Config) *Orchestrator {
	if cfg.Strategies == nil {
		cfg.Strategies = NewRegistry()
	}
	return &Orchestrator{
		cfg:      cfg,
		rollback: NewRollbackManager(cfg.Logger),
		locks:    newTargetLocks(),
		active:   make(map[entity.ID]*activeRun),
	}
}

// StartDeployment validates the config, claims the target, records the
// deployment and launches the rollout task. It returns as soon as the
// deployment is accepted; progress is observable through the store.
func (o *Orchestrator) StartDeployment(ctx context.Context, cfg entity.DeploymentConfig) (entity.ID, error) {
	cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	strategy, err := o.cfg.Strategies.Lookup(cfg.Strategy)
	if err != nil {
		return "", err
	}

	if !o.locks.TryAcquire(cfg.Target) {
		return "", fmt.Errorf("%w: a deployment for target %q is already active", entity.ErrConflict, cfg.Target)
	}

	stable, err := o.cfg.Deployments.LastPromotedEnv(ctx, cfg.Target)
	if err != nil {
		o.locks.Release(cfg.Target)
		return "", err
	}
	if stable == "" {
		stable = cfg.Target + "-stable"
	}

	d := &entity.Deployment{
		ID:        entity.NewID(),
		Config:    cfg,
		State:     entity.DeploymentStatePending,
		StableEnv: stable,
		Split:     entity.FullStable,
		CreatedAt: time.Now(),
	}
	if err := o.cfg.Deployments.Create(ctx, d); err != nil {
		o.locks.Release(cfg.Target)
		return "", err
	}
	if err := o.cfg.Transitions.Append(ctx, entity.StateTransition{
		DeploymentID: d.ID,
		At:           time.Now(),
		To:           entity.DeploymentStatePending,
		Split:        d.Split,
	}); err != nil {
		o.locks.Release(cfg.Target)
		return "", err
	}
	o.cfg.Collector.Started()
	o.cfg.Notifier.Emit(d.ID, d.State, "deployment accepted")

	runCtx, cancel := context.WithCancelCause(context.Background())
	run := &activeRun{target: cfg.Target, cancel: cancel, done: make(chan struct{})}
	o.mu.Lock()
	o.active[d.ID] = run
	o.mu.Unlock()

	go o.run(runCtx, d, strategy, run)

	return d.ID, nil
}

// Abort force-aborts a running deployment, triggering rollback. Aborting
// a finished or unknown deployment is an error.
func (o *Orchestrator) Abort(ctx context.Context, id entity.ID) error {
	o.mu.Lock()
	run, ok := o.active[id]
	o.mu.Unlock()
	if ok {
		run.cancel(errAborted)
		return nil
	}
	d, err := o.cfg.Deployments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: deployment %s is in state %s", entity.ErrConflict, id, d.State)
}

// Done returns a channel closed when the deployment's task finishes. For
// unknown or finished deployments it returns an already-closed channel.
func (o *Orchestrator) Done(id entity.ID) <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	if run, ok := o.active[id]; ok {
		return run.done
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}

func (o *Orchestrator) run(ctx context.Context, d *entity.Deployment, strategy Strategy, run *activeRun) {
	defer o.finish(d, run)

	// The overall timeout covers the whole provisioning-to-terminal span.
	ctx, cancelTimeout := context.WithTimeout(ctx, d.Config.Timeout)
	defer cancelTimeout()
	// Store writes, rollback and cleanup must outlive the deadline.
	bg := context.WithoutCancel(ctx)

	log := o.cfg.Logger.With().
		Stringer("deployment", d.ID).
		Str("target", d.Config.Target).
		Str("strategy", string(d.Config.Strategy)).
		Logger()

	if err := o.transition(bg, d, entity.DeploymentStateProvisioning, ""); err != nil {
		log.Error().Err(err).Msg("record provisioning transition")
		return
	}
	envID, err := o.cfg.Provider.CreateEnvironment(ctx, d.Config.Target, d.Config.Artifact)
	if err != nil {
		// No traffic change has happened; failing here is a safe no-op.
		provErr := &ProvisioningError{Err: err}
		log.Error().Err(provErr).Msg("provisioning failed")
		if terr := o.transition(bg, d, entity.DeploymentStateFailed, ReasonProvisioningFailed); terr != nil {
			log.Error().Err(terr).Msg("record failed transition")
		}
		o.cfg.Collector.Failed()
		return
	}
	d.CandidateEnv = envID
	log.Info().Str("candidate_env", envID).Msg("candidate environment provisioned")

	if err := o.transition(bg, d, entity.DeploymentStateAdvancing, ""); err != nil {
		log.Error().Err(err).Msg("record advancing transition")
		return
	}

	traffic := NewTrafficController(o.cfg.Router, d.Config.Target, d.StableEnv, d.CandidateEnv, log)
	execErr := strategy.Execute(ctx, &Run{
		Deployment:   d,
		Traffic:      traffic,
		Health:       HealthEvaluator{Thresholds: d.Config.Thresholds},
		Metrics:      o.cfg.Metrics,
		PollInterval: o.cfg.PollInterval,
		Record: func(recCtx context.Context, split entity.TrafficSplit, note string) error {
			return o.advance(context.WithoutCancel(recCtx), d, split, note)
		},
	})

	if execErr == nil {
		d.Split = traffic.LastApplied()
		if err := o.transition(bg, d, entity.DeploymentStatePromoted, ReasonPromoted); err != nil {
			log.Error().Err(err).Msg("record promoted transition")
		}
		o.cfg.Collector.Promoted()
		log.Info().Msg("deployment promoted")
		o.decommission(bg, d.StableEnv, log)
		return
	}

	log.Warn().Err(execErr).Msg("rollout failed, reverting")
	if rbErr := o.rollback.Rollback(bg, traffic, execErr); rbErr != nil {
		// Traffic is in an undefined split. Surface loudly and stop.
		log.Error().Err(rbErr).Msg("ROLLBACK FAILED, operator intervention required")
		o.cfg.Notifier.Emit(d.ID, entity.DeploymentStateFailed, rbErr.Error())
		if err := o.transition(bg, d, entity.DeploymentStateFailed, ReasonRollbackFailed); err != nil {
			log.Error().Err(err).Msg("record failed transition")
		}
		o.cfg.Collector.Failed()
		return
	}
	d.Split = entity.FullStable
	if err := o.transition(bg, d, entity.DeploymentStateRolledBack, failureReason(execErr)); err != nil {
		log.Error().Err(err).Msg("record rolled back transition")
	}
	o.cfg.Collector.RolledBack()
	log.Info().Str("reason", failureReason(execErr)).Msg("deployment rolled back")
	o.decommission(bg, d.CandidateEnv, log)
}

// transition appends the state change to the log before updating the
// aggregate, so a crash mid-step can be resumed from the recorded state.
func (o *Orchestrator) transition(ctx context.Context, d *entity.Deployment, to entity.DeploymentState, reason string) error {
	tr := entity.StateTransition{
		DeploymentID: d.ID,
		At:           time.Now(),
		From:         d.State,
		To:           to,
		Split:        d.Split,
		Reason:       reason,
	}
	if err := o.cfg.Transitions.Append(ctx, tr); err != nil {
		return fmt.Errorf("append transition: %w", err)
	}
	d.State = to
	d.Reason = reason
	if to.Terminal() {
		now := time.Now()
		d.FinishedAt = &now
	}
	if err := o.cfg.Deployments.Update(ctx, d); err != nil {
		return fmt.Errorf("update deployment: %w", err)
	}
	o.cfg.Notifier.Emit(d.ID, to, reason)
	return nil
}

// advance records a traffic step as an advancing self-transition.
func (o *Orchestrator) advance(ctx context.Context, d *entity.Deployment, split entity.TrafficSplit, note string) error {
	tr := entity.StateTransition{
		DeploymentID: d.ID,
		At:           time.Now(),
		From:         entity.DeploymentStateAdvancing,
		To:           entity.DeploymentStateAdvancing,
		Split:        split,
		Reason:       note,
	}
	if err := o.cfg.Transitions.Append(ctx, tr); err != nil {
		return fmt.Errorf("append transition: %w", err)
	}
	d.Split = split
	if err := o.cfg.Deployments.Update(ctx, d); err != nil {
		return fmt.Errorf("update deployment: %w", err)
	}
	o.cfg.Notifier.Emit(d.ID, d.State, note)
	return nil
}

// decommission tears down an environment best-effort. The deployment
// outcome is already recorded; a failure here is logged, not fatal.
func (o *Orchestrator) decommission(ctx context.Context, envID string, log zerolog.Logger) {
	if envID == "" {
		return
	}
	if err := o.cfg.Provider.DestroyEnvironment(ctx, envID); err != nil {
		log.Warn().Err(err).Str("env", envID).Msg("decommission failed")
	}
}

func (o *Orchestrator) finish(d *entity.Deployment, run *activeRun) {
	o.mu.Lock()
	delete(o.active, d.ID)
	o.mu.Unlock()
	run.cancel(nil)

	if !o.locks.Release(run.target) {
		// A stuck lock permanently blocks rollouts to this target.
		o.cfg.Logger.Error().
			Str("target", run.target).
			Msg("target lock was not held at release, operator attention required")
		o.cfg.Notifier.Emit(d.ID, d.State, "target lock release failed")
	}
	close(run.done)
}
