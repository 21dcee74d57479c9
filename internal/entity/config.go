package entity

import (
	"fmt"
	"time"
)

type StrategyKind string

const (
	StrategyBlueGreen StrategyKind = "blue-green"
	StrategyCanary    StrategyKind = "canary"
)

// Thresholds are the health gates a candidate environment must satisfy
// for every sample in an observation window.
type Thresholds struct {
	MaxErrorRate          float64       `json:"max_error_rate"`
	MaxLatencyP99         time.Duration `json:"max_latency_p99"`
	MinSaturationHeadroom float64       `json:"min_saturation_headroom"`
}

// DeploymentConfig is the immutable input of a rollout attempt.
type DeploymentConfig struct {
	Target            string        `json:"target"`
	Strategy          StrategyKind  `json:"strategy"`
	Artifact          string        `json:"artifact"`
	Steps             []int         `json:"steps"`
	ObservationWindow time.Duration `json:"observation_window"`
	Thresholds        Thresholds    `json:"thresholds"`
	Timeout           time.Duration `json:"timeout"`
}

// FillDefaults completes optional fields. A blue-green rollout is a single
// full cutover, so its step list is always [100].
func (c *DeploymentConfig) FillDefaults() {
	if c.Strategy == StrategyBlueGreen {
		c.Steps = []int{100}
	}
	if c.Timeout == 0 {
		c.Timeout = time.Duration(len(c.Steps)+1) * 2 * c.ObservationWindow
	}
}

// Validate rejects configs before any side effect happens.
func (c DeploymentConfig) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("%w: target is required", ErrInvalid)
	}
	if c.Artifact == "" {
		return fmt.Errorf("%w: artifact is required", ErrInvalid)
	}
	switch c.Strategy {
	case StrategyBlueGreen, StrategyCanary:
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalid, c.Strategy)
	}
	if len(c.Steps) == 0 {
		return fmt.Errorf("%w: traffic steps are required", ErrInvalid)
	}
	prev := 0
	for _, s := range c.Steps {
		if s <= prev || s > 100 {
			return fmt.Errorf("%w: traffic steps must be strictly increasing within (0,100], got %v", ErrInvalid, c.Steps)
		}
		prev = s
	}
	if c.Steps[len(c.Steps)-1] != 100 {
		return fmt.Errorf("%w: traffic steps must end at 100, got %v", ErrInvalid, c.Steps)
	}
	if c.ObservationWindow <= 0 {
		return fmt.Errorf("%w: observation window must be positive", ErrInvalid)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalid)
	}
	if err := c.Thresholds.validate(); err != nil {
		return err
	}
	return nil
}

func (t Thresholds) validate() error {
	if t.MaxErrorRate <= 0 && t.MaxLatencyP99 <= 0 && t.MinSaturationHeadroom <= 0 {
		return fmt.Errorf("%w: at least one health threshold is required", ErrInvalid)
	}
	if t.MaxErrorRate < 0 || t.MaxErrorRate > 1 {
		return fmt.Errorf("%w: max error rate must be within [0,1]", ErrInvalid)
	}
	if t.MinSaturationHeadroom < 0 || t.MinSaturationHeadroom > 1 {
		return fmt.Errorf("%w: min saturation headroom must be within [0,1]", ErrInvalid)
	}
	return nil
}
