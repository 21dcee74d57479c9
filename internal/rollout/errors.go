package rollout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shiftgate/shiftgate/internal/entity"
)

// Reasons recorded in the transition log for terminal transitions.
const (
	ReasonProvisioningFailed = "provisioning-failed"
	ReasonTrafficShiftFailed = "traffic-shift-failed"
	ReasonHealthCheckFailed  = "health-check-failed"
	ReasonTimeout            = "timeout"
	ReasonRollbackFailed     = "rollback-failed"
	ReasonAborted            = "aborted"
	ReasonPromoted           = "promoted"
	ReasonFailed             = "failed"
)

// errAborted is the cancellation cause set by a force-abort.
var errAborted = errors.New("deployment aborted by operator")

// InvalidSplitError rejects a weight pair that does not sum to 100 or is
// out of range. The router is never called with such a pair.
type InvalidSplitError struct {
	Split entity.TrafficSplit
}

func (e *InvalidSplitError) Error() string {
	return fmt.Sprintf("invalid traffic split %s", e.Split)
}

// ProvisioningError wraps an infrastructure provider failure. No traffic
// change has happened when it is returned.
type ProvisioningError struct {
	Err error
}

func (e *ProvisioningError) Error() string { return "provisioning failed: " + e.Err.Error() }
func (e *ProvisioningError) Unwrap() error { return e.Err }

// TrafficShiftError wraps a router failure. The attempted split was not
// applied; the last successfully applied split is still in effect.
type TrafficShiftError struct {
	Attempted entity.TrafficSplit
	Err       error
}

func (e *TrafficShiftError) Error() string {
	return fmt.Sprintf("traffic shift to %s failed: %v", e.Attempted, e.Err)
}
func (e *TrafficShiftError) Unwrap() error { return e.Err }

// HealthCheckFailure reports a breached observation window.
type HealthCheckFailure struct {
	Step    int
	Weight  int
	Reasons []string
}

func (e *HealthCheckFailure) Error() string {
	return fmt.Sprintf("health check failed at step %d (weight %d): %s",
		e.Step, e.Weight, strings.Join(e.Reasons, "; "))
}

// TimeoutError reports that the overall deadline elapsed mid-step.
type TimeoutError struct {
	Step int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("deadline exceeded during step %d", e.Step)
}

// RollbackError reports that reverting traffic to stable itself failed.
// This is the one condition the system cannot recover from automatically:
// traffic is left in an undefined split and an operator must intervene.
type RollbackError struct {
	Err error
}

func (e *RollbackError) Error() string { return "rollback failed: " + e.Err.Error() }
func (e *RollbackError) Unwrap() error { return e.Err }

// failureReason maps a strategy error to the reason recorded in the log.
func failureReason(err error) string {
	var (
		shiftErr   *TrafficShiftError
		healthErr  *HealthCheckFailure
		timeoutErr *TimeoutError
	)
	switch {
	case errors.Is(err, errAborted):
		return ReasonAborted
	case errors.As(err, &timeoutErr):
		return ReasonTimeout
	case errors.As(err, &healthErr):
		return ReasonHealthCheckFailed
	case errors.As(err, &shiftErr):
		return ReasonTrafficShiftFailed
	default:
		return ReasonFailed
	}
}
