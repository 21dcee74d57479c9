package rollout

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shiftgate/shiftgate/internal/entity"
)

// ReasonInsufficientData marks a window with no usable samples. Absence of
// evidence is not evidence of health, so such a window is unhealthy.
const ReasonInsufficientData = "insufficient-data"

// HealthEvaluator turns raw metric samples into a pass/fail verdict. It is
// a pure function of its inputs: no side effects, identical snapshots yield
// identical verdicts.
type HealthEvaluator struct {
	Thresholds entity.Thresholds
}

// Evaluate judges an observation window. Every sample must pass every
// configured threshold; a single breaching sample fails the window.
func (e HealthEvaluator) Evaluate(snapshots []entity.HealthSnapshot) entity.Verdict {
	if len(snapshots) == 0 {
		return entity.Unhealthy(ReasonInsufficientData)
	}

	var reasons []string
	var volume int64
	var weightedErrors float64
	for _, s := range snapshots {
		volume += s.TrafficVolume
		weightedErrors += s.ErrorRate * float64(s.TrafficVolume)
		reasons = append(reasons, e.checkSample(s)...)
	}
	if volume == 0 {
		// Every sample saw zero traffic: nothing was actually observed.
		return entity.Unhealthy(ReasonInsufficientData)
	}
	if e.Thresholds.MaxErrorRate > 0 {
		if rate := weightedErrors / float64(volume); rate > e.Thresholds.MaxErrorRate {
			reasons = append(reasons, fmt.Sprintf(
				"error-rate: %.4f over window exceeds %.4f", rate, e.Thresholds.MaxErrorRate))
		}
	}
	if len(reasons) > 0 {
		return entity.Unhealthy(lo.Uniq(reasons)...)
	}
	return entity.Verdict{Healthy: true}
}

func (e HealthEvaluator) checkSample(s entity.HealthSnapshot) []string {
	var reasons []string
	t := e.Thresholds
	if t.MaxErrorRate > 0 && s.ErrorRate > t.MaxErrorRate {
		reasons = append(reasons, fmt.Sprintf(
			"error-rate: sample %.4f exceeds %.4f", s.ErrorRate, t.MaxErrorRate))
	}
	if t.MaxLatencyP99 > 0 && s.LatencyP99 > t.MaxLatencyP99 {
		reasons = append(reasons, fmt.Sprintf(
			"latency-p99: sample %s exceeds %s", s.LatencyP99.Round(time.Millisecond), t.MaxLatencyP99))
	}
	if t.MinSaturationHeadroom > 0 && (1-s.Saturation) < t.MinSaturationHeadroom {
		reasons = append(reasons, fmt.Sprintf(
			"saturation-headroom: %.2f below %.2f", 1-s.Saturation, t.MinSaturationHeadroom))
	}
	return reasons
}
