package rollout_test

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shiftgate/shiftgate/internal/entity"
	"github.com/shiftgate/shiftgate/internal/rollout"
)

func sampleWith(errorRate float64, latency time.Duration, saturation float64, volume int64) entity.HealthSnapshot {
	return entity.HealthSnapshot{
		Env:           "web-candidate-1",
		At:            time.Now(),
		ErrorRate:     errorRate,
		LatencyP99:    latency,
		Saturation:    saturation,
		TrafficVolume: volume,
	}
}

func defaultEvaluator() rollout.HealthEvaluator {
	return rollout.HealthEvaluator{Thresholds: entity.Thresholds{
		MaxErrorRate:          0.01,
		MaxLatencyP99:         500 * time.Millisecond,
		MinSaturationHeadroom: 0.1,
	}}
}

func TestEvaluate_AllSamplesHealthy(t *testing.T) {
	e := defaultEvaluator()
	v := e.Evaluate([]entity.HealthSnapshot{
		sampleWith(0.001, 120*time.Millisecond, 0.5, 1000),
		sampleWith(0.005, 300*time.Millisecond, 0.7, 1200),
	})
	if !v.Healthy {
		t.Fatalf("expected healthy, got reasons %v", v.Reasons)
	}
}

func TestEvaluate_EmptyWindowIsUnhealthy(t *testing.T) {
	v := defaultEvaluator().Evaluate(nil)
	if v.Healthy {
		t.Fatal("expected unhealthy for empty window")
	}
	if len(v.Reasons) != 1 || v.Reasons[0] != rollout.ReasonInsufficientData {
		t.Fatalf("expected %q, got %v", rollout.ReasonInsufficientData, v.Reasons)
	}
}

func TestEvaluate_ZeroTrafficIsUnhealthy(t *testing.T) {
	v := defaultEvaluator().Evaluate([]entity.HealthSnapshot{
		sampleWith(0, 100*time.Millisecond, 0.2, 0),
		sampleWith(0, 100*time.Millisecond, 0.2, 0),
	})
	if v.Healthy {
		t.Fatal("expected unhealthy for zero-traffic window")
	}
	if v.Reasons[0] != rollout.ReasonInsufficientData {
		t.Fatalf("expected %q, got %v", rollout.ReasonInsufficientData, v.Reasons)
	}
}

func TestEvaluate_SingleBreachingSampleFailsWindow(t *testing.T) {
	e := defaultEvaluator()
	v := e.Evaluate([]entity.HealthSnapshot{
		sampleWith(0.001, 120*time.Millisecond, 0.5, 1000),
		sampleWith(0.02, 120*time.Millisecond, 0.5, 1000),
		sampleWith(0.001, 120*time.Millisecond, 0.5, 1000),
	})
	if v.Healthy {
		t.Fatal("expected single breaching sample to fail the window")
	}
	if !hasReasonPrefix(v.Reasons, "error-rate") {
		t.Fatalf("expected an error-rate reason, got %v", v.Reasons)
	}
}

func TestEvaluate_LatencyUsesMaxSample(t *testing.T) {
	e := defaultEvaluator()
	v := e.Evaluate([]entity.HealthSnapshot{
		sampleWith(0.001, 100*time.Millisecond, 0.5, 1000),
		sampleWith(0.001, 900*time.Millisecond, 0.5, 1000),
	})
	if v.Healthy {
		t.Fatal("expected max latency sample to breach")
	}
	if !hasReasonPrefix(v.Reasons, "latency-p99") {
		t.Fatalf("expected a latency reason, got %v", v.Reasons)
	}
}

func TestEvaluate_SaturationHeadroomBreach(t *testing.T) {
	e := defaultEvaluator()
	v := e.Evaluate([]entity.HealthSnapshot{
		sampleWith(0.001, 100*time.Millisecond, 0.95, 1000),
	})
	if v.Healthy {
		t.Fatal("expected saturation headroom breach")
	}
	if !hasReasonPrefix(v.Reasons, "saturation-headroom") {
		t.Fatalf("expected a saturation reason, got %v", v.Reasons)
	}
}

func TestEvaluate_UnconfiguredThresholdsAreSkipped(t *testing.T) {
	e := rollout.HealthEvaluator{Thresholds: entity.Thresholds{MaxErrorRate: 0.01}}
	v := e.Evaluate([]entity.HealthSnapshot{
		// Latency and saturation would breach the default thresholds.
		sampleWith(0.001, 5*time.Second, 0.99, 1000),
	})
	if !v.Healthy {
		t.Fatalf("expected healthy with only error-rate configured, got %v", v.Reasons)
	}
}

func TestEvaluate_IsIdempotent(t *testing.T) {
	e := defaultEvaluator()
	snaps := []entity.HealthSnapshot{
		sampleWith(0.02, 700*time.Millisecond, 0.95, 500),
		sampleWith(0.001, 100*time.Millisecond, 0.5, 1500),
	}
	first := e.Evaluate(snaps)
	second := e.Evaluate(snaps)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("verdicts differ: %v vs %v", first, second)
	}
}

func hasReasonPrefix(reasons []string, prefix string) bool {
	for _, r := range reasons {
		if strings.HasPrefix(r, prefix) {
			return true
		}
	}
	return false
}
