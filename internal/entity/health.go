package entity

import "time"

// HealthSnapshot is one sample of an environment's metrics taken while a
// given share of traffic was routed to it.
type HealthSnapshot struct {
	Env             string        `json:"env"`
	At              time.Time     `json:"at"`
	ErrorRate       float64       `json:"error_rate"`
	LatencyP99      time.Duration `json:"latency_p99"`
	Saturation      float64       `json:"saturation"`
	TrafficVolume   int64         `json:"traffic_volume"`
	CandidateWeight int           `json:"candidate_weight"`
}

// Verdict is the pass/fail judgment over an observation window.
type Verdict struct {
	Healthy bool     `json:"healthy"`
	Reasons []string `json:"reasons,omitempty"`
}

// Unhealthy builds a failing verdict with the given reasons.
func Unhealthy(reasons ...string) Verdict {
	return Verdict{Healthy: false, Reasons: reasons}
}
