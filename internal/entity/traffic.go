package entity

import "fmt"

// TrafficSplit is the percentage pair routed to the stable and candidate
// environments. Weights always sum to 100.
type TrafficSplit struct {
	Stable    int `json:"stable"`
	Candidate int `json:"candidate"`
}

// FullStable routes every request to the stable environment.
var FullStable = TrafficSplit{Stable: 100, Candidate: 0}

// FullCandidate routes every request to the candidate environment.
var FullCandidate = TrafficSplit{Stable: 0, Candidate: 100}

func (s TrafficSplit) Validate() error {
	if s.Stable < 0 || s.Stable > 100 || s.Candidate < 0 || s.Candidate > 100 {
		return fmt.Errorf("%w: weights must be within [0,100], got (%d,%d)", ErrInvalid, s.Stable, s.Candidate)
	}
	if s.Stable+s.Candidate != 100 {
		return fmt.Errorf("%w: weights must sum to 100, got (%d,%d)", ErrInvalid, s.Stable, s.Candidate)
	}
	return nil
}

func (s TrafficSplit) String() string {
	return fmt.Sprintf("(%d,%d)", s.Stable, s.Candidate)
}
