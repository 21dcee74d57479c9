package entity

import "time"

type DeploymentState string

const (
	DeploymentStatePending      DeploymentState = "pending"
	DeploymentStateProvisioning DeploymentState = "provisioning"
	DeploymentStateAdvancing    DeploymentState = "advancing"
	DeploymentStatePromoted     DeploymentState = "promoted"
	DeploymentStateRolledBack   DeploymentState = "rolled_back"
	DeploymentStateFailed       DeploymentState = "failed"
)

// Terminal reports whether no further transition may leave the state.
func (s DeploymentState) Terminal() bool {
	switch s {
	case DeploymentStatePromoted, DeploymentStateRolledBack, DeploymentStateFailed:
		return true
	}
	return false
}

// Deployment is one rollout attempt. The orchestrator owns it exclusively
// for its lifetime; after reaching a terminal state it is read-only.
type Deployment struct {
	ID           ID               `json:"id"`
	Config       DeploymentConfig `json:"config"`
	State        DeploymentState  `json:"state"`
	StableEnv    string           `json:"stable_env"`
	CandidateEnv string           `json:"candidate_env"`
	Split        TrafficSplit     `json:"split"`
	Reason       string           `json:"reason,omitempty"`
	Snapshots    []HealthSnapshot `json:"snapshots,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	FinishedAt   *time.Time       `json:"finished_at,omitempty"`
}

// StateTransition is one entry of the append-only deployment log. Every
// transition is recorded before the action that follows it.
type StateTransition struct {
	DeploymentID ID              `json:"deployment_id"`
	At           time.Time       `json:"at"`
	From         DeploymentState `json:"from"`
	To           DeploymentState `json:"to"`
	Split        TrafficSplit    `json:"split"`
	Reason       string          `json:"reason,omitempty"`
}
