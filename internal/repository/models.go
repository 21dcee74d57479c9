package repository

import (
	"time"

	"github.com/shiftgate/shiftgate/internal/entity"
)

type Deployment struct {
	ID                    string `gorm:"primaryKey"`
	Target                string `gorm:"index"`
	Strategy              string
	Artifact              string
	Steps                 []int `gorm:"serializer:json"`
	ObservationWindow     time.Duration
	MaxErrorRate          float64
	MaxLatencyP99         time.Duration
	MinSaturationHeadroom float64
	Timeout               time.Duration
	State                 string `gorm:"index"`
	StableEnv             string
	CandidateEnv          string
	StableWeight          int
	CandidateWeight       int
	Reason                string
	Snapshots             []entity.HealthSnapshot `gorm:"serializer:json"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
	FinishedAt            *time.Time
}

func (m *Deployment) ToEntity() *entity.Deployment {
	return &entity.Deployment{
		ID: entity.ID(m.ID),
		Config: entity.DeploymentConfig{
			Target:            m.Target,
			Strategy:          entity.StrategyKind(m.Strategy),
			Artifact:          m.Artifact,
			Steps:             m.Steps,
			ObservationWindow: m.ObservationWindow,
			Thresholds: entity.Thresholds{
				MaxErrorRate:          m.MaxErrorRate,
				MaxLatencyP99:         m.MaxLatencyP99,
				MinSaturationHeadroom: m.MinSaturationHeadroom,
			},
			Timeout: m.Timeout,
		},
		State:        entity.DeploymentState(m.State),
		StableEnv:    m.StableEnv,
		CandidateEnv: m.CandidateEnv,
		Split:        entity.TrafficSplit{Stable: m.StableWeight, Candidate: m.CandidateWeight},
		Reason:       m.Reason,
		Snapshots:    m.Snapshots,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		FinishedAt:   m.FinishedAt,
	}
}

func (m *Deployment) FromEntity(e *entity.Deployment) {
	m.ID = e.ID.String()
	m.Target = e.Config.Target
	m.Strategy = string(e.Config.Strategy)
	m.Artifact = e.Config.Artifact
	m.Steps = e.Config.Steps
	m.ObservationWindow = e.Config.ObservationWindow
	m.MaxErrorRate = e.Config.Thresholds.MaxErrorRate
	m.MaxLatencyP99 = e.Config.Thresholds.MaxLatencyP99
	m.MinSaturationHeadroom = e.Config.Thresholds.MinSaturationHeadroom
	m.Timeout = e.Config.Timeout
	m.State = string(e.State)
	m.StableEnv = e.StableEnv
	m.CandidateEnv = e.CandidateEnv
	m.StableWeight = e.Split.Stable
	m.CandidateWeight = e.Split.Candidate
	m.Reason = e.Reason
	m.Snapshots = e.Snapshots
	m.CreatedAt = e.CreatedAt
	m.FinishedAt = e.FinishedAt
}

// Transition rows are append-only: they are created, listed, and never
// updated or deleted.
type Transition struct {
	ID              uint   `gorm:"primaryKey"`
	DeploymentID    string `gorm:"index"`
	At              time.Time
	FromState       string
	ToState         string
	StableWeight    int
	CandidateWeight int
	Reason          string
}

func (m *Transition) ToEntity() entity.StateTransition {
	return entity.StateTransition{
		DeploymentID: entity.ID(m.DeploymentID),
		At:           m.At,
		From:         entity.DeploymentState(m.FromState),
		To:           entity.DeploymentState(m.ToState),
		Split:        entity.TrafficSplit{Stable: m.StableWeight, Candidate: m.CandidateWeight},
		Reason:       m.Reason,
	}
}

func (m *Transition) FromEntity(e entity.StateTransition) {
	m.DeploymentID = e.DeploymentID.String()
	m.At = e.At
	m.FromState = string(e.From)
	m.ToState = string(e.To)
	m.StableWeight = e.Split.Stable
	m.CandidateWeight = e.Split.Candidate
	m.Reason = e.Reason
}
