package rollout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shiftgate/shiftgate/internal/entity"
	"github.com/shiftgate/shiftgate/internal/rollout"
)

type recordingRouter struct {
	calls []entity.TrafficSplit
	err   error
}

func (r *recordingRouter) SetWeights(_ context.Context, _, _, _ string, stableWeight, candidateWeight int) error {
	if r.err != nil {
		return r.err
	}
	r.calls = append(r.calls, entity.TrafficSplit{Stable: stableWeight, Candidate: candidateWeight})
	return nil
}

func newController(r rollout.Router) *rollout.TrafficController {
	return rollout.NewTrafficController(r, "web", "web-stable", "web-candidate-1", zerolog.Nop())
}

func TestSetSplit_RejectsInvalidPairs(t *testing.T) {
	tests := []struct {
		name              string
		stable, candidate int
	}{
		{"does not sum to 100", 60, 30},
		{"negative weight", -10, 110},
		{"above 100", 150, -50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := &recordingRouter{}
			tc := newController(router)
			err := tc.SetSplit(context.Background(), tt.stable, tt.candidate)
			var invalid *rollout.InvalidSplitError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidSplitError, got %v", err)
			}
			if len(router.calls) != 0 {
				t.Fatal("router must not be called for an invalid split")
			}
		})
	}
}

func TestSetSplit_AppliesAndTracks(t *testing.T) {
	router := &recordingRouter{}
	tc := newController(router)

	if got := tc.LastApplied(); got != entity.FullStable {
		t.Fatalf("expected initial split (100,0), got %s", got)
	}
	if err := tc.SetSplit(context.Background(), 75, 25); err != nil {
		t.Fatal(err)
	}
	if got := tc.LastApplied(); got != (entity.TrafficSplit{Stable: 75, Candidate: 25}) {
		t.Fatalf("expected (75,25), got %s", got)
	}
	if len(router.calls) != 1 {
		t.Fatalf("expected exactly one router call, got %d", len(router.calls))
	}
}

func TestSetSplit_RouterFailureLeavesLastAppliedUnchanged(t *testing.T) {
	router := &recordingRouter{}
	tc := newController(router)
	if err := tc.SetSplit(context.Background(), 90, 10); err != nil {
		t.Fatal(err)
	}

	router.err = errors.New("connection refused")
	err := tc.SetSplit(context.Background(), 75, 25)
	var shift *rollout.TrafficShiftError
	if !errors.As(err, &shift) {
		t.Fatalf("expected TrafficShiftError, got %v", err)
	}
	if shift.Attempted != (entity.TrafficSplit{Stable: 75, Candidate: 25}) {
		t.Fatalf("expected attempted (75,25), got %s", shift.Attempted)
	}
	if got := tc.LastApplied(); got != (entity.TrafficSplit{Stable: 90, Candidate: 10}) {
		t.Fatalf("expected last applied (90,10), got %s", got)
	}
}
