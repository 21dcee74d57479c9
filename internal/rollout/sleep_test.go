package rollout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shiftgate/shiftgate/internal/entity"
)

func TestWait_Elapsed(t *testing.T) {
	if res := Wait(context.Background(), 5*time.Millisecond); res != WaitElapsed {
		t.Fatalf("expected WaitElapsed, got %v", res)
	}
}

func TestWait_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	if res := Wait(ctx, time.Minute); res != WaitCancelled {
		t.Fatalf("expected WaitCancelled, got %v", res)
	}
}

type scriptedSource struct {
	samples int
	err     error
}

func (s *scriptedSource) Sample(context.Context, string, time.Duration) (entity.HealthSnapshot, error) {
	if s.err != nil {
		return entity.HealthSnapshot{}, s.err
	}
	s.samples++
	return entity.HealthSnapshot{Env: "e", ErrorRate: 0.001, TrafficVolume: 10}, nil
}

func TestObserveWindow_CollectsUntilElapsed(t *testing.T) {
	src := &scriptedSource{}
	snaps, res := observeWindow(context.Background(), src, "e", 25, 80*time.Millisecond, 20*time.Millisecond)
	if res != WaitElapsed {
		t.Fatalf("expected WaitElapsed, got %v", res)
	}
	if len(snaps) == 0 {
		t.Fatal("expected at least one sample")
	}
	for _, s := range snaps {
		if s.CandidateWeight != 25 {
			t.Fatalf("expected weight 25 on samples, got %d", s.CandidateWeight)
		}
	}
}

func TestObserveWindow_CancelledMidWindow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	src := &scriptedSource{}
	_, res := observeWindow(ctx, src, "e", 10, time.Minute, 10*time.Millisecond)
	if res != WaitCancelled {
		t.Fatalf("expected WaitCancelled, got %v", res)
	}
}

func TestObserveWindow_SampleErrorsAreSkipped(t *testing.T) {
	src := &scriptedSource{err: errors.New("scrape failed")}
	snaps, res := observeWindow(context.Background(), src, "e", 10, 50*time.Millisecond, 10*time.Millisecond)
	if res != WaitElapsed {
		t.Fatalf("expected WaitElapsed, got %v", res)
	}
	if len(snaps) != 0 {
		t.Fatalf("expected no samples, got %d", len(snaps))
	}
}
