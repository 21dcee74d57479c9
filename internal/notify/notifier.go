package notify

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shiftgate/shiftgate/internal/entity"
)

// Event is one deployment status change.
type Event struct {
	DeploymentID entity.ID
	State        entity.DeploymentState
	Detail       string
	At           time.Time
}

// LogNotifier drains status events through a bounded channel into the log.
// Emit never blocks: when the buffer is full the event is dropped. Losing
// a notification is acceptable; stalling a rollout on one is not.
type LogNotifier struct {
	ch   chan Event
	done chan struct{}
	log  zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger, buffer int) *LogNotifier {
	if buffer <= 0 {
		buffer = 64
	}
	n := &LogNotifier{
		ch:   make(chan Event, buffer),
		done: make(chan struct{}),
		log:  log,
	}
	go n.drain()
	return n
}

func (n *LogNotifier) Emit(id entity.ID, state entity.DeploymentState, detail string) {
	ev := Event{DeploymentID: id, State: state, Detail: detail, At: time.Now()}
	select {
	case n.ch <- ev:
	default:
		n.log.Debug().Stringer("deployment", id).Msg("notification buffer full, event dropped")
	}
}

func (n *LogNotifier) drain() {
	defer close(n.done)
	for ev := range n.ch {
		n.log.Info().
			Stringer("deployment", ev.DeploymentID).
			Str("state", string(ev.State)).
			Str("detail", ev.Detail).
			Msg("deployment event")
	}
}

// Close flushes buffered events and stops the drain goroutine. Emit must
// not be called after Close.
func (n *LogNotifier) Close() {
	close(n.ch)
	<-n.done
}
