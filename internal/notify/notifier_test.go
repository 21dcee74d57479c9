package notify_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shiftgate/shiftgate/internal/entity"
	"github.com/shiftgate/shiftgate/internal/notify"
)

// blockingWriter stalls every Write until released, keeping the drain
// goroutine busy so the channel buffer can be filled deterministically.
type blockingWriter struct {
	release chan struct{}
	buf     bytes.Buffer
}

func (w *blockingWriter) Write(p []byte) (int, error) {
	<-w.release
	return w.buf.Write(p)
}

func TestLogNotifier_FlushesOnClose(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewLogNotifier(zerolog.New(&buf), 8)

	id := entity.NewID()
	n.Emit(id, entity.DeploymentStatePending, "created")
	n.Emit(id, entity.DeploymentStateAdvancing, "step 1/3")
	n.Emit(id, entity.DeploymentStatePromoted, "promoted")
	n.Close()

	out := buf.String()
	if got := strings.Count(out, "deployment event"); got != 3 {
		t.Fatalf("expected 3 logged events, got %d:\n%s", got, out)
	}
	for _, state := range []string{"pending", "advancing", "promoted"} {
		if !strings.Contains(out, state) {
			t.Fatalf("expected %q in output:\n%s", state, out)
		}
	}
}

func TestLogNotifier_EmitNeverBlocks(t *testing.T) {
	w := &blockingWriter{release: make(chan struct{})}
	// Info level so the drop path does not write through the stalled writer.
	n := notify.NewLogNotifier(zerolog.New(w).Level(zerolog.InfoLevel), 2)

	id := entity.NewID()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			n.Emit(id, entity.DeploymentStateAdvancing, "step")
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full buffer")
	}

	close(w.release)
	n.Close()

	// One event was in flight in the drain, two sat in the buffer; the
	// remaining seven were dropped.
	if got := strings.Count(w.buf.String(), "deployment event"); got > 3 {
		t.Fatalf("expected at most 3 delivered events, got %d", got)
	}
}
