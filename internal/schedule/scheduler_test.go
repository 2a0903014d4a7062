package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/demkkka/webcam-surveillance/internal/frame"
	"github.com/demkkka/webcam-surveillance/internal/notify"
)

// recordingSink captures delivered requests for assertions.
type recordingSink struct {
	mu       sync.Mutex
	requests []*notify.Request
}

func (s *recordingSink) SendPhoto(_ context.Context, req *notify.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)

	return nil
}

func (s *recordingSink) all() []*notify.Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*notify.Request(nil), s.requests...)
}

// TestSchedulerCancelMidWait verifies that canceling the context during the
// inter-fire wait produces no notification and returns promptly.
func TestSchedulerCancelMidWait(t *testing.T) {
	t.Parallel()

	slot := frame.NewSlot()
	defer slot.Close()

	sink := &recordingSink{}
	s := NewScheduler(TimeOfDay{Hour: 14}, slot, sink)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})

	go func() {
		s.Run(ctx)
		close(done)
	}()

	// Let the scheduler enter its wait, then cancel.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}

	require.Empty(t, sink.all())
}

// TestFireSkipsOnEmptySlot verifies a fire with no captured frame sends
// nothing and does not fail.
func TestFireSkipsOnEmptySlot(t *testing.T) {
	t.Parallel()

	slot := frame.NewSlot()
	defer slot.Close()

	sink := &recordingSink{}
	s := NewScheduler(TimeOfDay{Hour: 14}, slot, sink)

	s.fire(context.Background())

	require.Empty(t, sink.all())
}

// TestFireSendsLatestFrame verifies a fire with a captured frame delivers a
// scheduled request whose caption names the configured time.
func TestFireSendsLatestFrame(t *testing.T) {
	t.Parallel()

	slot := frame.NewSlot()
	defer slot.Close()

	img := gocv.NewMatWithSize(32, 32, gocv.MatTypeCV8UC3)
	slot.Set(frame.New(img, time.Now()))

	sink := &recordingSink{}
	s := NewScheduler(TimeOfDay{Hour: 14}, slot, sink)
	s.now = func() time.Time {
		return time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	}

	s.fire(context.Background())

	requests := sink.all()
	require.Len(t, requests, 1)
	require.Equal(t, notify.ReasonScheduled, requests[0].Reason)
	require.NotEmpty(t, requests[0].Photo)
	require.Contains(t, requests[0].Caption, "Daily photo at 14:00")
}
