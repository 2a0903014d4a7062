package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/demkkka/webcam-surveillance/internal/frame"
	"github.com/demkkka/webcam-surveillance/internal/logger"
	"github.com/demkkka/webcam-surveillance/internal/notify"
)

// Scheduler sends the latest captured frame as a daily heartbeat photo at a
// fixed wall-clock time.
//
// Between fires it suspends in a single timer wait for the exact computed
// duration, so it consumes nothing while idle and cancels promptly on
// shutdown. After each fire (or skip) the next fire instant is recomputed,
// rolling to the next calendar day when today's slot has passed.
//
// Delivery happens synchronously on the scheduler goroutine, unlike motion
// notifications, which are dispatched asynchronously under a short shutdown
// grace. A shutdown arriving mid-fire therefore waits for the sink's own
// delivery timeout. With at most one fire per day this never delays the
// capture loop.
type Scheduler struct {
	// at is the configured daily fire time.
	at TimeOfDay
	// slot provides the newest captured frame.
	slot *frame.Slot
	// sink delivers the heartbeat photo.
	sink notify.Sink
	// now supplies the current time; replaced in tests.
	now func() time.Time
}

// NewScheduler returns a scheduler that fires at the given time of day.
func NewScheduler(at TimeOfDay, slot *frame.Slot, sink notify.Sink) *Scheduler {
	return &Scheduler{
		at:   at,
		slot: slot,
		sink: sink,
		now:  time.Now,
	}
}

// Run blocks until the context is canceled, firing once per day.
// Cancellation during the wait produces no notification.
func (s *Scheduler) Run(ctx context.Context) {
	ctx = logger.WithName(ctx, "daily-photo")
	logger.Info(ctx, "Daily photo scheduler started")

	for {
		next := NextFire(s.now(), s.at)
		wait := next.Sub(s.now())

		logger.InfoKV(ctx, "Next daily photo scheduled",
			"at", next.Format(time.DateTime),
			"in", wait.Round(time.Second).String())

		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info(ctx, "Daily photo scheduler stopped")

			return
		case <-timer.C:
			s.fire(ctx)
		}
	}
}

// fire sends the newest frame, or skips with a warning when no frame has
// been captured yet. Delivery failures are logged and never propagate.
func (s *Scheduler) fire(ctx context.Context) {
	f, ok := s.slot.Latest()
	if !ok {
		logger.Warn(ctx, "No frame available for daily photo")

		return
	}
	defer f.Close()

	photo, err := f.EncodeJPEG()
	if err != nil {
		logger.Errorf(ctx, "Failed to encode daily photo: %v", err)

		return
	}

	caption := fmt.Sprintf("Daily photo at %s (%s)", s.at, s.now().Format("2006-01-02 15:04"))
	req := notify.NewRequest(photo, caption, notify.ReasonScheduled)

	logger.InfoKV(ctx, "Sending scheduled daily photo", "request_id", req.ID)

	if err := s.sink.SendPhoto(ctx, req); err != nil {
		logger.ErrorKV(ctx, "Failed to send daily photo", "request_id", req.ID, "error", err)

		return
	}

	logger.InfoKV(ctx, "Daily photo sent", "request_id", req.ID)
}
