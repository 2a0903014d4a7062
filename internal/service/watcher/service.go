package watcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/demkkka/webcam-surveillance/internal/camera"
	"github.com/demkkka/webcam-surveillance/internal/frame"
	"github.com/demkkka/webcam-surveillance/internal/logger"
	"github.com/demkkka/webcam-surveillance/internal/notify"
	"github.com/demkkka/webcam-surveillance/internal/ratelimit"
)

// ErrCameraStopped indicates the capture device stopped producing frames.
// A dead camera makes the whole process useless, so this error terminates it.
var ErrCameraStopped = errors.New("camera stopped producing frames")

// defaultSendGrace bounds how long shutdown waits for in-flight
// notifications before abandoning them.
const defaultSendGrace = 5 * time.Second

// analyzer decides whether a frame contains significant motion.
type analyzer interface {
	Evaluate(img gocv.Mat) (bool, error)
}

// runner is a background task that blocks until its context is canceled.
type runner interface {
	Run(ctx context.Context)
}

// service ties the capture loop, the motion pipeline and the daily photo
// scheduler together. It owns no resources itself; the caller opens and
// closes the camera and the analyzer around run.
type service struct {
	// camera produces frames.
	camera camera.Camera
	// analyzer evaluates frames for significant motion.
	analyzer analyzer
	// limiter debounces motion notifications.
	limiter *ratelimit.Limiter
	// slot holds the newest frame for the scheduler.
	slot *frame.Slot
	// sink delivers photo notifications.
	sink notify.Sink
	// scheduler fires the daily heartbeat photo.
	scheduler runner
	// captureDelay is the pause between two capture cycles.
	captureDelay time.Duration
	// sendTimeout bounds a single notification delivery.
	sendTimeout time.Duration
	// sendGrace bounds the shutdown wait for in-flight deliveries.
	sendGrace time.Duration
	// sends tracks in-flight notification goroutines.
	sends sync.WaitGroup
	// now supplies the current time; replaced in tests.
	now func() time.Time
}

// run drives the capture loop and the scheduler until the context is
// canceled or the camera fails. In-flight notifications get a bounded grace
// period before run returns.
func (s *service) run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		s.scheduler.Run(runCtx)
	}()

	err := s.captureLoop(runCtx)

	// A camera failure stops the scheduler too.
	cancel()
	wg.Wait()

	s.waitForSends(ctx)

	return err
}

// captureLoop reads frames at the configured cadence and feeds them through
// the motion pipeline. A failed read is fatal; a failed analysis is not.
func (s *service) captureLoop(ctx context.Context) error {
	ctx = logger.WithName(ctx, "capture")
	logger.Info(ctx, "Capture loop started")

	for {
		f, ok := s.camera.ReadFrame()
		if !ok {
			if ctx.Err() != nil {
				logger.Info(ctx, "Capture loop stopped")

				return nil
			}

			return ErrCameraStopped
		}

		s.observe(ctx, f)

		select {
		case <-ctx.Done():
			logger.Info(ctx, "Capture loop stopped")

			return nil
		case <-time.After(s.captureDelay):
		}
	}
}

// observe runs one frame through detection, dispatches a notification when
// the debounce allows it and publishes the frame for the scheduler. The
// slot takes ownership of the frame.
func (s *service) observe(ctx context.Context, f *frame.Frame) {
	significant, err := s.analyzer.Evaluate(f.Image)
	if err != nil {
		// One unreadable frame must not stop surveillance.
		logger.Warnf(ctx, "Frame analysis failed: %v", err)
	}

	if significant {
		now := s.now()

		if s.limiter.ShouldSend(now) {
			s.notifyMotion(ctx, f)
			s.limiter.RecordSent(now)
		} else {
			logger.Debugf(ctx, "Motion suppressed by cooldown")
		}
	}

	s.slot.Set(f)
}

// notifyMotion encodes the frame and hands it to a send goroutine. Encoding
// happens on the capture goroutine while it still owns the frame.
func (s *service) notifyMotion(ctx context.Context, f *frame.Frame) {
	photo, err := f.EncodeJPEG()
	if err != nil {
		logger.Errorf(ctx, "Failed to encode motion photo: %v", err)

		return
	}

	caption := fmt.Sprintf("Motion detected! (%s)", s.now().Format(time.DateTime))
	req := notify.NewRequest(photo, caption, notify.ReasonMotion)

	logger.InfoKV(ctx, "Motion detected, sending photo", "request_id", req.ID)
	s.dispatch(ctx, req)
}

// dispatch delivers the request on its own goroutine so network latency
// never stalls the capture loop. The send context is detached from loop
// cancellation so an already triggered notification survives shutdown, and
// is bounded by the send timeout instead.
func (s *service) dispatch(ctx context.Context, req *notify.Request) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sendTimeout)

	s.sends.Add(1)

	go func() {
		defer s.sends.Done()
		defer cancel()

		if err := s.sink.SendPhoto(sendCtx, req); err != nil {
			logger.ErrorKV(sendCtx, "Failed to send photo",
				"request_id", req.ID, "reason", req.Reason, "error", err)

			return
		}

		logger.InfoKV(sendCtx, "Photo sent", "request_id", req.ID, "reason", req.Reason)
	}()
}

// waitForSends blocks until in-flight notifications finish or the grace
// period expires.
func (s *service) waitForSends(ctx context.Context) {
	done := make(chan struct{})

	go func() {
		s.sends.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(s.sendGrace):
		logger.Warn(ctx, "Abandoning in-flight notifications after shutdown grace period")
	}
}
