package camera

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/demkkka/webcam-surveillance/internal/frame"
)

// ErrNotOpened indicates the capture device could not be opened.
var ErrNotOpened = errors.New("camera is not opened")

// Camera produces frames from a video source.
type Camera interface {
	// ReadFrame returns the next frame. ok is false on end-of-stream or
	// hardware failure, which is fatal to the capture loop.
	ReadFrame() (*frame.Frame, bool)
	// Close releases the camera handle. Safe to call more than once.
	Close() error
}

// Device is a Camera backed by a local video capture device.
type Device struct {
	// capture is the underlying OpenCV handle.
	capture *gocv.VideoCapture
	// buf receives raw reads and is cloned into returned frames.
	buf gocv.Mat
	// closeOnce guarantees the handle is released exactly once.
	closeOnce sync.Once
	// closeErr preserves the result of the first Close.
	closeErr error
}

// OpenDevice opens the numbered capture device (0 is the default webcam).
func OpenDevice(id int) (*Device, error) {
	capture, err := gocv.OpenVideoCapture(id)
	if err != nil {
		return nil, fmt.Errorf("open camera device %d: %w", id, err)
	}

	if !capture.IsOpened() {
		_ = capture.Close()

		return nil, fmt.Errorf("camera device %d: %w", id, ErrNotOpened)
	}

	return &Device{
		capture: capture,
		buf:     gocv.NewMat(),
	}, nil
}

// ReadFrame reads one frame from the device. An empty read is treated the
// same as a failed one: the stream is over.
func (d *Device) ReadFrame() (*frame.Frame, bool) {
	if ok := d.capture.Read(&d.buf); !ok || d.buf.Empty() {
		return nil, false
	}

	return frame.New(d.buf.Clone(), time.Now()), true
}

// IsOpened reports whether the underlying device is open.
func (d *Device) IsOpened() bool {
	return d.capture.IsOpened()
}

// Close releases the device handle and the read buffer exactly once.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		_ = d.buf.Close()
		d.closeErr = d.capture.Close()
	})

	return d.closeErr
}
