package frame

import (
	"bytes"
	"errors"
	"time"

	"gocv.io/x/gocv"
)

// ErrEncodeFailed indicates the frame image could not be encoded to JPEG.
var ErrEncodeFailed = errors.New("frame could not be encoded")

// Frame is a single captured raster image with its capture timestamp.
// A Frame is immutable once captured: producers hand out clones instead of
// sharing the underlying matrix, and no component modifies the pixels after
// construction. The owner must call Close to release the native matrix.
type Frame struct {
	// Image holds the raw frame pixels. Owned by the Frame.
	Image gocv.Mat
	// CapturedAt is when the frame was read from the camera.
	CapturedAt time.Time

	// closed marks the native matrix as already released. The Mat itself
	// cannot be queried after Close, so the flag lives here.
	closed bool
}

// New wraps an image matrix and its capture time into a Frame.
// The Frame takes ownership of the matrix.
func New(img gocv.Mat, capturedAt time.Time) *Frame {
	return &Frame{
		Image:      img,
		CapturedAt: capturedAt,
	}
}

// Clone returns a deep copy of the frame. The caller owns the copy and must
// close it.
func (f *Frame) Clone() *Frame {
	return &Frame{
		Image:      f.Image.Clone(),
		CapturedAt: f.CapturedAt,
	}
}

// Close releases the native image matrix. Safe to call on an already
// closed frame.
func (f *Frame) Close() {
	if f.closed {
		return
	}

	f.closed = true
	_ = f.Image.Close()
}

// EncodeJPEG returns the frame encoded as a JPEG byte slice.
func (f *Frame) EncodeJPEG() ([]byte, error) {
	buf, err := gocv.IMEncode(".jpg", f.Image)
	if err != nil {
		return nil, errors.Join(ErrEncodeFailed, err)
	}
	defer buf.Close()

	// The native buffer is invalid after Close, so the bytes are copied out.
	return bytes.Clone(buf.GetBytes()), nil
}
