package frame

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// testFrame builds a small single-channel frame whose first pixel carries
// the given marker value so writes can be told apart.
func testFrame(t *testing.T, marker uint8, capturedAt time.Time) *Frame {
	t.Helper()

	img := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8U)
	img.SetUCharAt(0, 0, marker)

	return New(img, capturedAt)
}

// TestSlotEmpty verifies the slot reports no frame before the first write.
func TestSlotEmpty(t *testing.T) {
	t.Parallel()

	slot := NewSlot()
	defer slot.Close()

	_, ok := slot.Latest()
	require.False(t, ok)
}

// TestSlotHoldsNewestFrame verifies Set replaces the held frame and Latest
// returns an independent clone of the newest write.
func TestSlotHoldsNewestFrame(t *testing.T) {
	t.Parallel()

	slot := NewSlot()
	defer slot.Close()

	first := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	slot.Set(testFrame(t, 1, first))
	slot.Set(testFrame(t, 2, first.Add(time.Second)))

	got, ok := slot.Latest()
	require.True(t, ok)
	defer got.Close()

	require.Equal(t, first.Add(time.Second), got.CapturedAt)
	require.Equal(t, uint8(2), got.Image.GetUCharAt(0, 0))

	// The clone must stay valid after the slot moves on.
	slot.Set(testFrame(t, 3, first.Add(2*time.Second)))
	require.Equal(t, uint8(2), got.Image.GetUCharAt(0, 0))
}

// TestSlotConcurrentReaders verifies readers racing a writer always observe
// a complete frame no older than the last finished write.
func TestSlotConcurrentReaders(t *testing.T) {
	t.Parallel()

	slot := NewSlot()
	defer slot.Close()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	slot.Set(testFrame(t, 0, base))

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		for i := 1; i <= 50; i++ {
			slot.Set(testFrame(t, uint8(i), base.Add(time.Duration(i)*time.Millisecond)))
		}
	}()

	for reader := 0; reader < 4; reader++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			last := base
			for i := 0; i < 50; i++ {
				got, ok := slot.Latest()
				require.True(t, ok)

				// Timestamps only move forward.
				require.False(t, got.CapturedAt.Before(last))
				last = got.CapturedAt
				got.Close()
			}
		}()
	}

	wg.Wait()
}

// TestFrameCloseIdempotent verifies repeated Close calls are no-ops, even
// for a frame wrapping an empty matrix that was never written to.
func TestFrameCloseIdempotent(t *testing.T) {
	t.Parallel()

	f := testFrame(t, 1, time.Now())
	f.Close()
	f.Close()

	empty := New(gocv.NewMat(), time.Now())
	empty.Close()
	empty.Close()
}

// TestFrameEncodeJPEG verifies a captured frame encodes to a non-empty JPEG.
func TestFrameEncodeJPEG(t *testing.T) {
	t.Parallel()

	img := gocv.NewMatWithSize(32, 32, gocv.MatTypeCV8UC3)
	f := New(img, time.Now())
	defer f.Close()

	data, err := f.EncodeJPEG()
	require.NoError(t, err)
	require.NotEmpty(t, data)
}
