package detector

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// DefaultMinContourArea is the default significance threshold in pixels.
const DefaultMinContourArea = 5000

const (
	// backgroundHistory is the number of frames the background model keeps.
	backgroundHistory = 500
	// backgroundVarThreshold is the squared Mahalanobis distance separating
	// foreground from background pixels.
	backgroundVarThreshold = 50
	// blurKernelSize is the side of the Gaussian kernel suppressing sensor noise.
	blurKernelSize = 21
	// morphKernelSize is the side of the elliptical kernel for close/open passes.
	morphKernelSize = 5
)

// ErrEmptyFrame indicates an empty image was handed to the analyzer.
var ErrEmptyFrame = errors.New("frame is empty")

// Analyzer decides whether a frame contains significant motion.
//
// It maintains a rolling MOG2 background model and applies the
// noise-reduction policy around it: grayscale conversion, Gaussian blur,
// a morphological close to merge fragmented blobs and an open to drop
// speckle noise, then an external contour scan. Motion is significant as
// soon as one contiguous region's area strictly exceeds the configured
// minimum.
//
// Analyzer is not safe for concurrent use; the capture loop is its only
// caller.
type Analyzer struct {
	// minArea is the significance threshold in pixels.
	minArea float64
	// backSub is the rolling background model.
	backSub gocv.BackgroundSubtractorMOG2
	// kernel is the structuring element for the morphological passes.
	kernel gocv.Mat
	// gray and mask are scratch buffers reused across frames.
	gray gocv.Mat
	mask gocv.Mat
}

// NewAnalyzer returns an analyzer with a fresh background model.
// Non-positive thresholds fall back to DefaultMinContourArea.
// The caller must Close the analyzer to release native resources.
func NewAnalyzer(minContourArea float64) *Analyzer {
	if minContourArea <= 0 {
		minContourArea = DefaultMinContourArea
	}

	return &Analyzer{
		minArea: minContourArea,
		backSub: gocv.NewBackgroundSubtractorMOG2WithParams(backgroundHistory, backgroundVarThreshold, false),
		kernel:  gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(morphKernelSize, morphKernelSize)),
		gray:    gocv.NewMat(),
		mask:    gocv.NewMat(),
	}
}

// Evaluate updates the background model with the frame and reports whether
// it contains significant motion. Internal analysis failures surface as
// errors; the caller treats them as "no motion" for that frame.
func (a *Analyzer) Evaluate(img gocv.Mat) (significant bool, err error) {
	if img.Empty() {
		return false, ErrEmptyFrame
	}

	// OpenCV reports unusable input by panicking across the cgo boundary;
	// convert that into an error so one bad frame cannot kill the loop.
	defer func() {
		if r := recover(); r != nil {
			significant = false
			err = fmt.Errorf("frame analysis failed: %v", r)
		}
	}()

	gocv.CvtColor(img, &a.gray, gocv.ColorBGRToGray)
	gocv.GaussianBlur(a.gray, &a.gray, image.Pt(blurKernelSize, blurKernelSize), 0, 0, gocv.BorderDefault)

	a.backSub.Apply(a.gray, &a.mask)

	gocv.MorphologyEx(a.mask, &a.mask, gocv.MorphClose, a.kernel)
	gocv.MorphologyEx(a.mask, &a.mask, gocv.MorphOpen, a.kernel)

	contours := gocv.FindContours(a.mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	// The first region over the threshold decides; no ranking needed.
	for i := 0; i < contours.Size(); i++ {
		if exceedsMinArea(gocv.ContourArea(contours.At(i)), a.minArea) {
			return true, nil
		}
	}

	return false, nil
}

// MinContourArea returns the configured significance threshold.
func (a *Analyzer) MinContourArea() float64 {
	return a.minArea
}

// Close releases the background model and scratch buffers.
func (a *Analyzer) Close() error {
	var errs []error

	if err := a.backSub.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close background subtractor: %w", err))
	}

	if err := a.kernel.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close kernel: %w", err))
	}

	if err := a.gray.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close gray buffer: %w", err))
	}

	if err := a.mask.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close mask buffer: %w", err))
	}

	return errors.Join(errs...)
}

// exceedsMinArea applies the strict significance comparison: a region of
// exactly minArea pixels is not significant.
func exceedsMinArea(area, minArea float64) bool {
	return area > minArea
}
