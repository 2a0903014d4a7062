// Package frame defines the captured video frame type and the single-slot
// holder that shares the newest frame between the capture loop and the
// daily photo scheduler.
//
// Frames carry native OpenCV matrices, so ownership is explicit: whoever
// holds a Frame must close it, and sharing happens through clones.
package frame
