package notify

import (
	"time"

	"github.com/google/uuid"
)

// Reason tells why a notification was produced.
type Reason string

const (
	// ReasonMotion marks a notification triggered by detected motion.
	ReasonMotion Reason = "motion"
	// ReasonScheduled marks the once-daily heartbeat photo.
	ReasonScheduled Reason = "scheduled"
)

// Request is a single outbound notification: one photo, one caption, one
// delivery attempt. Requests are transient and never persisted.
type Request struct {
	// ID correlates the request across log entries.
	ID string
	// Photo is the JPEG-encoded image to deliver.
	Photo []byte
	// Caption accompanies the photo.
	Caption string
	// Reason records what produced the request.
	Reason Reason
	// CreatedAt is when the request was built.
	CreatedAt time.Time
}

// NewRequest builds a notification request with a fresh correlation ID.
func NewRequest(photo []byte, caption string, reason Reason) *Request {
	return &Request{
		ID:        uuid.NewString(),
		Photo:     photo,
		Caption:   caption,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
}
