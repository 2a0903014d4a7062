package notify

import "context"

// Sink delivers a photo notification to the configured recipient.
//
// Implementations report delivery failure through the returned error;
// callers log it and carry on, a failed delivery is never fatal to the
// process.
type Sink interface {
	// SendPhoto delivers the request. The context bounds the attempt.
	SendPhoto(ctx context.Context, req *Request) error
}
