package ratelimit

import (
	"sync"
	"time"
)

// DefaultSendInterval is the default cooldown between two accepted
// notifications.
const DefaultSendInterval = 3 * time.Second

// Limiter is a debounce gate for outbound notifications: it admits at most
// one send per cooldown window. It is not a token bucket, so a burst of
// motion collapses into a single notification per interval.
//
// The caller records a send after every attempt, whether or not delivery
// succeeded, so a failed send still consumes the cooldown.
type Limiter struct {
	// mu guards lastSent.
	mu sync.Mutex
	// interval is the minimum spacing between accepted sends.
	interval time.Duration
	// lastSent is the time of the last recorded send attempt.
	// Zero means no send has been recorded yet.
	lastSent time.Time
}

// New returns a limiter with the given cooldown interval.
// Non-positive intervals fall back to DefaultSendInterval.
func New(interval time.Duration) *Limiter {
	if interval <= 0 {
		interval = DefaultSendInterval
	}

	return &Limiter{interval: interval}
}

// ShouldSend reports whether a notification may be sent at the given time.
// It is true when nothing has been sent yet or the cooldown has elapsed.
// A caller that proceeds with a send must follow up with RecordSent.
func (l *Limiter) ShouldSend(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.lastSent.IsZero() || now.Sub(l.lastSent) > l.interval
}

// RecordSent marks a send attempt at the given time. The recorded timestamp
// never moves backwards.
func (l *Limiter) RecordSent(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.lastSent) {
		l.lastSent = now
	}
}
