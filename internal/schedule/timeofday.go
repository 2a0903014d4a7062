package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeOfDay indicates a wall-clock time that is not HH:MM.
var ErrInvalidTimeOfDay = errors.New("time of day must be HH:MM")

// TimeOfDay is a fixed wall-clock time in the local day, such as 14:00.
type TimeOfDay struct {
	// Hour is in the range [0, 23].
	Hour int
	// Minute is in the range [0, 59].
	Minute int
}

// ParseTimeOfDay parses a value like "14:00" into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute int

	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// String renders the time of day as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// NextFire returns the next occurrence of the time of day strictly after
// now, in now's location. If today's occurrence has already passed (or is
// exactly now), the result rolls over to tomorrow.
func NextFire(now time.Time, at TimeOfDay) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour, at.Minute, 0, 0, now.Location())

	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}

	return next
}
