package frame

import "sync"

// Slot holds the most recent successfully captured frame.
//
// It is a single-slot exchange: exactly one writer replaces the held frame,
// any number of readers take clones of it. Readers never observe a torn
// frame and never receive one older than the last write that completed
// before their read began.
type Slot struct {
	// mu guards current.
	mu sync.Mutex
	// current is the newest frame, or nil before the first write.
	current *Frame
}

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	return &Slot{}
}

// Set replaces the held frame with f, taking ownership of it.
// The previously held frame is closed.
func (s *Slot) Set(f *Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.Close()
	}

	s.current = f
}

// Latest returns a clone of the newest frame. The caller owns the clone and
// must close it. ok is false before the first frame arrives.
func (s *Slot) Latest() (*Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, false
	}

	return s.current.Clone(), true
}

// Close releases the held frame, if any. The slot must not be written to
// afterwards.
func (s *Slot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.Close()
		s.current = nil
	}
}
