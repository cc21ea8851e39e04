package harness

import "sync"

// Sequence is a monotonic logical clock for outcome ordering.
//
// The first call to Next returns 1. A batch shares one Sequence so its
// outcome numbers are unique across scenarios.
type Sequence struct {
	mu  sync.Mutex
	seq int64
}

// NewSequence creates a sequence starting at 0.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next increments and returns the next sequence number.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}
