package client

import "sync/atomic"

// Sequencer hands out monotonically increasing tickets. A completion may be
// applied only while its ticket is still the latest one issued.
type Sequencer struct {
	n atomic.Uint64
}

// Next issues a new ticket, superseding every earlier one.
func (s *Sequencer) Next() uint64 {
	return s.n.Add(1)
}

// Invalidate supersedes every outstanding ticket without issuing a request.
func (s *Sequencer) Invalidate() {
	s.n.Add(1)
}

// IsLatest reports whether ticket is the most recent one issued.
func (s *Sequencer) IsLatest(ticket uint64) bool {
	return s.n.Load() == ticket
}
