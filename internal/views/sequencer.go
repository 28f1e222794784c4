package views

import (
	"context"
	"sync"
)

// Sequencer lets only the most recently issued load of a page commit.
// Issuing a ticket cancels the context of the ticket before it.
type Sequencer struct {
	mu     sync.Mutex
	latest uint64
	cancel context.CancelFunc
}

type Ticket struct {
	seq uint64
	s   *Sequencer
}

// Next issues a new ticket and returns a context that is cancelled as
// soon as a newer ticket is issued.
func (s *Sequencer) Next(ctx context.Context) (Ticket, context.Context) {
	child, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.latest++
	s.cancel = cancel
	return Ticket{seq: s.latest, s: s}, child
}

// Current reports whether t is still the latest ticket.
func (t Ticket) Current() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.seq == t.s.latest
}

// Commit runs apply while holding the sequencer lock, and only if t is
// still the latest ticket. It reports whether apply ran.
func (t Ticket) Commit(apply func()) bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.seq != t.s.latest {
		return false
	}
	apply()
	return true
}

// Done releases the context of t if it is still the latest ticket.
func (t Ticket) Done() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.seq == t.s.latest && t.s.cancel != nil {
		t.s.cancel()
		t.s.cancel = nil
	}
}
