package tunnel

import "sync"

// Slot holds the shared, optional tunnel capability behind a mutex. The tunnel
// may be torn down by another goroutine at any time, so every access re-checks
// for presence; an empty slot is a normal condition, not an error.
type Slot struct {
	mu  sync.Mutex
	tun Tunnel
}

func NewSlot(t Tunnel) *Slot {
	return &Slot{tun: t}
}

// Store replaces the tunnel held by the slot.
func (s *Slot) Store(t Tunnel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tun = t
}

// Clear empties the slot and returns the previously held tunnel, if any.
func (s *Slot) Clear() Tunnel {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tun
	s.tun = nil
	return t
}

// With runs f while holding the guard. f receives nil when the slot is empty.
// The guard is held for the duration of f, so f must not block on network
// negotiation or other long-running work.
func (s *Slot) With(f func(Tunnel) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return f(s.tun)
}
