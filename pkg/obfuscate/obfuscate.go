package obfuscate

import (
	"context"
	"sync"

	"github.com/yago-123/wg-rekey/pkg/tunnel"
)

// Handle represents a running obfuscation transport bound to one tunnel
// configuration. It must be aborted before a new configuration is applied.
type Handle interface {
	// Abort stops the transport and releases its resources.
	Abort()
}

// Applier constructs an obfuscation transport for a tunnel configuration.
// Apply may mutate the configuration (typically the first-hop endpoint) so
// that tunnel traffic is routed through the transport. Failures that happen
// after Apply has returned are delivered on closed; Apply's own error return
// only covers construction.
type Applier interface {
	Apply(ctx context.Context, cfg *tunnel.Config, closed chan<- error) (Handle, error)
}

// Slot holds the shared, optional obfuscator handle behind a mutex. An empty
// slot means obfuscation is not currently active, which is a normal condition.
type Slot struct {
	mu     sync.Mutex
	handle Handle
}

func NewSlot(h Handle) *Slot {
	return &Slot{handle: h}
}

func (s *Slot) Store(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handle = h
}

// Clear empties the slot and returns the previously held handle, if any.
func (s *Slot) Clear() Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.handle
	s.handle = nil
	return h
}

// Update runs f with the current handle while holding the guard and stores
// whatever handle f returns, nil included. When f fails the slot is left
// holding f's returned handle (nil on every error path in this module), so a
// failed rebuild never leaves a half-initialized handle behind.
func (s *Slot) Update(f func(prev Handle) (Handle, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := f(s.handle)
	s.handle = next
	return err
}
