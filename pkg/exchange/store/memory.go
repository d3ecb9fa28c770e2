package store

import (
	"sync"

	"github.com/yago-123/wg-rekey/pkg/exchange/types"
)

type MemoryStore struct {
	mu           sync.RWMutex
	negotiations map[string]types.Negotiation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		negotiations: make(map[string]types.Negotiation),
	}
}

func (s *MemoryStore) Register(wgPublicKey string, n types.Negotiation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.negotiations[wgPublicKey] = n
	return nil
}

func (s *MemoryStore) Lookup(wgPublicKey string) (types.Negotiation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.negotiations[wgPublicKey]
	return n, ok
}
