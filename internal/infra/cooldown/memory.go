package cooldown

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	at        time.Time
	expiresAt time.Time
}

// MemoryStore is used when no Redis address is configured. Entries are
// evicted lazily against the wall clock passed in by the caller.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry)}
}

func (s *MemoryStore) Claim(_ context.Context, sessionID string, at time.Time, ttl time.Duration) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.entries {
		if !at.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}
	if e, ok := s.entries[sessionID]; ok {
		return e.at, false, nil
	}
	s.entries[sessionID] = entry{at: at, expiresAt: at.Add(ttl)}
	return at, true, nil
}

func (s *MemoryStore) Release(_ context.Context, sessionID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[sessionID]; ok && e.at.Equal(at) {
		delete(s.entries, sessionID)
	}
	return nil
}
