package service

import (
	"sync"
	"time"
)

// idempotencyStore tracks purchase tokens so an accidental double submit
// of the same form is rejected before touching the database. Entries
// expire after the configured TTL; the database reservation row remains
// the authoritative guard.
type idempotencyStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	claimed map[string]time.Time
	now     func() time.Time
}

func newIdempotencyStore(ttl time.Duration) *idempotencyStore {
	return &idempotencyStore{
		ttl:     ttl,
		claimed: make(map[string]time.Time),
		now:     time.Now,
	}
}

// TryClaim marks the token as used. Returns false if the token was
// already claimed within the TTL.
func (s *idempotencyStore) TryClaim(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if claimedAt, ok := s.claimed[key]; ok && now.Sub(claimedAt) < s.ttl {
		return false
	}

	// Opportunistic sweep of expired tokens
	for k, at := range s.claimed {
		if now.Sub(at) >= s.ttl {
			delete(s.claimed, k)
		}
	}

	s.claimed[key] = now
	return true
}

// Release frees a token after a failed purchase so the caller can retry
// with the same form.
func (s *idempotencyStore) Release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claimed, key)
}
