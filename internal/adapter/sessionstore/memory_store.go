package sessionstore

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"news-chatbot/internal/domain"
)

// MemoryStore is an in-process, bounded, expiring store for single-node
// runs and tests. The TTL is fixed at construction; a Set replaces the
// entry, which resets its expiry (sliding TTL). The per-call ttl argument
// is accepted for interface compatibility and ignored.
type MemoryStore struct {
	cache *expirable.LRU[string, []byte]
}

// NewMemoryStore creates a store capped at maxEntries sessions.
func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: expirable.NewLRU[string, []byte](maxEntries, nil, ttl),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := s.cache.Get(key)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return data, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	// Copy so later mutations of the caller's buffer cannot leak in.
	stored := make([]byte, len(value))
	copy(stored, value)
	s.cache.Add(key, stored)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Remove(key)
	return nil
}

var _ domain.SessionStore = (*MemoryStore)(nil)
