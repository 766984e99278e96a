package domain

import (
	"context"
	"time"
)

// SessionStore is a key-value store with per-key expiry. Get returns
// ErrSessionNotFound for a missing or expired key. Implementations must be
// safe for concurrent use; per-session write serialization is the
// coordinator's responsibility, not the store's.
type SessionStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
