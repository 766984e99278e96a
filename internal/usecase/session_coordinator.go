package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"news-chatbot/internal/domain"
)

// sessionKeyPrefix namespaces every stored session.
const sessionKeyPrefix = "chat:session:"

// SessionConfig holds the conversation-history tunables.
type SessionConfig struct {
	MaxTurns  int           // retained user/assistant pairs; sliding window
	TTL       time.Duration // sliding expiry, refreshed on every append
	OpTimeout time.Duration // per store operation
}

// SessionCoordinator owns the conversation-history lifecycle: load,
// append, trim, persist, expire.
type SessionCoordinator interface {
	Load(ctx context.Context, sessionID string) (*domain.Session, error)
	Append(ctx context.Context, sessionID string, userMsg, assistantMsg domain.Message) (*domain.Session, error)
	Clear(ctx context.Context, sessionID string) error
}

type sessionCoordinator struct {
	store  domain.SessionStore
	cfg    SessionConfig
	logger *slog.Logger

	// Lock registry keyed by session id, created on first use, never
	// removed. Serializes the read-modify-write in Append so concurrent
	// requests for one session cannot lose a turn.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSessionCoordinator creates the coordinator on top of a session store.
func NewSessionCoordinator(store domain.SessionStore, cfg SessionConfig, logger *slog.Logger) SessionCoordinator {
	return &sessionCoordinator{
		store:  store,
		cfg:    cfg,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (c *sessionCoordinator) lockFor(sessionID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[sessionID] = lock
	}
	return lock
}

// Load reads the stored session. A missing key yields a fresh empty
// session; a store failure degrades to a fresh session as well (logged),
// so conversation availability survives a session-store outage.
func (c *sessionCoordinator) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	return c.load(ctx, sessionID), nil
}

func (c *sessionCoordinator) load(ctx context.Context, sessionID string) *domain.Session {
	opCtx, cancel := context.WithTimeout(ctx, c.cfg.OpTimeout)
	defer cancel()

	data, err := c.store.Get(opCtx, sessionKeyPrefix+sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			c.logger.Warn("session_read_degraded",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()))
		}
		return &domain.Session{ID: sessionID}
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		c.logger.Warn("session_decode_degraded",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()))
		return &domain.Session{ID: sessionID}
	}
	session.ID = sessionID
	return &session
}

// Append performs the atomic read-modify-write for one exchange: read the
// stored state, add the user then the assistant message, trim to the last
// MaxTurns pairs, persist with a refreshed TTL.
func (c *sessionCoordinator) Append(ctx context.Context, sessionID string, userMsg, assistantMsg domain.Message) (*domain.Session, error) {
	lock := c.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session := c.load(ctx, sessionID)
	session.Messages = append(session.Messages, userMsg, assistantMsg)
	session.Messages = trimToLastTurns(session.Messages, c.cfg.MaxTurns)
	session.LastActivity = assistantMsg.Timestamp

	data, err := json.Marshal(session)
	if err != nil {
		return session, fmt.Errorf("%w: marshal session: %v", domain.ErrSessionWriteIncomplete, err)
	}

	opCtx, cancel := context.WithTimeout(ctx, c.cfg.OpTimeout)
	defer cancel()
	if err := c.store.Set(opCtx, sessionKeyPrefix+sessionID, data, c.cfg.TTL); err != nil {
		c.logger.Warn("session_write_incomplete",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()))
		return session, fmt.Errorf("%w: %v", domain.ErrSessionWriteIncomplete, err)
	}
	return session, nil
}

// Clear deletes the stored key outright; the next Load starts fresh.
func (c *sessionCoordinator) Clear(ctx context.Context, sessionID string) error {
	opCtx, cancel := context.WithTimeout(ctx, c.cfg.OpTimeout)
	defer cancel()

	if err := c.store.Delete(opCtx, sessionKeyPrefix+sessionID); err != nil {
		return fmt.Errorf("clear session %s: %w", sessionID, err)
	}
	return nil
}

// trimToLastTurns keeps the newest maxTurns user/assistant pairs. Pure
// sliding window: oldest messages dropped first, no importance-based
// retention.
func trimToLastTurns(messages []domain.Message, maxTurns int) []domain.Message {
	if maxTurns <= 0 {
		return messages
	}
	maxMessages := maxTurns * 2
	if len(messages) <= maxMessages {
		return messages
	}
	trimmed := make([]domain.Message, maxMessages)
	copy(trimmed, messages[len(messages)-maxMessages:])
	return trimmed
}
