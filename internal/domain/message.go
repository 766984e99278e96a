package domain

import "time"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn. Immutable once created.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the ordered conversation history for one session id.
// Messages are append-only within a lifetime; insertion order is
// chronological. Owned exclusively by the session coordinator.
type Session struct {
	ID           string    `json:"session_id"`
	Messages     []Message `json:"messages"`
	LastActivity time.Time `json:"last_activity"`
}

// LastTurnPair returns the most recent user/assistant pair, or nils when
// the history does not contain one yet.
func (s *Session) LastTurnPair() (user, assistant *Message) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		m := s.Messages[i]
		switch m.Role {
		case RoleAssistant:
			if assistant == nil {
				assistant = &s.Messages[i]
			}
		case RoleUser:
			if user == nil {
				user = &s.Messages[i]
			}
		}
		if user != nil && assistant != nil {
			return user, assistant
		}
	}
	return user, assistant
}
