package domain

import "context"

// Generator produces the final answer from the conversation history, the
// assembled retrieval context and the current user message.
type Generator interface {
	Complete(ctx context.Context, history []Message, contextText, message string) (string, error)
	Version() string
}
