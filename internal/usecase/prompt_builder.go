package usecase

import (
	"strings"
	"time"
)

// PromptBuilder renders the system/context text handed to the generator.
type PromptBuilder interface {
	Build(contextText string) string
}

// NewsPromptBuilder produces the news-assistant instructions with the
// retrieved article blocks inlined.
type NewsPromptBuilder struct {
	now func() time.Time
}

// NewNewsPromptBuilder creates the default prompt builder.
func NewNewsPromptBuilder() PromptBuilder {
	return &NewsPromptBuilder{now: time.Now}
}

// Build wraps the assembled retrieval context with the assistant
// instructions. An empty context produces the degraded-mode framing
// instead of an empty articles block.
func (b *NewsPromptBuilder) Build(contextText string) string {
	var sb strings.Builder

	sb.WriteString("Today's date is ")
	sb.WriteString(b.now().Format("2006-01-02"))
	sb.WriteString(".\n\n")
	sb.WriteString("You are a helpful assistant answering questions about recent news articles.\n")
	sb.WriteString("Be informative, accurate and concise. Answer in a conversational tone.\n\n")

	if strings.TrimSpace(contextText) == "" {
		sb.WriteString("No news articles were retrieved for this question. ")
		sb.WriteString("Acknowledge that honestly and answer from general knowledge where possible, ")
		sb.WriteString("without presenting unverified details as current news.\n")
		return sb.String()
	}

	sb.WriteString("Base your answer on the following news articles:\n\n")
	sb.WriteString("[ARTICLES BEGIN]\n")
	sb.WriteString(contextText)
	sb.WriteString("[ARTICLES END]\n\n")
	sb.WriteString("Answer with information from these articles. If they do not cover the question, ")
	sb.WriteString("acknowledge that and provide general information if possible. ")
	sb.WriteString("Never mention the articles block or how you retrieve information.\n")
	return sb.String()
}
