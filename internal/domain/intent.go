package domain

import "time"

// RecencyWindow restricts retrieval to articles published inside [Start, End].
type RecencyWindow struct {
	Start time.Time
	End   time.Time
}

// QueryIntent is the analyzer's view of one user message. Created per
// request, consumed by a single pipeline invocation, never persisted.
type QueryIntent struct {
	RawText        string
	RewrittenQuery string
	CategoryFilter []string
	RecencyWindow  *RecencyWindow
	NeedsRetrieval bool
}
