package domain

import "time"

// CandidateMetadata carries the article attributes used for filtering,
// tie-breaking and prompt attribution.
type CandidateMetadata struct {
	Category    string
	PublishedAt time.Time
	Source      string
}

// Candidate is one retrieved article excerpt with its similarity score.
type Candidate struct {
	ArticleID string
	Score     float32
	Title     string
	URL       string
	Excerpt   string
	Metadata  CandidateMetadata
}

// ContextBundle is the assembled, budget-capped retrieval result handed to
// the generator. Candidates are ordered relevance-descending and every
// candidate listed is fully contained in AssembledText.
type ContextBundle struct {
	Candidates    []Candidate
	AssembledText string
}

// Empty reports whether the bundle carries no retrieved context.
func (b ContextBundle) Empty() bool {
	return len(b.Candidates) == 0 && b.AssembledText == ""
}
