package domain

import (
	"context"
	"time"
)

// Article is one indexed news item. Upserts come from the ingestion
// collaborator; the query path only reads.
type Article struct {
	ID          string
	Title       string
	URL         string
	Source      string
	Category    string
	PublishedAt time.Time
	Excerpt     string
}

// SearchFilter narrows a nearest-neighbor search with metadata predicates.
// Zero values mean "no filter".
type SearchFilter struct {
	Categories      []string
	PublishedAfter  time.Time
	PublishedBefore time.Time
}

// IsZero reports whether the filter restricts anything.
func (f SearchFilter) IsZero() bool {
	return len(f.Categories) == 0 && f.PublishedAfter.IsZero() && f.PublishedBefore.IsZero()
}

// ArticleIndex is the vector index over news articles.
type ArticleIndex interface {
	Search(ctx context.Context, vector []float32, topK int, filter SearchFilter) ([]Candidate, error)
	Upsert(ctx context.Context, article Article, vector []float32) error
}
