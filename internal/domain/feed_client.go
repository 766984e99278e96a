package domain

import "context"

// FeedClient fetches articles from an RSS/Atom feed URL.
type FeedClient interface {
	Fetch(ctx context.Context, feedURL string) ([]Article, error)
}
