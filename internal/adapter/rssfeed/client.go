// Package rssfeed fetches news articles from RSS/Atom feeds for the
// ingestion collaborator.
package rssfeed

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"news-chatbot/internal/domain"
)

// Client parses remote feeds into domain articles.
type Client struct {
	parser     *gofeed.Parser
	excerptCap int
}

// NewClient creates a feed client. excerptCap bounds the stored article
// excerpt length in characters.
func NewClient(excerptCap int) *Client {
	return &Client{
		parser:     gofeed.NewParser(),
		excerptCap: excerptCap,
	}
}

func (c *Client) Fetch(ctx context.Context, feedURL string) ([]domain.Article, error) {
	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}

	source := feed.Title
	if source == "" {
		source = hostOf(feedURL)
	}

	articles := make([]domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Title == "" {
			continue
		}
		articles = append(articles, domain.Article{
			ID:          itemID(item),
			Title:       item.Title,
			URL:         item.Link,
			Source:      source,
			Category:    itemCategory(item),
			PublishedAt: itemPublished(item),
			Excerpt:     c.excerpt(item),
		})
	}
	return articles, nil
}

func itemID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	return item.Link
}

// itemCategory maps the feed's first category tag onto the known
// vocabulary; anything else is left empty so unfiltered search still
// finds the article.
func itemCategory(item *gofeed.Item) string {
	for _, raw := range item.Categories {
		cat := strings.ToLower(strings.TrimSpace(raw))
		if _, ok := categoryVocabulary[cat]; ok {
			return cat
		}
	}
	return ""
}

var categoryVocabulary = map[string]struct{}{
	"technology": {}, "business": {}, "sports": {}, "politics": {},
	"science": {}, "health": {}, "entertainment": {}, "world": {},
}

func itemPublished(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

func (c *Client) excerpt(item *gofeed.Item) string {
	text := item.Description
	if text == "" {
		text = item.Content
	}
	text = strings.TrimSpace(text)
	if c.excerptCap > 0 && len(text) > c.excerptCap {
		// Cut at a rune boundary so the excerpt stays valid UTF-8.
		cut := c.excerptCap
		for cut > 0 && !isRuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}

var _ domain.FeedClient = (*Client)(nil)
