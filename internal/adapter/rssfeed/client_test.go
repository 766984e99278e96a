package rssfeed_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-chatbot/internal/adapter/rssfeed"
)

func serveRSS(t *testing.T, items string) *httptest.Server {
	t.Helper()
	feed := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Example Wire</title>
<link>https://example.com</link>
%s
</channel>
</rss>`, items)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feed))
	}))
}

func TestFetch_MapsItemsToArticles(t *testing.T) {
	server := serveRSS(t, `
<item>
<title>AI Regulation Advances</title>
<link>https://example.com/ai-regulation</link>
<guid>guid-1</guid>
<category>Technology</category>
<pubDate>Mon, 24 Aug 2026 10:00:00 GMT</pubDate>
<description>The bill advanced through committee.</description>
</item>`)
	defer server.Close()

	client := rssfeed.NewClient(1000)
	articles, err := client.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	require.Len(t, articles, 1)
	a := articles[0]
	assert.Equal(t, "guid-1", a.ID)
	assert.Equal(t, "AI Regulation Advances", a.Title)
	assert.Equal(t, "https://example.com/ai-regulation", a.URL)
	assert.Equal(t, "Example Wire", a.Source)
	assert.Equal(t, "technology", a.Category, "category tags normalize to the known vocabulary")
	assert.Equal(t, "The bill advanced through committee.", a.Excerpt)
	assert.Equal(t, 2026, a.PublishedAt.Year())
}

func TestFetch_UnknownCategoryLeftEmpty(t *testing.T) {
	server := serveRSS(t, `
<item>
<title>Local Story</title>
<link>https://example.com/local</link>
<category>Neighborhood</category>
</item>`)
	defer server.Close()

	client := rssfeed.NewClient(1000)
	articles, err := client.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Empty(t, articles[0].Category)
}

func TestFetch_LinkFallsBackAsID(t *testing.T) {
	server := serveRSS(t, `
<item>
<title>No GUID Here</title>
<link>https://example.com/no-guid</link>
</item>`)
	defer server.Close()

	client := rssfeed.NewClient(1000)
	articles, err := client.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "https://example.com/no-guid", articles[0].ID)
}

func TestFetch_ExcerptCapped(t *testing.T) {
	long := strings.Repeat("word ", 100)
	server := serveRSS(t, fmt.Sprintf(`
<item>
<title>Long One</title>
<link>https://example.com/long</link>
<description>%s</description>
</item>`, long))
	defer server.Close()

	client := rssfeed.NewClient(50)
	articles, err := client.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.LessOrEqual(t, len(articles[0].Excerpt), 50)
}

func TestFetch_UnreachableFeedIsError(t *testing.T) {
	client := rssfeed.NewClient(1000)

	_, err := client.Fetch(context.Background(), "http://127.0.0.1:1/rss")

	assert.Error(t, err)
}
