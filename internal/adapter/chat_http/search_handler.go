package chat_http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"news-chatbot/internal/domain"
	"news-chatbot/internal/usecase"
)

// SearchHandler exposes the article index directly, without a chat
// session: embed the query, search, return scored articles.
type SearchHandler struct {
	search usecase.SearchArticlesUsecase
}

func NewSearchHandler(search usecase.SearchArticlesUsecase) *SearchHandler {
	return &SearchHandler{search: search}
}

// RegisterRoutes mounts the search endpoints on the given group.
func (h *SearchHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/news/search", h.Search)
	g.GET("/news/search", h.SearchGet)
}

type searchRequest struct {
	Query      string   `json:"query"`
	Limit      int      `json:"limit"`
	RecentDays int      `json:"recent_days"`
	Categories []string `json:"categories"`
}

type searchResult struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Source      string  `json:"source"`
	Category    string  `json:"category"`
	PublishedAt string  `json:"published_at,omitempty"`
	Excerpt     string  `json:"excerpt"`
	Score       float32 `json:"score"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
	Count   int            `json:"count"`
}

// Search runs a semantic article search with optional filters.
// (POST /v1/news/search)
func (h *SearchHandler) Search(ctx echo.Context) error {
	var req searchRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	return h.respond(ctx, req)
}

// SearchGet is the query-parameter variant of Search. Single-valued
// category for simple clients.
// (GET /v1/news/search)
func (h *SearchHandler) SearchGet(ctx echo.Context) error {
	req := searchRequest{Query: ctx.QueryParam("query")}
	if v := ctx.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be an integer"})
		}
		req.Limit = n
	}
	if v := ctx.QueryParam("recent_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "recent_days must be an integer"})
		}
		req.RecentDays = n
	}
	if v := ctx.QueryParam("category"); v != "" {
		req.Categories = []string{v}
	}
	return h.respond(ctx, req)
}

func (h *SearchHandler) respond(ctx echo.Context, req searchRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "query is required"})
	}

	candidates, err := h.search.Search(ctx.Request().Context(), usecase.SearchInput{
		Query:      req.Query,
		Limit:      req.Limit,
		RecentDays: req.RecentDays,
		Categories: req.Categories,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRetrievalUnavailable) {
			return ctx.JSON(http.StatusServiceUnavailable, map[string]string{"error": "article search unavailable"})
		}
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	results := make([]searchResult, 0, len(candidates))
	for _, c := range candidates {
		r := searchResult{
			ID:       c.ArticleID,
			Title:    c.Title,
			URL:      c.URL,
			Source:   c.Metadata.Source,
			Category: c.Metadata.Category,
			Excerpt:  c.Excerpt,
			Score:    c.Score,
		}
		if !c.Metadata.PublishedAt.IsZero() {
			r.PublishedAt = c.Metadata.PublishedAt.Format(time.RFC3339)
		}
		results = append(results, r)
	}
	return ctx.JSON(http.StatusOK, searchResponse{Results: results, Count: len(results)})
}
