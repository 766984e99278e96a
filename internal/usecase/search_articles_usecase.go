package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"news-chatbot/internal/domain"
)

// SearchInput is one direct index query. Unlike the chat path the filters
// come from the caller, not from query analysis.
type SearchInput struct {
	Query      string
	Limit      int      // 0 means the configured TopK
	RecentDays int      // 0 means no recency cut-off
	Categories []string // matched case-insensitively
}

// SearchArticlesUsecase answers stateless article searches: embed the
// query, hit the index, return scored candidates. No session is read or
// written and no answer is generated.
type SearchArticlesUsecase interface {
	Search(ctx context.Context, input SearchInput) ([]domain.Candidate, error)
}

type searchArticlesUsecase struct {
	encoder domain.VectorEncoder
	index   domain.ArticleIndex
	cfg     RetrievalConfig
	logger  *slog.Logger
}

// NewSearchArticlesUsecase wires the embedder and the vector index into
// the direct search surface.
func NewSearchArticlesUsecase(encoder domain.VectorEncoder, index domain.ArticleIndex, cfg RetrievalConfig, logger *slog.Logger) SearchArticlesUsecase {
	return &searchArticlesUsecase{
		encoder: encoder,
		index:   index,
		cfg:     cfg,
		logger:  logger,
	}
}

func (u *searchArticlesUsecase) Search(ctx context.Context, input SearchInput) ([]domain.Candidate, error) {
	embedCtx, cancel := context.WithTimeout(ctx, u.cfg.EmbedTimeout)
	embeddings, err := u.encoder.Encode(embedCtx, []string{input.Query})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: encode query: %v", domain.ErrRetrievalUnavailable, err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned for query", domain.ErrRetrievalUnavailable)
	}

	topK := input.Limit
	if topK <= 0 {
		topK = u.cfg.TopK
	}

	searchCtx, cancel := context.WithTimeout(ctx, u.cfg.SearchTimeout)
	defer cancel()
	candidates, err := u.index.Search(searchCtx, embeddings[0], topK, filterFromInput(input))
	if err != nil {
		return nil, fmt.Errorf("%w: index search: %v", domain.ErrRetrievalUnavailable, err)
	}

	sortCandidates(candidates)
	u.logger.Info("article_search_completed",
		slog.Int("hits", len(candidates)),
		slog.Int("top_k", topK))
	return candidates, nil
}

func filterFromInput(input SearchInput) domain.SearchFilter {
	var filter domain.SearchFilter
	for _, c := range input.Categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			filter.Categories = append(filter.Categories, c)
		}
	}
	if input.RecentDays > 0 {
		filter.PublishedAfter = time.Now().AddDate(0, 0, -input.RecentDays)
	}
	return filter
}
