package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"news-chatbot/internal/domain"
)

// IngestArticleUsecase embeds one article and upserts it into the index.
// It serves the ingestion collaborator only; the query path never writes.
type IngestArticleUsecase interface {
	Upsert(ctx context.Context, article domain.Article) error
}

type ingestArticleUsecase struct {
	encoder domain.VectorEncoder
	index   domain.ArticleIndex
	logger  *slog.Logger
}

// NewIngestArticleUsecase creates the ingest usecase.
func NewIngestArticleUsecase(encoder domain.VectorEncoder, index domain.ArticleIndex, logger *slog.Logger) IngestArticleUsecase {
	return &ingestArticleUsecase{encoder: encoder, index: index, logger: logger}
}

func (u *ingestArticleUsecase) Upsert(ctx context.Context, article domain.Article) error {
	if article.ID == "" {
		return fmt.Errorf("article id is required")
	}
	text := strings.TrimSpace(article.Title + "\n" + article.Excerpt)
	if text == "" {
		return fmt.Errorf("article %s has no text to embed", article.ID)
	}

	embeddings, err := u.encoder.Encode(ctx, []string{text})
	if err != nil {
		return fmt.Errorf("encode article %s: %w", article.ID, err)
	}
	if len(embeddings) == 0 {
		return fmt.Errorf("no embedding returned for article %s", article.ID)
	}

	if err := u.index.Upsert(ctx, article, embeddings[0]); err != nil {
		return fmt.Errorf("upsert article %s: %w", article.ID, err)
	}

	u.logger.Info("article_indexed",
		slog.String("article_id", article.ID),
		slog.String("source", article.Source),
		slog.String("category", article.Category))
	return nil
}
