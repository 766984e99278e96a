package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"news-chatbot/internal/domain"
)

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository creates the pgvector-backed article index.
func NewArticleRepository(pool *pgxpool.Pool) domain.ArticleIndex {
	return &articleRepository{pool: pool}
}

// Search runs a cosine nearest-neighbor query with optional metadata
// predicates. Results come back ordered by descending similarity.
func (r *articleRepository) Search(ctx context.Context, vector []float32, topK int, filter domain.SearchFilter) ([]domain.Candidate, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, title, url, source, category, published_at, excerpt,
		       1 - (embedding <=> $1) AS score
		FROM news_articles
	`)

	args := []any{pgvector.NewVector(vector)}
	var conds []string

	if len(filter.Categories) > 0 {
		args = append(args, filter.Categories)
		conds = append(conds, fmt.Sprintf("category = ANY($%d)", len(args)))
	}
	if !filter.PublishedAfter.IsZero() {
		args = append(args, filter.PublishedAfter)
		conds = append(conds, fmt.Sprintf("published_at >= $%d", len(args)))
	}
	if !filter.PublishedBefore.IsZero() {
		args = append(args, filter.PublishedBefore)
		conds = append(conds, fmt.Sprintf("published_at <= $%d", len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}

	args = append(args, topK)
	sb.WriteString(fmt.Sprintf(" ORDER BY embedding <=> $1 LIMIT $%d", len(args)))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		if err := rows.Scan(
			&c.ArticleID, &c.Title, &c.URL,
			&c.Metadata.Source, &c.Metadata.Category, &c.Metadata.PublishedAt,
			&c.Excerpt, &c.Score,
		); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return candidates, nil
}

func (r *articleRepository) Upsert(ctx context.Context, article domain.Article, vector []float32) error {
	query := `
		INSERT INTO news_articles (id, title, url, source, category, published_at, excerpt, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			url = EXCLUDED.url,
			source = EXCLUDED.source,
			category = EXCLUDED.category,
			published_at = EXCLUDED.published_at,
			excerpt = EXCLUDED.excerpt,
			embedding = EXCLUDED.embedding
	`
	_, err := r.pool.Exec(ctx, query,
		article.ID, article.Title, article.URL, article.Source,
		article.Category, article.PublishedAt, article.Excerpt,
		pgvector.NewVector(vector),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert article: %w", err)
	}
	return nil
}
