package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"news-chatbot/internal/domain"
)

// scoreEpsilon bounds "equal" similarity scores for the recency tie-break.
const scoreEpsilon = 1e-6

// RetrievalConfig holds the pipeline's tunables.
type RetrievalConfig struct {
	TopK          int
	ContextBudget int // character budget for the assembled context
	EmbedTimeout  time.Duration
	SearchTimeout time.Duration
}

// RetrievalPipeline turns a QueryIntent into a budget-capped ContextBundle.
type RetrievalPipeline interface {
	Retrieve(ctx context.Context, intent domain.QueryIntent) (domain.ContextBundle, error)
}

type retrievalPipeline struct {
	encoder domain.VectorEncoder
	index   domain.ArticleIndex
	cfg     RetrievalConfig
	logger  *slog.Logger
}

// NewRetrievalPipeline wires the embedder and the vector index into the
// retrieval stage.
func NewRetrievalPipeline(encoder domain.VectorEncoder, index domain.ArticleIndex, cfg RetrievalConfig, logger *slog.Logger) RetrievalPipeline {
	return &retrievalPipeline{
		encoder: encoder,
		index:   index,
		cfg:     cfg,
		logger:  logger,
	}
}

func (p *retrievalPipeline) Retrieve(ctx context.Context, intent domain.QueryIntent) (domain.ContextBundle, error) {
	// Cost-saving short-circuit: conversational continuations skip every
	// external call.
	if !intent.NeedsRetrieval {
		p.logger.Info("retrieval_skipped", slog.String("reason", "no_retrieval_intent"))
		return domain.ContextBundle{}, nil
	}

	vector, err := p.embedQuery(ctx, intent.RewrittenQuery)
	if err != nil {
		return domain.ContextBundle{}, fmt.Errorf("%w: %v", domain.ErrRetrievalUnavailable, err)
	}

	filter := filterFromIntent(intent)
	candidates, err := p.search(ctx, vector, filter)
	if err != nil {
		return domain.ContextBundle{}, fmt.Errorf("%w: %v", domain.ErrRetrievalUnavailable, err)
	}

	// An overly specific filter derived from heuristic analysis must never
	// cause total retrieval failure: retry once with filters relaxed.
	if len(candidates) == 0 && !filter.IsZero() {
		p.logger.Info("retrieval_filters_relaxed",
			slog.Any("categories", filter.Categories),
			slog.String("query", intent.RewrittenQuery))
		candidates, err = p.search(ctx, vector, domain.SearchFilter{})
		if err != nil {
			return domain.ContextBundle{}, fmt.Errorf("%w: %v", domain.ErrRetrievalUnavailable, err)
		}
	}

	sortCandidates(candidates)
	bundle := assembleBundle(candidates, p.cfg.ContextBudget)

	p.logger.Info("retrieval_completed",
		slog.Int("hits", len(candidates)),
		slog.Int("assembled", len(bundle.Candidates)),
		slog.Int("context_chars", len(bundle.AssembledText)))
	return bundle, nil
}

func (p *retrievalPipeline) embedQuery(ctx context.Context, query string) ([]float32, error) {
	embedCtx, cancel := context.WithTimeout(ctx, p.cfg.EmbedTimeout)
	defer cancel()

	embeddings, err := p.encoder.Encode(embedCtx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("encode query: %v", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}
	return embeddings[0], nil
}

func (p *retrievalPipeline) search(ctx context.Context, vector []float32, filter domain.SearchFilter) ([]domain.Candidate, error) {
	searchCtx, cancel := context.WithTimeout(ctx, p.cfg.SearchTimeout)
	defer cancel()

	candidates, err := p.index.Search(searchCtx, vector, p.cfg.TopK, filter)
	if err != nil {
		return nil, fmt.Errorf("index search: %v", err)
	}
	return candidates, nil
}

func filterFromIntent(intent domain.QueryIntent) domain.SearchFilter {
	filter := domain.SearchFilter{Categories: intent.CategoryFilter}
	if intent.RecencyWindow != nil {
		filter.PublishedAfter = intent.RecencyWindow.Start
		filter.PublishedBefore = intent.RecencyWindow.End
	}
	return filter
}

// sortCandidates orders by descending score; scores in the same epsilon
// bucket fall back to more recent published_at first, since article
// relevance decays with age even at identical topical similarity.
// Scores are quantized to epsilon-wide buckets before comparison so the
// ordering stays transitive across chains of near-tied scores.
func sortCandidates(candidates []domain.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		bi := scoreBucket(candidates[i].Score)
		bj := scoreBucket(candidates[j].Score)
		if bi != bj {
			return bi > bj
		}
		return candidates[i].Metadata.PublishedAt.After(candidates[j].Metadata.PublishedAt)
	})
}

func scoreBucket(score float32) int64 {
	return int64(math.Round(float64(score) / scoreEpsilon))
}

// assembleBundle concatenates candidate blocks highest score first until
// the character budget would be exceeded. The first overflowing candidate
// is dropped whole and assembly stops; no backfill from smaller candidates.
func assembleBundle(candidates []domain.Candidate, budget int) domain.ContextBundle {
	var sb strings.Builder
	var kept []domain.Candidate

	for i, c := range candidates {
		block := formatCandidate(i+1, c)
		if sb.Len()+len(block) > budget {
			break
		}
		sb.WriteString(block)
		kept = append(kept, c)
	}

	return domain.ContextBundle{
		Candidates:    kept,
		AssembledText: sb.String(),
	}
}

func formatCandidate(ordinal int, c domain.Candidate) string {
	date := ""
	if !c.Metadata.PublishedAt.IsZero() {
		date = c.Metadata.PublishedAt.Format("2006-01-02")
	}
	return fmt.Sprintf("Article %d: %s (%s, %s)\n%s\n\n",
		ordinal, c.Title, c.Metadata.Source, date, c.Excerpt)
}
