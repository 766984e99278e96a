package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"news-chatbot/internal/domain"
	"news-chatbot/internal/usecase"
)

func TestSearchArticles_FiltersFromInput(t *testing.T) {
	encoder := new(MockVectorEncoder)
	index := new(MockArticleIndex)
	encoder.On("Encode", mock.Anything, []string{"ai regulation"}).Return([][]float32{{0.1, 0.2}}, nil)

	index.On("Search", mock.Anything, []float32{0.1, 0.2}, 3, mock.MatchedBy(func(f domain.SearchFilter) bool {
		if !assert.ObjectsAreEqual([]string{"technology", "politics"}, f.Categories) {
			return false
		}
		// RecentDays: 7 translates to a published_at floor seven days back.
		want := time.Now().AddDate(0, 0, -7)
		return f.PublishedAfter.Sub(want).Abs() < time.Minute && f.PublishedBefore.IsZero()
	})).Return([]domain.Candidate{
		{ArticleID: "a", Score: 0.9, Title: "A"},
	}, nil)

	u := usecase.NewSearchArticlesUsecase(encoder, index, pipelineConfig(), testLogger())
	results, err := u.Search(context.Background(), usecase.SearchInput{
		Query:      "ai regulation",
		Limit:      3,
		RecentDays: 7,
		Categories: []string{" Technology ", "politics", ""},
	})

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	index.AssertExpectations(t)
}

func TestSearchArticles_DefaultLimitIsTopK(t *testing.T) {
	encoder := new(MockVectorEncoder)
	index := new(MockArticleIndex)
	encoder.On("Encode", mock.Anything, mock.Anything).Return([][]float32{{0.1}}, nil)
	index.On("Search", mock.Anything, mock.Anything, 5, domain.SearchFilter{}).Return([]domain.Candidate{}, nil)

	u := usecase.NewSearchArticlesUsecase(encoder, index, pipelineConfig(), testLogger())
	_, err := u.Search(context.Background(), usecase.SearchInput{Query: "sports"})

	assert.NoError(t, err)
	index.AssertExpectations(t)
}

func TestSearchArticles_OrdersByScoreThenRecency(t *testing.T) {
	encoder := new(MockVectorEncoder)
	index := new(MockArticleIndex)
	encoder.On("Encode", mock.Anything, mock.Anything).Return([][]float32{{0.1}}, nil)

	older := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	index.On("Search", mock.Anything, mock.Anything, 5, mock.Anything).Return([]domain.Candidate{
		{ArticleID: "old", Score: 0.9, Metadata: domain.CandidateMetadata{PublishedAt: older}},
		{ArticleID: "new", Score: 0.9, Metadata: domain.CandidateMetadata{PublishedAt: newer}},
		{ArticleID: "top", Score: 0.95, Metadata: domain.CandidateMetadata{PublishedAt: older}},
	}, nil)

	u := usecase.NewSearchArticlesUsecase(encoder, index, pipelineConfig(), testLogger())
	results, err := u.Search(context.Background(), usecase.SearchInput{Query: "ai"})

	assert.NoError(t, err)
	ids := make([]string, 0, len(results))
	for _, c := range results {
		ids = append(ids, c.ArticleID)
	}
	assert.Equal(t, []string{"top", "new", "old"}, ids)
}

func TestSearchArticles_EmbeddingFailureIsRetrievalUnavailable(t *testing.T) {
	encoder := new(MockVectorEncoder)
	index := new(MockArticleIndex)
	encoder.On("Encode", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	u := usecase.NewSearchArticlesUsecase(encoder, index, pipelineConfig(), testLogger())
	_, err := u.Search(context.Background(), usecase.SearchInput{Query: "ai"})

	assert.ErrorIs(t, err, domain.ErrRetrievalUnavailable)
	index.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchArticles_IndexFailureIsRetrievalUnavailable(t *testing.T) {
	encoder := new(MockVectorEncoder)
	index := new(MockArticleIndex)
	encoder.On("Encode", mock.Anything, mock.Anything).Return([][]float32{{0.1}}, nil)
	index.On("Search", mock.Anything, mock.Anything, 5, mock.Anything).Return(nil, errors.New("pool closed"))

	u := usecase.NewSearchArticlesUsecase(encoder, index, pipelineConfig(), testLogger())
	_, err := u.Search(context.Background(), usecase.SearchInput{Query: "ai"})

	assert.ErrorIs(t, err, domain.ErrRetrievalUnavailable)
}
