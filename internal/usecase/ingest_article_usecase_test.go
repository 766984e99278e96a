package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"news-chatbot/internal/domain"
	"news-chatbot/internal/usecase"
)

func TestIngest_UpsertEmbedsTitleAndExcerpt(t *testing.T) {
	encoder := new(MockVectorEncoder)
	index := new(MockArticleIndex)

	article := domain.Article{
		ID:          "a1",
		Title:       "Headline",
		Excerpt:     "First paragraph.",
		Source:      "Wire",
		Category:    "technology",
		PublishedAt: time.Now(),
	}
	encoder.On("Encode", mock.Anything, []string{"Headline\nFirst paragraph."}).
		Return([][]float32{{0.1, 0.2}}, nil)
	index.On("Upsert", mock.Anything, article, []float32{0.1, 0.2}).Return(nil)

	uc := usecase.NewIngestArticleUsecase(encoder, index, testLogger())
	require.NoError(t, uc.Upsert(context.Background(), article))

	encoder.AssertExpectations(t)
	index.AssertExpectations(t)
}

func TestIngest_RejectsMissingID(t *testing.T) {
	uc := usecase.NewIngestArticleUsecase(new(MockVectorEncoder), new(MockArticleIndex), testLogger())

	err := uc.Upsert(context.Background(), domain.Article{Title: "Headline"})

	assert.Error(t, err)
}

func TestIngest_RejectsEmptyText(t *testing.T) {
	uc := usecase.NewIngestArticleUsecase(new(MockVectorEncoder), new(MockArticleIndex), testLogger())

	err := uc.Upsert(context.Background(), domain.Article{ID: "a1"})

	assert.Error(t, err)
}

func TestIngest_EncoderFailurePropagates(t *testing.T) {
	encoder := new(MockVectorEncoder)
	index := new(MockArticleIndex)
	encoder.On("Encode", mock.Anything, mock.Anything).Return(nil, errors.New("embedder down"))

	uc := usecase.NewIngestArticleUsecase(encoder, index, testLogger())
	err := uc.Upsert(context.Background(), domain.Article{ID: "a1", Title: "Headline"})

	assert.Error(t, err)
	index.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}
