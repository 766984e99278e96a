package sessionstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-chatbot/internal/adapter/sessionstore"
	"news-chatbot/internal/domain"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := sessionstore.NewMemoryStore(16, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "chat:session:s1", []byte("v"), time.Minute))

	data, err := store.Get(ctx, "chat:session:s1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)
}

func TestMemoryStore_MissingKeyIsNotFound(t *testing.T) {
	store := sessionstore.NewMemoryStore(16, time.Minute)

	_, err := store.Get(context.Background(), "chat:session:unknown")

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := sessionstore.NewMemoryStore(16, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "chat:session:s1", []byte("v"), time.Minute))
	require.NoError(t, store.Delete(ctx, "chat:session:s1"))

	_, err := store.Get(ctx, "chat:session:s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMemoryStore_SetCopiesValue(t *testing.T) {
	store := sessionstore.NewMemoryStore(16, time.Minute)
	ctx := context.Background()

	buf := []byte("original")
	require.NoError(t, store.Set(ctx, "chat:session:s1", buf, time.Minute))
	buf[0] = 'X'

	data, err := store.Get(ctx, "chat:session:s1")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), data)
}

func TestMemoryStore_EvictsBeyondCapacity(t *testing.T) {
	store := sessionstore.NewMemoryStore(2, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, store.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, store.Set(ctx, "c", []byte("3"), time.Minute))

	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "oldest entry is evicted at capacity")

	_, err = store.Get(ctx, "c")
	assert.NoError(t, err)
}
