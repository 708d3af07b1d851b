package subscribers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallcapsignal/signal-backend/internal/database"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.OpenSubscribers(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func TestSubscribeIdempotent(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	created, err := store.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.True(t, created)

	// Re-subscribing the same address succeeds without a second record
	created, err = store.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.False(t, created)

	// Case and whitespace variants hit the same row
	created, err = store.Subscribe(ctx, "  Reader@Example.COM ")
	require.NoError(t, err)
	assert.False(t, created)

	subs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "reader@example.com", subs[0].Email)
	assert.False(t, subs[0].SubscribedAt.IsZero())
}

func TestList(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := store.Subscribe(ctx, email)
		require.NoError(t, err)
	}

	subs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 3)
}

func TestListEmpty(t *testing.T) {
	store := setupStore(t)
	subs, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestDelete(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "Reader@example.com"))

	subs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)

	assert.ErrorIs(t, store.Delete(ctx, "reader@example.com"), ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "never@example.com"), ErrNotFound)
}
