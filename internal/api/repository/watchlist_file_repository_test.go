package repository

import (
	"context"
	"path/filepath"
	"testing"

	"equity-insights/internal/entity"
	"equity-insights/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileRepo(t *testing.T) WatchlistRepository {
	t.Helper()
	return NewFileWatchlistRepository(filepath.Join(t.TempDir(), "watchlists.json"))
}

func TestFileRepositoryRoundTrip(t *testing.T) {
	repo := newFileRepo(t)
	ctx := context.Background()

	wl := &entity.Watchlist{
		ID:   "wl-1",
		Name: "Tech",
		Items: []entity.WatchlistItem{
			{Symbol: "AAPL", Country: "US", Sector: "Technology"},
		},
		CreatedUTC: "2024-01-01T00:00:00Z",
		UpdatedUTC: "2024-01-01T00:00:00Z",
	}

	require.NoError(t, repo.Upsert(ctx, "user-a", wl))

	got, err := repo.Get(ctx, "user-a", "wl-1")
	require.NoError(t, err)
	assert.Equal(t, wl, got)

	listed, err := repo.List(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Tech", listed[0].Name)
}

func TestFileRepositoryIsolatesUsers(t *testing.T) {
	repo := newFileRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "user-a", &entity.Watchlist{ID: "wl-1", Name: "Mine"}))

	_, err := repo.Get(ctx, "user-b", "wl-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	listed, err := repo.List(ctx, "user-b")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestFileRepositoryDelete(t *testing.T) {
	repo := newFileRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "user-a", &entity.Watchlist{ID: "wl-1", Name: "Tech"}))
	require.NoError(t, repo.Delete(ctx, "user-a", "wl-1"))

	_, err := repo.Get(ctx, "user-a", "wl-1")
	assert.True(t, apperrors.IsNotFound(err))

	err = repo.Delete(ctx, "user-a", "wl-1")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestFileRepositoryUpsertReplaces(t *testing.T) {
	repo := newFileRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "user-a", &entity.Watchlist{ID: "wl-1", Name: "Old"}))
	require.NoError(t, repo.Upsert(ctx, "user-a", &entity.Watchlist{ID: "wl-1", Name: "New"}))

	got, err := repo.Get(ctx, "user-a", "wl-1")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
}
