package repository

import (
	"context"

	"equity-insights/internal/entity"
)

// WatchlistRepository is the capability interface over watchlist
// storage. Entities are keyed by (userID, watchlistID); each single
// entity operation is atomic, nothing beyond that is guaranteed.
type WatchlistRepository interface {
	List(ctx context.Context, userID string) ([]entity.Watchlist, error)
	Get(ctx context.Context, userID, watchlistID string) (*entity.Watchlist, error)
	Upsert(ctx context.Context, userID string, watchlist *entity.Watchlist) error
	Delete(ctx context.Context, userID, watchlistID string) error
}
