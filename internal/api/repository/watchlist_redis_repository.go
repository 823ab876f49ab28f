package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"equity-insights/internal/entity"
	"equity-insights/pkg/apperrors"

	"github.com/redis/go-redis/v9"
)

// redisWatchlistRepository keeps each user's watchlists in one Redis
// hash: key watchlists:{userID}, field watchlist id, value JSON.
type redisWatchlistRepository struct {
	client *redis.Client
}

// NewRedisWatchlistRepository creates a Redis-backed watchlist repository.
func NewRedisWatchlistRepository(client *redis.Client) WatchlistRepository {
	return &redisWatchlistRepository{client: client}
}

func userKey(userID string) string {
	return fmt.Sprintf("watchlists:%s", userID)
}

func (r *redisWatchlistRepository) List(ctx context.Context, userID string) ([]entity.Watchlist, error) {
	values, err := r.client.HGetAll(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorageUnavailable, "failed to list watchlists", err)
	}

	watchlists := make([]entity.Watchlist, 0, len(values))
	for _, raw := range values {
		var wl entity.Watchlist
		if err := json.Unmarshal([]byte(raw), &wl); err != nil {
			continue
		}
		watchlists = append(watchlists, wl)
	}
	return watchlists, nil
}

func (r *redisWatchlistRepository) Get(ctx context.Context, userID, watchlistID string) (*entity.Watchlist, error) {
	raw, err := r.client.HGet(ctx, userKey(userID), watchlistID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "watchlist %q not found", watchlistID)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorageUnavailable, "failed to get watchlist", err)
	}

	var wl entity.Watchlist
	if err := json.Unmarshal([]byte(raw), &wl); err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorageUnavailable, "watchlist payload is corrupt", err)
	}
	return &wl, nil
}

func (r *redisWatchlistRepository) Upsert(ctx context.Context, userID string, watchlist *entity.Watchlist) error {
	raw, err := json.Marshal(watchlist)
	if err != nil {
		return apperrors.Wrap(apperrors.KindStorageUnavailable, "failed to encode watchlist", err)
	}
	if err := r.client.HSet(ctx, userKey(userID), watchlist.ID, raw).Err(); err != nil {
		return apperrors.Wrap(apperrors.KindStorageUnavailable, "failed to upsert watchlist", err)
	}
	return nil
}

func (r *redisWatchlistRepository) Delete(ctx context.Context, userID, watchlistID string) error {
	removed, err := r.client.HDel(ctx, userKey(userID), watchlistID).Result()
	if err != nil {
		return apperrors.Wrap(apperrors.KindStorageUnavailable, "failed to delete watchlist", err)
	}
	if removed == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "watchlist %q not found", watchlistID)
	}
	return nil
}
