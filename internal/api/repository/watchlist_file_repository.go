package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"equity-insights/internal/entity"
	"equity-insights/pkg/apperrors"
)

// fileWatchlistRepository stores all watchlists in one JSON file,
// keyed user -> watchlist id. Intended for local development.
type fileWatchlistRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileWatchlistRepository creates a file-backed watchlist repository.
func NewFileWatchlistRepository(path string) WatchlistRepository {
	return &fileWatchlistRepository{path: path}
}

func (r *fileWatchlistRepository) List(_ context.Context, userID string) ([]entity.Watchlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.readAll()
	if err != nil {
		return nil, err
	}

	watchlists := make([]entity.Watchlist, 0, len(data[userID]))
	for _, wl := range data[userID] {
		watchlists = append(watchlists, wl)
	}
	return watchlists, nil
}

func (r *fileWatchlistRepository) Get(_ context.Context, userID, watchlistID string) (*entity.Watchlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.readAll()
	if err != nil {
		return nil, err
	}

	wl, ok := data[userID][watchlistID]
	if !ok {
		return nil, apperrors.Newf(apperrors.KindNotFound, "watchlist %q not found", watchlistID)
	}
	return &wl, nil
}

func (r *fileWatchlistRepository) Upsert(_ context.Context, userID string, watchlist *entity.Watchlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.readAll()
	if err != nil {
		return err
	}

	if data[userID] == nil {
		data[userID] = map[string]entity.Watchlist{}
	}
	data[userID][watchlist.ID] = *watchlist

	return r.writeAll(data)
}

func (r *fileWatchlistRepository) Delete(_ context.Context, userID, watchlistID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.readAll()
	if err != nil {
		return err
	}

	if _, ok := data[userID][watchlistID]; !ok {
		return apperrors.Newf(apperrors.KindNotFound, "watchlist %q not found", watchlistID)
	}
	delete(data[userID], watchlistID)

	return r.writeAll(data)
}

func (r *fileWatchlistRepository) readAll() (map[string]map[string]entity.Watchlist, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]map[string]entity.Watchlist{}, nil
		}
		return nil, apperrors.Wrap(apperrors.KindStorageUnavailable, "failed to read watchlist file", err)
	}

	var data map[string]map[string]entity.Watchlist
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorageUnavailable, "watchlist file is corrupt", err)
	}
	if data == nil {
		data = map[string]map[string]entity.Watchlist{}
	}
	return data, nil
}

func (r *fileWatchlistRepository) writeAll(data map[string]map[string]entity.Watchlist) error {
	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.Wrap(apperrors.KindStorageUnavailable, "failed to create watchlist directory", err)
		}
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.KindStorageUnavailable, "failed to encode watchlists", err)
	}
	if err := os.WriteFile(r.path, raw, 0o644); err != nil {
		return apperrors.Wrap(apperrors.KindStorageUnavailable, "failed to write watchlist file", err)
	}
	return nil
}
