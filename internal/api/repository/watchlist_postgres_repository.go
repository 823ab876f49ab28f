package repository

import (
	"context"
	"encoding/json"
	"errors"

	"equity-insights/internal/entity"
	"equity-insights/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// watchlistRow is the table-storage shape of a watchlist: the partition
// key is the user, the row key the watchlist id, and the full document
// lives in a JSON payload column.
type watchlistRow struct {
	UserID     string         `gorm:"column:user_id;primaryKey"`
	ID         string         `gorm:"column:id;primaryKey"`
	Name       string         `gorm:"column:name"`
	Payload    datatypes.JSON `gorm:"column:payload"`
	UpdatedUTC string         `gorm:"column:updated_utc"`
}

func (watchlistRow) TableName() string {
	return "watchlists"
}

type postgresWatchlistRepository struct {
	db *gorm.DB
}

// NewPostgresWatchlistRepository creates a PostgreSQL-backed watchlist
// repository.
func NewPostgresWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &postgresWatchlistRepository{db: db}
}

func (r *postgresWatchlistRepository) List(ctx context.Context, userID string) ([]entity.Watchlist, error) {
	var rows []watchlistRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorageUnavailable, "failed to list watchlists", err)
	}

	watchlists := make([]entity.Watchlist, 0, len(rows))
	for _, row := range rows {
		var wl entity.Watchlist
		if err := json.Unmarshal(row.Payload, &wl); err != nil {
			continue
		}
		watchlists = append(watchlists, wl)
	}
	return watchlists, nil
}

func (r *postgresWatchlistRepository) Get(ctx context.Context, userID, watchlistID string) (*entity.Watchlist, error) {
	var row watchlistRow
	err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, watchlistID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "watchlist %q not found", watchlistID)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorageUnavailable, "failed to get watchlist", err)
	}

	var wl entity.Watchlist
	if err := json.Unmarshal(row.Payload, &wl); err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorageUnavailable, "watchlist payload is corrupt", err)
	}
	return &wl, nil
}

func (r *postgresWatchlistRepository) Upsert(ctx context.Context, userID string, watchlist *entity.Watchlist) error {
	payload, err := json.Marshal(watchlist)
	if err != nil {
		return apperrors.Wrap(apperrors.KindStorageUnavailable, "failed to encode watchlist", err)
	}

	row := watchlistRow{
		UserID:     userID,
		ID:         watchlist.ID,
		Name:       watchlist.Name,
		Payload:    payload,
		UpdatedUTC: watchlist.UpdatedUTC,
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "payload", "updated_utc"}),
	}).Create(&row).Error
	if err != nil {
		return apperrors.Wrap(apperrors.KindStorageUnavailable, "failed to upsert watchlist", err)
	}
	return nil
}

func (r *postgresWatchlistRepository) Delete(ctx context.Context, userID, watchlistID string) error {
	result := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, watchlistID).Delete(&watchlistRow{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.KindStorageUnavailable, "failed to delete watchlist", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "watchlist %q not found", watchlistID)
	}
	return nil
}
