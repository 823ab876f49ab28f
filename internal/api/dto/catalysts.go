package dto

import "equity-insights/internal/entity"

// CatalystsResponse is the merged earnings + macro event list for a
// date range, with the watchlist-derived facets and a per-provider
// status map so callers can tell partial degradation from hard failure.
type CatalystsResponse struct {
	WatchlistID string                 `json:"watchlist_id,omitempty"`
	FromDate    string                 `json:"from_date"`
	ToDate      string                 `json:"to_date"`
	Countries   []string               `json:"countries"`
	Sectors     []string               `json:"sectors"`
	Events      []entity.CatalystEvent `json:"events"`
	Providers   map[string]string      `json:"providers"`
}
