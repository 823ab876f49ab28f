package dto

import "equity-insights/internal/entity"

// CompanyNewsResponse carries recent news for one symbol.
type CompanyNewsResponse struct {
	Symbol   string               `json:"symbol"`
	Days     int                  `json:"days"`
	Articles []entity.NewsArticle `json:"articles"`
}

// WatchlistNewsRequest are the resolved inputs of a watchlist news
// aggregation. CacheVersion is the watchlist's updated timestamp; it is
// part of the aggregation cache key so a watchlist mutation invalidates
// previously cached results.
type WatchlistNewsRequest struct {
	WatchlistID    string
	Symbols        []string
	Days           int
	PerSymbolLimit int
	TotalLimit     int
	MaxSymbols     int
	SymbolFilter   string
	CacheVersion   string
}

// WatchlistNewsResponse is the merged, bounded news feed for a watchlist.
type WatchlistNewsResponse struct {
	WatchlistID string               `json:"watchlist_id,omitempty"`
	Symbols     []string             `json:"symbols"`
	Days        int                  `json:"days"`
	Articles    []entity.NewsArticle `json:"articles"`
}
