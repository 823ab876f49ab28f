package entity

// WatchlistItem is one symbol on a watchlist. Country, Industry and
// Sector are best-effort enrichment from the company profile; they stay
// empty when the lookup fails.
type WatchlistItem struct {
	Symbol   string `json:"symbol"`
	Country  string `json:"country,omitempty"`
	Industry string `json:"industry,omitempty"`
	Sector   string `json:"sector,omitempty"`
}

// Watchlist is a user-owned list of symbols. UpdatedUTC doubles as a
// version token: dependent aggregation caches include it in their keys
// so a mutation invalidates them without waiting for TTL expiry.
type Watchlist struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Items      []WatchlistItem `json:"items"`
	CreatedUTC string          `json:"created_utc"`
	UpdatedUTC string          `json:"updated_utc"`
}

// WatchlistSummary is the list-view projection of a watchlist.
type WatchlistSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ItemsCount int      `json:"items_count"`
	Countries  []string `json:"countries"`
	Sectors    []string `json:"sectors"`
}

// Symbols returns the symbols of the watchlist items in order.
func (w *Watchlist) Symbols() []string {
	symbols := make([]string, 0, len(w.Items))
	for _, item := range w.Items {
		symbols = append(symbols, item.Symbol)
	}
	return symbols
}
