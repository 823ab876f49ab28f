package dto

// CreateWatchlistRequest creates a new watchlist from a name and a raw
// symbol list.
type CreateWatchlistRequest struct {
	Name    string   `json:"name"`
	Symbols []string `json:"symbols"`
}

// UpdateWatchlistRequest renames a watchlist and/or replaces its items.
// Nil fields leave the corresponding attribute unchanged.
type UpdateWatchlistRequest struct {
	Name    *string   `json:"name"`
	Symbols *[]string `json:"symbols"`
}
