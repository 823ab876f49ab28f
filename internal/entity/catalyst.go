package entity

// CatalystEvent is a single upcoming market event, either a per-symbol
// earnings entry or a curated macro event. Macro event IDs are derived
// deterministically from the event's identity so repeated requests
// return the same ID for the same logical event.
type CatalystEvent struct {
	ID      string                 `json:"id"`
	Type    string                 `json:"type"`
	Title   string                 `json:"title"`
	UTCTime string                 `json:"utc_time"`
	Date    string                 `json:"date"`
	Symbol  string                 `json:"symbol,omitempty"`
	Country string                 `json:"country,omitempty"`
	Impact  string                 `json:"impact,omitempty"`
	Sectors []string               `json:"sectors"`
	Source  string                 `json:"source"`
	URL     string                 `json:"url,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// EarningsEntry is one row of the provider earnings calendar.
type EarningsEntry struct {
	Date            string   `json:"date"`
	Symbol          string   `json:"symbol"`
	Hour            string   `json:"hour"`
	Quarter         int      `json:"quarter"`
	Year            int      `json:"year"`
	EPSEstimate     *float64 `json:"epsEstimate"`
	EPSActual       *float64 `json:"epsActual"`
	RevenueEstimate *float64 `json:"revenueEstimate"`
	RevenueActual   *float64 `json:"revenueActual"`
}
