package entity

// Quote is a per-request snapshot of a symbol's trading state.
type Quote struct {
	Symbol        string   `json:"symbol"`
	Price         float64  `json:"price"`
	ChangePercent float64  `json:"change_percent"`
	Volume        int64    `json:"volume"`
	Open          *float64 `json:"open,omitempty"`
	High          *float64 `json:"high,omitempty"`
	Low           *float64 `json:"low,omitempty"`
	PreviousClose *float64 `json:"previous_close,omitempty"`
	Cached        bool     `json:"cached"`
}

// PricePoint is one calendar day of a daily price series, optionally
// annotated with simple-moving-average values for that day.
type PricePoint struct {
	Date   string   `json:"date"`
	Close  float64  `json:"close"`
	SMA50  *float64 `json:"sma50,omitempty"`
	SMA200 *float64 `json:"sma200,omitempty"`
}
