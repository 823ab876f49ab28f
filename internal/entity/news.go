package entity

// NewsArticle is a single provider news item. Datetime is epoch seconds.
// Symbol is set only when the article was fetched as part of a
// multi-symbol aggregation, to record which symbol it came from.
type NewsArticle struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
	Source   string `json:"source"`
	Datetime int64  `json:"datetime"`
	Image    string `json:"image"`
	Symbol   string `json:"symbol,omitempty"`
}
