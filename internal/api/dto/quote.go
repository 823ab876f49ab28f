package dto

import "equity-insights/internal/entity"

// SMAResponse carries the raw SMA series for a symbol plus the most
// recent value of each series.
type SMAResponse struct {
	Symbol       string             `json:"symbol"`
	SMA50        map[string]float64 `json:"sma50"`
	SMA200       map[string]float64 `json:"sma200"`
	LatestSMA50  *float64           `json:"latest_sma50,omitempty"`
	LatestSMA200 *float64           `json:"latest_sma200,omitempty"`
}

// ChartDataResponse is the chart-ready join of the daily price series
// with the SMA series.
type ChartDataResponse struct {
	Symbol       string              `json:"symbol"`
	Series       []entity.PricePoint `json:"series"`
	LatestSMA50  *float64            `json:"latest_sma50,omitempty"`
	LatestSMA200 *float64            `json:"latest_sma200,omitempty"`
}
