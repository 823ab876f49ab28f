package repository

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"equity-insights/internal/api/config"
	"equity-insights/internal/entity"
	"equity-insights/pkg/apperrors"
	"equity-insights/pkg/logger"
	"equity-insights/pkg/respcache"
)

const (
	quoteCacheTTL  = 60 * time.Second
	dailyCacheTTL  = 5 * time.Minute
	smaCacheTTL    = 10 * time.Minute
	quoteTimeout   = 5 * time.Second
	seriesTimeout  = 10 * time.Second
	maxDailyPoints = 100
	maxSMAPoints   = 60
)

// AlphaVantageRepository provides quotes, daily price history and
// simple-moving-average series.
type AlphaVantageRepository interface {
	GetGlobalQuote(ctx context.Context, symbol string) (*entity.Quote, error)
	GetDailySeries(ctx context.Context, symbol string) ([]entity.PricePoint, error)
	GetSMA(ctx context.Context, symbol string, period int) (map[string]float64, error)
}

type alphaVantageRepository struct {
	client *upstreamClient
}

// NewAlphaVantageRepository creates an Alpha Vantage repository backed
// by the shared response cache.
func NewAlphaVantageRepository(cfg *config.Config, cache *respcache.Cache, log *logger.Logger) AlphaVantageRepository {
	baseURL := cfg.AlphaVantage.BaseURL
	if baseURL == "" {
		baseURL = "https://www.alphavantage.co"
	}
	return &alphaVantageRepository{
		client: newUpstreamClient(
			"alphavantage",
			baseURL,
			cfg.AlphaVantage.APIKey,
			"apikey",
			cfg.AlphaVantage.MaxRequestPerMinute,
			cfg.AlphaVantage.MaxRetries,
			cache,
			log,
		),
	}
}

func (r *alphaVantageRepository) GetGlobalQuote(ctx context.Context, symbol string) (*entity.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "symbol is required")
	}

	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)

	key := respcache.Key("/query", params, "apikey")
	_, wasCached := r.client.cache.Get(key)

	body, err := r.client.getJSON(ctx, "/query", params, quoteTimeout, quoteCacheTTL)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Quote map[string]string `json:"Global Quote"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnavailable, "failed to decode quote response", err)
	}
	if len(payload.Quote) == 0 {
		return nil, apperrors.Newf(apperrors.KindNotFound, "symbol %q not found", symbol)
	}

	quote := &entity.Quote{
		Symbol:        valueOrDefault(payload.Quote["01. symbol"], symbol),
		Price:         parseFloat(payload.Quote["05. price"]),
		ChangePercent: parsePercent(payload.Quote["10. change percent"]),
		Volume:        parseInt(payload.Quote["06. volume"]),
		Open:          parseOptionalFloat(payload.Quote["02. open"]),
		High:          parseOptionalFloat(payload.Quote["03. high"]),
		Low:           parseOptionalFloat(payload.Quote["04. low"]),
		PreviousClose: parseOptionalFloat(payload.Quote["08. previous close"]),
		Cached:        wasCached,
	}
	return quote, nil
}

func (r *alphaVantageRepository) GetDailySeries(ctx context.Context, symbol string) ([]entity.PricePoint, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "symbol is required")
	}

	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("outputsize", "compact")

	body, err := r.client.getJSON(ctx, "/query", params, seriesTimeout, dailyCacheTTL)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Series map[string]map[string]string `json:"Time Series (Daily)"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnavailable, "failed to decode daily series", err)
	}
	if len(payload.Series) == 0 {
		return nil, apperrors.Newf(apperrors.KindNotFound, "no daily series for symbol %q", symbol)
	}

	dates := make([]string, 0, len(payload.Series))
	for date := range payload.Series {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if len(dates) > maxDailyPoints {
		dates = dates[len(dates)-maxDailyPoints:]
	}

	series := make([]entity.PricePoint, 0, len(dates))
	for _, date := range dates {
		series = append(series, entity.PricePoint{
			Date:  date,
			Close: parseFloat(payload.Series[date]["4. close"]),
		})
	}
	return series, nil
}

func (r *alphaVantageRepository) GetSMA(ctx context.Context, symbol string, period int) (map[string]float64, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "symbol is required")
	}

	params := url.Values{}
	params.Set("function", "SMA")
	params.Set("symbol", symbol)
	params.Set("interval", "daily")
	params.Set("time_period", strconv.Itoa(period))
	params.Set("series_type", "close")

	body, err := r.client.getJSON(ctx, "/query", params, seriesTimeout, smaCacheTTL)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Analysis map[string]map[string]string `json:"Technical Analysis: SMA"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnavailable, "failed to decode SMA response", err)
	}

	dates := make([]string, 0, len(payload.Analysis))
	for date := range payload.Analysis {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if len(dates) > maxSMAPoints {
		dates = dates[len(dates)-maxSMAPoints:]
	}

	values := make(map[string]float64, len(dates))
	for _, date := range dates {
		values[date] = parseFloat(payload.Analysis[date]["SMA"])
	}
	return values, nil
}

func valueOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func parseFloat(value string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(value), 64)
	return f
}

func parseOptionalFloat(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseInt(value string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	return n
}

func parsePercent(value string) float64 {
	return parseFloat(strings.TrimSuffix(strings.TrimSpace(value), "%"))
}
