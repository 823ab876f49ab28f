package repository

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"equity-insights/internal/api/config"
	"equity-insights/internal/entity"
	"equity-insights/pkg/apperrors"
	"equity-insights/pkg/logger"
	"equity-insights/pkg/respcache"
)

const (
	finnhubDefaultTTL = 60 * time.Second
	profileCacheTTL   = 24 * time.Hour
	newsTimeout       = 10 * time.Second
	profileTimeout    = 10 * time.Second
	calendarTimeout   = 15 * time.Second
)

// CompanyProfile is the subset of the Finnhub company profile used for
// watchlist enrichment.
type CompanyProfile struct {
	Country  string `json:"country"`
	Name     string `json:"name"`
	Industry string `json:"finnhubIndustry"`
}

// FinnhubRepository provides company news, earnings calendar entries
// and company profiles.
type FinnhubRepository interface {
	GetCompanyNews(ctx context.Context, symbol, fromDate, toDate string) ([]entity.NewsArticle, error)
	GetEarningsCalendar(ctx context.Context, symbol, fromDate, toDate string) ([]entity.EarningsEntry, error)
	GetCompanyProfile(ctx context.Context, symbol string) (*CompanyProfile, error)
	GetEconomicCalendar(ctx context.Context, fromDate, toDate string) []map[string]interface{}
}

type finnhubRepository struct {
	client *upstreamClient
	log    *logger.Logger
}

// NewFinnhubRepository creates a Finnhub repository backed by the
// shared response cache.
func NewFinnhubRepository(cfg *config.Config, cache *respcache.Cache, log *logger.Logger) FinnhubRepository {
	baseURL := cfg.Finnhub.BaseURL
	if baseURL == "" {
		baseURL = "https://finnhub.io/api/v1"
	}
	return &finnhubRepository{
		client: newUpstreamClient(
			"finnhub",
			baseURL,
			cfg.Finnhub.APIKey,
			"token",
			cfg.Finnhub.MaxRequestPerMinute,
			cfg.Finnhub.MaxRetries,
			cache,
			log,
		),
		log: log,
	}
}

func (r *finnhubRepository) GetCompanyNews(ctx context.Context, symbol, fromDate, toDate string) ([]entity.NewsArticle, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "symbol is required")
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", fromDate)
	params.Set("to", toDate)

	body, err := r.client.getJSON(ctx, "/company-news", params, newsTimeout, finnhubDefaultTTL)
	if err != nil {
		return nil, err
	}

	var articles []entity.NewsArticle
	if err := json.Unmarshal(body, &articles); err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnavailable, "failed to decode company news", err)
	}
	return articles, nil
}

func (r *finnhubRepository) GetEarningsCalendar(ctx context.Context, symbol, fromDate, toDate string) ([]entity.EarningsEntry, error) {
	params := url.Values{}
	params.Set("from", fromDate)
	params.Set("to", toDate)
	params.Set("international", "true")
	if symbol != "" {
		params.Set("symbol", strings.ToUpper(strings.TrimSpace(symbol)))
	}

	body, err := r.client.getJSON(ctx, "/calendar/earnings", params, calendarTimeout, finnhubDefaultTTL)
	if err != nil {
		return nil, err
	}

	var payload struct {
		EarningsCalendar []entity.EarningsEntry `json:"earningsCalendar"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnavailable, "failed to decode earnings calendar", err)
	}
	return payload.EarningsCalendar, nil
}

func (r *finnhubRepository) GetCompanyProfile(ctx context.Context, symbol string) (*CompanyProfile, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "symbol is required")
	}

	params := url.Values{}
	params.Set("symbol", symbol)

	body, err := r.client.getJSON(ctx, "/stock/profile2", params, profileTimeout, profileCacheTTL)
	if err != nil {
		return nil, err
	}

	// Finnhub returns an empty object for unknown symbols.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnavailable, "failed to decode company profile", err)
	}
	if len(raw) == 0 {
		return nil, apperrors.Newf(apperrors.KindNotFound, "symbol %q not found", symbol)
	}

	var profile CompanyProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnavailable, "failed to decode company profile", err)
	}
	return &profile, nil
}

// GetEconomicCalendar is best-effort: the endpoint requires a paid
// entitlement on most plans, so every failure degrades to an empty
// result instead of propagating.
func (r *finnhubRepository) GetEconomicCalendar(ctx context.Context, fromDate, toDate string) []map[string]interface{} {
	params := url.Values{}
	params.Set("from", fromDate)
	params.Set("to", toDate)

	body, err := r.client.getJSON(ctx, "/calendar/economic", params, calendarTimeout, finnhubDefaultTTL)
	if err != nil {
		r.log.InfoContext(ctx, "Economic calendar not available", logger.ErrorField(err))
		return nil
	}

	var payload struct {
		EconomicCalendar []map[string]interface{} `json:"economicCalendar"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		r.log.WarnContext(ctx, "Failed to decode economic calendar", logger.ErrorField(err))
		return nil
	}
	return payload.EconomicCalendar
}
