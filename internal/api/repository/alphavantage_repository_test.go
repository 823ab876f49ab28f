package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"equity-insights/internal/api/config"
	"equity-insights/pkg/apperrors"
	"equity-insights/pkg/respcache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAVRepo(t *testing.T, handler http.HandlerFunc) AlphaVantageRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.AlphaVantage.BaseURL = server.URL
	cfg.AlphaVantage.APIKey = "test-key"
	cfg.AlphaVantage.MaxRequestPerMinute = 6000

	return NewAlphaVantageRepository(cfg, respcache.New(), newTestLogger(t))
}

func TestGetGlobalQuoteParsesPayload(t *testing.T) {
	repo := newAVRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		_, _ = w.Write([]byte(`{
			"Global Quote": {
				"01. symbol": "MSFT",
				"02. open": "420.00",
				"03. high": "425.50",
				"04. low": "418.10",
				"05. price": "423.25",
				"06. volume": "18273645",
				"08. previous close": "419.00",
				"10. change percent": "1.0143%"
			}
		}`))
	})

	quote, err := repo.GetGlobalQuote(context.Background(), "msft")
	require.NoError(t, err)

	assert.Equal(t, "MSFT", quote.Symbol)
	assert.Equal(t, 423.25, quote.Price)
	assert.InDelta(t, 1.0143, quote.ChangePercent, 1e-9)
	assert.EqualValues(t, 18273645, quote.Volume)
	require.NotNil(t, quote.Open)
	assert.Equal(t, 420.00, *quote.Open)
	require.NotNil(t, quote.PreviousClose)
	assert.Equal(t, 419.00, *quote.PreviousClose)
	assert.False(t, quote.Cached)
}

func TestGetGlobalQuoteUnknownSymbol(t *testing.T) {
	repo := newAVRepo(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Global Quote": {}}`))
	})

	_, err := repo.GetGlobalQuote(context.Background(), "NOSUCH")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestGetGlobalQuoteSecondCallMarkedCached(t *testing.T) {
	repo := newAVRepo(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Global Quote": {"05. price": "100.0"}}`))
	})

	first, err := repo.GetGlobalQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := repo.GetGlobalQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, second.Cached)
}

func TestGetDailySeriesAscendingAndBounded(t *testing.T) {
	series := map[string]map[string]string{}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		series[date] = map[string]string{"4. close": fmt.Sprintf("%d.5", 100+i)}
	}

	repo := newAVRepo(t, func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]interface{}{"Time Series (Daily)": series}
		_ = json.NewEncoder(w).Encode(payload)
	})

	points, err := repo.GetDailySeries(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Len(t, points, 100, "series is bounded to the most recent 100 days")
	for i := 1; i < len(points); i++ {
		assert.Less(t, points[i-1].Date, points[i].Date, "series must ascend by date")
	}
	assert.Equal(t, "2024-04-29", points[len(points)-1].Date)
}

func TestGetSMABoundedToRecentPoints(t *testing.T) {
	analysis := map[string]map[string]string{}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 80; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		analysis[date] = map[string]string{"SMA": "150.0"}
	}

	repo := newAVRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SMA", r.URL.Query().Get("function"))
		assert.Equal(t, "50", r.URL.Query().Get("time_period"))
		payload := map[string]interface{}{"Technical Analysis: SMA": analysis}
		_ = json.NewEncoder(w).Encode(payload)
	})

	values, err := repo.GetSMA(context.Background(), "AAPL", 50)
	require.NoError(t, err)
	assert.Len(t, values, 60)

	// Oldest dates are the ones dropped.
	_, ok := values["2024-01-01"]
	assert.False(t, ok)
	_, ok = values["2024-03-20"]
	assert.True(t, ok)
}

func TestGetGlobalQuoteEmptySymbol(t *testing.T) {
	repo := newAVRepo(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := repo.GetGlobalQuote(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}
