package service

import (
	"context"
	"sync/atomic"
	"testing"

	"equity-insights/internal/api/dto"
	"equity-insights/internal/api/repository"
	"equity-insights/internal/entity"
	"equity-insights/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinnhubRepo struct {
	newsBySymbol map[string][]entity.NewsArticle
	newsErrs     map[string]error
	newsCalls    int32
	earnings     map[string][]entity.EarningsEntry
	earningsErrs map[string]error
	profiles     map[string]*repository.CompanyProfile
	profileErr   error
	econCalendar []map[string]interface{}
}

func (f *fakeFinnhubRepo) GetCompanyNews(_ context.Context, symbol, _, _ string) ([]entity.NewsArticle, error) {
	atomic.AddInt32(&f.newsCalls, 1)
	if err := f.newsErrs[symbol]; err != nil {
		return nil, err
	}
	return f.newsBySymbol[symbol], nil
}

func (f *fakeFinnhubRepo) GetEarningsCalendar(_ context.Context, symbol, _, _ string) ([]entity.EarningsEntry, error) {
	if err := f.earningsErrs[symbol]; err != nil {
		return nil, err
	}
	return f.earnings[symbol], nil
}

func (f *fakeFinnhubRepo) GetCompanyProfile(_ context.Context, symbol string) (*repository.CompanyProfile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if profile, ok := f.profiles[symbol]; ok {
		return profile, nil
	}
	return nil, apperrors.Newf(apperrors.KindNotFound, "symbol %q not found", symbol)
}

func (f *fakeFinnhubRepo) GetEconomicCalendar(_ context.Context, _, _ string) []map[string]interface{} {
	return f.econCalendar
}

func article(headline string, ts int64) entity.NewsArticle {
	return entity.NewsArticle{Headline: headline, Datetime: ts, Source: "Wire", URL: "https://example.com"}
}

func TestGetCompanyNewsFiltersSortsAndTruncates(t *testing.T) {
	items := []entity.NewsArticle{
		article("", 100),
		article("oldest", 1),
	}
	for i := int64(2); i <= 13; i++ {
		items = append(items, article("story", i))
	}

	repo := &fakeFinnhubRepo{newsBySymbol: map[string][]entity.NewsArticle{"AAPL": items}}
	svc := NewNewsService(repo, newTestLogger(t))

	resp, err := svc.GetCompanyNews(context.Background(), "aapl", 7)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", resp.Symbol)
	require.Len(t, resp.Articles, 10, "capped at 10")
	for _, a := range resp.Articles {
		assert.NotEmpty(t, a.Headline, "empty headlines are dropped")
	}
	for i := 1; i < len(resp.Articles); i++ {
		assert.GreaterOrEqual(t, resp.Articles[i-1].Datetime, resp.Articles[i].Datetime, "newest first")
	}
}

func TestGetCompanyNewsCaches(t *testing.T) {
	repo := &fakeFinnhubRepo{newsBySymbol: map[string][]entity.NewsArticle{"AAPL": {article("a", 1)}}}
	svc := NewNewsService(repo, newTestLogger(t))

	_, err := svc.GetCompanyNews(context.Background(), "AAPL", 7)
	require.NoError(t, err)
	_, err = svc.GetCompanyNews(context.Background(), "AAPL", 7)
	require.NoError(t, err)

	assert.EqualValues(t, 1, atomic.LoadInt32(&repo.newsCalls))

	// A different window is a different cache entry.
	_, err = svc.GetCompanyNews(context.Background(), "AAPL", 14)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&repo.newsCalls))
}

func TestGetWatchlistNewsDeduplicatesSymbols(t *testing.T) {
	repo := &fakeFinnhubRepo{newsBySymbol: map[string][]entity.NewsArticle{
		"AAPL": {article("apple", 10)},
		"MSFT": {article("msft", 20)},
	}}
	svc := NewNewsService(repo, newTestLogger(t))

	resp, err := svc.GetWatchlistNews(context.Background(), dto.WatchlistNewsRequest{
		Symbols: []string{"aapl", "AAPL", "msft"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "MSFT"}, resp.Symbols, "case-insensitive, first-seen order")
}

func TestGetWatchlistNewsRespectsCaps(t *testing.T) {
	many := make([]entity.NewsArticle, 0, 8)
	for i := int64(0); i < 8; i++ {
		many = append(many, article("bulk", 100+i))
	}
	repo := &fakeFinnhubRepo{newsBySymbol: map[string][]entity.NewsArticle{
		"AAPL": many,
		"MSFT": many,
	}}
	svc := NewNewsService(repo, newTestLogger(t))

	resp, err := svc.GetWatchlistNews(context.Background(), dto.WatchlistNewsRequest{
		Symbols:        []string{"AAPL", "MSFT"},
		PerSymbolLimit: 3,
		TotalLimit:     5,
	})
	require.NoError(t, err)

	assert.Len(t, resp.Articles, 5, "total cap wins over per-symbol sum")

	perSymbol := map[string]int{}
	for _, a := range resp.Articles {
		perSymbol[a.Symbol]++
		assert.NotEmpty(t, a.Symbol, "aggregated articles are tagged with their symbol")
	}
	for sym, count := range perSymbol {
		assert.LessOrEqual(t, count, 3, "per-symbol cap for %s", sym)
	}
}

func TestGetWatchlistNewsSymbolFilter(t *testing.T) {
	repo := &fakeFinnhubRepo{newsBySymbol: map[string][]entity.NewsArticle{
		"AAPL": {article("apple", 10)},
		"MSFT": {article("msft", 20)},
	}}
	svc := NewNewsService(repo, newTestLogger(t))

	resp, err := svc.GetWatchlistNews(context.Background(), dto.WatchlistNewsRequest{
		Symbols:      []string{"AAPL", "MSFT"},
		SymbolFilter: "msft",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"MSFT"}, resp.Symbols)
	require.Len(t, resp.Articles, 1)
	assert.Equal(t, "msft", resp.Articles[0].Headline)
}

func TestGetWatchlistNewsMaxSymbols(t *testing.T) {
	repo := &fakeFinnhubRepo{newsBySymbol: map[string][]entity.NewsArticle{}}
	svc := NewNewsService(repo, newTestLogger(t))

	resp, err := svc.GetWatchlistNews(context.Background(), dto.WatchlistNewsRequest{
		Symbols:    []string{"A", "B", "C", "D"},
		MaxSymbols: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, resp.Symbols)
}

func TestGetWatchlistNewsVersionTokenInvalidates(t *testing.T) {
	repo := &fakeFinnhubRepo{newsBySymbol: map[string][]entity.NewsArticle{
		"AAPL": {article("apple", 10)},
	}}
	svc := NewNewsService(repo, newTestLogger(t))

	req := dto.WatchlistNewsRequest{
		Symbols:      []string{"AAPL"},
		CacheVersion: "2024-01-01T00:00:00Z",
	}

	first, err := svc.GetWatchlistNews(context.Background(), req)
	require.NoError(t, err)

	again, err := svc.GetWatchlistNews(context.Background(), req)
	require.NoError(t, err)
	assert.Same(t, first, again, "identical request inside the TTL is a cache hit")

	req.CacheVersion = "2024-01-02T00:00:00Z"
	fresh, err := svc.GetWatchlistNews(context.Background(), req)
	require.NoError(t, err)
	assert.NotSame(t, first, fresh, "a new version token must bypass the cached aggregate")
}

func TestGetWatchlistNewsResponseCompleteBeforeCaching(t *testing.T) {
	repo := &fakeFinnhubRepo{newsBySymbol: map[string][]entity.NewsArticle{
		"AAPL": {article("apple", 10)},
	}}
	svc := NewNewsService(repo, newTestLogger(t))

	req := dto.WatchlistNewsRequest{
		WatchlistID:  "wl-1",
		Symbols:      []string{"AAPL"},
		CacheVersion: "2024-01-01T00:00:00Z",
	}

	first, err := svc.GetWatchlistNews(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "wl-1", first.WatchlistID)

	// The cache-hit response is the shared cached object; the watchlist
	// id must already be on it so no caller has a reason to write to it.
	again, err := svc.GetWatchlistNews(context.Background(), req)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, "wl-1", again.WatchlistID)
}

func TestGetWatchlistNewsDistinctWatchlistsDoNotShareEntries(t *testing.T) {
	repo := &fakeFinnhubRepo{newsBySymbol: map[string][]entity.NewsArticle{
		"AAPL": {article("apple", 10)},
	}}
	svc := NewNewsService(repo, newTestLogger(t))

	req := dto.WatchlistNewsRequest{
		WatchlistID:  "wl-1",
		Symbols:      []string{"AAPL"},
		CacheVersion: "2024-01-01T00:00:00Z",
	}
	first, err := svc.GetWatchlistNews(context.Background(), req)
	require.NoError(t, err)

	// Same symbols and version under another watchlist id must not
	// surface the first watchlist's cached response.
	req.WatchlistID = "wl-2"
	other, err := svc.GetWatchlistNews(context.Background(), req)
	require.NoError(t, err)

	assert.NotSame(t, first, other)
	assert.Equal(t, "wl-1", first.WatchlistID)
	assert.Equal(t, "wl-2", other.WatchlistID)
}

func TestGetWatchlistNewsPerSymbolFailureDegrades(t *testing.T) {
	repo := &fakeFinnhubRepo{
		newsBySymbol: map[string][]entity.NewsArticle{"MSFT": {article("msft", 20)}},
		newsErrs:     map[string]error{"AAPL": apperrors.New(apperrors.KindUnavailable, "down")},
	}
	svc := NewNewsService(repo, newTestLogger(t))

	resp, err := svc.GetWatchlistNews(context.Background(), dto.WatchlistNewsRequest{
		Symbols: []string{"AAPL", "MSFT"},
	})
	require.NoError(t, err, "one failing symbol must not abort the aggregate")
	require.Len(t, resp.Articles, 1)
	assert.Equal(t, "MSFT", resp.Articles[0].Symbol)
}
