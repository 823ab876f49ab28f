package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"equity-insights/internal/api/dto"
	"equity-insights/internal/api/repository"
	"equity-insights/internal/entity"
	"equity-insights/pkg/logger"
	"equity-insights/pkg/utils"

	"github.com/patrickmn/go-cache"
)

const (
	companyNewsLimit  = 10
	newsAggCacheTTL   = 300 * time.Second
	defaultNewsDays   = 7
	defaultPerSymbol  = 5
	defaultTotalLimit = 20
	defaultMaxSymbols = 10
)

// NewsService aggregates provider news per symbol and across a
// watchlist's symbols.
type NewsService interface {
	GetCompanyNews(ctx context.Context, symbol string, days int) (*dto.CompanyNewsResponse, error)
	GetWatchlistNews(ctx context.Context, req dto.WatchlistNewsRequest) (*dto.WatchlistNewsResponse, error)
}

// NewNewsService creates a new news service with its own
// aggregation-level cache.
func NewNewsService(finnhubRepo repository.FinnhubRepository, log *logger.Logger) NewsService {
	return &newsService{
		finnhubRepo: finnhubRepo,
		logger:      log,
		aggCache:    cache.New(newsAggCacheTTL, 10*time.Minute),
	}
}

type newsService struct {
	finnhubRepo repository.FinnhubRepository
	logger      *logger.Logger
	aggCache    *cache.Cache
}

// GetCompanyNews returns up to 10 recent articles with non-empty
// headlines for one symbol, newest first. Results are cached for five
// minutes keyed by (symbol, days).
func (s *newsService) GetCompanyNews(ctx context.Context, symbol string, days int) (*dto.CompanyNewsResponse, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if days <= 0 {
		days = defaultNewsDays
	}

	cacheKey := fmt.Sprintf("company-news:%s:%d", symbol, days)
	if cached, ok := s.aggCache.Get(cacheKey); ok {
		if resp, ok := cached.(*dto.CompanyNewsResponse); ok {
			return resp, nil
		}
	}

	now := time.Now()
	articles, err := s.finnhubRepo.GetCompanyNews(ctx, symbol,
		utils.FormatDate(now.AddDate(0, 0, -days)), utils.FormatDate(now))
	if err != nil {
		return nil, err
	}

	filtered := make([]entity.NewsArticle, 0, len(articles))
	for _, article := range articles {
		if article.Headline == "" {
			continue
		}
		filtered = append(filtered, article)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Datetime > filtered[j].Datetime
	})
	if len(filtered) > companyNewsLimit {
		filtered = filtered[:companyNewsLimit]
	}

	resp := &dto.CompanyNewsResponse{
		Symbol:   symbol,
		Days:     days,
		Articles: filtered,
	}
	s.aggCache.Set(cacheKey, resp, newsAggCacheTTL)

	return resp, nil
}

// GetWatchlistNews merges per-symbol news across a watchlist into one
// bounded feed. Per-symbol fetches go through GetCompanyNews (and its
// cache); the merged result has its own cache whose key includes the
// watchlist version token so any mutation invalidates it immediately.
func (s *newsService) GetWatchlistNews(ctx context.Context, req dto.WatchlistNewsRequest) (*dto.WatchlistNewsResponse, error) {
	if req.Days <= 0 {
		req.Days = defaultNewsDays
	}
	if req.PerSymbolLimit <= 0 {
		req.PerSymbolLimit = defaultPerSymbol
	}
	if req.TotalLimit <= 0 {
		req.TotalLimit = defaultTotalLimit
	}
	if req.MaxSymbols <= 0 {
		req.MaxSymbols = defaultMaxSymbols
	}

	symbols := dedupeSymbols(req.Symbols)
	if req.SymbolFilter != "" {
		filter := strings.ToUpper(strings.TrimSpace(req.SymbolFilter))
		narrowed := symbols[:0]
		for _, sym := range symbols {
			if sym == filter {
				narrowed = append(narrowed, sym)
			}
		}
		symbols = narrowed
	}
	if len(symbols) > req.MaxSymbols {
		symbols = symbols[:req.MaxSymbols]
	}

	cacheKey := fmt.Sprintf("watchlist-news:%s:%s:%d:%d:%d:%s",
		req.WatchlistID, strings.Join(symbols, ","), req.Days, req.PerSymbolLimit, req.TotalLimit, req.CacheVersion)
	if cached, ok := s.aggCache.Get(cacheKey); ok {
		if resp, ok := cached.(*dto.WatchlistNewsResponse); ok {
			return resp, nil
		}
	}

	merged := make([]entity.NewsArticle, 0, len(symbols)*req.PerSymbolLimit)
	for _, sym := range symbols {
		perSymbol, err := s.GetCompanyNews(ctx, sym, req.Days)
		if err != nil {
			// One failing symbol must not abort the whole feed.
			s.logger.WarnContext(ctx, "Watchlist news fetch failed for symbol",
				logger.StringField("symbol", sym), logger.ErrorField(err))
			continue
		}

		articles := perSymbol.Articles
		if len(articles) > req.PerSymbolLimit {
			articles = articles[:req.PerSymbolLimit]
		}
		for _, article := range articles {
			article.Symbol = sym
			merged = append(merged, article)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Datetime > merged[j].Datetime
	})
	if len(merged) > req.TotalLimit {
		merged = merged[:req.TotalLimit]
	}

	// Fully built before caching: responses handed out on cache hits
	// are shared across requests and must never be written afterwards.
	resp := &dto.WatchlistNewsResponse{
		WatchlistID: req.WatchlistID,
		Symbols:     symbols,
		Days:        req.Days,
		Articles:    merged,
	}
	s.aggCache.Set(cacheKey, resp, newsAggCacheTTL)

	return resp, nil
}

// dedupeSymbols normalizes symbols to upper case and removes
// duplicates, keeping first-seen order.
func dedupeSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, raw := range symbols {
		sym := strings.ToUpper(strings.TrimSpace(raw))
		if sym == "" {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}
