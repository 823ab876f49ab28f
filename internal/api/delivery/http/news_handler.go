package http

import (
	"net/http"
	"strconv"

	"equity-insights/internal/api/dto"
	"equity-insights/internal/api/service"
	"equity-insights/pkg/logger"

	"github.com/labstack/echo/v4"
)

// NewsHandler handles HTTP requests for company and watchlist news.
type NewsHandler struct {
	newsService      service.NewsService
	watchlistService service.WatchlistService
	logger           *logger.Logger
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(newsService service.NewsService, watchlistService service.WatchlistService, logger *logger.Logger) *NewsHandler {
	return &NewsHandler{newsService: newsService, watchlistService: watchlistService, logger: logger}
}

// RegisterRoutes registers the news routes to the Echo group.
func (h *NewsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/news/:symbol", h.GetCompanyNews)
}

// RegisterWatchlistRoutes registers the watchlist-scoped news route.
func (h *NewsHandler) RegisterWatchlistRoutes(g *echo.Group) {
	g.GET("/:id/news", h.GetWatchlistNews)
}

// GetCompanyNews returns recent news for one symbol.
func (h *NewsHandler) GetCompanyNews(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please provide a stock symbol"})
	}

	days := intQueryParam(c, "days", 0)

	news, err := h.newsService.GetCompanyNews(c.Request().Context(), symbol, days)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, news)
}

// GetWatchlistNews returns the merged news feed for a watchlist. The
// watchlist's updated timestamp feeds the aggregation cache key so a
// mutation invalidates previously cached feeds.
func (h *NewsHandler) GetWatchlistNews(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return writeUnauthenticated(c)
	}

	watchlist, err := h.watchlistService.Get(c.Request().Context(), principal.UserID, c.Param("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}

	req := dto.WatchlistNewsRequest{
		WatchlistID:    watchlist.ID,
		Symbols:        watchlist.Symbols(),
		Days:           intQueryParam(c, "days", 0),
		PerSymbolLimit: intQueryParam(c, "perSymbol", 0),
		TotalLimit:     intQueryParam(c, "total", 0),
		MaxSymbols:     intQueryParam(c, "maxSymbols", 0),
		SymbolFilter:   c.QueryParam("symbol"),
		CacheVersion:   watchlist.UpdatedUTC,
	}

	news, err := h.newsService.GetWatchlistNews(c.Request().Context(), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, news)
}

// intQueryParam parses an optional integer query parameter, returning
// fallback when absent or malformed.
func intQueryParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
