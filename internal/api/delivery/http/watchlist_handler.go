package http

import (
	"net/http"

	"equity-insights/internal/api/dto"
	"equity-insights/internal/api/service"
	"equity-insights/pkg/logger"

	"github.com/labstack/echo/v4"
)

// WatchlistHandler handles HTTP requests for watchlist CRUD.
type WatchlistHandler struct {
	watchlistService service.WatchlistService
	logger           *logger.Logger
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(watchlistService service.WatchlistService, logger *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService, logger: logger}
}

// RegisterRoutes registers the watchlist routes to the Echo group.
func (h *WatchlistHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListWatchlists)
	g.POST("", h.CreateWatchlist)
	g.GET("/:id", h.GetWatchlist)
	g.PUT("/:id", h.UpdateWatchlist)
	g.DELETE("/:id", h.DeleteWatchlist)
}

// ListWatchlists returns the caller's watchlist summaries.
func (h *WatchlistHandler) ListWatchlists(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return writeUnauthenticated(c)
	}

	summaries, err := h.watchlistService.List(c.Request().Context(), principal.UserID)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, summaries)
}

// CreateWatchlist creates a watchlist from a name and symbol list.
func (h *WatchlistHandler) CreateWatchlist(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return writeUnauthenticated(c)
	}

	var req dto.CreateWatchlistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	watchlist, err := h.watchlistService.Create(c.Request().Context(), principal.UserID, &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, watchlist)
}

// GetWatchlist returns one watchlist with its items.
func (h *WatchlistHandler) GetWatchlist(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return writeUnauthenticated(c)
	}

	watchlist, err := h.watchlistService.Get(c.Request().Context(), principal.UserID, c.Param("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, watchlist)
}

// UpdateWatchlist renames a watchlist and/or replaces its items.
func (h *WatchlistHandler) UpdateWatchlist(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return writeUnauthenticated(c)
	}

	var req dto.UpdateWatchlistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	watchlist, err := h.watchlistService.Update(c.Request().Context(), principal.UserID, c.Param("id"), &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, watchlist)
}

// DeleteWatchlist removes a watchlist.
func (h *WatchlistHandler) DeleteWatchlist(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return writeUnauthenticated(c)
	}

	if err := h.watchlistService.Delete(c.Request().Context(), principal.UserID, c.Param("id")); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
