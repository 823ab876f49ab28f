package http

import (
	"net/http"
	"time"

	"equity-insights/internal/api/service"
	"equity-insights/pkg/logger"
	"equity-insights/pkg/utils"

	"github.com/labstack/echo/v4"
)

const defaultCatalystsWindowDays = 14

// CatalystsHandler handles HTTP requests for the catalysts calendar.
type CatalystsHandler struct {
	catalystsService service.CatalystsService
	logger           *logger.Logger
}

// NewCatalystsHandler creates a new CatalystsHandler.
func NewCatalystsHandler(catalystsService service.CatalystsService, logger *logger.Logger) *CatalystsHandler {
	return &CatalystsHandler{catalystsService: catalystsService, logger: logger}
}

// RegisterRoutes registers the catalysts routes to the Echo group.
func (h *CatalystsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/catalysts", h.GetCatalysts)
}

// GetCatalysts returns the merged earnings + macro event calendar. When
// watchlistId is supplied the request must be authenticated and the
// watchlist scopes the earnings fetches and macro country filter.
func (h *CatalystsHandler) GetCatalysts(c echo.Context) error {
	now := time.Now()
	fromDate := c.QueryParam("from")
	toDate := c.QueryParam("to")
	if fromDate == "" {
		fromDate = utils.FormatDate(now)
	}
	if toDate == "" {
		toDate = utils.FormatDate(now.AddDate(0, 0, defaultCatalystsWindowDays))
	}
	if _, err := utils.ParseDate(fromDate); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid from date, expected YYYY-MM-DD"})
	}
	if _, err := utils.ParseDate(toDate); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid to date, expected YYYY-MM-DD"})
	}

	watchlistID := c.QueryParam("watchlistId")
	userID := ""
	if watchlistID != "" {
		principal, ok := principalFrom(c)
		if !ok {
			return writeUnauthenticated(c)
		}
		userID = principal.UserID
	}

	catalysts, err := h.catalystsService.GetCatalysts(c.Request().Context(), fromDate, toDate, userID, watchlistID)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, catalysts)
}
