package http

import (
	"net/http"

	"equity-insights/internal/api/service"
	"equity-insights/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StockHandler handles HTTP requests for quotes and price history.
type StockHandler struct {
	quoteService service.QuoteService
	logger       *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(quoteService service.QuoteService, logger *logger.Logger) *StockHandler {
	return &StockHandler{quoteService: quoteService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/quote/:symbol", h.GetQuote)
	g.GET("/sma/:symbol", h.GetSMA)
	g.GET("/history/:symbol", h.GetHistory)
}

// GetQuote returns the current quote snapshot for a symbol.
func (h *StockHandler) GetQuote(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please provide a stock symbol"})
	}

	quote, err := h.quoteService.GetQuote(c.Request().Context(), symbol)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, quote)
}

// GetSMA returns the 50 and 200 day simple moving average series.
func (h *StockHandler) GetSMA(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please provide a stock symbol"})
	}

	sma, err := h.quoteService.GetSMASeries(c.Request().Context(), symbol)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, sma)
}

// GetHistory returns the chart-ready daily series with SMA overlays.
func (h *StockHandler) GetHistory(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please provide a stock symbol"})
	}

	chart, err := h.quoteService.GetFullChartData(c.Request().Context(), symbol)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, chart)
}
