package service

import (
	"context"

	"equity-insights/internal/api/dto"
	"equity-insights/internal/api/repository"
	"equity-insights/internal/entity"
	"equity-insights/pkg/logger"
)

// QuoteService serves quotes, SMA series and chart-ready price history.
type QuoteService interface {
	GetQuote(ctx context.Context, symbol string) (*entity.Quote, error)
	GetSMASeries(ctx context.Context, symbol string) (*dto.SMAResponse, error)
	GetFullChartData(ctx context.Context, symbol string) (*dto.ChartDataResponse, error)
}

// NewQuoteService creates a new quote service.
func NewQuoteService(avRepo repository.AlphaVantageRepository, log *logger.Logger) QuoteService {
	return &quoteService{avRepo: avRepo, logger: log}
}

type quoteService struct {
	avRepo repository.AlphaVantageRepository
	logger *logger.Logger
}

func (s *quoteService) GetQuote(ctx context.Context, symbol string) (*entity.Quote, error) {
	return s.avRepo.GetGlobalQuote(ctx, symbol)
}

func (s *quoteService) GetSMASeries(ctx context.Context, symbol string) (*dto.SMAResponse, error) {
	sma50, err := s.avRepo.GetSMA(ctx, symbol, 50)
	if err != nil {
		return nil, err
	}
	sma200, err := s.avRepo.GetSMA(ctx, symbol, 200)
	if err != nil {
		return nil, err
	}

	return &dto.SMAResponse{
		Symbol:       symbol,
		SMA50:        sma50,
		SMA200:       sma200,
		LatestSMA50:  latestValue(sma50),
		LatestSMA200: latestValue(sma200),
	}, nil
}

// GetFullChartData joins the daily price series with the SMA series by
// date. A failed price fetch is fatal; a failed SMA fetch degrades to
// points without SMA fields.
func (s *quoteService) GetFullChartData(ctx context.Context, symbol string) (*dto.ChartDataResponse, error) {
	series, err := s.avRepo.GetDailySeries(ctx, symbol)
	if err != nil {
		return nil, err
	}

	sma50, err := s.avRepo.GetSMA(ctx, symbol, 50)
	if err != nil {
		s.logger.WarnContext(ctx, "SMA50 fetch failed, chart degrades without it",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		sma50 = nil
	}
	sma200, err := s.avRepo.GetSMA(ctx, symbol, 200)
	if err != nil {
		s.logger.WarnContext(ctx, "SMA200 fetch failed, chart degrades without it",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		sma200 = nil
	}

	joined := make([]entity.PricePoint, 0, len(series))
	for _, point := range series {
		if value, ok := sma50[point.Date]; ok {
			v := value
			point.SMA50 = &v
		}
		if value, ok := sma200[point.Date]; ok {
			v := value
			point.SMA200 = &v
		}
		joined = append(joined, point)
	}

	return &dto.ChartDataResponse{
		Symbol:       symbol,
		Series:       joined,
		LatestSMA50:  latestValue(sma50),
		LatestSMA200: latestValue(sma200),
	}, nil
}

// latestValue returns the value at the maximum date key, or nil for an
// empty map.
func latestValue(series map[string]float64) *float64 {
	var latestDate string
	for date := range series {
		if date > latestDate {
			latestDate = date
		}
	}
	if latestDate == "" {
		return nil
	}
	value := series[latestDate]
	return &value
}
