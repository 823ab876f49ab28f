package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"equity-insights/internal/api/dto"
	"equity-insights/internal/api/repository"
	"equity-insights/internal/entity"
	"equity-insights/pkg/common"
	"equity-insights/pkg/logger"
	"equity-insights/pkg/utils"

	"github.com/google/uuid"
)

// CatalystsService merges per-symbol earnings events with the curated
// macro calendar into one time-sorted event list.
type CatalystsService interface {
	GetCatalysts(ctx context.Context, fromDate, toDate, userID, watchlistID string) (*dto.CatalystsResponse, error)
}

// NewCatalystsService creates a new catalysts service.
func NewCatalystsService(
	finnhubRepo repository.FinnhubRepository,
	macroRepo repository.MacroCalendarRepository,
	watchlistSvc WatchlistService,
	log *logger.Logger,
) CatalystsService {
	return &catalystsService{
		finnhubRepo:  finnhubRepo,
		macroRepo:    macroRepo,
		watchlistSvc: watchlistSvc,
		logger:       log,
	}
}

type catalystsService struct {
	finnhubRepo  repository.FinnhubRepository
	macroRepo    repository.MacroCalendarRepository
	watchlistSvc WatchlistService
	logger       *logger.Logger
}

// GetCatalysts returns earnings + macro events in [fromDate, toDate].
// When a watchlist is given it must resolve; its items drive the
// per-symbol earnings fetches and the macro country filter. Per-symbol
// earnings failures degrade the earnings provider status instead of
// aborting the aggregate.
func (s *catalystsService) GetCatalysts(ctx context.Context, fromDate, toDate, userID, watchlistID string) (*dto.CatalystsResponse, error) {
	var watchlist *entity.Watchlist
	// Facets serialize as [], not null, with or without a watchlist.
	countries, sectors := []string{}, []string{}

	if userID != "" && watchlistID != "" {
		wl, err := s.watchlistSvc.Get(ctx, userID, watchlistID)
		if err != nil {
			return nil, err
		}
		watchlist = wl
		countries, sectors = watchlistFacets(wl)
	}

	events := make([]entity.CatalystEvent, 0, 32)
	providers := map[string]string{
		"earnings": common.ProviderStatusOK,
		"macro":    common.ProviderStatusCurated,
	}

	if watchlist != nil {
		for _, item := range watchlist.Items {
			entries, err := s.finnhubRepo.GetEarningsCalendar(ctx, item.Symbol, fromDate, toDate)
			if err != nil {
				s.logger.WarnContext(ctx, "Earnings calendar fetch failed",
					logger.StringField("symbol", item.Symbol), logger.ErrorField(err))
				providers["earnings"] = common.ProviderStatusDegraded
				continue
			}

			for _, entry := range entries {
				if entry.Date == "" {
					continue
				}
				events = append(events, earningsEvent(item, entry))
			}
		}
	} else {
		providers["earnings"] = common.ProviderStatusSkippedNoWatchlist
	}

	macroEvents := s.macroRepo.GetEvents(fromDate, toDate)
	if len(macroEvents) == 0 {
		// Fall back to the live economic calendar when the curated file
		// has nothing in range. The fetch is best-effort behind a paid
		// entitlement, so an empty result is still a valid answer.
		macroEvents = s.liveMacroEvents(ctx, fromDate, toDate)
		if len(macroEvents) == 0 {
			providers["macro"] = common.ProviderStatusCuratedEmpty
		} else {
			providers["macro"] = common.ProviderStatusOK
		}
	}

	countrySet := make(map[string]struct{}, len(countries))
	for _, country := range countries {
		countrySet[country] = struct{}{}
	}

	for _, event := range macroEvents {
		// Country filtering only applies for clean 2-letter codes; other
		// values are kept. Macro events are market-wide, so the
		// watchlist's sectors never filter them.
		if watchlist != nil && len(countrySet) > 0 && len(event.Country) == 2 {
			if _, ok := countrySet[event.Country]; !ok {
				continue
			}
		}
		events = append(events, event)
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].UTCTime != events[j].UTCTime {
			return events[i].UTCTime < events[j].UTCTime
		}
		return events[i].Title < events[j].Title
	})

	resp := &dto.CatalystsResponse{
		FromDate:  fromDate,
		ToDate:    toDate,
		Countries: countries,
		Sectors:   sectors,
		Events:    events,
		Providers: providers,
	}
	if watchlist != nil {
		resp.WatchlistID = watchlist.ID
	}
	return resp, nil
}

// liveMacroEvents converts provider economic calendar rows into macro
// catalyst events. IDs stay deterministic the same way curated event
// IDs do, so repeated requests agree on them.
func (s *catalystsService) liveMacroEvents(ctx context.Context, fromDate, toDate string) []entity.CatalystEvent {
	raw := s.finnhubRepo.GetEconomicCalendar(ctx, fromDate, toDate)

	events := make([]entity.CatalystEvent, 0, len(raw))
	for _, row := range raw {
		utcTime, _ := row["time"].(string)
		title, _ := row["event"].(string)
		if utcTime == "" || title == "" {
			continue
		}
		country, _ := row["country"].(string)
		impact, _ := row["impact"].(string)

		key := strings.Join([]string{utcTime, title, country, impact}, "|")
		events = append(events, entity.CatalystEvent{
			ID:      uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String(),
			Type:    common.CatalystTypeMacro,
			Title:   title,
			UTCTime: utcTime,
			Date:    utils.DateOnly(utcTime),
			Country: country,
			Impact:  impact,
			Source:  "Finnhub",
			Meta:    row,
		})
	}
	return events
}

// earningsEvent renders one earnings calendar entry as a catalyst
// event. The provider only gives a date plus a session-hour bucket, so
// the timestamp is date-only UTC midnight.
func earningsEvent(item entity.WatchlistItem, entry entity.EarningsEntry) entity.CatalystEvent {
	title := fmt.Sprintf("%s earnings", item.Symbol)
	if entry.Hour != "" {
		title = fmt.Sprintf("%s (%s)", title, entry.Hour)
	}

	var sectors []string
	if item.Sector != "" {
		sectors = []string{item.Sector}
	}

	return entity.CatalystEvent{
		ID:      uuid.NewString(),
		Type:    common.CatalystTypeEarnings,
		Title:   title,
		UTCTime: entry.Date + "T00:00:00Z",
		Date:    entry.Date,
		Symbol:  item.Symbol,
		Country: item.Country,
		Sectors: sectors,
		Source:  "Finnhub",
		Meta: map[string]interface{}{
			"epsEstimate":     entry.EPSEstimate,
			"epsActual":       entry.EPSActual,
			"revenueEstimate": entry.RevenueEstimate,
			"revenueActual":   entry.RevenueActual,
			"quarter":         entry.Quarter,
			"year":            entry.Year,
			"hour":            entry.Hour,
		},
	}
}
