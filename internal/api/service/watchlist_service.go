package service

import (
	"context"
	"sort"
	"strings"

	"equity-insights/internal/api/dto"
	"equity-insights/internal/api/repository"
	"equity-insights/internal/entity"
	"equity-insights/pkg/apperrors"
	"equity-insights/pkg/logger"
	"equity-insights/pkg/utils"

	"github.com/google/uuid"
)

// WatchlistService manages user watchlists and their item enrichment.
type WatchlistService interface {
	List(ctx context.Context, userID string) ([]entity.WatchlistSummary, error)
	Get(ctx context.Context, userID, watchlistID string) (*entity.Watchlist, error)
	Create(ctx context.Context, userID string, req *dto.CreateWatchlistRequest) (*entity.Watchlist, error)
	Update(ctx context.Context, userID, watchlistID string, req *dto.UpdateWatchlistRequest) (*entity.Watchlist, error)
	Delete(ctx context.Context, userID, watchlistID string) error
}

// NewWatchlistService creates a new watchlist service.
func NewWatchlistService(repo repository.WatchlistRepository, finnhubRepo repository.FinnhubRepository, log *logger.Logger) WatchlistService {
	return &watchlistService{
		repo:        repo,
		finnhubRepo: finnhubRepo,
		logger:      log,
	}
}

type watchlistService struct {
	repo        repository.WatchlistRepository
	finnhubRepo repository.FinnhubRepository
	logger      *logger.Logger
}

func (s *watchlistService) List(ctx context.Context, userID string) ([]entity.WatchlistSummary, error) {
	watchlists, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]entity.WatchlistSummary, 0, len(watchlists))
	for _, wl := range watchlists {
		countries, sectors := watchlistFacets(&wl)
		summaries = append(summaries, entity.WatchlistSummary{
			ID:         wl.ID,
			Name:       wl.Name,
			ItemsCount: len(wl.Items),
			Countries:  countries,
			Sectors:    sectors,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return strings.ToLower(summaries[i].Name) < strings.ToLower(summaries[j].Name)
	})
	return summaries, nil
}

func (s *watchlistService) Get(ctx context.Context, userID, watchlistID string) (*entity.Watchlist, error) {
	return s.repo.Get(ctx, userID, watchlistID)
}

func (s *watchlistService) Create(ctx context.Context, userID string, req *dto.CreateWatchlistRequest) (*entity.Watchlist, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "watchlist name is required")
	}

	now := utils.UTCNowISO()
	wl := &entity.Watchlist{
		ID:         uuid.NewString(),
		Name:       name,
		Items:      s.buildItems(ctx, req.Symbols),
		CreatedUTC: now,
		UpdatedUTC: now,
	}

	if err := s.repo.Upsert(ctx, userID, wl); err != nil {
		return nil, err
	}
	return wl, nil
}

// Update renames a watchlist and/or replaces its items. Either change
// refreshes UpdatedUTC, which invalidates dependent aggregation caches.
func (s *watchlistService) Update(ctx context.Context, userID, watchlistID string, req *dto.UpdateWatchlistRequest) (*entity.Watchlist, error) {
	existing, err := s.repo.Get(ctx, userID, watchlistID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.New(apperrors.KindInvalidInput, "watchlist name must not be empty")
		}
		updated.Name = name
	}
	if req.Symbols != nil {
		updated.Items = s.buildItems(ctx, *req.Symbols)
	}
	updated.UpdatedUTC = utils.UTCNowISO()

	if err := s.repo.Upsert(ctx, userID, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *watchlistService) Delete(ctx context.Context, userID, watchlistID string) error {
	return s.repo.Delete(ctx, userID, watchlistID)
}

// buildItems normalizes the symbol list and enriches each item with
// country and sector from the company profile. Enrichment is
// best-effort: a failed lookup leaves the fields empty.
func (s *watchlistService) buildItems(ctx context.Context, symbols []string) []entity.WatchlistItem {
	uniq := dedupeSymbols(symbols)
	items := make([]entity.WatchlistItem, 0, len(uniq))

	for _, sym := range uniq {
		item := entity.WatchlistItem{Symbol: sym}

		profile, err := s.finnhubRepo.GetCompanyProfile(ctx, sym)
		if err != nil {
			s.logger.WarnContext(ctx, "Watchlist item enrichment failed",
				logger.StringField("symbol", sym), logger.ErrorField(err))
		} else {
			item.Country = profile.Country
			item.Industry = profile.Industry
			item.Sector = DeriveSectorFromIndustry(profile.Industry)
		}

		items = append(items, item)
	}
	return items
}

// watchlistFacets returns the distinct countries and sectors present on
// a watchlist, sorted.
func watchlistFacets(wl *entity.Watchlist) ([]string, []string) {
	countrySet := map[string]struct{}{}
	sectorSet := map[string]struct{}{}
	for _, item := range wl.Items {
		if country := strings.ToUpper(strings.TrimSpace(item.Country)); country != "" {
			countrySet[country] = struct{}{}
		}
		if sector := strings.TrimSpace(item.Sector); sector != "" {
			sectorSet[sector] = struct{}{}
		}
	}

	countries := make([]string, 0, len(countrySet))
	for country := range countrySet {
		countries = append(countries, country)
	}
	sort.Strings(countries)

	sectors := make([]string, 0, len(sectorSet))
	for sector := range sectorSet {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)

	return countries, sectors
}
