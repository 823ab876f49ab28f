package service

import (
	"context"
	"testing"
	"time"

	"equity-insights/internal/api/dto"
	"equity-insights/internal/api/repository"
	"equity-insights/internal/entity"
	"equity-insights/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memWatchlistRepo struct {
	byUser map[string]map[string]entity.Watchlist
}

func newMemWatchlistRepo() *memWatchlistRepo {
	return &memWatchlistRepo{byUser: map[string]map[string]entity.Watchlist{}}
}

func (m *memWatchlistRepo) List(_ context.Context, userID string) ([]entity.Watchlist, error) {
	out := make([]entity.Watchlist, 0, len(m.byUser[userID]))
	for _, wl := range m.byUser[userID] {
		out = append(out, wl)
	}
	return out, nil
}

func (m *memWatchlistRepo) Get(_ context.Context, userID, watchlistID string) (*entity.Watchlist, error) {
	if wl, ok := m.byUser[userID][watchlistID]; ok {
		copied := wl
		return &copied, nil
	}
	return nil, apperrors.Newf(apperrors.KindNotFound, "watchlist %q not found", watchlistID)
}

func (m *memWatchlistRepo) Upsert(_ context.Context, userID string, wl *entity.Watchlist) error {
	if m.byUser[userID] == nil {
		m.byUser[userID] = map[string]entity.Watchlist{}
	}
	m.byUser[userID][wl.ID] = *wl
	return nil
}

func (m *memWatchlistRepo) Delete(_ context.Context, userID, watchlistID string) error {
	if _, ok := m.byUser[userID][watchlistID]; !ok {
		return apperrors.Newf(apperrors.KindNotFound, "watchlist %q not found", watchlistID)
	}
	delete(m.byUser[userID], watchlistID)
	return nil
}

func newWatchlistServiceForTest(t *testing.T, finnhub *fakeFinnhubRepo) (WatchlistService, *memWatchlistRepo) {
	t.Helper()
	repo := newMemWatchlistRepo()
	return NewWatchlistService(repo, finnhub, newTestLogger(t)), repo
}

func TestCreateWatchlistEnrichesItems(t *testing.T) {
	finnhub := &fakeFinnhubRepo{profiles: map[string]*repository.CompanyProfile{
		"AAPL": {Country: "US", Name: "Apple Inc", Industry: "Technology"},
	}}
	svc, _ := newWatchlistServiceForTest(t, finnhub)

	wl, err := svc.Create(context.Background(), "user-1", &dto.CreateWatchlistRequest{
		Name:    "  Core  ",
		Symbols: []string{"aapl", "AAPL"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, wl.ID)
	assert.Equal(t, "Core", wl.Name, "name is trimmed")
	assert.Equal(t, wl.CreatedUTC, wl.UpdatedUTC)
	require.Len(t, wl.Items, 1, "duplicate symbols collapse")
	assert.Equal(t, "AAPL", wl.Items[0].Symbol)
	assert.Equal(t, "US", wl.Items[0].Country)
	assert.Equal(t, "Technology", wl.Items[0].Sector)
}

func TestCreateWatchlistRequiresName(t *testing.T) {
	svc, _ := newWatchlistServiceForTest(t, &fakeFinnhubRepo{})

	_, err := svc.Create(context.Background(), "user-1", &dto.CreateWatchlistRequest{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestCreateWatchlistToleratesEnrichmentFailure(t *testing.T) {
	// No profiles configured: every lookup returns not found.
	svc, _ := newWatchlistServiceForTest(t, &fakeFinnhubRepo{})

	wl, err := svc.Create(context.Background(), "user-1", &dto.CreateWatchlistRequest{
		Name:    "Core",
		Symbols: []string{"ZZZZ"},
	})
	require.NoError(t, err, "enrichment is best-effort")
	require.Len(t, wl.Items, 1)
	assert.Equal(t, "ZZZZ", wl.Items[0].Symbol)
	assert.Empty(t, wl.Items[0].Country)
	assert.Empty(t, wl.Items[0].Sector)
}

func TestUpdateWatchlistRefreshesVersionToken(t *testing.T) {
	svc, _ := newWatchlistServiceForTest(t, &fakeFinnhubRepo{})

	created, err := svc.Create(context.Background(), "user-1", &dto.CreateWatchlistRequest{Name: "Core"})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	name := "Renamed"
	updated, err := svc.Update(context.Background(), "user-1", created.ID, &dto.UpdateWatchlistRequest{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, created.CreatedUTC, updated.CreatedUTC)
	assert.NotEqual(t, created.UpdatedUTC, updated.UpdatedUTC, "any mutation must advance the version token")
}

func TestUpdateWatchlistNilFieldsUnchanged(t *testing.T) {
	finnhub := &fakeFinnhubRepo{profiles: map[string]*repository.CompanyProfile{
		"AAPL": {Country: "US", Industry: "Technology"},
	}}
	svc, _ := newWatchlistServiceForTest(t, finnhub)

	created, err := svc.Create(context.Background(), "user-1", &dto.CreateWatchlistRequest{
		Name:    "Core",
		Symbols: []string{"AAPL"},
	})
	require.NoError(t, err)

	symbols := []string{"MSFT"}
	updated, err := svc.Update(context.Background(), "user-1", created.ID, &dto.UpdateWatchlistRequest{Symbols: &symbols})
	require.NoError(t, err)

	assert.Equal(t, "Core", updated.Name, "nil name leaves the existing one")
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "MSFT", updated.Items[0].Symbol)
}

func TestUpdateWatchlistEmptyNameRejected(t *testing.T) {
	svc, _ := newWatchlistServiceForTest(t, &fakeFinnhubRepo{})

	created, err := svc.Create(context.Background(), "user-1", &dto.CreateWatchlistRequest{Name: "Core"})
	require.NoError(t, err)

	blank := "   "
	_, err = svc.Update(context.Background(), "user-1", created.ID, &dto.UpdateWatchlistRequest{Name: &blank})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestUpdateWatchlistNotFound(t *testing.T) {
	svc, _ := newWatchlistServiceForTest(t, &fakeFinnhubRepo{})

	name := "x"
	_, err := svc.Update(context.Background(), "user-1", "missing", &dto.UpdateWatchlistRequest{Name: &name})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListWatchlistsSortedWithFacets(t *testing.T) {
	finnhub := &fakeFinnhubRepo{profiles: map[string]*repository.CompanyProfile{
		"AAPL": {Country: "US", Industry: "Technology"},
		"SAP":  {Country: "DE", Industry: "Technology"},
	}}
	svc, _ := newWatchlistServiceForTest(t, finnhub)

	ctx := context.Background()
	_, err := svc.Create(ctx, "user-1", &dto.CreateWatchlistRequest{Name: "zeta", Symbols: []string{"AAPL"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", &dto.CreateWatchlistRequest{Name: "Alpha", Symbols: []string{"AAPL", "SAP"}})
	require.NoError(t, err)

	summaries, err := svc.List(ctx, "user-1")
	require.NoError(t, err)

	require.Len(t, summaries, 2)
	assert.Equal(t, "Alpha", summaries[0].Name, "case-insensitive name sort")
	assert.Equal(t, "zeta", summaries[1].Name)
	assert.Equal(t, 2, summaries[0].ItemsCount)
	assert.Equal(t, []string{"DE", "US"}, summaries[0].Countries)
	assert.Equal(t, []string{"Technology"}, summaries[0].Sectors)
}

func TestDeleteWatchlist(t *testing.T) {
	svc, _ := newWatchlistServiceForTest(t, &fakeFinnhubRepo{})

	created, err := svc.Create(context.Background(), "user-1", &dto.CreateWatchlistRequest{Name: "Core"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "user-1", created.ID))

	_, err = svc.Get(context.Background(), "user-1", created.ID)
	assert.True(t, apperrors.IsNotFound(err))
}
