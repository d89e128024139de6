package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelrec/reelrec/domain/game"
	"github.com/reelrec/reelrec/domain/recommend"
	"github.com/reelrec/reelrec/infrastructure/api/v1/dto"
)

type fakeEngine struct {
	recs         []recommend.Recommendation
	recsErr      error
	lastGameID   string
	lastNumCands int
	lastNumFinal int
	builtGames   int
	buildReturn  int
	buildErr     error
	status       recommend.IndexStatus
	cleared      bool
}

func (f *fakeEngine) BuildIndex(_ context.Context, games []game.SlotGame) (int, error) {
	f.builtGames = len(games)
	if f.buildErr != nil {
		return 0, f.buildErr
	}
	if f.buildReturn > 0 {
		return f.buildReturn, nil
	}
	return len(games), nil
}

func (f *fakeEngine) Recommendations(_ context.Context, gameID string, numCandidates, numFinal int) ([]recommend.Recommendation, error) {
	f.lastGameID = gameID
	f.lastNumCands = numCandidates
	f.lastNumFinal = numFinal
	return f.recs, f.recsErr
}

func (f *fakeEngine) IndexStatus(_ context.Context) (recommend.IndexStatus, error) {
	return f.status, nil
}

func (f *fakeEngine) ClearIndex(_ context.Context) error {
	f.cleared = true
	return nil
}

func newTestRouter(engine Engine, catalogPath string) chi.Router {
	return Router(engine, catalogPath, 0, 0, nil)
}

func TestRecommendationsEndpoint(t *testing.T) {
	engine := &fakeEngine{
		recs: []recommend.Recommendation{
			recommend.NewRecommendation(1, "Cutlass Cove", 0.93, "Shares the pirate theme.").
				WithSimilarities([]string{"theme"}),
		},
	}
	router := newTestRouter(engine, "")

	req := httptest.NewRequest(http.MethodGet, "/recommendations/Blackbeards%20Bounty?candidates=20&top=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Blackbeards Bounty", engine.lastGameID)
	assert.Equal(t, 20, engine.lastNumCands)
	assert.Equal(t, 5, engine.lastNumFinal)

	var resp dto.RecommendationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Blackbeards Bounty", resp.SourceGameID)
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "Cutlass Cove", resp.Recommendations[0].GameID)
	assert.Equal(t, []string{"theme"}, resp.Recommendations[0].KeySimilarities)
}

func TestRecommendationsDefaultsQueryParams(t *testing.T) {
	engine := &fakeEngine{}
	router := newTestRouter(engine, "")

	req := httptest.NewRequest(http.MethodGet, "/recommendations/SomeGame?candidates=bogus", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultNumCandidates, engine.lastNumCands)
	assert.Equal(t, defaultNumFinal, engine.lastNumFinal)

	var resp dto.RecommendationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Recommendations)
}

func TestRecommendationsUsesConfiguredSizes(t *testing.T) {
	engine := &fakeEngine{}
	router := Router(engine, "", 25, 7, nil)

	req := httptest.NewRequest(http.MethodGet, "/recommendations/SomeGame", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 25, engine.lastNumCands)
	assert.Equal(t, 7, engine.lastNumFinal)

	// Explicit query parameters still win over the configured sizes.
	req = httptest.NewRequest(http.MethodGet, "/recommendations/SomeGame?candidates=4&top=2", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, engine.lastNumCands)
	assert.Equal(t, 2, engine.lastNumFinal)
}

func TestRecommendationsEngineError(t *testing.T) {
	engine := &fakeEngine{recsErr: errors.New("store unavailable")}
	router := newTestRouter(engine, "")

	req := httptest.NewRequest(http.MethodGet, "/recommendations/SomeGame", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "store unavailable")
}

func TestIndexStatusEndpoint(t *testing.T) {
	engine := &fakeEngine{
		status: recommend.NewIndexStatus(recommend.NewStoreStats(42, "sqlite"), "text-embedding-3-small"),
	}
	router := newTestRouter(engine, "")

	req := httptest.NewRequest(http.MethodGet, "/index/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.IndexStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.IndexedGames)
	assert.Equal(t, "sqlite", resp.StorageMode)
	assert.Equal(t, recommend.HealthHealthy, resp.Health)
	assert.Equal(t, "text-embedding-3-small", resp.EmbeddingModel)
	assert.True(t, resp.Ready)
}

func writeCatalog(t *testing.T, games []game.SlotGame) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, game.SaveCatalog(path, games))
	return path
}

func TestBuildEndpointFromBodyPath(t *testing.T) {
	path := writeCatalog(t, []game.SlotGame{
		{
			Name:        "Nebula Quest",
			Description: "Space themed slot.",
			Theme:       "Space",
			Volatility:  game.VolatilityHigh,
			RTP:         0.96,
		},
	})

	engine := &fakeEngine{}
	router := newTestRouter(engine, "")

	body, _ := json.Marshal(dto.BuildIndexRequest{CatalogPath: path})
	req := httptest.NewRequest(http.MethodPost, "/index/build", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, engine.builtGames)

	var resp dto.BuildIndexResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "built", resp.Status)
	assert.Equal(t, 1, resp.IndexedGames)
}

func TestBuildEndpointReportsIndexedCount(t *testing.T) {
	path := writeCatalog(t, []game.SlotGame{
		{
			Name:        "Nebula Quest",
			Description: "Space themed slot.",
			Theme:       "Space",
			Volatility:  game.VolatilityHigh,
			RTP:         0.96,
		},
		{
			Name:        "Lunar Fortune",
			Description: "Space themed slot.",
			Theme:       "Space",
			Volatility:  game.VolatilityLow,
			RTP:         0.94,
		},
	})

	// The engine indexes only one of the two catalog games; the response
	// must not overstate that.
	engine := &fakeEngine{buildReturn: 1}
	router := newTestRouter(engine, path)

	req := httptest.NewRequest(http.MethodPost, "/index/build", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, engine.builtGames)

	var resp dto.BuildIndexResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.IndexedGames)
}

func TestBuildEndpointUsesConfiguredCatalog(t *testing.T) {
	path := writeCatalog(t, []game.SlotGame{
		{
			Name:        "Lunar Fortune",
			Description: "Space themed slot.",
			Theme:       "Space",
			Volatility:  game.VolatilityLow,
			RTP:         0.94,
		},
	})

	engine := &fakeEngine{}
	router := newTestRouter(engine, path)

	req := httptest.NewRequest(http.MethodPost, "/index/build", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, engine.builtGames)
}

func TestBuildEndpointMissingCatalogIs404(t *testing.T) {
	engine := &fakeEngine{}
	router := newTestRouter(engine, filepath.Join(t.TempDir(), "missing.json"))

	req := httptest.NewRequest(http.MethodPost, "/index/build", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, engine.builtGames)
}

func TestBuildEndpointInvalidCatalogIs400(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": ""}]`), 0o644))

	engine := &fakeEngine{}
	router := newTestRouter(engine, path)

	req := httptest.NewRequest(http.MethodPost, "/index/build", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearEndpoint(t *testing.T) {
	engine := &fakeEngine{}
	router := newTestRouter(engine, "")

	req := httptest.NewRequest(http.MethodDelete, "/index", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, engine.cleared)
}
