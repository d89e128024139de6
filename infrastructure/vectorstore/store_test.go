package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelrec/reelrec/domain/recommend"
	"github.com/reelrec/reelrec/internal/testdb"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(testdb.New(t))
	require.NoError(t, err)
	return store
}

func processed(id string, vec []float64) recommend.ProcessedGame {
	return recommend.NewProcessedGame(id, "Overview of "+id, vec, map[string]string{
		"theme":      "Ancient Egypt",
		"volatility": "medium",
	})
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 2, 3}, []float64{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)
	assert.Zero(t, CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3}))
	assert.Zero(t, CosineSimilarity([]float64{0, 0}, []float64{1, 2}))
	assert.Zero(t, CosineSimilarity(nil, nil))
}

func TestStatsOnEmptyStore(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Count())
	assert.Equal(t, recommend.HealthEmpty, stats.Health())
	assert.Equal(t, "sqlite", stats.Mode())
}

func TestAddGamesAndStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.AddGames(ctx, []recommend.ProcessedGame{
		processed("A", []float64{1, 0, 0}),
		processed("B", []float64{0, 1, 0}),
	})
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Count())
	assert.Equal(t, recommend.HealthHealthy, stats.Health())
}

func TestAddGamesOverwritesOnIDCollision(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddGames(ctx, []recommend.ProcessedGame{
		processed("A", []float64{1, 0, 0}),
	}))
	require.NoError(t, store.AddGames(ctx, []recommend.ProcessedGame{
		recommend.NewProcessedGame("A", "updated overview", []float64{0, 1, 0}, nil),
	}))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Count())

	overview, err := store.Overview(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "updated overview", overview)
}

func TestSearchByVectorOrdersBySimilarity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddGames(ctx, []recommend.ProcessedGame{
		processed("close", []float64{1, 0.1, 0}),
		processed("closer", []float64{1, 0.01, 0}),
		processed("far", []float64{0, 0, 1}),
	}))

	candidates, err := store.SearchByVector(ctx, []float64{1, 0, 0}, "", 2)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "closer", candidates[0].ID())
	assert.Equal(t, "close", candidates[1].ID())
	assert.Greater(t, candidates[0].Similarity(), candidates[1].Similarity())
}

func TestSearchByVectorExcludesID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddGames(ctx, []recommend.ProcessedGame{
		processed("A", []float64{1, 0, 0}),
		processed("B", []float64{1, 0.1, 0}),
	}))

	candidates, err := store.SearchByVector(ctx, []float64{1, 0, 0}, "A", 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "B", candidates[0].ID())
}

func TestSearchByIDExcludesSelf(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddGames(ctx, []recommend.ProcessedGame{
		processed("A", []float64{1, 0, 0}),
		processed("B", []float64{1, 0.1, 0}),
		processed("C", []float64{0, 1, 0}),
	}))

	candidates, err := store.SearchByID(ctx, "A", 10)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	for _, c := range candidates {
		assert.NotEqual(t, "A", c.ID())
	}
	assert.Equal(t, "B", candidates[0].ID())
}

func TestSearchByIDUnknownReturnsEmpty(t *testing.T) {
	store := newTestStore(t)

	candidates, err := store.SearchByID(context.Background(), "missing", 5)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestSearchCarriesMetadataAndOverview(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddGames(ctx, []recommend.ProcessedGame{
		processed("A", []float64{1, 0, 0}),
		processed("B", []float64{1, 0.1, 0}),
	}))

	candidates, err := store.SearchByID(ctx, "A", 1)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Overview of B", candidates[0].Overview())
	assert.Equal(t, "Ancient Egypt", candidates[0].Metadata()["theme"])
}

func TestOverviewAbsentReturnsEmptyString(t *testing.T) {
	store := newTestStore(t)

	overview, err := store.Overview(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, overview)
}

func TestClearLeavesStoreUsable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddGames(ctx, []recommend.ProcessedGame{
		processed("A", []float64{1, 0, 0}),
	}))
	require.NoError(t, store.Clear(ctx))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Count())

	require.NoError(t, store.AddGames(ctx, []recommend.ProcessedGame{
		processed("B", []float64{0, 1, 0}),
	}))
	candidates, err := store.SearchByVector(ctx, []float64{0, 1, 0}, "", 5)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "B", candidates[0].ID())
}
