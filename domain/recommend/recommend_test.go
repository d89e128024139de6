package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreStatsHealth(t *testing.T) {
	assert.Equal(t, HealthEmpty, NewStoreStats(0, "sqlite").Health())
	assert.Equal(t, HealthHealthy, NewStoreStats(1, "sqlite").Health())
	assert.Equal(t, HealthHealthy, NewStoreStats(500, "postgres").Health())
}

func TestIndexStatusReadiness(t *testing.T) {
	empty := NewIndexStatus(NewStoreStats(0, "sqlite"), "text-embedding-3-small")
	assert.False(t, empty.ReadyForRecommendations())
	assert.Equal(t, "text-embedding-3-small", empty.EmbeddingModel())

	ready := NewIndexStatus(NewStoreStats(3, "sqlite"), "text-embedding-3-small")
	assert.True(t, ready.ReadyForRecommendations())
	assert.Equal(t, int64(3), ready.Stats().Count())
}

func TestCandidateMetadataIsCopied(t *testing.T) {
	meta := map[string]string{"theme": "Pirates"}
	c := NewCandidate("Cutlass Cove", "overview", meta, 0.9)

	meta["theme"] = "mutated"
	assert.Equal(t, "Pirates", c.Metadata()["theme"])

	got := c.Metadata()
	got["theme"] = "mutated again"
	assert.Equal(t, "Pirates", c.Metadata()["theme"])
}

func TestRecommendationBuilders(t *testing.T) {
	c := NewCandidate("Kraken's Gold", "deep sea overview", map[string]string{"theme": "Pirates"}, 0.87)

	rec := NewRecommendation(1, "Kraken's Gold", 0.91, "Shares the pirate theme.").
		WithSimilarities([]string{"theme", "volatility"}).
		WithAppealFactors([]string{"bonus rounds"}).
		WithCandidate(c)

	assert.Equal(t, 1, rec.Rank())
	assert.Equal(t, "Kraken's Gold", rec.ID())
	assert.InDelta(t, 0.91, rec.Score(), 1e-9)
	assert.InDelta(t, 0.87, rec.VectorScore(), 1e-9)
	assert.Equal(t, "deep sea overview", rec.Overview())
	assert.Equal(t, []string{"theme", "volatility"}, rec.KeySimilarities())
	assert.Equal(t, []string{"bonus rounds"}, rec.AppealFactors())
	assert.Equal(t, "Pirates", rec.Metadata()["theme"])
}

func TestProcessedGameCopiesEmbedding(t *testing.T) {
	vec := []float64{1, 2, 3}
	p := NewProcessedGame("Nebula Quest", "overview", vec, nil)

	vec[0] = 99
	assert.Equal(t, []float64{1, 2, 3}, p.Embedding())
}
