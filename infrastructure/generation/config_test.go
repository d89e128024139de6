package generation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 12, cfg.TargetCounts.Themes)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.InDelta(t, 0.5, cfg.VolatilityDistribution["medium"], 1e-9)
}

func TestLoadConfigPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generation.yaml")
	yaml := `
target_counts:
  themes: 4
batch_size: 2
volatility_distribution:
  low: 0.5
  high: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.TargetCounts.Themes)
	assert.Equal(t, 2, cfg.BatchSize)
	assert.Equal(t, map[string]float64{"low": 0.5, "high": 0.5}, cfg.VolatilityDistribution)

	// Everything the file does not name keeps its default.
	assert.Equal(t, 6, cfg.TargetCounts.ThematicFeatures)
	assert.Equal(t, 8, cfg.TargetCounts.ArtStyles)
	assert.Equal(t, 2, cfg.MinFeaturesPerGame)
	assert.Equal(t, 4, cfg.MaxFeaturesPerGame)
	assert.InDelta(t, 0.4, cfg.ComplexityDistribution["Beginner"], 1e-9)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch_size: [not a number"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
