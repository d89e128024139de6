package generation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TargetCounts holds how many of each attribute category to generate.
type TargetCounts struct {
	Themes           int `yaml:"themes"`
	ThematicFeatures int `yaml:"thematic_features"`
	ArtStyles        int `yaml:"art_styles"`
	MusicStyles      int `yaml:"music_styles"`
	Developers       int `yaml:"developers"`
}

// Config holds the generation tunables. Zero values are replaced by
// defaults, so a partial YAML file only overrides what it names.
type Config struct {
	TargetCounts           TargetCounts       `yaml:"target_counts"`
	VolatilityDistribution map[string]float64 `yaml:"volatility_distribution"`
	ComplexityDistribution map[string]float64 `yaml:"complexity_distribution"`
	BatchSize              int                `yaml:"batch_size"`
	MinFeaturesPerGame     int                `yaml:"min_features_per_game"`
	MaxFeaturesPerGame     int                `yaml:"max_features_per_game"`
}

// DefaultConfig returns the built-in generation tunables.
func DefaultConfig() Config {
	return Config{
		TargetCounts: TargetCounts{
			Themes:           12,
			ThematicFeatures: 6,
			ArtStyles:        8,
			MusicStyles:      10,
			Developers:       12,
		},
		VolatilityDistribution: map[string]float64{
			"low":    0.3,
			"medium": 0.5,
			"high":   0.2,
		},
		ComplexityDistribution: map[string]float64{
			"Beginner":     0.4,
			"Intermediate": 0.4,
			"Advanced":     0.2,
		},
		BatchSize:          5,
		MinFeaturesPerGame: 2,
		MaxFeaturesPerGame: 4,
	}
}

// LoadConfig reads generation tunables from a YAML file. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read generation config: %w", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Config{}, fmt.Errorf("parse generation config: %w", err)
	}

	cfg.merge(loaded)
	return cfg, nil
}

func (c *Config) merge(o Config) {
	if o.TargetCounts.Themes > 0 {
		c.TargetCounts.Themes = o.TargetCounts.Themes
	}
	if o.TargetCounts.ThematicFeatures > 0 {
		c.TargetCounts.ThematicFeatures = o.TargetCounts.ThematicFeatures
	}
	if o.TargetCounts.ArtStyles > 0 {
		c.TargetCounts.ArtStyles = o.TargetCounts.ArtStyles
	}
	if o.TargetCounts.MusicStyles > 0 {
		c.TargetCounts.MusicStyles = o.TargetCounts.MusicStyles
	}
	if o.TargetCounts.Developers > 0 {
		c.TargetCounts.Developers = o.TargetCounts.Developers
	}
	if len(o.VolatilityDistribution) > 0 {
		c.VolatilityDistribution = o.VolatilityDistribution
	}
	if len(o.ComplexityDistribution) > 0 {
		c.ComplexityDistribution = o.ComplexityDistribution
	}
	if o.BatchSize > 0 {
		c.BatchSize = o.BatchSize
	}
	if o.MinFeaturesPerGame > 0 {
		c.MinFeaturesPerGame = o.MinFeaturesPerGame
	}
	if o.MaxFeaturesPerGame > 0 {
		c.MaxFeaturesPerGame = o.MaxFeaturesPerGame
	}
}
