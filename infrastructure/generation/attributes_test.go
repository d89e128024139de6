package generation

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelrec/reelrec/infrastructure/provider"
)

func TestGenerateThemesUsesLLMList(t *testing.T) {
	textGen := &scriptedTextGen{responses: []string{
		`["Ancient Egypt", "Wild West", "Deep Sea"]`,
	}}
	cfg := DefaultConfig()
	cfg.TargetCounts.Themes = 3
	gen := NewAttributeGenerator(textGen, cfg, nil)

	themes := gen.GenerateThemes(context.Background())
	assert.Equal(t, []string{"Ancient Egypt", "Wild West", "Deep Sea"}, themes)
}

func TestGenerateThemesFallsBackOnError(t *testing.T) {
	textGen := &scriptedTextGen{
		responses: []string{""},
		errs:      []error{errors.New("provider down")},
	}
	cfg := DefaultConfig()
	cfg.TargetCounts.Themes = 4
	gen := NewAttributeGenerator(textGen, cfg, nil)

	themes := gen.GenerateThemes(context.Background())
	assert.Equal(t, []string{"Ancient Egypt", "Sci-Fi Adventure", "Fantasy Kingdom", "Wild West"}, themes)
}

func TestGenerateThemesFallsBackOnProse(t *testing.T) {
	textGen := &scriptedTextGen{responses: []string{"Sure! Here are some ideas for you."}}
	cfg := DefaultConfig()
	cfg.TargetCounts.Themes = 2
	gen := NewAttributeGenerator(textGen, cfg, nil)

	themes := gen.GenerateThemes(context.Background())
	assert.Equal(t, []string{"Ancient Egypt", "Sci-Fi Adventure"}, themes)
}

func TestGenerateThemesTrimsOverlongList(t *testing.T) {
	textGen := &scriptedTextGen{responses: []string{`["A", "B", "C", "D"]`}}
	cfg := DefaultConfig()
	cfg.TargetCounts.Themes = 2
	gen := NewAttributeGenerator(textGen, cfg, nil)

	themes := gen.GenerateThemes(context.Background())
	assert.Equal(t, []string{"A", "B"}, themes)
}

func TestGenerateThematicFeaturesPadsShortList(t *testing.T) {
	textGen := &scriptedTextGen{responses: []string{`["Tomb Bonus", "Scarab Wilds"]`}}
	cfg := DefaultConfig()
	cfg.TargetCounts.ThematicFeatures = 4
	gen := NewAttributeGenerator(textGen, cfg, nil)

	features := gen.GenerateThematicFeatures(context.Background(), "Ancient Egypt")
	require.Len(t, features, 4)
	assert.Equal(t, "Tomb Bonus", features[0])
	assert.Equal(t, "Scarab Wilds", features[1])
	assert.Equal(t, "Wild Symbols", features[2])
}

func TestGenerateThematicFeaturesFallbackIsThemed(t *testing.T) {
	gen := NewAttributeGenerator(nil, DefaultConfig(), nil)

	features := gen.GenerateThematicFeatures(context.Background(), "Wild West")
	require.Len(t, features, DefaultConfig().TargetCounts.ThematicFeatures)
	assert.Contains(t, features, "Wild Special Feature")
}

func TestGenerateAllWithoutProviderUsesFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetCounts.Themes = 3
	cfg.TargetCounts.ThematicFeatures = 4
	gen := NewAttributeGenerator(nil, cfg, nil)

	attrs, err := gen.GenerateAll(context.Background())
	require.NoError(t, err)
	require.NoError(t, attrs.Validate())

	assert.Len(t, attrs.Themes, 3)
	for _, theme := range attrs.Themes {
		assert.Len(t, attrs.ThematicFeatures[theme], 4)
	}
	assert.Len(t, attrs.ArtStyles, cfg.TargetCounts.ArtStyles)
	assert.Len(t, attrs.MusicStyles, cfg.TargetCounts.MusicStyles)
	assert.Len(t, attrs.Developers, cfg.TargetCounts.Developers)
}

func TestGenerateAllStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := NewAttributeGenerator(nil, DefaultConfig(), nil)
	_, err := gen.GenerateAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSaveAndLoadAttributes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "attributes.json")
	attrs := testAttributes()

	require.NoError(t, SaveAttributes(attrs, path))

	loaded, err := LoadAttributes(path)
	require.NoError(t, err)
	assert.Equal(t, attrs, loaded)
}

func TestLoadAttributesRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attributes.json")
	broken := Attributes{
		Themes:           []string{"Orphan Theme"},
		ThematicFeatures: map[string][]string{},
		ArtStyles:        []string{"Pixel Art"},
		MusicStyles:      []string{"Synthwave"},
		Developers:       []string{"Nexus Gaming"},
	}
	require.NoError(t, SaveAttributes(broken, path))

	_, err := LoadAttributes(path)
	assert.Error(t, err)
}

func TestLoadAttributesMissingFile(t *testing.T) {
	_, err := LoadAttributes(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestAttributesValidate(t *testing.T) {
	assert.Error(t, Attributes{}.Validate())

	valid := testAttributes()
	assert.NoError(t, valid.Validate())

	noDevs := testAttributes()
	noDevs.Developers = nil
	assert.Error(t, noDevs.Validate())
}

func TestGenerateListRequiresProvider(t *testing.T) {
	gen := NewAttributeGenerator(nil, DefaultConfig(), nil)
	_, err := gen.generateList(context.Background(), "prompt", 3)
	assert.ErrorIs(t, err, provider.ErrNotConfigured)
}
