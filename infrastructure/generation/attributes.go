// Package generation builds the synthetic slot game catalog in two phases:
// attribute generation (themes, per-theme feature buckets, global styles)
// and game generation from sampled attribute sets.
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/reelrec/reelrec/infrastructure/provider"
)

// Attributes is the output of phase 1. ThematicFeatures maps each theme to
// its own coherent feature bucket; game sampling only ever draws features
// from the sampled theme's bucket.
type Attributes struct {
	Themes           []string            `json:"themes"`
	ThematicFeatures map[string][]string `json:"thematic_features"`
	ArtStyles        []string            `json:"art_styles"`
	MusicStyles      []string            `json:"music_styles"`
	Developers       []string            `json:"developers"`
}

// Validate checks that the attribute set can drive game sampling.
func (a Attributes) Validate() error {
	if len(a.Themes) == 0 {
		return fmt.Errorf("attributes: no themes")
	}
	for _, theme := range a.Themes {
		if len(a.ThematicFeatures[theme]) == 0 {
			return fmt.Errorf("attributes: theme %q has no features", theme)
		}
	}
	if len(a.ArtStyles) == 0 || len(a.MusicStyles) == 0 || len(a.Developers) == 0 {
		return fmt.Errorf("attributes: missing global attribute lists")
	}
	return nil
}

// SaveAttributes writes attributes as indented JSON, creating parent
// directories as needed.
func SaveAttributes(a Attributes, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create attributes dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write attributes %s: %w", path, err)
	}
	return nil
}

// LoadAttributes reads an attributes file written by SaveAttributes.
func LoadAttributes(path string) (Attributes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Attributes{}, fmt.Errorf("read attributes %s: %w", path, err)
	}

	var a Attributes
	if err := json.Unmarshal(data, &a); err != nil {
		return Attributes{}, fmt.Errorf("parse attributes %s: %w", path, err)
	}
	if err := a.Validate(); err != nil {
		return Attributes{}, err
	}
	return a, nil
}

// AttributeGenerator runs phase 1. Every category degrades to a static
// fallback list when the LLM call or its JSON parsing fails, so phase 1
// always yields a usable attribute set.
type AttributeGenerator struct {
	textGen provider.TextGenerator
	cfg     Config
	logger  *slog.Logger
}

// NewAttributeGenerator creates an AttributeGenerator.
func NewAttributeGenerator(textGen provider.TextGenerator, cfg Config, logger *slog.Logger) *AttributeGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttributeGenerator{textGen: textGen, cfg: cfg, logger: logger}
}

// GenerateAll runs the full phase 1 pipeline.
func (g *AttributeGenerator) GenerateAll(ctx context.Context) (Attributes, error) {
	g.logger.Info("generating attributes",
		"themes", g.cfg.TargetCounts.Themes,
		"features_per_theme", g.cfg.TargetCounts.ThematicFeatures)

	themes := g.GenerateThemes(ctx)

	features := make(map[string][]string, len(themes))
	for i, theme := range themes {
		if err := ctx.Err(); err != nil {
			return Attributes{}, err
		}
		g.logger.Info("generating thematic features",
			"theme", theme, "progress", fmt.Sprintf("%d/%d", i+1, len(themes)))
		features[theme] = g.GenerateThematicFeatures(ctx, theme)
	}

	attrs := Attributes{
		Themes:           themes,
		ThematicFeatures: features,
		ArtStyles:        g.GenerateArtStyles(ctx),
		MusicStyles:      g.GenerateMusicStyles(ctx),
		Developers:       g.GenerateDevelopers(ctx),
	}

	if err := attrs.Validate(); err != nil {
		return Attributes{}, err
	}
	return attrs, nil
}

// GenerateThemes generates the core theme list.
func (g *AttributeGenerator) GenerateThemes(ctx context.Context) []string {
	count := g.cfg.TargetCounts.Themes
	themes, err := g.generateList(ctx, ThemesPrompt(count), count)
	if err != nil {
		g.logger.Error("theme generation failed, using fallback themes", "error", err)
		return fallbackThemes(count)
	}
	return themes
}

// GenerateThematicFeatures generates the feature bucket for one theme,
// padding with fallback features when the LLM returns too few.
func (g *AttributeGenerator) GenerateThematicFeatures(ctx context.Context, theme string) []string {
	count := g.cfg.TargetCounts.ThematicFeatures
	features, err := g.generateList(ctx, ThematicFeaturesPrompt(theme, count), count)
	if err != nil {
		g.logger.Error("feature generation failed, using fallback features",
			"theme", theme, "error", err)
		return fallbackFeatures(theme, count)
	}

	if len(features) < count {
		pad := fallbackFeatures(theme, count)
		features = append(features, pad[:count-len(features)]...)
	}
	return features
}

// GenerateArtStyles generates the global art style list.
func (g *AttributeGenerator) GenerateArtStyles(ctx context.Context) []string {
	count := g.cfg.TargetCounts.ArtStyles
	styles, err := g.generateList(ctx, ArtStylesPrompt(count), count)
	if err != nil {
		g.logger.Error("art style generation failed, using fallback styles", "error", err)
		return fallbackArtStyles(count)
	}
	return styles
}

// GenerateMusicStyles generates the global music style list.
func (g *AttributeGenerator) GenerateMusicStyles(ctx context.Context) []string {
	count := g.cfg.TargetCounts.MusicStyles
	styles, err := g.generateList(ctx, MusicStylesPrompt(count), count)
	if err != nil {
		g.logger.Error("music style generation failed, using fallback styles", "error", err)
		return fallbackMusicStyles(count)
	}
	return styles
}

// GenerateDevelopers generates the fictional developer list.
func (g *AttributeGenerator) GenerateDevelopers(ctx context.Context) []string {
	count := g.cfg.TargetCounts.Developers
	developers, err := g.generateList(ctx, DevelopersPrompt(count), count)
	if err != nil {
		g.logger.Error("developer generation failed, using fallback developers", "error", err)
		return fallbackDevelopers(count)
	}
	return developers
}

func (g *AttributeGenerator) generateList(ctx context.Context, prompt string, count int) ([]string, error) {
	if g.textGen == nil {
		return nil, provider.ErrNotConfigured
	}

	resp, err := g.textGen.ChatCompletion(ctx, provider.NewChatCompletionRequest(
		[]provider.Message{provider.UserMessage(prompt)},
	))
	if err != nil {
		return nil, err
	}

	items, err := ParseStringArray(resp.Content())
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("empty attribute list")
	}

	if len(items) != count {
		g.logger.Warn("attribute count mismatch", "expected", count, "got", len(items))
		if len(items) > count {
			items = items[:count]
		}
	}
	return items, nil
}

func fallbackThemes(count int) []string {
	return capList([]string{
		"Ancient Egypt", "Sci-Fi Adventure", "Fantasy Kingdom", "Wild West",
		"Underwater World", "Space Exploration", "Pirate Treasure", "Norse Mythology",
		"Jungle Adventure", "Steampunk", "Fairy Tale", "Asian Dynasty",
	}, count)
}

func fallbackArtStyles(count int) []string {
	return capList([]string{
		"Realistic 3D", "Cartoon Style", "Minimalist", "Art Deco",
		"Pixel Art", "Hand-drawn", "Photorealistic", "Stylized",
	}, count)
}

func fallbackMusicStyles(count int) []string {
	return capList([]string{
		"Epic Orchestral", "Upbeat Electronic", "Jazzy Lounge", "Mystical Ambient",
		"Rock Anthem", "Classical Symphony", "Tribal Drums", "Synthwave",
		"Folk Acoustic", "Heavy Metal",
	}, count)
}

func fallbackDevelopers(count int) []string {
	return capList([]string{
		"Golden Reel Studios", "Nexus Gaming", "Crimson Peak Entertainment",
		"Atlas Game Works", "Phoenix Interactive", "Thunder Bay Games",
		"Midnight Studios", "Crystal Vision", "Iron Gate Productions",
		"Starlight Gaming", "Diamond Edge", "Mystic Forge Games",
	}, count)
}

// fallbackFeatures builds a generic feature bucket for a theme, ending with
// one theme-flavored entry.
func fallbackFeatures(theme string, count int) []string {
	base := []string{"Wild Symbols", "Free Spins", "Multipliers", "Bonus Round", "Scatter Symbols"}

	themeWord := theme
	if fields := strings.Fields(theme); len(fields) > 0 {
		themeWord = fields[0]
	}
	thematic := fmt.Sprintf("%s Special Feature", themeWord)

	features := append(capList(base, count-1), thematic)
	return capList(features, count)
}

func capList(items []string, count int) []string {
	if count > 0 && len(items) > count {
		return items[:count]
	}
	return items
}
