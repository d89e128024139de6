package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/reelrec/reelrec/domain/game"
	"github.com/reelrec/reelrec/infrastructure/provider"
)

// AttributeSet is one sampled bundle of guidelines for generating a game.
type AttributeSet struct {
	Theme           string
	ArtStyle        string
	MusicStyle      string
	Volatility      string
	SpecialFeatures []string
	Developer       string
	ComplexityLevel string
}

// GameGenerator runs phase 2: sampling attribute sets and asking the LLM to
// flesh them out into complete games. Batch calls that return unusable JSON
// fall back to generating the batch's games individually.
type GameGenerator struct {
	textGen provider.TextGenerator
	attrs   Attributes
	cfg     Config
	rng     *rand.Rand
	logger  *slog.Logger
}

// GameGeneratorOption is a functional option for GameGenerator.
type GameGeneratorOption func(*GameGenerator)

// WithRand sets the random source used for attribute sampling.
func WithRand(rng *rand.Rand) GameGeneratorOption {
	return func(g *GameGenerator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// WithGeneratorLogger sets the logger.
func WithGeneratorLogger(logger *slog.Logger) GameGeneratorOption {
	return func(g *GameGenerator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGameGenerator creates a GameGenerator over a phase 1 attribute set.
func NewGameGenerator(textGen provider.TextGenerator, attrs Attributes, cfg Config, opts ...GameGeneratorOption) (*GameGenerator, error) {
	if err := attrs.Validate(); err != nil {
		return nil, err
	}

	g := &GameGenerator{
		textGen: textGen,
		attrs:   attrs,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// SampleAttributes draws one coherent attribute set. The theme is sampled
// first and special features come only from that theme's bucket.
func (g *GameGenerator) SampleAttributes() AttributeSet {
	theme := g.attrs.Themes[g.rng.Intn(len(g.attrs.Themes))]
	bucket := g.attrs.ThematicFeatures[theme]

	numFeatures := g.cfg.MinFeaturesPerGame
	if spread := g.cfg.MaxFeaturesPerGame - g.cfg.MinFeaturesPerGame; spread > 0 {
		numFeatures += g.rng.Intn(spread + 1)
	}
	if numFeatures > len(bucket) {
		numFeatures = len(bucket)
	}

	perm := g.rng.Perm(len(bucket))
	features := make([]string, numFeatures)
	for i := 0; i < numFeatures; i++ {
		features[i] = bucket[perm[i]]
	}

	return AttributeSet{
		Theme:           theme,
		ArtStyle:        g.attrs.ArtStyles[g.rng.Intn(len(g.attrs.ArtStyles))],
		MusicStyle:      g.attrs.MusicStyles[g.rng.Intn(len(g.attrs.MusicStyles))],
		Volatility:      g.sampleWeighted(g.cfg.VolatilityDistribution),
		SpecialFeatures: features,
		Developer:       g.attrs.Developers[g.rng.Intn(len(g.attrs.Developers))],
		ComplexityLevel: g.sampleWeighted(g.cfg.ComplexityDistribution),
	}
}

func (g *GameGenerator) sampleWeighted(distribution map[string]float64) string {
	keys := make([]string, 0, len(distribution))
	for k := range distribution {
		keys = append(keys, k)
	}
	// Map iteration order is random; sort for a stable cumulative walk.
	sort.Strings(keys)

	var total float64
	for _, k := range keys {
		total += distribution[k]
	}
	if total <= 0 || len(keys) == 0 {
		return ""
	}

	r := g.rng.Float64() * total
	var cum float64
	for _, k := range keys {
		cum += distribution[k]
		if r < cum {
			return k
		}
	}
	return keys[len(keys)-1]
}

// GenerateGame generates a single game from one attribute set.
func (g *GameGenerator) GenerateGame(ctx context.Context, attrs AttributeSet) (game.SlotGame, error) {
	if g.textGen == nil {
		return game.SlotGame{}, provider.ErrNotConfigured
	}

	g.logger.Info("generating game", "theme", attrs.Theme)

	resp, err := g.textGen.ChatCompletion(ctx, provider.NewChatCompletionRequest(
		[]provider.Message{provider.UserMessage(GamePrompt(attrs))},
	))
	if err != nil {
		return game.SlotGame{}, fmt.Errorf("generate game: %w", err)
	}

	extracted, err := ExtractJSON(resp.Content())
	if err != nil {
		return game.SlotGame{}, fmt.Errorf("generate game: %w", err)
	}

	var raw rawGame
	if err := json.Unmarshal([]byte(extracted), &raw); err != nil {
		return game.SlotGame{}, fmt.Errorf("generate game: decode response: %w", err)
	}

	return g.validateAndClean(raw, attrs)
}

// GenerateBatch generates count games, batchSize per LLM call.
func (g *GameGenerator) GenerateBatch(ctx context.Context, count int) ([]game.SlotGame, error) {
	if g.textGen == nil {
		return nil, provider.ErrNotConfigured
	}

	batchSize := g.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 5
	}

	g.logger.Info("starting batch game generation", "count", count, "batch_size", batchSize)

	games := make([]game.SlotGame, 0, count)
	for start := 0; start < count; start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n := batchSize
		if start+n > count {
			n = count - start
		}

		sets := make([]AttributeSet, n)
		for i := range sets {
			sets[i] = g.SampleAttributes()
		}

		batch, err := g.generateGameBatch(ctx, sets)
		if err != nil {
			return nil, fmt.Errorf("batch starting at game %d: %w", start+1, err)
		}
		games = append(games, batch...)

		g.logger.Info("completed batch", "generated", len(games), "target", count)
	}

	return games, nil
}

// generateGameBatch generates games for the given attribute sets in one LLM
// call, falling back to individual generation when the batch response is not
// a decodable JSON array.
func (g *GameGenerator) generateGameBatch(ctx context.Context, sets []AttributeSet) ([]game.SlotGame, error) {
	resp, err := g.textGen.ChatCompletion(ctx, provider.NewChatCompletionRequest(
		[]provider.Message{provider.UserMessage(BatchGamePrompt(sets))},
	))
	if err != nil {
		return nil, fmt.Errorf("batch generation: %w", err)
	}

	raws, err := decodeGameArray(resp.Content())
	if err != nil {
		g.logger.Warn("batch response unusable, generating games individually", "error", err)
		return g.generateIndividually(ctx, sets)
	}

	games := make([]game.SlotGame, 0, len(raws))
	for i, raw := range raws {
		attrs := AttributeSet{}
		if i < len(sets) {
			attrs = sets[i]
		}
		cleaned, err := g.validateAndClean(raw, attrs)
		if err != nil {
			return nil, fmt.Errorf("batch game %d: %w", i+1, err)
		}
		games = append(games, cleaned)
	}
	return games, nil
}

func (g *GameGenerator) generateIndividually(ctx context.Context, sets []AttributeSet) ([]game.SlotGame, error) {
	games := make([]game.SlotGame, 0, len(sets))
	for i, attrs := range sets {
		generated, err := g.GenerateGame(ctx, attrs)
		if err != nil {
			return nil, fmt.Errorf("individual game %d: %w", i+1, err)
		}
		games = append(games, generated)
	}
	return games, nil
}

func decodeGameArray(content string) ([]rawGame, error) {
	extracted, err := ExtractJSON(content)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(strings.TrimSpace(extracted), "[") {
		return nil, fmt.Errorf("expected JSON array")
	}

	var raws []rawGame
	if err := json.Unmarshal([]byte(extracted), &raws); err != nil {
		return nil, fmt.Errorf("decode game array: %w", err)
	}
	return raws, nil
}

// rawGame is the loosely-typed decode target for LLM game output. Pointer
// and interface fields distinguish absent values from zero values so
// defaults only fill genuine gaps.
type rawGame struct {
	Name                  string    `json:"name"`
	Description           string    `json:"description"`
	Theme                 string    `json:"theme"`
	Volatility            string    `json:"volatility"`
	RTP                   any       `json:"rtp"`
	ArtStyle              string    `json:"art_style"`
	MusicStyle            string    `json:"music_style"`
	Reels                 int       `json:"reels"`
	Paylines              int       `json:"paylines"`
	SpecialFeatures       any       `json:"special_features"`
	HasBonusRound         *bool     `json:"has_bonus_round"`
	HasProgressiveJackpot *bool     `json:"has_progressive_jackpot"`
	MaxWinMultiplier      int       `json:"max_win_multiplier"`
	ComplexityLevel       string    `json:"complexity_level"`
	TargetDemographics    []string  `json:"target_demographics"`
	ReleaseYear           int       `json:"release_year"`
	Developer             string    `json:"developer"`
	Tags                  []string  `json:"tags"`
}

// validateAndClean enforces required fields, clamps RTP into its legal
// range, and fills defaults for anything the LLM omitted.
func (g *GameGenerator) validateAndClean(raw rawGame, attrs AttributeSet) (game.SlotGame, error) {
	if raw.Name == "" || raw.Description == "" || raw.Theme == "" {
		return game.SlotGame{}, fmt.Errorf("%w: generated game missing required fields", game.ErrValidation)
	}

	volatility, err := game.ParseVolatility(raw.Volatility)
	if err != nil {
		return game.SlotGame{}, err
	}

	rtp, err := parseRTP(raw.RTP)
	if err != nil {
		return game.SlotGame{}, err
	}
	rtp = clamp(rtp, game.MinRTP, game.MaxRTP)

	features, err := parseFeatures(raw.SpecialFeatures)
	if err != nil {
		return game.SlotGame{}, err
	}

	sg := game.SlotGame{
		Name:               raw.Name,
		Description:        raw.Description,
		Theme:              raw.Theme,
		Volatility:         volatility,
		RTP:                rtp,
		ArtStyle:           raw.ArtStyle,
		MusicStyle:         raw.MusicStyle,
		Reels:              raw.Reels,
		Paylines:           raw.Paylines,
		SpecialFeatures:    features,
		MaxWinMultiplier:   raw.MaxWinMultiplier,
		ComplexityLevel:    raw.ComplexityLevel,
		TargetDemographics: raw.TargetDemographics,
		ReleaseYear:        raw.ReleaseYear,
		Developer:          raw.Developer,
		Tags:               raw.Tags,
	}

	if raw.HasBonusRound != nil {
		sg.HasBonusRound = *raw.HasBonusRound
	} else {
		sg.HasBonusRound = g.rng.Intn(2) == 0
	}
	if raw.HasProgressiveJackpot != nil {
		sg.HasProgressiveJackpot = *raw.HasProgressiveJackpot
	} else {
		sg.HasProgressiveJackpot = g.rng.Intn(4) == 0
	}

	if sg.Reels == 0 {
		sg.Reels = 5
	}
	if sg.Paylines == 0 {
		sg.Paylines = 10 + g.rng.Intn(41)
	}
	if sg.MaxWinMultiplier == 0 {
		sg.MaxWinMultiplier = 100 + g.rng.Intn(9901)
	}
	if sg.ComplexityLevel == "" {
		if attrs.ComplexityLevel != "" {
			sg.ComplexityLevel = attrs.ComplexityLevel
		} else {
			sg.ComplexityLevel = "Intermediate"
		}
	}
	if len(sg.TargetDemographics) == 0 {
		sg.TargetDemographics = []string{"Casual Players", "Slot Enthusiasts"}
	}
	if sg.ReleaseYear == 0 {
		sg.ReleaseYear = 2023 + g.rng.Intn(2)
	}
	if sg.Developer == "" {
		if attrs.Developer != "" {
			sg.Developer = attrs.Developer
		} else {
			sg.Developer = "Unknown Studio"
		}
	}
	if sg.ArtStyle == "" {
		sg.ArtStyle = attrs.ArtStyle
	}
	if sg.MusicStyle == "" {
		sg.MusicStyle = attrs.MusicStyle
	}

	if err := sg.Validate(); err != nil {
		return game.SlotGame{}, err
	}
	return sg, nil
}

// parseRTP accepts the numeric and string spellings LLMs produce ("0.96",
// "96%", 0.96).
func parseRTP(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "%"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: unparseable rtp %q", game.ErrValidation, val)
		}
		if f > 1 {
			f /= 100
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("%w: generated game missing rtp", game.ErrValidation)
	default:
		return 0, fmt.Errorf("%w: unexpected rtp type %T", game.ErrValidation, v)
	}
}

// parseFeatures accepts either a JSON array or a single string.
func parseFeatures(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{val}, nil
	case []any:
		features := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: special_features entries must be strings", game.ErrValidation)
			}
			features = append(features, s)
		}
		return features, nil
	default:
		return nil, fmt.Errorf("%w: special_features must be a list, got %T", game.ErrValidation, v)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
