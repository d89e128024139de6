package generation

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelrec/reelrec/domain/game"
	"github.com/reelrec/reelrec/infrastructure/provider"
)

// scriptedTextGen returns queued responses in order, then repeats the last.
type scriptedTextGen struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (s *scriptedTextGen) ChatCompletion(_ context.Context, req provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	if msgs := req.Messages(); len(msgs) > 0 {
		s.prompts = append(s.prompts, msgs[0].Content())
	}
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return provider.ChatCompletionResponse{}, s.errs[i]
	}
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return provider.NewChatCompletionResponse(s.responses[i], "stop", provider.Usage{}), nil
}

func testAttributes() Attributes {
	return Attributes{
		Themes: []string{"Ancient Egypt", "Sci-Fi Adventure"},
		ThematicFeatures: map[string][]string{
			"Ancient Egypt":    {"Tomb Bonus", "Scarab Wilds", "Pyramid Spins", "Ankh Wilds", "Mummy Re-spins", "Pharaoh's Gold"},
			"Sci-Fi Adventure": {"Hyperspace Jump", "Laser Wilds", "Time Warp", "Robot Spins", "Alien Cascades", "Galactic Multipliers"},
		},
		ArtStyles:   []string{"Realistic 3D", "Pixel Art"},
		MusicStyles: []string{"Epic Orchestral", "Synthwave"},
		Developers:  []string{"Golden Reel Studios", "Nexus Gaming"},
	}
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

const generatedGameJSON = `{
  "name": "Pharaoh's Golden Vault",
  "description": "Explore ancient Egyptian tombs for hidden treasures across five reels of shifting sands.",
  "theme": "Ancient Egypt",
  "volatility": "medium",
  "rtp": 0.96,
  "art_style": "Realistic 3D",
  "music_style": "Epic Orchestral",
  "reels": 5,
  "paylines": 25,
  "special_features": ["Tomb Bonus", "Scarab Wilds"],
  "has_bonus_round": true,
  "has_progressive_jackpot": false,
  "max_win_multiplier": 5000,
  "complexity_level": "Intermediate",
  "target_demographics": ["Casino Enthusiasts"],
  "release_year": 2024,
  "developer": "Golden Reel Studios",
  "tags": ["egypt", "adventure"]
}`

func TestSampleAttributesStaysInThemeBucket(t *testing.T) {
	gen, err := NewGameGenerator(nil, testAttributes(), DefaultConfig(), WithRand(testRNG()))
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		attrs := gen.SampleAttributes()

		bucket := testAttributes().ThematicFeatures[attrs.Theme]
		require.NotEmpty(t, bucket, "sampled unknown theme %q", attrs.Theme)
		for _, f := range attrs.SpecialFeatures {
			assert.Contains(t, bucket, f)
		}

		assert.GreaterOrEqual(t, len(attrs.SpecialFeatures), 2)
		assert.LessOrEqual(t, len(attrs.SpecialFeatures), 4)
		assert.Contains(t, []string{"low", "medium", "high"}, attrs.Volatility)
		assert.Contains(t, []string{"Beginner", "Intermediate", "Advanced"}, attrs.ComplexityLevel)
	}
}

func TestSampleWeightedRespectsDistribution(t *testing.T) {
	gen, err := NewGameGenerator(nil, testAttributes(), DefaultConfig(), WithRand(testRNG()))
	require.NoError(t, err)

	counts := map[string]int{}
	for i := 0; i < 5000; i++ {
		counts[gen.sampleWeighted(map[string]float64{"low": 0.3, "medium": 0.5, "high": 0.2})]++
	}

	assert.InDelta(t, 1500, counts["low"], 200)
	assert.InDelta(t, 2500, counts["medium"], 200)
	assert.InDelta(t, 1000, counts["high"], 200)
}

func TestGenerateGameParsesResponse(t *testing.T) {
	textGen := &scriptedTextGen{responses: []string{generatedGameJSON}}
	gen, err := NewGameGenerator(textGen, testAttributes(), DefaultConfig(), WithRand(testRNG()))
	require.NoError(t, err)

	sg, err := gen.GenerateGame(context.Background(), gen.SampleAttributes())
	require.NoError(t, err)

	assert.Equal(t, "Pharaoh's Golden Vault", sg.Name)
	assert.Equal(t, game.VolatilityMedium, sg.Volatility)
	assert.InDelta(t, 0.96, sg.RTP, 1e-9)
	assert.True(t, sg.HasBonusRound)
}

func TestValidateAndCleanClampsRTP(t *testing.T) {
	gen, err := NewGameGenerator(nil, testAttributes(), DefaultConfig(), WithRand(testRNG()))
	require.NoError(t, err)

	raw := rawGame{
		Name:        "Overpromiser",
		Description: "A game promising too much.",
		Theme:       "Ancient Egypt",
		Volatility:  "high",
		RTP:         1.25,
	}

	sg, err := gen.validateAndClean(raw, AttributeSet{})
	require.NoError(t, err)
	assert.InDelta(t, game.MaxRTP, sg.RTP, 1e-9)

	raw.RTP = 0.5
	sg, err = gen.validateAndClean(raw, AttributeSet{})
	require.NoError(t, err)
	assert.InDelta(t, game.MinRTP, sg.RTP, 1e-9)
}

func TestValidateAndCleanAcceptsStringRTP(t *testing.T) {
	gen, err := NewGameGenerator(nil, testAttributes(), DefaultConfig(), WithRand(testRNG()))
	require.NoError(t, err)

	raw := rawGame{
		Name:        "Percent Game",
		Description: "RTP spelled as a percentage.",
		Theme:       "Sci-Fi Adventure",
		Volatility:  "low",
		RTP:         "96%",
	}

	sg, err := gen.validateAndClean(raw, AttributeSet{})
	require.NoError(t, err)
	assert.InDelta(t, 0.96, sg.RTP, 1e-9)
}

func TestValidateAndCleanFillsDefaults(t *testing.T) {
	gen, err := NewGameGenerator(nil, testAttributes(), DefaultConfig(), WithRand(testRNG()))
	require.NoError(t, err)

	raw := rawGame{
		Name:            "Bare Bones",
		Description:     "Minimal LLM output.",
		Theme:           "Ancient Egypt",
		Volatility:      "medium",
		RTP:             0.9,
		SpecialFeatures: "Tomb Bonus",
	}
	attrs := AttributeSet{
		Developer:       "Nexus Gaming",
		ComplexityLevel: "Beginner",
		ArtStyle:        "Pixel Art",
		MusicStyle:      "Synthwave",
	}

	sg, err := gen.validateAndClean(raw, attrs)
	require.NoError(t, err)

	assert.Equal(t, 5, sg.Reels)
	assert.GreaterOrEqual(t, sg.Paylines, 10)
	assert.LessOrEqual(t, sg.Paylines, 50)
	assert.GreaterOrEqual(t, sg.MaxWinMultiplier, 100)
	assert.LessOrEqual(t, sg.MaxWinMultiplier, 10000)
	assert.Equal(t, []string{"Tomb Bonus"}, sg.SpecialFeatures)
	assert.Equal(t, "Beginner", sg.ComplexityLevel)
	assert.Equal(t, "Nexus Gaming", sg.Developer)
	assert.Equal(t, "Pixel Art", sg.ArtStyle)
	assert.Equal(t, []string{"Casual Players", "Slot Enthusiasts"}, sg.TargetDemographics)
	assert.Contains(t, []int{2023, 2024}, sg.ReleaseYear)
}

func TestValidateAndCleanRejectsBadVolatility(t *testing.T) {
	gen, err := NewGameGenerator(nil, testAttributes(), DefaultConfig(), WithRand(testRNG()))
	require.NoError(t, err)

	raw := rawGame{
		Name:        "Wobbly",
		Description: "Bad volatility value.",
		Theme:       "Ancient Egypt",
		Volatility:  "extreme",
		RTP:         0.9,
	}

	_, err = gen.validateAndClean(raw, AttributeSet{})
	assert.ErrorIs(t, err, game.ErrInvalidVolatility)
}

func TestGenerateBatchParsesArray(t *testing.T) {
	batch := "```json\n[" + generatedGameJSON + "]\n```"
	textGen := &scriptedTextGen{responses: []string{batch}}

	cfg := DefaultConfig()
	cfg.BatchSize = 1
	gen, err := NewGameGenerator(textGen, testAttributes(), cfg, WithRand(testRNG()))
	require.NoError(t, err)

	games, err := gen.GenerateBatch(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Pharaoh's Golden Vault", games[0].Name)
}

func TestGenerateBatchFallsBackToIndividual(t *testing.T) {
	// Batch call returns prose; the two individual retries return games.
	textGen := &scriptedTextGen{responses: []string{
		"I cannot produce that array.",
		generatedGameJSON,
		generatedGameJSON,
	}}

	cfg := DefaultConfig()
	cfg.BatchSize = 2
	gen, err := NewGameGenerator(textGen, testAttributes(), cfg, WithRand(testRNG()))
	require.NoError(t, err)

	games, err := gen.GenerateBatch(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, games, 2)
	assert.Equal(t, 3, textGen.calls)
}

func TestGenerateBatchPropagatesLLMError(t *testing.T) {
	textGen := &scriptedTextGen{
		responses: []string{""},
		errs:      []error{errors.New("provider down")},
	}
	gen, err := NewGameGenerator(textGen, testAttributes(), DefaultConfig(), WithRand(testRNG()))
	require.NoError(t, err)

	_, err = gen.GenerateBatch(context.Background(), 3)
	assert.Error(t, err)
}

func TestNewGameGeneratorRejectsInvalidAttributes(t *testing.T) {
	_, err := NewGameGenerator(nil, Attributes{}, DefaultConfig())
	assert.Error(t, err)
}
