// Package embedding turns slot games into searchable overviews and vector
// embeddings.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/reelrec/reelrec/domain/game"
	"github.com/reelrec/reelrec/domain/recommend"
	"github.com/reelrec/reelrec/infrastructure/provider"
)

// ErrNoEmbedder indicates the generator was built without an embedding provider.
var ErrNoEmbedder = errors.New("no embedding provider configured")

const overviewTemperature = 0.6

// Generator creates game overviews and embeds them. Overview generation
// uses the text provider when one is available and degrades to the
// programmatic overview otherwise.
type Generator struct {
	textGen  provider.TextGenerator
	embedder provider.Embedder
	parallel int
	logger   *slog.Logger
}

// GeneratorOption is a functional option for Generator.
type GeneratorOption func(*Generator)

// WithTextGenerator sets the provider used for LLM overview generation.
func WithTextGenerator(tg provider.TextGenerator) GeneratorOption {
	return func(g *Generator) { g.textGen = tg }
}

// WithParallelism sets how many games are processed concurrently.
func WithParallelism(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.parallel = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a Generator backed by the given embedder.
func NewGenerator(embedder provider.Embedder, opts ...GeneratorOption) *Generator {
	g := &Generator{
		embedder: embedder,
		parallel: 4,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Overview produces the overview text for a game. Any LLM failure falls
// back to the programmatic overview rather than propagating.
func (g *Generator) Overview(ctx context.Context, sg game.SlotGame) string {
	if g.textGen == nil {
		return ProgrammaticOverview(sg)
	}

	prompt, err := OverviewPrompt(sg)
	if err != nil {
		g.logger.Warn("overview prompt failed, using programmatic overview",
			"game", sg.Name, "error", err)
		return ProgrammaticOverview(sg)
	}

	req := provider.NewChatCompletionRequest([]provider.Message{
		provider.UserMessage(prompt),
	}).WithTemperature(overviewTemperature)

	resp, err := g.textGen.ChatCompletion(ctx, req)
	if err != nil || strings.TrimSpace(resp.Content()) == "" {
		g.logger.Warn("llm overview failed, using programmatic overview",
			"game", sg.Name, "error", err)
		return ProgrammaticOverview(sg)
	}

	return strings.TrimSpace(resp.Content())
}

// Process turns one game into a ProcessedGame ready for the vector store.
func (g *Generator) Process(ctx context.Context, sg game.SlotGame) (recommend.ProcessedGame, error) {
	if g.embedder == nil {
		return recommend.ProcessedGame{}, ErrNoEmbedder
	}

	overview := g.Overview(ctx, sg)

	resp, err := g.embedder.Embed(ctx, provider.NewEmbeddingRequest([]string{overview}))
	if err != nil {
		return recommend.ProcessedGame{}, fmt.Errorf("embed game %q: %w", sg.Name, err)
	}

	embeddings := resp.Embeddings()
	if len(embeddings) == 0 {
		return recommend.ProcessedGame{}, fmt.Errorf("embed game %q: empty response", sg.Name)
	}

	return recommend.NewProcessedGame(sg.ID(), overview, embeddings[0], Metadata(sg)), nil
}

// ProcessBatch processes games concurrently. Individual failures are logged
// and skipped so one bad game never aborts an index build.
func (g *Generator) ProcessBatch(ctx context.Context, games []game.SlotGame) ([]recommend.ProcessedGame, error) {
	if g.embedder == nil {
		return nil, ErrNoEmbedder
	}

	results := make([]recommend.ProcessedGame, len(games))
	ok := make([]bool, len(games))
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallel)

	for i, sg := range games {
		i, sg := i, sg
		eg.Go(func() error {
			processed, err := g.Process(egCtx, sg)
			if err != nil {
				if egCtx.Err() != nil {
					return egCtx.Err()
				}
				g.logger.Error("skipping game after processing failure",
					"game", sg.Name, "error", err)
				return nil
			}
			mu.Lock()
			results[i] = processed
			ok[i] = true
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	processed := make([]recommend.ProcessedGame, 0, len(games))
	for i := range results {
		if ok[i] {
			processed = append(processed, results[i])
		}
	}

	g.logger.Info("processed games for embedding",
		"processed", len(processed), "total", len(games))

	return processed, nil
}

// Metadata flattens a game into the string map stored alongside its vector.
// List fields are joined so the stored form stays a flat key-value map.
func Metadata(sg game.SlotGame) map[string]string {
	return map[string]string{
		"theme":               sg.Theme,
		"volatility":          string(sg.Volatility),
		"rtp":                 strconv.FormatFloat(sg.RTP, 'f', -1, 64),
		"complexity":          sg.ComplexityLevel,
		"developer":           sg.Developer,
		"special_features":    strings.Join(sg.SpecialFeatures, ", "),
		"target_demographics": strings.Join(sg.TargetDemographics, ", "),
		"tags":                strings.Join(sg.Tags, ", "),
		"art_style":           sg.ArtStyle,
		"music_style":         sg.MusicStyle,
	}
}
