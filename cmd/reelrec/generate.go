package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reelrec/reelrec/domain/game"
	"github.com/reelrec/reelrec/infrastructure/generation"
	"github.com/reelrec/reelrec/infrastructure/provider"
	"github.com/reelrec/reelrec/internal/config"
)

func generateCmd() *cobra.Command {
	var (
		envFile        string
		count          int
		attributesOnly bool
		regenerate     bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic slot game catalog",
		Long: `Generate a synthetic slot game catalog in two phases.

Phase 1 generates the attribute pools: themes, per-theme feature buckets,
art styles, music styles, and fictional developers. Phase 2 samples
coherent attribute sets and asks the LLM to flesh each one out into a
complete game record.

Attributes are cached at ATTRIBUTES_PATH and reused on later runs unless
--regenerate-attributes is given. Game generation requires a configured
CHAT_ENDPOINT; attribute generation degrades to built-in fallback lists
without one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), envFile, count, attributesOnly, regenerate)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().IntVar(&count, "count", 100, "Number of games to generate")
	cmd.Flags().BoolVar(&attributesOnly, "attributes-only", false, "Generate attributes and stop")
	cmd.Flags().BoolVar(&regenerate, "regenerate-attributes", false, "Regenerate attributes even if cached")

	return cmd
}

func runGenerate(ctx context.Context, envFile string, count int, attributesOnly, regenerate bool) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger := setupLogger(cfg)

	genCfg, err := generation.LoadConfig(cfg.GenerationConfigPath())
	if err != nil {
		return err
	}

	textGen, err := chatProvider(cfg)
	if err != nil {
		return err
	}

	attrs, err := loadOrGenerateAttributes(ctx, cfg, genCfg, textGen, regenerate)
	if err != nil {
		return err
	}
	if attributesOnly {
		fmt.Printf("Attributes written to %s\n", cfg.AttributesPath())
		return nil
	}

	if textGen == nil {
		return fmt.Errorf("game generation requires a chat endpoint: set CHAT_ENDPOINT_API_KEY")
	}

	gameGen, err := generation.NewGameGenerator(textGen, attrs, genCfg,
		generation.WithGeneratorLogger(logger))
	if err != nil {
		return err
	}

	games, err := gameGen.GenerateBatch(ctx, count)
	if err != nil {
		return fmt.Errorf("generate games: %w", err)
	}

	if err := game.SaveCatalog(cfg.CatalogPath(), games); err != nil {
		return err
	}

	fmt.Printf("Generated %d games to %s\n", len(games), cfg.CatalogPath())
	return nil
}

// chatProvider builds the text provider from the chat endpoint, or nil when
// the endpoint is not configured.
func chatProvider(cfg config.AppConfig) (*provider.OpenAIProvider, error) {
	endpoint := cfg.ChatEndpoint()
	if !endpoint.IsConfigured() {
		return nil, nil
	}
	return provider.NewOpenAIProviderFromEndpoint(endpoint)
}

func loadOrGenerateAttributes(ctx context.Context, cfg config.AppConfig, genCfg generation.Config, textGen *provider.OpenAIProvider, regenerate bool) (generation.Attributes, error) {
	path := cfg.AttributesPath()

	if !regenerate {
		if _, err := os.Stat(path); err == nil {
			return generation.LoadAttributes(path)
		}
	}

	// A typed nil pointer must not leak into the interface field.
	var tg provider.TextGenerator
	if textGen != nil {
		tg = textGen
	}

	attrs, err := generation.NewAttributeGenerator(tg, genCfg, nil).GenerateAll(ctx)
	if err != nil {
		return generation.Attributes{}, fmt.Errorf("generate attributes: %w", err)
	}

	if err := generation.SaveAttributes(attrs, path); err != nil {
		return generation.Attributes{}, err
	}
	return attrs, nil
}
