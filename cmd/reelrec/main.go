// Package main is the entry point for the reelrec CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reelrec/reelrec"
	"github.com/reelrec/reelrec/internal/config"
	"github.com/reelrec/reelrec/internal/log"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reelrec",
		Short: "Slot game recommendation engine",
		Long:  `Reelrec generates a synthetic slot game catalog, indexes it into a vector store, and serves theme-aware recommendations through a retrieve-then-rerank pipeline.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(generateCmd())
	cmd.AddCommand(indexCmd())
	cmd.AddCommand(recommendCmd())
	cmd.AddCommand(statusCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// setupLogger builds the logger and installs it as the slog default.
func setupLogger(cfg config.AppConfig) *slog.Logger {
	return log.Configure(log.ParseFormat(cfg.LogFormat()), cfg.LogLevel())
}

// newClient builds a reelrec client from the app configuration.
func newClient(cfg config.AppConfig, logger *slog.Logger) (*reelrec.Client, error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	opts := []reelrec.Option{
		reelrec.WithDataDir(cfg.DataDir()),
		reelrec.WithCatalogPath(cfg.CatalogPath()),
		reelrec.WithRetrievalSizes(cfg.NumCandidates(), cfg.NumFinal()),
		reelrec.WithEmbedBatchSize(cfg.EmbedBatchSize()),
		reelrec.WithEndpoints(cfg.ChatEndpoint(), cfg.EmbeddingEndpoint()),
		reelrec.WithLogger(logger),
	}

	dbURL := cfg.DBURL()
	if strings.HasPrefix(dbURL, "sqlite:///") {
		opts = append(opts, reelrec.WithSQLite(strings.TrimPrefix(dbURL, "sqlite:///")))
	} else {
		opts = append(opts, reelrec.WithPostgres(dbURL))
	}

	client, err := reelrec.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create reelrec client: %w", err)
	}
	return client, nil
}
