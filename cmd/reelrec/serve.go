package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reelrec/reelrec/infrastructure/api"
	v1 "github.com/reelrec/reelrec/infrastructure/api/v1"
	"github.com/reelrec/reelrec/internal/config"
)

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                  Server host to bind to (default: 0.0.0.0)
  PORT                  Server port to listen on (default: 8080)
  DATA_DIR              Data directory (default: ~/.reelrec)
  DB_URL                Database URL (default: sqlite:///{data_dir}/reelrec.db)
  LOG_LEVEL             Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT            Log format: pretty, json (default: pretty)
  CATALOG_PATH          Game catalog JSON path (default: {data_dir}/games.json)
  NUM_CANDIDATES        Vector-search candidate pool size (default: 10)
  NUM_FINAL             Final recommendation count (default: 3)
  EMBED_BATCH_SIZE      Concurrent embeddings during index builds (default: 10)

  CHAT_ENDPOINT_*       Chat completion AI service configuration
    BASE_URL            Base URL (e.g., https://api.openai.com/v1)
    MODEL               Model identifier (e.g., gpt-4o-mini)
    API_KEY             API key for authentication
    TIMEOUT             Request timeout in seconds (default: 60)
    MAX_RETRIES         Retry attempts (default: 3)
    RETRY_DELAY         Fixed delay between retries in seconds (default: 2)
    MIN_INTERVAL        Minimum seconds between requests (default: 0.5)

  EMBEDDING_ENDPOINT_*  Embedding AI service configuration
    (same fields as CHAT_ENDPOINT)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, host, port)

	logger := setupLogger(cfg)

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	logger.LogAttrs(context.Background(), slog.LevelInfo, "starting reelrec", attrs...)

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close reelrec client", slog.Any("error", err))
		}
	}()

	server := api.NewServer(cfg.Addr(), logger)
	server.Router().Mount("/api/v1", v1.Router(client.Engine(), client.CatalogPath(),
		cfg.NumCandidates(), cfg.NumFinal(), logger))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	if err := server.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
