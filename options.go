package reelrec

import (
	"log/slog"

	"github.com/reelrec/reelrec/infrastructure/provider"
	"github.com/reelrec/reelrec/internal/config"
)

// storageType identifies the database backend.
type storageType int

const (
	storageUnset storageType = iota
	storageSQLite
	storagePostgres
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	storage           storageType
	dbPath            string
	dbDSN             string
	dataDir           string
	catalogPath       string
	textProvider      provider.TextGenerator
	embeddingProvider provider.Embedder
	embeddingModel    string
	numCandidates     int
	numFinal          int
	embedBatchSize    int
	logger            *slog.Logger
}

// newClientConfig creates a clientConfig with defaults from internal/config.
func newClientConfig() *clientConfig {
	return &clientConfig{
		dataDir:        config.DefaultDataDir(),
		embeddingModel: config.DefaultEmbeddingModel,
		numCandidates:  config.DefaultNumCandidates,
		numFinal:       config.DefaultNumFinal,
		embedBatchSize: config.DefaultEmbedBatchSize,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures SQLite as the database.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.storage = storageSQLite
		c.dbPath = path
	}
}

// WithPostgres configures PostgreSQL as the database.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.storage = storagePostgres
		c.dbDSN = dsn
	}
}

// WithOpenAI sets OpenAI as the AI provider (text + embeddings).
func WithOpenAI(apiKey string) Option {
	return func(c *clientConfig) {
		p := provider.NewOpenAIProvider(apiKey)
		c.textProvider = p
		c.embeddingProvider = p
	}
}

// WithEndpoints builds providers from chat and embedding endpoint
// configurations. An unconfigured endpoint leaves its provider nil, which
// degrades the pipeline to its non-LLM fallbacks.
func WithEndpoints(chat, embed config.Endpoint) Option {
	return func(c *clientConfig) {
		if chat.IsConfigured() {
			if p, err := provider.NewOpenAIProviderFromEndpoint(chat); err == nil {
				c.textProvider = p
			}
		}
		if embed.IsConfigured() {
			if p, err := provider.NewOpenAIProviderFromEndpoint(embed); err == nil {
				c.embeddingProvider = p
				c.embeddingModel = embed.Model()
			}
		}
	}
}

// WithTextProvider sets a custom text generation provider.
func WithTextProvider(p provider.TextGenerator) Option {
	return func(c *clientConfig) {
		c.textProvider = p
	}
}

// WithEmbeddingProvider sets a custom embedding provider. model is the
// identifier reported by index status.
func WithEmbeddingProvider(p provider.Embedder, model string) Option {
	return func(c *clientConfig) {
		c.embeddingProvider = p
		if model != "" {
			c.embeddingModel = model
		}
	}
}

// WithDataDir sets the directory for database and catalog storage.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.dataDir = dir
	}
}

// WithCatalogPath sets the default catalog file used by index builds.
func WithCatalogPath(path string) Option {
	return func(c *clientConfig) {
		c.catalogPath = path
	}
}

// WithRetrievalSizes sets the default candidate pool and final result sizes
// for recommendation queries.
func WithRetrievalSizes(numCandidates, numFinal int) Option {
	return func(c *clientConfig) {
		if numCandidates > 0 {
			c.numCandidates = numCandidates
		}
		if numFinal > 0 {
			c.numFinal = numFinal
		}
	}
}

// WithEmbedBatchSize sets how many games are embedded concurrently during
// index builds.
func WithEmbedBatchSize(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.embedBatchSize = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
