// Package reelrec provides a library for theme-aware slot game
// recommendations.
//
// Reelrec indexes a catalog of slot games into a vector store and answers
// "players who liked X" queries with a two-stage pipeline: cosine similarity
// retrieval followed by LLM reranking.
//
// Basic usage:
//
//	client, err := reelrec.New(
//	    reelrec.WithSQLite(".reelrec/reelrec.db"),
//	    reelrec.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Index a catalog
//	games, err := game.LoadCatalog("catalog.json")
//	indexed, err := client.Engine().BuildIndex(ctx, games)
//
//	// Query
//	recs, err := client.Recommend(ctx, "Pharaoh's Golden Vault")
package reelrec

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/reelrec/reelrec/application/service"
	"github.com/reelrec/reelrec/domain/recommend"
	"github.com/reelrec/reelrec/infrastructure/embedding"
	"github.com/reelrec/reelrec/infrastructure/provider"
	"github.com/reelrec/reelrec/infrastructure/reranker"
	"github.com/reelrec/reelrec/infrastructure/vectorstore"
	"github.com/reelrec/reelrec/internal/database"
)

// Client is the main entry point for the reelrec library.
type Client struct {
	db     database.Database
	store  *vectorstore.Store
	engine *service.SimilarityEngine

	textProvider      provider.TextGenerator
	embeddingProvider provider.Embedder

	logger        *slog.Logger
	dataDir       string
	catalogPath   string
	numCandidates int
	numFinal      int
	closed        atomic.Bool
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.storage == storageUnset {
		return nil, ErrNoStorage
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(cfg.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	catalogPath := cfg.catalogPath
	if catalogPath == "" {
		catalogPath = filepath.Join(cfg.dataDir, "catalog.json")
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, databaseURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store, err := vectorstore.NewStore(db, vectorstore.WithLogger(logger))
	if err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("init vector store: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("init vector store: %w", err)
	}

	processorOpts := []embedding.GeneratorOption{
		embedding.WithLogger(logger),
		embedding.WithParallelism(cfg.embedBatchSize),
	}
	if cfg.textProvider != nil {
		processorOpts = append(processorOpts, embedding.WithTextGenerator(cfg.textProvider))
	}
	processor := embedding.NewGenerator(cfg.embeddingProvider, processorOpts...)

	rerank := reranker.New(cfg.textProvider, reranker.WithLogger(logger))

	engine := service.NewSimilarityEngine(processor, store, rerank,
		service.WithEngineLogger(logger),
		service.WithEmbeddingModel(cfg.embeddingModel))

	return &Client{
		db:                db,
		store:             store,
		engine:            engine,
		textProvider:      cfg.textProvider,
		embeddingProvider: cfg.embeddingProvider,
		logger:            logger,
		dataDir:           cfg.dataDir,
		catalogPath:       catalogPath,
		numCandidates:     cfg.numCandidates,
		numFinal:          cfg.numFinal,
	}, nil
}

// Close releases the database connection.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("reelrec client closed")
	return nil
}

// Engine returns the similarity engine.
func (c *Client) Engine() *service.SimilarityEngine {
	return c.engine
}

// Recommend answers a recommendation query with the client's configured
// candidate pool and result sizes.
func (c *Client) Recommend(ctx context.Context, gameID string) ([]recommend.Recommendation, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	return c.engine.Recommendations(ctx, gameID, c.numCandidates, c.numFinal)
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// TextProvider returns the configured text generation provider, or nil.
func (c *Client) TextProvider() provider.TextGenerator {
	return c.textProvider
}

// EmbeddingProvider returns the configured embedding provider, or nil.
func (c *Client) EmbeddingProvider() provider.Embedder {
	return c.embeddingProvider
}

// CatalogPath returns the default catalog file path.
func (c *Client) CatalogPath() string {
	return c.catalogPath
}

// DataDir returns the client's data directory.
func (c *Client) DataDir() string {
	return c.dataDir
}

func databaseURL(cfg *clientConfig) string {
	if cfg.storage == storageSQLite {
		return "sqlite:///" + cfg.dbPath
	}
	return cfg.dbDSN
}
