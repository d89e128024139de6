// Package service orchestrates the recommendation pipeline: indexing a game
// catalog into the vector store and answering two-stage (retrieve, rerank)
// recommendation queries.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/reelrec/reelrec/domain/game"
	"github.com/reelrec/reelrec/domain/recommend"
)

// GameProcessor turns catalog records into embedded, persistable games.
type GameProcessor interface {
	ProcessBatch(ctx context.Context, games []game.SlotGame) ([]recommend.ProcessedGame, error)
}

// SimilarityEngine wires the processor, vector store, and reranker into the
// full pipeline. It is safe for concurrent use; index builds are serialized.
type SimilarityEngine struct {
	processor      GameProcessor
	store          recommend.VectorStore
	reranker       recommend.Reranker
	embeddingModel string
	logger         *slog.Logger

	buildMu sync.Mutex
}

// SimilarityEngineOption is a functional option for SimilarityEngine.
type SimilarityEngineOption func(*SimilarityEngine)

// WithEngineLogger sets the logger.
func WithEngineLogger(logger *slog.Logger) SimilarityEngineOption {
	return func(e *SimilarityEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithEmbeddingModel records the embedding model id reported by IndexStatus.
func WithEmbeddingModel(model string) SimilarityEngineOption {
	return func(e *SimilarityEngine) {
		e.embeddingModel = model
	}
}

// NewSimilarityEngine creates a SimilarityEngine.
func NewSimilarityEngine(processor GameProcessor, store recommend.VectorStore, reranker recommend.Reranker, opts ...SimilarityEngineOption) *SimilarityEngine {
	e := &SimilarityEngine{
		processor: processor,
		store:     store,
		reranker:  reranker,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildIndex embeds the given games and upserts them into the vector store,
// returning how many were actually indexed. Games whose processing fails are
// skipped by the processor, so the count can be lower than len(games); the
// build fails only when no game at all could be processed. Builds are
// serialized so concurrent calls cannot interleave their upserts.
func (e *SimilarityEngine) BuildIndex(ctx context.Context, games []game.SlotGame) (int, error) {
	if len(games) == 0 {
		return 0, fmt.Errorf("build index: no games to index")
	}

	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	e.logger.Info("building index", "games", len(games))

	processed, err := e.processor.ProcessBatch(ctx, games)
	if err != nil {
		return 0, fmt.Errorf("build index: %w", err)
	}
	if len(processed) == 0 {
		return 0, fmt.Errorf("build index: no games could be processed")
	}
	if len(processed) < len(games) {
		e.logger.Warn("some games failed processing",
			"processed", len(processed), "total", len(games))
	}

	if err := e.store.AddGames(ctx, processed); err != nil {
		return 0, fmt.Errorf("build index: %w", err)
	}

	e.logger.Info("index built", "indexed", len(processed))
	return len(processed), nil
}

// Recommendations answers a query for games similar to gameID. The pipeline
// is retrieve-then-rerank: up to numCandidates nearest neighbors from the
// store, reranked down to numFinal. An unknown gameID, an empty store, or a
// missing stored overview yields an empty slice, not an error.
func (e *SimilarityEngine) Recommendations(ctx context.Context, gameID string, numCandidates, numFinal int) ([]recommend.Recommendation, error) {
	candidates, err := e.store.SearchByID(ctx, gameID, numCandidates)
	if err != nil {
		return nil, fmt.Errorf("recommendations for %q: %w", gameID, err)
	}
	if len(candidates) == 0 {
		e.logger.Info("no candidates found", "game_id", gameID)
		return []recommend.Recommendation{}, nil
	}

	overview, err := e.store.Overview(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("recommendations for %q: %w", gameID, err)
	}
	if overview == "" {
		e.logger.Warn("no stored overview for query game", "game_id", gameID)
		return []recommend.Recommendation{}, nil
	}

	recs, err := e.reranker.Rerank(ctx, overview, candidates, numFinal)
	if err != nil {
		return nil, fmt.Errorf("recommendations for %q: %w", gameID, err)
	}
	return recs, nil
}

// IndexStatus reports the store's stats together with the embedding model id.
func (e *SimilarityEngine) IndexStatus(ctx context.Context) (recommend.IndexStatus, error) {
	stats, err := e.store.Stats(ctx)
	if err != nil {
		return recommend.IndexStatus{}, fmt.Errorf("index status: %w", err)
	}
	return recommend.NewIndexStatus(stats, e.embeddingModel), nil
}

// ClearIndex removes every indexed game.
func (e *SimilarityEngine) ClearIndex(ctx context.Context) error {
	if err := e.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	e.logger.Info("index cleared")
	return nil
}
