// Package vectorstore persists game embeddings and answers nearest-neighbor
// queries with in-memory cosine similarity over JSON-encoded vectors.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reelrec/reelrec/domain/recommend"
	"github.com/reelrec/reelrec/internal/database"
)

// Store implements recommend.VectorStore on a relational database.
type Store struct {
	db     database.Database
	logger *slog.Logger
}

// StoreOption is a functional option for Store.
type StoreOption func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a Store and migrates its schema.
func NewStore(db database.Database, opts ...StoreOption) (*Store, error) {
	s := &Store{db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if err := db.Migrate(&GameEmbeddingEntity{}); err != nil {
		return nil, err
	}
	return s, nil
}

// AddGames upserts processed games in one transaction, so all entries of a
// call become visible together. An existing game_id is overwritten.
func (s *Store) AddGames(ctx context.Context, games []recommend.ProcessedGame) error {
	if len(games) == 0 {
		return nil
	}

	entities := make([]GameEmbeddingEntity, len(games))
	for i, g := range games {
		entities[i] = newGameEmbeddingEntity(g)
	}

	err := s.db.Session(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "game_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"overview", "embedding", "metadata"}),
		}).Create(&entities).Error
	})
	if err != nil {
		return fmt.Errorf("add games: %w", err)
	}

	s.logger.Info("added games to vector store", "count", len(games))
	return nil
}

// SearchByVector returns up to n nearest neighbors by cosine similarity,
// never including excludeID.
func (s *Store) SearchByVector(ctx context.Context, vector []float64, excludeID string, n int) ([]recommend.Candidate, error) {
	if len(vector) == 0 || n <= 0 {
		return []recommend.Candidate{}, nil
	}

	entities, err := s.loadEntities(ctx, excludeID)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return []recommend.Candidate{}, nil
	}

	vectors := make([][]float64, len(entities))
	for i, e := range entities {
		vectors[i] = e.Embedding
	}

	matches := topKMatches(vector, vectors, n)

	candidates := make([]recommend.Candidate, len(matches))
	for i, m := range matches {
		e := entities[m.index]
		candidates[i] = recommend.NewCandidate(e.GameID, e.Overview, map[string]string(e.Metadata), m.similarity)
	}
	return candidates, nil
}

// SearchByID looks up the stored vector for id and searches for its
// neighbors, excluding id itself. An unknown id yields an empty slice.
func (s *Store) SearchByID(ctx context.Context, id string, n int) ([]recommend.Candidate, error) {
	entity, found, err := s.findByGameID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		s.logger.Warn("game not found in vector store", "game_id", id)
		return []recommend.Candidate{}, nil
	}

	return s.SearchByVector(ctx, entity.Embedding, id, n)
}

// Overview returns the stored overview text for id, or "" when absent.
func (s *Store) Overview(ctx context.Context, id string) (string, error) {
	entity, found, err := s.findByGameID(ctx, id)
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}
	return entity.Overview, nil
}

// Stats reports the indexed game count and storage mode.
func (s *Store) Stats(ctx context.Context) (recommend.StoreStats, error) {
	var count int64
	if err := s.db.Session(ctx).Model(&GameEmbeddingEntity{}).Count(&count).Error; err != nil {
		return recommend.StoreStats{}, fmt.Errorf("count games: %w", err)
	}
	return recommend.NewStoreStats(count, s.db.Mode()), nil
}

// Clear removes every indexed entry. The store stays usable afterwards.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.db.Session(ctx).Where("1 = 1").Delete(&GameEmbeddingEntity{}).Error; err != nil {
		return fmt.Errorf("clear vector store: %w", err)
	}
	s.logger.Info("cleared vector store")
	return nil
}

func (s *Store) findByGameID(ctx context.Context, id string) (GameEmbeddingEntity, bool, error) {
	var entity GameEmbeddingEntity
	err := s.db.Session(ctx).Where("game_id = ?", id).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return GameEmbeddingEntity{}, false, nil
	}
	if err != nil {
		return GameEmbeddingEntity{}, false, fmt.Errorf("find game %q: %w", id, err)
	}
	return entity, true, nil
}

func (s *Store) loadEntities(ctx context.Context, excludeID string) ([]GameEmbeddingEntity, error) {
	var entities []GameEmbeddingEntity
	q := s.db.Session(ctx)
	if excludeID != "" {
		q = q.Where("game_id <> ?", excludeID)
	}
	if err := q.Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}

	valid := entities[:0]
	for _, e := range entities {
		if len(e.Embedding) == 0 {
			s.logger.Warn("skipping empty embedding", "game_id", e.GameID)
			continue
		}
		valid = append(valid, e)
	}
	return valid, nil
}

var _ recommend.VectorStore = (*Store)(nil)
