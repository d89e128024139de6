package recommend

import "context"

// Store health values reported by StoreStats.
const (
	HealthEmpty   = "empty"
	HealthHealthy = "healthy"
)

// StoreStats describes the state of a vector store.
type StoreStats struct {
	count int64
	mode  string
}

// NewStoreStats creates a new StoreStats. Health is derived from count.
func NewStoreStats(count int64, mode string) StoreStats {
	return StoreStats{count: count, mode: mode}
}

// Count returns the number of indexed games.
func (s StoreStats) Count() int64 { return s.count }

// Mode returns the storage backend identifier (e.g. "sqlite", "postgres").
func (s StoreStats) Mode() string { return s.mode }

// Health returns "empty" when nothing is indexed and "healthy" otherwise.
// Readiness checks derive from this value alone.
func (s StoreStats) Health() string {
	if s.count == 0 {
		return HealthEmpty
	}
	return HealthHealthy
}

// VectorStore persists processed games and answers nearest-neighbor queries.
// An empty candidate slice is a normal return value whenever the store is
// empty or an id is unknown; implementations must not surface those
// conditions as errors.
type VectorStore interface {
	// AddGames upserts processed games in bulk. All entries of one call
	// become visible together; an id collision silently overwrites.
	AddGames(ctx context.Context, games []ProcessedGame) error

	// SearchByVector returns up to n nearest neighbors by cosine
	// similarity, never including excludeID.
	SearchByVector(ctx context.Context, vector []float64, excludeID string, n int) ([]Candidate, error)

	// SearchByID looks up the stored vector for id and searches for its
	// neighbors, excluding id itself. Unknown ids yield an empty slice.
	SearchByID(ctx context.Context, id string, n int) ([]Candidate, error)

	// Overview returns the stored overview text for id, or "" with a nil
	// error when the id is absent.
	Overview(ctx context.Context, id string) (string, error)

	// Stats reports the store's current state.
	Stats(ctx context.Context) (StoreStats, error)

	// Clear destroys all indexed entries, leaving the store immediately
	// ready for AddGames again.
	Clear(ctx context.Context) error
}

// Reranker reorders vector-search candidates into final recommendations.
type Reranker interface {
	// Rerank selects and orders the top-k recommendations for the query
	// game's overview. Implementations must degrade to vector-score
	// ordering rather than fail.
	Rerank(ctx context.Context, queryOverview string, candidates []Candidate, topK int) ([]Recommendation, error)
}
