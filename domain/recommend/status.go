package recommend

// IndexStatus is a snapshot of the index reported to operators: the store's
// stats plus the embedding model that produced the indexed vectors.
type IndexStatus struct {
	stats          StoreStats
	embeddingModel string
}

// NewIndexStatus creates a new IndexStatus.
func NewIndexStatus(stats StoreStats, embeddingModel string) IndexStatus {
	return IndexStatus{stats: stats, embeddingModel: embeddingModel}
}

// Stats returns the underlying store stats.
func (s IndexStatus) Stats() StoreStats { return s.stats }

// EmbeddingModel returns the model id used to embed the indexed games.
func (s IndexStatus) EmbeddingModel() string { return s.embeddingModel }

// ReadyForRecommendations reports whether queries can produce results. It is
// true exactly when at least one game is indexed.
func (s IndexStatus) ReadyForRecommendations() bool { return s.stats.Count() > 0 }
