package recommend

// ProcessedGame is the derived, persistable representation of a slot game:
// its natural-language overview, the embedding of that overview, and a
// flattened metadata mapping (list-valued fields joined into comma-separated
// strings for storage-layer compatibility).
type ProcessedGame struct {
	id        string
	overview  string
	embedding []float64
	metadata  map[string]string
}

// NewProcessedGame creates a new ProcessedGame.
func NewProcessedGame(id, overview string, embedding []float64, metadata map[string]string) ProcessedGame {
	vec := make([]float64, len(embedding))
	copy(vec, embedding)
	return ProcessedGame{
		id:        id,
		overview:  overview,
		embedding: vec,
		metadata:  copyMetadata(metadata),
	}
}

// ID returns the game identifier (the game's name).
func (p ProcessedGame) ID() string { return p.id }

// Overview returns the overview text that produced the embedding.
func (p ProcessedGame) Overview() string { return p.overview }

// Embedding returns the embedding vector (copy).
func (p ProcessedGame) Embedding() []float64 {
	vec := make([]float64, len(p.embedding))
	copy(vec, p.embedding)
	return vec
}

// Metadata returns the flattened metadata (copy).
func (p ProcessedGame) Metadata() map[string]string { return copyMetadata(p.metadata) }
