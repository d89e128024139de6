// Package recommend defines the recommendation pipeline's domain types:
// processed (embedded) games, vector-search candidates, and the final
// reranked recommendations.
package recommend

// Candidate is a game returned by vector similarity search, prior to LLM
// reranking. Candidates are transient: produced by a query and consumed
// immediately by the reranker.
type Candidate struct {
	id         string
	overview   string
	metadata   map[string]string
	similarity float64
}

// NewCandidate creates a new Candidate.
func NewCandidate(id, overview string, metadata map[string]string, similarity float64) Candidate {
	return Candidate{
		id:         id,
		overview:   overview,
		metadata:   copyMetadata(metadata),
		similarity: similarity,
	}
}

// ID returns the candidate game's identifier.
func (c Candidate) ID() string { return c.id }

// Overview returns the stored overview text.
func (c Candidate) Overview() string { return c.overview }

// Metadata returns the candidate's stored metadata (copy).
func (c Candidate) Metadata() map[string]string { return copyMetadata(c.metadata) }

// Similarity returns the vector similarity score. Vectors are compared with
// cosine similarity, so the score is already normalized; no distance
// conversion is involved.
func (c Candidate) Similarity() float64 { return c.similarity }

func copyMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
