package recommend

// Recommendation is one entry of the final reranked output. The LLM-assigned
// score and the original vector similarity score are kept distinct so callers
// can observe how far the reranker moved a candidate.
type Recommendation struct {
	rank            int
	id              string
	score           float64
	explanation     string
	keySimilarities []string
	appealFactors   []string
	metadata        map[string]string
	overview        string
	vectorScore     float64
}

// NewRecommendation creates a new Recommendation. Rank is 1-based.
func NewRecommendation(rank int, id string, score float64, explanation string) Recommendation {
	return Recommendation{
		rank:        rank,
		id:          id,
		score:       score,
		explanation: explanation,
	}
}

// WithSimilarities returns a copy with the key-similarity tags set.
func (r Recommendation) WithSimilarities(tags []string) Recommendation {
	r.keySimilarities = copyStrings(tags)
	return r
}

// WithAppealFactors returns a copy with the appeal-factor tags set.
func (r Recommendation) WithAppealFactors(tags []string) Recommendation {
	r.appealFactors = copyStrings(tags)
	return r
}

// WithCandidate returns a copy carrying the originating candidate's stored
// metadata, overview, and vector similarity score.
func (r Recommendation) WithCandidate(c Candidate) Recommendation {
	r.metadata = c.Metadata()
	r.overview = c.Overview()
	r.vectorScore = c.Similarity()
	return r
}

// Rank returns the 1-based recommendation rank.
func (r Recommendation) Rank() int { return r.rank }

// ID returns the recommended game's identifier.
func (r Recommendation) ID() string { return r.id }

// Score returns the LLM-assigned similarity score. It may diverge from the
// vector similarity score.
func (r Recommendation) Score() float64 { return r.score }

// Explanation returns the free-text explanation.
func (r Recommendation) Explanation() string { return r.explanation }

// KeySimilarities returns the key-similarity tags (copy).
func (r Recommendation) KeySimilarities() []string { return copyStrings(r.keySimilarities) }

// AppealFactors returns the appeal-factor tags (copy).
func (r Recommendation) AppealFactors() []string { return copyStrings(r.appealFactors) }

// Metadata returns the carried-through candidate metadata (copy).
func (r Recommendation) Metadata() map[string]string { return copyMetadata(r.metadata) }

// Overview returns the carried-through overview text.
func (r Recommendation) Overview() string { return r.overview }

// VectorScore returns the original vector similarity score.
func (r Recommendation) VectorScore() float64 { return r.vectorScore }

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
