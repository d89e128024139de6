package vectorstore

import (
	"math"
	"sort"
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 (opposite) and 1 (identical).
// Returns 0 if the vectors differ in length or either has zero magnitude.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, magA, magB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(magA) * math.Sqrt(magB))
}

// match pairs a stored record index with its similarity to the query.
type match struct {
	index      int
	similarity float64
}

// topKMatches scores every stored vector against the query and returns the
// k best, sorted by similarity descending.
func topKMatches(query []float64, vectors [][]float64, k int) []match {
	if len(vectors) == 0 || k <= 0 {
		return []match{}
	}

	matches := make([]match, 0, len(vectors))
	for i, v := range vectors {
		matches = append(matches, match{index: i, similarity: CosineSimilarity(query, v)})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].similarity > matches[j].similarity
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k]
}
