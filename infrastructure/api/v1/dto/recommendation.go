// Package dto defines the wire types of the v1 API.
package dto

// RecommendationData is one recommended game in a response.
type RecommendationData struct {
	Rank            int               `json:"rank"`
	GameID          string            `json:"game_id"`
	Score           float64           `json:"score"`
	VectorScore     float64           `json:"vector_score"`
	Explanation     string            `json:"explanation"`
	KeySimilarities []string          `json:"key_similarities,omitempty"`
	AppealFactors   []string          `json:"appeal_factors,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// RecommendationsResponse is the body of GET /api/v1/recommendations/{id}.
type RecommendationsResponse struct {
	SourceGameID    string               `json:"source_game_id"`
	Recommendations []RecommendationData `json:"recommendations"`
}
