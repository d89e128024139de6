// Package reranker reorders vector-search candidates with an LLM, falling
// back to vector-score ordering whenever the LLM path fails.
package reranker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/reelrec/reelrec/domain/recommend"
	"github.com/reelrec/reelrec/infrastructure/provider"
)

const (
	rerankTemperature = 0.3
	rerankMaxTokens   = 1500
)

// LLMReranker implements recommend.Reranker on a chat completion provider.
type LLMReranker struct {
	textGen provider.TextGenerator
	logger  *slog.Logger
}

// Option is a functional option for LLMReranker.
type Option func(*LLMReranker)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *LLMReranker) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates an LLMReranker. A nil textGen is allowed; every Rerank call
// then takes the fallback path.
func New(textGen provider.TextGenerator, opts ...Option) *LLMReranker {
	r := &LLMReranker{textGen: textGen, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// llmPick mirrors one entry of the LLM's JSON response.
type llmPick struct {
	Rank            int      `json:"rank"`
	GameID          string   `json:"game_id"`
	SimilarityScore float64  `json:"similarity_score"`
	Explanation     string   `json:"explanation"`
	KeySimilarities []string `json:"key_similarities"`
	AppealFactors   []string `json:"appeal_factors"`
}

// llmRerankResponse mirrors the LLM's full JSON response.
type llmRerankResponse struct {
	Recommendations []llmPick `json:"recommendations"`
	Reasoning       string    `json:"reasoning"`
}

// Rerank selects and orders the top-k recommendations for the query game's
// overview. Any LLM or parse failure degrades to vector-score ordering; the
// only error paths left are context cancellation and empty input handling.
func (r *LLMReranker) Rerank(ctx context.Context, queryOverview string, candidates []recommend.Candidate, topK int) ([]recommend.Recommendation, error) {
	if len(candidates) == 0 {
		r.logger.Warn("no candidates provided for reranking")
		return []recommend.Recommendation{}, nil
	}
	if len(candidates) < topK {
		r.logger.Warn("fewer candidates than requested",
			"candidates", len(candidates), "requested", topK)
	}

	if r.textGen == nil {
		return r.fallbackRanking(candidates, topK), nil
	}

	prompt := RerankingPrompt(queryOverview, candidates, topK)

	req := provider.NewChatCompletionRequest([]provider.Message{
		provider.UserMessage(prompt),
	}).WithTemperature(rerankTemperature).WithMaxTokens(rerankMaxTokens)

	resp, err := r.textGen.ChatCompletion(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.logger.Error("llm reranking failed, using vector-score fallback", "error", err)
		return r.fallbackRanking(candidates, topK), nil
	}

	recommendations, err := r.parseResponse(resp.Content(), candidates, topK)
	if err != nil {
		r.logger.Error("failed to parse llm reranking response, using vector-score fallback", "error", err)
		return r.fallbackRanking(candidates, topK), nil
	}

	r.logger.Info("reranked recommendations", "count", len(recommendations))
	return recommendations, nil
}

// parseResponse decodes the LLM output and joins each pick back to its
// originating candidate. Picks naming unknown game ids are dropped.
func (r *LLMReranker) parseResponse(content string, candidates []recommend.Candidate, topK int) ([]recommend.Recommendation, error) {
	var parsed llmRerankResponse
	if err := json.Unmarshal([]byte(StripFences(content)), &parsed); err != nil {
		return nil, fmt.Errorf("decode rerank response: %w", err)
	}

	byID := make(map[string]recommend.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID()] = c
	}

	picks := parsed.Recommendations
	if len(picks) > topK {
		picks = picks[:topK]
	}

	recommendations := make([]recommend.Recommendation, 0, len(picks))
	for i, pick := range picks {
		candidate, ok := byID[pick.GameID]
		if !ok {
			r.logger.Warn("dropping rerank pick for unknown game", "game_id", pick.GameID)
			continue
		}

		rank := pick.Rank
		if rank <= 0 {
			rank = i + 1
		}

		recommendations = append(recommendations,
			recommend.NewRecommendation(rank, pick.GameID, pick.SimilarityScore, pick.Explanation).
				WithSimilarities(pick.KeySimilarities).
				WithAppealFactors(pick.AppealFactors).
				WithCandidate(candidate))
	}

	return recommendations, nil
}

// fallbackRanking orders candidates by their vector similarity score and
// synthesizes explanations.
func (r *LLMReranker) fallbackRanking(candidates []recommend.Candidate, topK int) []recommend.Recommendation {
	sorted := make([]recommend.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Similarity() > sorted[j].Similarity()
	})

	if topK > len(sorted) {
		topK = len(sorted)
	}
	if topK < 0 {
		topK = 0
	}

	recommendations := make([]recommend.Recommendation, 0, topK)
	for i, c := range sorted[:topK] {
		explanation := fmt.Sprintf(
			"Recommended based on high vector similarity (%.3f). This game shares similar themes and characteristics with your previous choice.",
			c.Similarity())

		recommendations = append(recommendations,
			recommend.NewRecommendation(i+1, c.ID(), c.Similarity(), explanation).
				WithSimilarities([]string{"vector similarity"}).
				WithAppealFactors([]string{"similar game characteristics"}).
				WithCandidate(c))
	}
	return recommendations
}

// StripFences removes a surrounding markdown code fence from LLM output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var _ recommend.Reranker = (*LLMReranker)(nil)
