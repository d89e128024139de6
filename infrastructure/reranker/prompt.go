package reranker

import (
	"fmt"
	"strings"

	"github.com/reelrec/reelrec/domain/recommend"
)

// Candidate listings are truncated so the prompt stays small regardless of
// how verbose the stored overviews are.
const (
	overviewPreviewLen = 100
	featuresPreviewLen = 50
)

const rerankingPrompt = `You are a casino game recommendation expert. Your task is to rerank and select the best game recommendations for a player who just finished playing a specific slot game.

PLAYER'S GAME:
%s

CANDIDATE SIMILAR GAMES:
%s

TASK: Rerank these %d candidate games and select the TOP %d most suitable recommendations for this player.

RANKING CRITERIA (in order of importance):
1. **Theme & Setting Compatibility** (30%%) - Does the theme appeal to the same interests?
2. **Gameplay Mechanics Similarity** (25%%) - Similar features, volatility, and play style?
3. **Visual & Audio Harmony** (20%%) - Compatible art and music styles?
4. **Player Experience Level** (15%%) - Appropriate complexity and target audience?
5. **Risk Profile Match** (10%%) - Similar volatility and RTP expectations?

REQUIREMENTS:
- Select exactly %d games that best match the player's preferences
- Provide a detailed explanation for each recommendation
- Explain why each game is similar and what the player will enjoy
- Consider the player's likely motivations and interests
- Rank them in order of recommendation strength (1=best match)

RESPONSE FORMAT:
` + "```json" + `
{
  "recommendations": [
    {
      "rank": 1,
      "game_id": "exact_game_id_from_candidates",
      "similarity_score": 0.95,
      "explanation": "Detailed explanation of why this game is recommended, highlighting specific similarities and what the player will enjoy.",
      "key_similarities": ["theme match", "similar features", "compatible style"],
      "appeal_factors": ["what makes this appealing to the player"]
    }
  ],
  "reasoning": "Brief explanation of the overall ranking logic and why these games were selected over the others."
}
` + "```" + `

Focus on creating recommendations that feel natural and appealing to the player, not just technically similar.`

// RerankingPrompt renders the reranking prompt for a query overview and its
// vector-search candidates.
func RerankingPrompt(queryOverview string, candidates []recommend.Candidate, topK int) string {
	var b strings.Builder
	for i, c := range candidates {
		meta := c.Metadata()
		theme := metaOr(meta, "theme", "Unknown")
		volatility := metaOr(meta, "volatility", "Unknown")
		features := metaOr(meta, "special_features", "None")

		fmt.Fprintf(&b, "\n%d. %s\n", i+1, c.ID())
		fmt.Fprintf(&b, "   Theme: %s | Volatility: %s\n", theme, volatility)
		fmt.Fprintf(&b, "   Overview: %s\n", truncate(c.Overview(), overviewPreviewLen))
		fmt.Fprintf(&b, "   Features: %s\n", truncate(features, featuresPreviewLen))
		fmt.Fprintf(&b, "   Similarity: %.3f\n", c.Similarity())
	}

	return fmt.Sprintf(rerankingPrompt,
		queryOverview, b.String(), len(candidates), topK, topK)
}

func metaOr(meta map[string]string, key, fallback string) string {
	if v, ok := meta[key]; ok && v != "" {
		return v
	}
	return fallback
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
