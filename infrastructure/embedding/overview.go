package embedding

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/reelrec/reelrec/domain/game"
)

// gameOverviewPrompt asks the LLM for a natural-language summary of one
// game. The summary is what gets embedded, so it has to carry every signal
// that similarity should pick up on.
const gameOverviewPrompt = `You are a casino game copywriter. Create a comprehensive, natural text overview of this slot game that captures its essence for similarity matching.

GAME DATA:
%s

INSTRUCTIONS:
- Write a flowing, natural paragraph (not bullet points)
- Capture the game's theme, mood, and key characteristics
- Include gameplay mechanics and special features naturally
- Mention the target audience and complexity level
- Include visual/audio style and developer context
- Focus on what makes this game unique and appealing
- Keep it comprehensive but readable (150-200 words)

EXAMPLE STYLE:
"[Game Name] is a [volatility] slot that transports players into [theme description]. This [complexity] game from [developer] combines [art style] visuals with [music style] to create [mood]. Players can expect [RTP description] with [special features description]. The game features [technical specs] and appeals to [target audience]. What sets it apart is [unique selling points]."

Write a natural, comprehensive game overview:`

// OverviewPrompt renders the overview generation prompt for a game.
func OverviewPrompt(g game.SlotGame) (string, error) {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal game data: %w", err)
	}
	return fmt.Sprintf(gameOverviewPrompt, string(data)), nil
}

// ProgrammaticOverview deterministically assembles an overview from the
// game's fields. It is the fallback when LLM overview generation fails, and
// produces the same pipe-separated shape every time so embeddings stay
// comparable.
func ProgrammaticOverview(g game.SlotGame) string {
	parts := []string{
		fmt.Sprintf("Game: %s", g.Name),
		fmt.Sprintf("Theme: %s", g.Theme),
		fmt.Sprintf("Description: %s", g.Description),
		fmt.Sprintf("Volatility: %s risk level", g.Volatility),
		fmt.Sprintf("RTP: %.1f%% return rate", g.RTP*100),
		fmt.Sprintf("Game mechanics: %d reels with %d paylines", g.Reels, g.Paylines),
	}

	if len(g.SpecialFeatures) > 0 {
		parts = append(parts, fmt.Sprintf("Special features: %s", strings.Join(g.SpecialFeatures, ", ")))
	}

	var bonus []string
	if g.HasBonusRound {
		bonus = append(bonus, "bonus round")
	}
	if g.HasProgressiveJackpot {
		bonus = append(bonus, "progressive jackpot")
	}
	if len(bonus) > 0 {
		parts = append(parts, fmt.Sprintf("Bonus elements: %s", strings.Join(bonus, ", ")))
	}

	parts = append(parts,
		fmt.Sprintf("Art style: %s", g.ArtStyle),
		fmt.Sprintf("Music style: %s", g.MusicStyle),
		fmt.Sprintf("Complexity: %s level", g.ComplexityLevel),
		fmt.Sprintf("Target audience: %s", strings.Join(g.TargetDemographics, ", ")),
	)

	if g.Developer != "" {
		parts = append(parts, fmt.Sprintf("Developer: %s", g.Developer))
	}
	if len(g.Tags) > 0 {
		parts = append(parts, fmt.Sprintf("Tags: %s", strings.Join(g.Tags, ", ")))
	}

	return strings.Join(parts, " | ")
}
