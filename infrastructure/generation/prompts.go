package generation

import (
	"fmt"
	"strings"
)

// Phase 1 attribute prompts. Themes come first, then per-theme feature
// lists, so every sampled game draws its special features from a coherent
// thematic bucket.

const themesPrompt = `You are a creative game designer working on slot machine themes. I need you to generate a diverse list of engaging themes for casino slot games.

Requirements:
- Generate exactly %d unique and creative themes
- Each theme should be specific and evocative (not generic)
- Mix popular themes with some unique/creative ones
- Consider themes that would appeal to different demographics
- These themes will be used to generate thematically-coherent special features

Examples of good themes: "Ancient Egypt", "Pirate Treasure", "Space Adventure", "Mystic Forest", "Wild West", "Underwater Kingdom"

Format your response as a simple JSON array:
["Theme 1", "Theme 2", "Theme 3", ...]

Generate the %d themes now:`

const thematicFeaturesPrompt = `You are a game mechanics designer for slot machines. I need you to generate thematically-appropriate special features for a specific slot game theme.

THEME: %s

Requirements:
- Generate exactly %d unique special features that fit perfectly with the %s theme
- Each feature should be thematically consistent and immersive
- Mix common slot mechanics with theme-specific creative features
- Features should feel natural and exciting for this theme
- Be specific about what each feature does

Examples for different themes:
- Ancient Egypt: ["Tomb Bonus Round", "Scarab Wild Multipliers", "Curse of the Mummy Re-spins", "Pyramid Free Spins", "Pharaoh's Gold Feature", "Sacred Ankh Wilds"]
- Sci-Fi: ["Hyperspace Jump Bonus", "Alien Invasion Cascades", "Laser Beam Wilds", "Time Warp Feature", "Robot Army Free Spins", "Galactic Multipliers"]
- Pirate: ["Treasure Hunt Bonus", "Kraken Attack Wilds", "Ship Battle Free Spins", "Buried Gold Multipliers", "Cannon Blast Feature", "Pirate's Map Bonus"]

Format your response as a simple JSON array:
["Thematic Feature 1", "Thematic Feature 2", "Thematic Feature 3", ...]

Generate the %s-themed special features now:`

const artStylesPrompt = `You are a visual designer for casino games. I need you to generate a list of distinct art styles that could be used for slot machine games.

Requirements:
- Generate exactly %d unique art styles
- Each style should be visually distinct and recognizable
- Consider styles that work well for digital slot games
- Mix realistic and stylized approaches
- Think about what appeals to casino game players

Examples: "Realistic 3D", "Cartoon", "Minimalist", "Art Deco", "Pixel Art"

Format your response as a simple JSON array:
["Style 1", "Style 2", "Style 3", ...]

Generate the art styles now:`

const musicStylesPrompt = `You are an audio designer for casino games. I need you to generate a list of music styles that would enhance slot machine gameplay.

Requirements:
- Generate exactly %d unique music styles
- Each style should create a specific mood/atmosphere
- Consider how music affects player engagement in gambling
- Mix energetic and atmospheric styles
- Be specific about the musical genre/approach

Examples: "Epic Orchestral", "Upbeat Electronic", "Jazzy Lounge", "Mystical Ambient", "Rock Anthem"

Format your response as a simple JSON array:
["Style 1", "Style 2", "Style 3", ...]

Generate the music styles now:`

const developersPrompt = `You are creating fictional game development studios for slot machines. I need you to generate a list of realistic-sounding casino game developer names.

Requirements:
- Generate exactly %d unique developer names
- Names should sound professional and gaming-focused
- Mix different naming styles (corporate, creative, geographic)
- Avoid real existing company names
- Make them memorable and appropriate for casino games

Examples: "Golden Reel Studios", "Nexus Gaming", "Crimson Peak Entertainment", "Atlas Game Works"

Format your response as a simple JSON array:
["Developer 1", "Developer 2", "Developer 3", ...]

Generate the developer names now:`

// Phase 2 game prompts.

const gameGenerationPrompt = `You are an expert slot machine game designer. I will provide you with specific attributes as guidelines, but you have creative freedom to adjust them if needed to create a coherent, engaging game.

ATTRIBUTE GUIDELINES:
Theme: %s
Art Style: %s
Music Style: %s
Volatility: %s
Special Features: %s
Developer: %s
Complexity Level: %s

INSTRUCTIONS:
1. Use the provided attributes as strong guidelines (follow ~80%% of them)
2. You may creatively adjust attributes if they don't work well together
3. Create a compelling, realistic slot game that players would want to play
4. Ensure all technical specifications make sense for slot machines
5. Generate rich, engaging descriptions

REQUIRED JSON FORMAT:
{
    "name": "Creative and memorable game name",
    "description": "Detailed 50-200 word description of the game experience",
    "theme": "Final theme (may be refined from guideline)",
    "volatility": "low|medium|high",
    "rtp": 0.96,
    "art_style": "Final art style choice",
    "music_style": "Final music style choice",
    "reels": 5,
    "paylines": 25,
    "special_features": ["feature1", "feature2", "feature3"],
    "has_bonus_round": true,
    "has_progressive_jackpot": false,
    "max_win_multiplier": 5000,
    "complexity_level": "Beginner|Intermediate|Advanced",
    "target_demographics": ["demographic1", "demographic2"],
    "release_year": 2024,
    "developer": "Final developer name",
    "tags": ["tag1", "tag2", "tag3"]
}

Generate a single, complete slot game now:`

const batchGameGenerationPrompt = `You are a slot machine game designer. Generate complete slot games for the provided attribute sets.

IMPORTANT: Return ONLY a valid JSON array. Do not add explanations or extra text.

ATTRIBUTE SETS:
%s

Return exactly this JSON structure:
[
  {
    "name": "Game name",
    "description": "Brief engaging description (50-150 words)",
    "theme": "Theme name",
    "volatility": "low|medium|high",
    "rtp": 0.96,
    "art_style": "Art style",
    "music_style": "Music style",
    "reels": 5,
    "paylines": 25,
    "special_features": ["feature1", "feature2"],
    "has_bonus_round": true,
    "has_progressive_jackpot": false,
    "max_win_multiplier": 1000,
    "complexity_level": "Beginner|Intermediate|Advanced",
    "target_demographics": ["demo1", "demo2"],
    "release_year": 2024,
    "developer": "Developer name",
    "tags": ["tag1", "tag2"]
  }
]`

// ThemesPrompt renders the theme generation prompt.
func ThemesPrompt(count int) string {
	return fmt.Sprintf(themesPrompt, count, count)
}

// ThematicFeaturesPrompt renders the per-theme feature generation prompt.
func ThematicFeaturesPrompt(theme string, count int) string {
	return fmt.Sprintf(thematicFeaturesPrompt, theme, count, theme, theme)
}

// ArtStylesPrompt renders the art style generation prompt.
func ArtStylesPrompt(count int) string {
	return fmt.Sprintf(artStylesPrompt, count)
}

// MusicStylesPrompt renders the music style generation prompt.
func MusicStylesPrompt(count int) string {
	return fmt.Sprintf(musicStylesPrompt, count)
}

// DevelopersPrompt renders the developer name generation prompt.
func DevelopersPrompt(count int) string {
	return fmt.Sprintf(developersPrompt, count)
}

// GamePrompt renders the single-game generation prompt for one attribute set.
func GamePrompt(attrs AttributeSet) string {
	return fmt.Sprintf(gameGenerationPrompt,
		attrs.Theme,
		attrs.ArtStyle,
		attrs.MusicStyle,
		attrs.Volatility,
		strings.Join(promptFeatures(attrs.SpecialFeatures), ", "),
		attrs.Developer,
		attrs.ComplexityLevel,
	)
}

// BatchGamePrompt renders the batch generation prompt for several attribute
// sets.
func BatchGamePrompt(sets []AttributeSet) string {
	var b strings.Builder
	for i, attrs := range sets {
		fmt.Fprintf(&b, "\nSET %d:\n", i+1)
		fmt.Fprintf(&b, "Theme: %s\n", attrs.Theme)
		fmt.Fprintf(&b, "Art Style: %s\n", attrs.ArtStyle)
		fmt.Fprintf(&b, "Music Style: %s\n", attrs.MusicStyle)
		fmt.Fprintf(&b, "Volatility: %s\n", attrs.Volatility)
		fmt.Fprintf(&b, "Special Features: %s\n", strings.Join(promptFeatures(attrs.SpecialFeatures), ", "))
		fmt.Fprintf(&b, "Developer: %s\n", attrs.Developer)
		fmt.Fprintf(&b, "Complexity Level: %s\n", attrs.ComplexityLevel)
	}
	return fmt.Sprintf(batchGameGenerationPrompt, strings.TrimSpace(b.String()))
}

// promptFeatures caps the feature list at three entries to keep prompts short.
func promptFeatures(features []string) []string {
	if len(features) > 3 {
		return features[:3]
	}
	return features
}
