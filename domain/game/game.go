// Package game defines the slot game catalog schema.
package game

import (
	"errors"
	"fmt"
)

// RTP bounds enforced at generation time. Stored records are not re-validated
// against these bounds; they only gate what the generator will emit.
const (
	MinRTP = 0.85
	MaxRTP = 0.98
)

// ErrValidation indicates a game record failed schema validation.
var ErrValidation = errors.New("invalid game record")

// SlotGame is the canonical description of one slot game. Name doubles as the
// game's identifier throughout the system and is assumed globally unique.
type SlotGame struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Theme       string     `json:"theme"`
	Volatility  Volatility `json:"volatility"`
	RTP         float64    `json:"rtp"`

	ArtStyle   string `json:"art_style"`
	MusicStyle string `json:"music_style"`

	Reels           int      `json:"reels"`
	Paylines        int      `json:"paylines"`
	SpecialFeatures []string `json:"special_features"`

	HasBonusRound         bool `json:"has_bonus_round"`
	HasProgressiveJackpot bool `json:"has_progressive_jackpot"`
	MaxWinMultiplier      int  `json:"max_win_multiplier"`

	ComplexityLevel    string   `json:"complexity_level"`
	TargetDemographics []string `json:"target_demographics"`

	ReleaseYear int      `json:"release_year,omitempty"`
	Developer   string   `json:"developer,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ID returns the game's identifier (its name).
func (g SlotGame) ID() string { return g.Name }

// Validate checks the record against the schema's required fields and the
// closed volatility set. RTP bounds are deliberately not checked here; they
// are a generation-time constraint only.
func (g SlotGame) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if g.Description == "" {
		return fmt.Errorf("%w: description is required for %q", ErrValidation, g.Name)
	}
	if g.Theme == "" {
		return fmt.Errorf("%w: theme is required for %q", ErrValidation, g.Name)
	}
	if !g.Volatility.IsValid() {
		return fmt.Errorf("%w: %q has invalid volatility %q", ErrValidation, g.Name, g.Volatility)
	}
	if g.RTP <= 0 {
		return fmt.Errorf("%w: %q has non-positive rtp", ErrValidation, g.Name)
	}
	return nil
}
