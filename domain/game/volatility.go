package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Volatility classifies a slot game's risk and payout-variance profile.
type Volatility string

// Volatility values.
const (
	VolatilityLow    Volatility = "low"
	VolatilityMedium Volatility = "medium"
	VolatilityHigh   Volatility = "high"
)

// ErrInvalidVolatility indicates a volatility value outside the closed set.
var ErrInvalidVolatility = fmt.Errorf("volatility must be one of low, medium, high")

// ParseVolatility parses a volatility string. Unrecognized values are
// rejected rather than coerced, so bad catalog data fails at the ingestion
// boundary instead of surfacing later as nonsense metadata.
func ParseVolatility(s string) (Volatility, error) {
	switch Volatility(strings.ToLower(strings.TrimSpace(s))) {
	case VolatilityLow:
		return VolatilityLow, nil
	case VolatilityMedium:
		return VolatilityMedium, nil
	case VolatilityHigh:
		return VolatilityHigh, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidVolatility, s)
	}
}

// String returns the volatility as a string.
func (v Volatility) String() string { return string(v) }

// IsValid reports whether the volatility is one of the closed set.
func (v Volatility) IsValid() bool {
	return v == VolatilityLow || v == VolatilityMedium || v == VolatilityHigh
}

// UnmarshalJSON decodes the volatility as a normalized string without
// checking the closed set. Validation happens in SlotGame.Validate, so a bad
// value in a catalog file fails with the record's position instead of an
// unlocated decode error.
func (v *Volatility) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = Volatility(strings.ToLower(strings.TrimSpace(s)))
	return nil
}

// MarshalJSON serializes the volatility as its string value.
func (v Volatility) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(v))
}
