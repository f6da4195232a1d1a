package models

// SizingMode scales the raw Kelly fraction.
type SizingMode string

const (
	SizingQuarter SizingMode = "quarter"
	SizingHalf    SizingMode = "half"
	SizingFull    SizingMode = "full"
)

// Resolved returns the mode actually applied. Matching is case-sensitive and
// anything unrecognised sizes like SizingHalf.
func (m SizingMode) Resolved() SizingMode {
	switch m {
	case SizingQuarter, SizingHalf, SizingFull:
		return m
	default:
		return SizingHalf
	}
}

// Multiplier returns the Kelly multiplier of the resolved mode.
func (m SizingMode) Multiplier() float64 {
	switch m.Resolved() {
	case SizingQuarter:
		return 0.25
	case SizingFull:
		return 1
	default:
		return 0.5
	}
}

type SizingInput struct {
	Symbol     string     `json:"symbol"`
	Confidence float64    `json:"confidence"`
	MeanReturn float64    `json:"meanReturn"`
	Volatility float64    `json:"volatility"`
	Mode       SizingMode `json:"sizingMode"`
	MaxWeight  float64    `json:"maxWeight"`
}

type SizingResult struct {
	RawKellyFraction float64 `json:"kellyRaw"`
	AdjustedFraction float64 `json:"kellyAdj"`
	SuggestedWeight  float64 `json:"suggestedWeight"`
}
