package models

import "SmallCapLab/pkg/util"

const (
	MinResultLimit = 1
	MaxResultLimit = 1000
)

// ScreenCriteria is the filter configuration of one screening request.
type ScreenCriteria struct {
	MinPrice              float64  `json:"minPrice"`
	MinMarketCap          float64  `json:"minMarketCap"`
	MinDollarVolume       float64  `json:"minDollarVolume"`
	Exchanges             []string `json:"exchanges"`
	ResultLimit           int      `json:"limit"`
	ConfidencePassthrough float64  `json:"confidence"`
}

// ClampedLimit returns ResultLimit forced into [MinResultLimit, MaxResultLimit].
func (c ScreenCriteria) ClampedLimit() int {
	switch {
	case c.ResultLimit < MinResultLimit:
		return MinResultLimit
	case c.ResultLimit > MaxResultLimit:
		return MaxResultLimit
	default:
		return c.ResultLimit
	}
}

// WithFiniteThresholds returns c with NaN thresholds zeroed and infinite ones
// saturated, so the criteria always encode to JSON.
func (c ScreenCriteria) WithFiniteThresholds() ScreenCriteria {
	c.MinPrice = util.Finite(c.MinPrice)
	c.MinMarketCap = util.Finite(c.MinMarketCap)
	c.MinDollarVolume = util.Finite(c.MinDollarVolume)
	c.ConfidencePassthrough = util.Finite(c.ConfidencePassthrough)
	return c
}

// Accepts reports whether a candidate passes every threshold.
func (c ScreenCriteria) Accepts(row CandidateRow) bool {
	return row.Price >= c.MinPrice &&
		row.MarketCap >= c.MinMarketCap &&
		row.DollarVolume >= c.MinDollarVolume
}

// ScreenOutcome is the result of one screen. An empty Results slice with
// warnings means every requested source failed; it is not an error.
type ScreenOutcome struct {
	Results  []CandidateRow `json:"results"`
	Warnings []string       `json:"warnings"`
	Criteria ScreenCriteria `json:"criteria"`
}
