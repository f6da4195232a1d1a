// Package sizing turns a return/volatility estimate and a regime confidence
// into a bounded long-only position weight.
package sizing

import (
	"math"

	"SmallCapLab/internal/domain/models"
	"SmallCapLab/pkg/util"
)

// KellyGaussian approximates the Kelly fraction of a Gaussian return model,
// f* = mu / sigma^2. A non-positive sigma carries no edge and yields 0. An
// edge too large to represent saturates at ±math.MaxFloat64.
func KellyGaussian(mu, sigma float64) float64 {
	if !(sigma > 0) {
		return 0
	}
	// Dividing twice keeps a tiny sigma from underflowing sigma^2 to zero.
	f := mu / sigma / sigma
	if math.IsNaN(f) {
		return 0
	}
	return util.Finite(f)
}

// Clamp bounds v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Normalize returns the input Size actually works with: confidence in [0,1],
// finite return and volatility, a finite non-negative weight cap and the
// resolved mode.
func Normalize(in models.SizingInput) models.SizingInput {
	in.Confidence = Clamp(in.Confidence, 0, 1)
	in.MeanReturn = util.Finite(in.MeanReturn)
	in.Volatility = util.Finite(in.Volatility)
	in.MaxWeight = math.Max(util.Finite(in.MaxWeight), 0)
	in.Mode = in.Mode.Resolved()
	return in
}

// Size computes the sizing result for in. It never fails and every field of
// the result is finite.
func Size(in models.SizingInput) models.SizingResult {
	in = Normalize(in)

	raw := KellyGaussian(in.MeanReturn, in.Volatility)
	adj := raw * in.Mode.Multiplier() * in.Confidence

	return models.SizingResult{
		RawKellyFraction: raw,
		AdjustedFraction: adj,
		SuggestedWeight:  Clamp(adj, 0, in.MaxWeight),
	}
}
