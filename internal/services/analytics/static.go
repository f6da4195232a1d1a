package analytics

import (
	"context"

	domsvc "SmallCapLab/internal/domain/service"
)

// StaticConfidence always answers the same confidence.
type StaticConfidence float64

func (s StaticConfidence) Confidence(context.Context, string) (float64, error) {
	return float64(s), nil
}

var _ domsvc.ConfidenceProvider = StaticConfidence(0)
