package service

import (
	"context"

	"SmallCapLab/internal/domain/models"
)

// RegimeDetector classifies the market regime from a return series.
type RegimeDetector interface {
	Detect(ctx context.Context, symbol string, returns []float64) (models.Regime, error)
}

// ConfidenceProvider yields P(risk-on) for a symbol. Sizing consumes it as an
// opaque scalar so the estimator behind it can change freely.
type ConfidenceProvider interface {
	Confidence(ctx context.Context, symbol string) (float64, error)
}
