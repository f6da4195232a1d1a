package usecase

import (
	"context"
	"fmt"

	drepo "SmallCapLab/internal/domain/repository"
	domsvc "SmallCapLab/internal/domain/service"
	"SmallCapLab/internal/services/features"
	"SmallCapLab/internal/services/sizing"
)

// RegimeConfidence derives P(risk-on) from recent daily candles through the
// external regime detector.
type RegimeConfidence struct {
	store    drepo.FeatureStore
	detector domsvc.RegimeDetector
	lookback int
}

func NewRegimeConfidence(store drepo.FeatureStore, detector domsvc.RegimeDetector, lookback int) *RegimeConfidence {
	if lookback < 2 {
		lookback = 250
	}
	return &RegimeConfidence{store: store, detector: detector, lookback: lookback}
}

var _ domsvc.ConfidenceProvider = (*RegimeConfidence)(nil)

func (r *RegimeConfidence) Confidence(ctx context.Context, symbol string) (float64, error) {
	candles, err := r.store.GetLatestNCandles(ctx, symbol, r.lookback)
	if err != nil {
		return 0, fmt.Errorf("load candles: %w", err)
	}
	returns := features.ComputeLogReturns(candles)
	if len(returns) == 0 {
		return 0, fmt.Errorf("not enough history for %s: %d candles", symbol, len(candles))
	}

	regime, err := r.detector.Detect(ctx, symbol, returns)
	if err != nil {
		return 0, fmt.Errorf("detect regime: %w", err)
	}
	return sizing.Clamp(regime.Confidence, 0, 1), nil
}
