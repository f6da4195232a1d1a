package usecase

import (
	"context"
	"fmt"
	"strings"

	"SmallCapLab/internal/domain/models"
	drepo "SmallCapLab/internal/domain/repository"
	domsvc "SmallCapLab/internal/domain/service"
	"SmallCapLab/internal/services/sizing"
	applogger "SmallCapLab/pkg/logger"
)

const (
	ConfidenceFromRequest = "request"
	ConfidenceFromRegime  = "regime"
)

// SignalParams are the caller supplied sizing inputs.
type SignalParams struct {
	Symbol     string
	Confidence float64
	Mu         float64
	Sigma      float64
	KellyMode  string
	MaxWeight  float64
	// UseRegime asks the confidence provider instead of using Confidence.
	UseRegime bool
}

// SignalUseCase turns a confidence and return estimates into a position weight.
type SignalUseCase struct {
	confidence domsvc.ConfidenceProvider
	metrics    drepo.Metrics
	logger     *applogger.Logger
}

// NewSignalUseCase creates the use case. provider and m may be nil.
func NewSignalUseCase(provider domsvc.ConfidenceProvider, m drepo.Metrics, l *applogger.Logger) *SignalUseCase {
	if l == nil {
		l = applogger.NewNop()
	}
	return &SignalUseCase{confidence: provider, metrics: m, logger: l}
}

func (uc *SignalUseCase) Compute(ctx context.Context, p SignalParams) (*models.SignalResponse, error) {
	symbol := strings.ToUpper(strings.TrimSpace(p.Symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}

	conf, source, note := uc.resolveConfidence(ctx, symbol, p)
	in := sizing.Normalize(models.SizingInput{
		Symbol:     symbol,
		Confidence: conf,
		MeanReturn: p.Mu,
		Volatility: p.Sigma,
		Mode:       models.SizingMode(strings.TrimSpace(p.KellyMode)),
		MaxWeight:  p.MaxWeight,
	})
	out := sizing.Size(in)

	if uc.metrics != nil {
		uc.metrics.RecordSuggestedWeight(symbol, out.SuggestedWeight)
	}

	// Inputs echo what was applied, not what was sent.
	return &models.SignalResponse{
		OK:     true,
		Symbol: symbol,
		Inputs: models.SignalInputs{
			PRiskOn:          in.Confidence,
			Mu:               in.MeanReturn,
			Sigma:            in.Volatility,
			KellyMode:        string(in.Mode),
			MaxWeight:        in.MaxWeight,
			ConfidenceSource: source,
		},
		Outputs: out,
		Note:    note,
	}, nil
}

// resolveConfidence falls back to the request value whenever the provider is
// missing or fails, and says so in the note.
func (uc *SignalUseCase) resolveConfidence(ctx context.Context, symbol string, p SignalParams) (float64, string, string) {
	if !p.UseRegime {
		return p.Confidence, ConfidenceFromRequest, ""
	}
	if uc.confidence == nil {
		return p.Confidence, ConfidenceFromRequest, "regime estimator not configured; using request confidence"
	}

	c, err := uc.confidence.Confidence(ctx, symbol)
	if err != nil {
		uc.logger.Warn("regime confidence unavailable",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		if uc.metrics != nil {
			uc.metrics.RecordError("regime_confidence")
		}
		return p.Confidence, ConfidenceFromRequest, fmt.Sprintf("regime estimator failed (%v); using request confidence", err)
	}
	return c, ConfidenceFromRegime, ""
}
