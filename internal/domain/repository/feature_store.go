package repository

import (
	"context"

	"SmallCapLab/internal/domain/models"
)

// FeatureStore provides read-only access to daily candles for analytics.
type FeatureStore interface {
	GetLatestNCandles(ctx context.Context, symbol string, n int) ([]models.Candle, error)
}
