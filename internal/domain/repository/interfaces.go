package repository

import (
	"context"

	"SmallCapLab/internal/domain/models"
)

// QuoteSource fetches the quote snapshot of one exchange. Implementations do
// not retry and do not cache; every call goes upstream.
type QuoteSource interface {
	Fetch(ctx context.Context, exchange Exchange) ([]models.QuoteRow, error)
}

// QuoteSourceFunc adapts a function to QuoteSource.
type QuoteSourceFunc func(ctx context.Context, exchange Exchange) ([]models.QuoteRow, error)

func (f QuoteSourceFunc) Fetch(ctx context.Context, exchange Exchange) ([]models.QuoteRow, error) {
	return f(ctx, exchange)
}

type Metrics interface {
	RecordFetch(exchange string, rows int, seconds float64, err error)
	RecordScreen(results, warnings int, seconds float64)
	RecordSuggestedWeight(symbol string, weight float64)
	RecordError(kind string)
}
