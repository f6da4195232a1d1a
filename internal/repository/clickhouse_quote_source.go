package repository

import (
	"context"
	"database/sql"
	"fmt"

	"SmallCapLab/internal/domain/models"
	domrepo "SmallCapLab/internal/domain/repository"
	pkgch "SmallCapLab/pkg/clickhouse"
)

// CHQuoteSource serves quote snapshots from a warehouse table loaded by an
// external job. It is a drop-in QuoteSource for offline screening.
type CHQuoteSource struct {
	db    *sql.DB
	table string
}

func NewCHQuoteSource(ch *pkgch.Client, table string) *CHQuoteSource {
	return &CHQuoteSource{db: ch.DB(), table: table}
}

var _ domrepo.QuoteSource = (*CHQuoteSource)(nil)

// Fetch returns the latest snapshot row per symbol of one exchange. Any query
// failure is reported as an unreachable upstream.
func (s *CHQuoteSource) Fetch(ctx context.Context, exchange domrepo.Exchange) ([]models.QuoteRow, error) {
	const qtpl = `
        SELECT symbol, name, price, volume, avg_volume, market_cap,
               pe, eps, price_avg50, price_avg200, year_high, year_low
        FROM %s FINAL
        WHERE exchange = ?
        ORDER BY symbol ASC
    `
	ex := string(exchange)
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(qtpl, s.table), ex)
	if err != nil {
		return nil, &models.UpstreamHTTPError{Exchange: ex, Err: fmt.Errorf("query quotes: %w", err)}
	}
	defer rows.Close()

	out := make([]models.QuoteRow, 0, 512)
	for rows.Next() {
		var (
			symbol                            string
			name                              sql.NullString
			price, volume, avgVolume, mcap    sql.NullFloat64
			pe, eps, avg50, avg200, high, low sql.NullFloat64
		)
		if err := rows.Scan(&symbol, &name, &price, &volume, &avgVolume, &mcap, &pe, &eps, &avg50, &avg200, &high, &low); err != nil {
			return nil, &models.UpstreamFormatError{Exchange: ex, Err: fmt.Errorf("scan quote: %w", err)}
		}
		row := models.QuoteRow{
			Symbol:      symbol,
			Name:        nullString(name),
			Exchange:    ex,
			Price:       nullZero(price),
			Volume:      nullZero(volume),
			AvgVolume:   nullZero(avgVolume),
			MarketCap:   nullZero(mcap),
			PERatio:     nullFloat(pe),
			EPS:         nullFloat(eps),
			PriceAvg50:  nullFloat(avg50),
			PriceAvg200: nullFloat(avg200),
			YearHigh:    nullFloat(high),
			YearLow:     nullFloat(low),
		}
		if row.Key() == "" {
			continue
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.UpstreamHTTPError{Exchange: ex, Err: fmt.Errorf("rows: %w", err)}
	}
	return out, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid || v.String == "" {
		return nil
	}
	s := v.String
	return &s
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullZero(v sql.NullFloat64) float64 {
	if !v.Valid || v.Float64 < 0 {
		return 0
	}
	return v.Float64
}
