package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"SmallCapLab/internal/domain/models"
	pkgch "SmallCapLab/pkg/clickhouse"
	applogger "SmallCapLab/pkg/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*pkgch.Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return pkgch.NewFromDB(db), mock
}

func TestCHFeatureStoreReturnsAscending(t *testing.T) {
	ch, mock := newMock(t)
	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	rows := sqlmock.NewRows([]string{"bucket", "symbol", "open", "high", "low", "close", "vol"}).
		AddRow(d2, "AEIS", 101.0, 103.0, 100.0, 102.0, 5000.0).
		AddRow(d1, "AEIS", 99.0, 101.0, 98.0, 100.0, 4000.0)
	mock.ExpectQuery(`FROM smallcap\.daily_candles`).
		WithArgs("AEIS", 2).
		WillReturnRows(rows)

	store := NewCHFeatureStore(ch, "smallcap.daily_candles")
	store.SetLogger(applogger.NewNop())

	got, err := store.GetLatestNCandles(context.Background(), "AEIS", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, d1, got[0].Bucket)
	assert.Equal(t, 100.0, got[0].Close)
	assert.Equal(t, d2, got[1].Bucket)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCHFeatureStoreQueryError(t *testing.T) {
	ch, mock := newMock(t)
	mock.ExpectQuery(`FROM smallcap\.daily_candles`).WillReturnError(errors.New("connection refused"))

	_, err := NewCHFeatureStore(ch, "smallcap.daily_candles").GetLatestNCandles(context.Background(), "AEIS", 10)
	assert.ErrorContains(t, err, "connection refused")
}

func quoteColumns() []string {
	return []string{"symbol", "name", "price", "volume", "avg_volume", "market_cap",
		"pe", "eps", "price_avg50", "price_avg200", "year_high", "year_low"}
}

func TestCHQuoteSourceFetch(t *testing.T) {
	ch, mock := newMock(t)
	rows := sqlmock.NewRows(quoteColumns()).
		AddRow("AEIS", "Advanced Energy", 101.5, 300000.0, 250000.0, 3.9e9, 28.1, nil, nil, nil, 120.0, 80.0).
		AddRow("ZZZ", nil, 2.0, nil, 1e6, nil, nil, nil, nil, nil, nil, nil).
		AddRow("", nil, 1.0, 1.0, 1.0, 1.0, nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery(`FROM smallcap\.quote_snapshots FINAL`).
		WithArgs("NASDAQ").
		WillReturnRows(rows)

	got, err := NewCHQuoteSource(ch, "smallcap.quote_snapshots").Fetch(context.Background(), "NASDAQ")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "AEIS", got[0].Symbol)
	require.NotNil(t, got[0].Name)
	assert.Equal(t, "Advanced Energy", *got[0].Name)
	assert.Equal(t, "NASDAQ", got[0].Exchange)
	require.NotNil(t, got[0].PERatio)
	assert.Equal(t, 28.1, *got[0].PERatio)
	assert.Nil(t, got[0].EPS)
	require.NotNil(t, got[0].YearLow)

	assert.Nil(t, got[1].Name)
	assert.Zero(t, got[1].Volume)
	assert.Zero(t, got[1].MarketCap)
	assert.Equal(t, 1e6, got[1].AvgVolume)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCHQuoteSourceQueryErrorIsUpstream(t *testing.T) {
	ch, mock := newMock(t)
	mock.ExpectQuery(`quote_snapshots`).WillReturnError(errors.New("timeout"))

	_, err := NewCHQuoteSource(ch, "smallcap.quote_snapshots").Fetch(context.Background(), "NYSE")

	var httpErr *models.UpstreamHTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, "NYSE", httpErr.Exchange)
	assert.Equal(t, 0, httpErr.StatusCode)
}

func TestCHQuoteSourceScanErrorIsFormat(t *testing.T) {
	ch, mock := newMock(t)
	rows := sqlmock.NewRows(quoteColumns()).
		AddRow("AEIS", nil, "not-a-number", nil, nil, nil, nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery(`quote_snapshots`).WillReturnRows(rows)

	_, err := NewCHQuoteSource(ch, "smallcap.quote_snapshots").Fetch(context.Background(), "AMEX")

	var fmtErr *models.UpstreamFormatError
	require.True(t, errors.As(err, &fmtErr))
	assert.Equal(t, "AMEX", fmtErr.Exchange)
}
