package metrics

import (
	"errors"

	"SmallCapLab/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal    *prometheus.CounterVec
	rowsFetched     *prometheus.CounterVec
	fetchLatency    *prometheus.HistogramVec
	screenResults   prometheus.Histogram
	screenWarnings  prometheus.Counter
	screenLatency   prometheus.Histogram
	suggestedWeight *prometheus.GaugeVec
	errorsTotal     *prometheus.CounterVec
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates a recorder registered on reg.
func NewWith(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		fetchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smallcap_quote_fetches_total",
				Help: "Quote source fetches by exchange and outcome",
			},
			[]string{"exchange", "outcome"},
		),
		rowsFetched: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smallcap_quote_rows_total",
				Help: "Quote rows returned by the quote source",
			},
			[]string{"exchange"},
		),
		fetchLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smallcap_quote_fetch_duration_seconds",
				Help:    "Duration of quote source fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"exchange"},
		),
		screenResults: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "smallcap_screen_results",
				Help:    "Number of candidates returned per screen",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
		),
		screenWarnings: f.NewCounter(
			prometheus.CounterOpts{
				Name: "smallcap_screen_warnings_total",
				Help: "Source failures downgraded to screen warnings",
			},
		),
		screenLatency: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "smallcap_screen_duration_seconds",
				Help:    "Duration of a full screen in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		suggestedWeight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "smallcap_suggested_weight",
				Help: "Last suggested position weight per symbol",
			},
			[]string{"symbol"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smallcap_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordFetch records one quote source call.
func (r *Recorder) RecordFetch(exchange string, rows int, seconds float64, err error) {
	r.fetchesTotal.WithLabelValues(exchange, fetchOutcome(err)).Inc()
	r.fetchLatency.WithLabelValues(exchange).Observe(seconds)
	if err == nil {
		r.rowsFetched.WithLabelValues(exchange).Add(float64(rows))
	}
}

// RecordScreen records the shape of one screen outcome.
func (r *Recorder) RecordScreen(results, warnings int, seconds float64) {
	r.screenResults.Observe(float64(results))
	r.screenWarnings.Add(float64(warnings))
	r.screenLatency.Observe(seconds)
}

// RecordSuggestedWeight records the last weight suggested for a symbol.
func (r *Recorder) RecordSuggestedWeight(symbol string, weight float64) {
	r.suggestedWeight.WithLabelValues(symbol).Set(weight)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func fetchOutcome(err error) string {
	var httpErr *models.UpstreamHTTPError
	var fmtErr *models.UpstreamFormatError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &httpErr):
		return "upstream_http"
	case errors.As(err, &fmtErr):
		return "upstream_format"
	default:
		return "error"
	}
}
