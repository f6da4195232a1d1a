package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"SmallCapLab/internal/domain/models"
	drepo "SmallCapLab/internal/domain/repository"
	"SmallCapLab/internal/services/sizing"
	applogger "SmallCapLab/pkg/logger"
)

// Screener merges per-exchange quote snapshots into one ranked candidate list.
// It holds no per-call state and is safe for concurrent use.
type Screener struct {
	sources      map[drepo.Exchange]drepo.QuoteSource
	order        []drepo.Exchange
	fetchTimeout time.Duration
	metrics      drepo.Metrics
	logger       *applogger.Logger
}

// ScreenerOption configures Screener.
type ScreenerOption func(*Screener)

// WithFetchTimeout bounds every single exchange fetch.
func WithFetchTimeout(d time.Duration) ScreenerOption {
	return func(s *Screener) { s.fetchTimeout = d }
}

// WithPriority sets the supported exchanges in merge-priority order.
func WithPriority(order []drepo.Exchange) ScreenerOption {
	return func(s *Screener) { s.order = append([]drepo.Exchange(nil), order...) }
}

// WithScreenerMetrics records fetch and screen metrics.
func WithScreenerMetrics(m drepo.Metrics) ScreenerOption {
	return func(s *Screener) { s.metrics = m }
}

// WithScreenerLogger sets the logger.
func WithScreenerLogger(l *applogger.Logger) ScreenerOption {
	return func(s *Screener) { s.logger = l }
}

// NewScreener creates a screener over sources. Exchanges missing from sources
// are never fetched, even when listed in the priority order.
func NewScreener(sources map[drepo.Exchange]drepo.QuoteSource, opts ...ScreenerOption) *Screener {
	s := &Screener{
		sources:      sources,
		order:        drepo.DefaultExchanges(),
		fetchTimeout: 20 * time.Second,
		logger:       applogger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Supported returns the exchanges that can be screened, in priority order.
func (s *Screener) Supported() []drepo.Exchange {
	out := make([]drepo.Exchange, 0, len(s.order))
	for _, ex := range s.order {
		if _, ok := s.sources[ex]; ok {
			out = append(out, ex)
		}
	}
	return out
}

type fetchResult struct {
	exchange drepo.Exchange
	rows     []models.QuoteRow
	err      error
}

// Screen fetches every requested and supported exchange concurrently, then
// dedups, filters, ranks and truncates. Source failures become warnings; it
// never fails as a whole. An empty exchange list means every supported one.
func (s *Screener) Screen(ctx context.Context, criteria models.ScreenCriteria) models.ScreenOutcome {
	start := time.Now()
	criteria = criteria.WithFiniteThresholds()
	targets := s.resolve(criteria.Exchanges)

	criteria.Exchanges = make([]string, len(targets))
	for i, ex := range targets {
		criteria.Exchanges[i] = string(ex)
	}
	criteria.ResultLimit = criteria.ClampedLimit()
	criteria.ConfidencePassthrough = sizing.Clamp(criteria.ConfidencePassthrough, 0, 1)

	results := s.fetchAll(ctx, targets)

	outcome := models.ScreenOutcome{
		Results:  []models.CandidateRow{},
		Warnings: []string{},
		Criteria: criteria,
	}

	seen := make(map[string]struct{})
	for _, res := range results {
		if res.err != nil {
			outcome.Warnings = append(outcome.Warnings, warningFor(res.exchange, res.err))
			s.logger.Warn("quote source failed",
				applogger.String("exchange", string(res.exchange)),
				applogger.Error(res.err),
			)
			continue
		}
		for _, row := range res.rows {
			key := row.Key()
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			cand := models.CandidateRow{
				QuoteRow:     row,
				DollarVolume: row.Price * row.LiquidityVolume(),
				Confidence:   criteria.ConfidencePassthrough,
			}
			if criteria.Accepts(cand) {
				outcome.Results = append(outcome.Results, cand)
			}
		}
	}

	sort.SliceStable(outcome.Results, func(i, j int) bool {
		return outcome.Results[i].DollarVolume > outcome.Results[j].DollarVolume
	})
	if len(outcome.Results) > criteria.ResultLimit {
		outcome.Results = outcome.Results[:criteria.ResultLimit]
	}

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordScreen(len(outcome.Results), len(outcome.Warnings), elapsed.Seconds())
	}
	s.logger.Debug("screen completed",
		applogger.Strings("exchanges", criteria.Exchanges),
		applogger.Int("results", len(outcome.Results)),
		applogger.Int("warnings", len(outcome.Warnings)),
		applogger.Duration("elapsed", elapsed),
	)
	return outcome
}

// resolve intersects the request with the supported set, keeping priority
// order. Unknown identifiers are dropped without a warning.
func (s *Screener) resolve(requested []string) []drepo.Exchange {
	supported := s.Supported()
	if len(requested) == 0 {
		return supported
	}

	want := make(map[drepo.Exchange]struct{}, len(requested))
	for _, r := range requested {
		want[drepo.NormalizeExchange(r)] = struct{}{}
	}

	out := make([]drepo.Exchange, 0, len(supported))
	for _, ex := range supported {
		if _, ok := want[ex]; ok {
			out = append(out, ex)
		}
	}
	return out
}

// fetchAll runs one fetch per exchange and returns results indexed in the
// order of targets, regardless of completion order.
func (s *Screener) fetchAll(ctx context.Context, targets []drepo.Exchange) []fetchResult {
	results := make([]fetchResult, len(targets))

	var wg sync.WaitGroup
	for i, ex := range targets {
		wg.Add(1)
		go func(i int, ex drepo.Exchange) {
			defer wg.Done()
			results[i] = s.fetchOne(ctx, ex)
		}(i, ex)
	}
	wg.Wait()

	return results
}

// fetchOne calls one source under the per-fetch timeout. A source that ignores
// cancellation is abandoned once the deadline passes.
func (s *Screener) fetchOne(ctx context.Context, ex drepo.Exchange) fetchResult {
	start := time.Now()
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	done := make(chan fetchResult, 1)
	go func() {
		res := fetchResult{exchange: ex}
		defer func() {
			if r := recover(); r != nil {
				res.rows, res.err = nil, fmt.Errorf("quote source panic: %v", r)
			}
			done <- res
		}()
		res.rows, res.err = s.sources[ex].Fetch(ctx, ex)
	}()

	var res fetchResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res = fetchResult{exchange: ex, err: &models.UpstreamHTTPError{Exchange: string(ex), Err: ctx.Err()}}
	}

	if s.metrics != nil {
		s.metrics.RecordFetch(string(ex), len(res.rows), time.Since(start).Seconds(), res.err)
	}
	return res
}

// warningFor renders one source failure. Upstream errors already name their
// exchange.
func warningFor(ex drepo.Exchange, err error) string {
	var httpErr *models.UpstreamHTTPError
	var fmtErr *models.UpstreamFormatError
	if errors.As(err, &httpErr) || errors.As(err, &fmtErr) {
		return err.Error()
	}
	return fmt.Sprintf("%s: %v", ex, err)
}
