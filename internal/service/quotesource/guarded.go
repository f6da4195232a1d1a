package quotesource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"SmallCapLab/internal/domain/models"
	drepo "SmallCapLab/internal/domain/repository"
	applogger "SmallCapLab/pkg/logger"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Settings configures Guarded.
type Settings struct {
	// RatePerSecond <= 0 disables rate limiting.
	RatePerSecond float64
	RateBurst     int
	// MaxFailures consecutive failures open an exchange's breaker. 0 disables it.
	MaxFailures uint32
	OpenTimeout time.Duration
}

// Guarded wraps a QuoteSource with a shared request budget and one circuit
// breaker per exchange. Rejections surface as UpstreamHTTPError with status 0,
// the same shape as an unreachable upstream.
type Guarded struct {
	next     drepo.QuoteSource
	settings Settings
	limiter  *rate.Limiter
	logger   *applogger.Logger

	mu       sync.Mutex
	breakers map[drepo.Exchange]*gobreaker.CircuitBreaker
}

// NewGuarded decorates next.
func NewGuarded(next drepo.QuoteSource, s Settings, l *applogger.Logger) *Guarded {
	if l == nil {
		l = applogger.NewNop()
	}
	g := &Guarded{
		next:     next,
		settings: s,
		logger:   l,
		breakers: make(map[drepo.Exchange]*gobreaker.CircuitBreaker),
	}
	if s.RatePerSecond > 0 {
		burst := s.RateBurst
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(s.RatePerSecond), burst)
	}
	return g
}

var _ drepo.QuoteSource = (*Guarded)(nil)

// Fetch waits for the rate limiter, then calls the wrapped source through the
// exchange's breaker.
func (g *Guarded) Fetch(ctx context.Context, exchange drepo.Exchange) ([]models.QuoteRow, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, &models.UpstreamHTTPError{Exchange: string(exchange), Err: fmt.Errorf("rate limited: %w", err)}
		}
	}

	cb := g.breaker(exchange)
	if cb == nil {
		return g.next.Fetch(ctx, exchange)
	}

	out, err := cb.Execute(func() (interface{}, error) {
		return g.next.Fetch(ctx, exchange)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &models.UpstreamHTTPError{Exchange: string(exchange), Err: err}
		}
		return nil, err
	}
	rows, _ := out.([]models.QuoteRow)
	return rows, nil
}

// State reports the breaker state of an exchange.
func (g *Guarded) State(exchange drepo.Exchange) gobreaker.State {
	cb := g.breaker(exchange)
	if cb == nil {
		return gobreaker.StateClosed
	}
	return cb.State()
}

func (g *Guarded) breaker(exchange drepo.Exchange) *gobreaker.CircuitBreaker {
	if g.settings.MaxFailures == 0 {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if cb, ok := g.breakers[exchange]; ok {
		return cb
	}

	maxFailures := g.settings.MaxFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "quotes-" + string(exchange),
		Timeout: g.settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Warn("quote source breaker state change",
				applogger.String("breaker", name),
				applogger.String("from", from.String()),
				applogger.String("to", to.String()),
			)
		},
	})
	g.breakers[exchange] = cb
	return cb
}
