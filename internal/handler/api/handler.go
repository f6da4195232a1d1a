package api

import (
	"time"

	"SmallCapLab/internal/service/cache"
	"SmallCapLab/internal/service/ratelimit"
	"SmallCapLab/internal/usecase"
	xhttp "SmallCapLab/pkg/http"
	xlogger "SmallCapLab/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RateLimit is a per-client token bucket setting.
type RateLimit struct {
	Burst     int
	PerSecond float64
}

// Options tune the API handler. Zero values disable the feature they guard.
type Options struct {
	ScreenCacheTTL time.Duration
	ScreenLimit    RateLimit
	SignalLimit    RateLimit
}

// Handler serves the screen, signal and health endpoints.
type Handler struct {
	logger   *xlogger.Logger
	screener *usecase.Screener
	signal   *usecase.SignalUseCase
	cache    cache.BytesCache
	limiter  *ratelimit.Limiter
	opts     Options
	now      func() time.Time
}

// NewHandler wires the handler. cache may be nil.
func NewHandler(logger *xlogger.Logger, screener *usecase.Screener, signal *usecase.SignalUseCase, c cache.BytesCache, opts Options) *Handler {
	if logger == nil {
		logger = xlogger.NewNop()
	}
	return &Handler{
		logger:   logger,
		screener: screener,
		signal:   signal,
		cache:    c,
		limiter:  ratelimit.New(),
		opts:     opts,
		now:      time.Now,
	}
}

var _ xhttp.Handler = (*Handler)(nil)

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/health", h.Health)
	g.GET("/screen", h.Screen)
	g.GET("/signal", h.Signal)
}

// allow applies the route's rate limit to the calling client.
func (h *Handler) allow(c echo.Context, route string, rl RateLimit) bool {
	if rl.Burst <= 0 || rl.PerSecond <= 0 {
		return true
	}
	return h.limiter.Allow(route+"|"+c.RealIP(), float64(rl.Burst), rl.PerSecond)
}

// SweepLimiter drops rate limit state of idle clients.
func (h *Handler) SweepLimiter(idle time.Duration) int {
	return h.limiter.Sweep(idle)
}
