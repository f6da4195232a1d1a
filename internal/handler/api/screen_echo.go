package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	models "SmallCapLab/internal/domain/models"
	"SmallCapLab/internal/service/metrics"
	xhttp "SmallCapLab/pkg/http"
	xlogger "SmallCapLab/pkg/logger"
	"SmallCapLab/pkg/util"

	"github.com/labstack/echo/v4"
)

func (h *Handler) Screen(c echo.Context) error {
	start := time.Now()
	defer metrics.ObserveSince("screen", start)

	if !h.allow(c, "screen", h.opts.ScreenLimit) {
		metrics.EndpointErrors.WithLabelValues("screen", "rate_limited").Inc()
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many screen requests"))
	}

	req := &models.ScreenRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.EndpointErrors.WithLabelValues("screen", "bad_request").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}

	criteria := models.ScreenCriteria{
		MinPrice:              req.MinPrice,
		MinMarketCap:          req.MinMarketCap,
		MinDollarVolume:       req.MinDollarVolume,
		Exchanges:             util.SplitCSV(req.Exchanges),
		ResultLimit:           req.Limit,
		ConfidencePassthrough: req.Conf,
	}.WithFiniteThresholds()

	ctx := c.Request().Context()
	key := screenCacheKey(criteria)
	if cached, ok := h.cachedScreen(c, key); ok {
		return xhttp.SuccessResponse(c, cached)
	}

	outcome := h.screener.Screen(ctx, criteria)
	res := models.ScreenResponse{
		OK:       true,
		Count:    len(outcome.Results),
		Criteria: outcome.Criteria,
		Results:  outcome.Results,
		Warnings: outcome.Warnings,
	}

	// Partial outcomes are not cached so a recovered upstream shows up on the
	// next request.
	if h.cache != nil && h.opts.ScreenCacheTTL > 0 && len(res.Warnings) == 0 {
		if b, err := json.Marshal(res); err == nil {
			if err := h.cache.SetBytes(ctx, key, b, h.opts.ScreenCacheTTL); err != nil {
				h.logger.Warn("screen cache set error", xlogger.Error(err))
			}
		}
	}

	c.Response().Header().Set("X-Cache", "MISS")
	return xhttp.SuccessResponse(c, res)
}

func (h *Handler) cachedScreen(c echo.Context, key string) (models.ScreenResponse, bool) {
	var res models.ScreenResponse
	if h.cache == nil || h.opts.ScreenCacheTTL <= 0 {
		return res, false
	}

	b, ok, err := h.cache.GetBytes(c.Request().Context(), key)
	if err != nil {
		h.logger.Warn("screen cache get error", xlogger.Error(err))
		metrics.CacheLookups.WithLabelValues("screen", "error").Inc()
		return res, false
	}
	if !ok {
		metrics.CacheLookups.WithLabelValues("screen", "miss").Inc()
		return res, false
	}
	if err := json.Unmarshal(b, &res); err != nil {
		h.logger.Warn("screen cache decode error", xlogger.Error(err))
		metrics.CacheLookups.WithLabelValues("screen", "error").Inc()
		return res, false
	}

	metrics.CacheLookups.WithLabelValues("screen", "hit").Inc()
	c.Response().Header().Set("X-Cache", "HIT")
	return res, true
}

func screenCacheKey(c models.ScreenCriteria) string {
	b, _ := json.Marshal(c)
	sum := sha256.Sum256(b)
	return "screen:" + hex.EncodeToString(sum[:16])
}
