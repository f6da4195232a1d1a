package api

import (
	"time"

	models "SmallCapLab/internal/domain/models"
	"SmallCapLab/internal/service/metrics"
	"SmallCapLab/internal/usecase"
	xhttp "SmallCapLab/pkg/http"
	xlogger "SmallCapLab/pkg/logger"

	"github.com/labstack/echo/v4"
)

func (h *Handler) Signal(c echo.Context) error {
	defer metrics.ObserveSince("signal", time.Now())

	if !h.allow(c, "signal", h.opts.SignalLimit) {
		metrics.EndpointErrors.WithLabelValues("signal", "rate_limited").Inc()
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many signal requests"))
	}

	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.EndpointErrors.WithLabelValues("signal", "bad_request").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.signal.Compute(c.Request().Context(), usecase.SignalParams{
		Symbol:     req.Symbol,
		Confidence: req.Conf,
		Mu:         req.Mu,
		Sigma:      req.Sigma,
		KellyMode:  req.KellyMode,
		MaxWeight:  req.MaxWeight,
		UseRegime:  req.Regime,
	})
	if err != nil {
		h.logger.Error("signal usecase error", xlogger.Error(err))
		metrics.EndpointErrors.WithLabelValues("signal", "usecase").Inc()
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()).WithError(err))
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, res)
}
