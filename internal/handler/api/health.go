package api

import (
	"time"

	models "SmallCapLab/internal/domain/models"
	xhttp "SmallCapLab/pkg/http"

	"github.com/labstack/echo/v4"
)

const AppName = "SmallCap Lab"

func (h *Handler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.HealthResponse{
		OK:      true,
		App:     AppName,
		Runtime: "go",
		Time:    h.now().UTC().Format(time.RFC3339),
	})
}
