// backend-go/internal/api/handlers/forecast_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stockcast/backend-go/internal/service"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

// parseHorizon reads the optional horizon_days query parameter. Zero means
// the service default applies.
func parseHorizon(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("horizon_days"))
	if raw == "" {
		return 0, true
	}
	horizon, err := strconv.Atoi(raw)
	if err != nil || horizon < 1 || horizon > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "horizon_days must be between 1 and 365"})
		return 0, false
	}
	return horizon, true
}

// GenerateForecast retrains and stores the forecast for one product.
func (h *ForecastHandler) GenerateForecast(c *gin.Context) {
	productID, ok := pathID(c, "product_id")
	if !ok {
		return
	}
	horizon, ok := parseHorizon(c)
	if !ok {
		return
	}

	result, err := h.service.Generate(c.Request.Context(), productID, horizon)
	if err != nil {
		respondError(c, err, "failed to generate forecast")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GenerateAllForecasts refreshes every product's forecast and reports the
// outcome.
func (h *ForecastHandler) GenerateAllForecasts(c *gin.Context) {
	horizon, ok := parseHorizon(c)
	if !ok {
		return
	}

	report, err := h.service.GenerateAll(c.Request.Context(), horizon)
	if err != nil {
		respondError(c, err, "failed to run batch forecast")
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetForecast returns a product's stored forecast with summary scalars.
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	productID, ok := pathID(c, "product_id")
	if !ok {
		return
	}

	result, err := h.service.GetForecast(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err, "failed to fetch forecast")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetOverview returns the per-product demand outlook rows.
func (h *ForecastHandler) GetOverview(c *gin.Context) {
	rows, err := h.service.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch forecast overview")
		return
	}

	c.JSON(http.StatusOK, rows)
}
