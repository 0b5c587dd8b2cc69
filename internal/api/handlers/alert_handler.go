// backend-go/internal/api/handlers/alert_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stockcast/backend-go/internal/domain"
	"github.com/stockcast/backend-go/internal/service"
)

type AlertHandler struct {
	service *service.AlertService
}

func NewAlertHandler(service *service.AlertService) *AlertHandler {
	return &AlertHandler{service: service}
}

// ListAlerts returns alerts filtered by priority and resolution state,
// open alerts first, critical before low, newest first within a rank.
func (h *AlertHandler) ListAlerts(c *gin.Context) {
	var filter domain.AlertFilter

	if raw := strings.TrimSpace(c.Query("priority")); raw != "" {
		priority, ok := domain.ParsePriority(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "priority must be one of critical, high, medium, low"})
			return
		}
		filter.Priority = &priority
	}

	if raw := strings.TrimSpace(c.Query("resolved")); raw != "" {
		resolved, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "resolved must be true or false"})
			return
		}
		filter.Resolved = &resolved
	}

	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	alerts, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "failed to fetch alerts")
		return
	}

	c.JSON(http.StatusOK, alerts)
}

// GetSummary returns open alert counts by priority.
func (h *AlertHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch alert summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GenerateAlerts sweeps every product through the rule engine.
func (h *AlertHandler) GenerateAlerts(c *gin.Context) {
	report, err := h.service.GenerateAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to generate alerts")
		return
	}

	c.JSON(http.StatusOK, report)
}

// UpdateAlert patches the read/resolved flags of one alert.
func (h *AlertHandler) UpdateAlert(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var patch domain.AlertUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	alert, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err, "failed to update alert")
		return
	}

	c.JSON(http.StatusOK, alert)
}

// ResolveAlert marks one alert resolved.
func (h *AlertHandler) ResolveAlert(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	alert, err := h.service.Resolve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to resolve alert")
		return
	}

	c.JSON(http.StatusOK, alert)
}

// DeleteAlert removes one alert outright.
func (h *AlertHandler) DeleteAlert(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete alert")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "alert deleted"})
}
