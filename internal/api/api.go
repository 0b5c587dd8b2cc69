// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stockcast/backend-go/internal/api/handlers"
	"github.com/stockcast/backend-go/internal/api/middleware"
	"github.com/stockcast/backend-go/internal/service"
)

type Services struct {
	ForecastService *service.ForecastService
	AlertService    *service.AlertService
	POService       *service.POService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthCheck)

	apiGroup := router.Group("/api/v1")
	apiGroup.GET("/health", healthCheck)

	if services != nil {
		if services.ForecastService != nil {
			forecastHandler := handlers.NewForecastHandler(services.ForecastService)
			forecastGroup := apiGroup.Group("/forecasts")
			{
				forecastGroup.POST("/generate/:product_id", forecastHandler.GenerateForecast)
				forecastGroup.POST("/generate-all", forecastHandler.GenerateAllForecasts)
				forecastGroup.GET("", forecastHandler.GetOverview)
				forecastGroup.GET("/:product_id", forecastHandler.GetForecast)
			}
		}

		if services.AlertService != nil {
			alertHandler := handlers.NewAlertHandler(services.AlertService)
			alertGroup := apiGroup.Group("/alerts")
			{
				alertGroup.GET("", alertHandler.ListAlerts)
				alertGroup.GET("/summary", alertHandler.GetSummary)
				alertGroup.POST("/generate", alertHandler.GenerateAlerts)
				alertGroup.PUT("/:id", alertHandler.UpdateAlert)
				alertGroup.POST("/:id/resolve", alertHandler.ResolveAlert)
				alertGroup.DELETE("/:id", alertHandler.DeleteAlert)
			}
		}

		if services.POService != nil {
			poHandler := handlers.NewPOHandler(services.POService)
			poGroup := apiGroup.Group("/purchase-orders")
			{
				poGroup.POST("/draft", poHandler.DraftPurchaseOrders)
			}
		}
	}

	return router
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
