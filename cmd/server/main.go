// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/stockcast/backend-go/internal/api"
	"github.com/stockcast/backend-go/internal/cache"
	"github.com/stockcast/backend-go/internal/config"
	"github.com/stockcast/backend-go/internal/events"
	"github.com/stockcast/backend-go/internal/repository/postgres"
	"github.com/stockcast/backend-go/internal/service"
	"github.com/stockcast/backend-go/internal/storage"
	"github.com/stockcast/backend-go/pkg/logger"
)

func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	catalogRepo := postgres.NewCatalogRepository(db)
	forecastRepo := postgres.NewForecastRepository(db)
	alertRepo := postgres.NewAlertRepository(db)

	// A broken cache degrades to a no-op, it never blocks startup
	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		forecastCache = cache.NewNoopForecastCache()
	}

	var store storage.ObjectStorage
	if cfg.Storage.Enabled {
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		store = client
	}

	publisher, err := events.NewAlertPublisher(cfg.Kafka)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize Kafka publisher")
	}
	defer publisher.Close()

	// Initialize services
	forecastService := service.NewForecastService(catalogRepo, forecastRepo, forecastCache, store, cfg.Forecast)
	alertService := service.NewAlertService(catalogRepo, forecastRepo, alertRepo, publisher, cfg.Replenish)
	poService := service.NewPOService(catalogRepo, cfg.Replenish)

	router := api.NewRouter(&api.Services{
		ForecastService: forecastService,
		AlertService:    alertService,
		POService:       poService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
