// backend-go/cmd/ops/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockcast/backend-go/internal/cache"
	"github.com/stockcast/backend-go/internal/config"
	"github.com/stockcast/backend-go/internal/events"
	"github.com/stockcast/backend-go/internal/repository/postgres"
	"github.com/stockcast/backend-go/internal/service"
	"github.com/stockcast/backend-go/pkg/logger"
)

// The ops server exposes Prometheus metrics and lets schedulers trigger
// batch jobs without going through the public API.
func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	catalogRepo := postgres.NewCatalogRepository(db)
	forecastRepo := postgres.NewForecastRepository(db)
	alertRepo := postgres.NewAlertRepository(db)

	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		forecastCache = cache.NewNoopForecastCache()
	}

	publisher, err := events.NewAlertPublisher(cfg.Kafka)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize Kafka publisher")
	}
	defer publisher.Close()

	forecastService := service.NewForecastService(catalogRepo, forecastRepo, forecastCache, nil, cfg.Forecast)
	alertService := service.NewAlertService(catalogRepo, forecastRepo, alertRepo, publisher, cfg.Replenish)

	// Create router
	r := mux.NewRouter()

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	r.HandleFunc("/jobs/forecasts", func(w http.ResponseWriter, r *http.Request) {
		report, err := forecastService.GenerateAll(r.Context(), 0)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, report)
	}).Methods("POST")

	r.HandleFunc("/jobs/alerts", func(w http.ResponseWriter, r *http.Request) {
		report, err := alertService.GenerateAll(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, report)
	}).Methods("POST")

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Ops.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("addr", srv.Addr).Msg("Starting ops server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start ops server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info().Msg("Shutting down ops server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Ops server forced to shutdown")
	}

	logger.Log.Info().Msg("Ops server exiting")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error().Err(err).Msg("failed to encode response")
	}
}
