// backend-go/internal/service/forecast_service.go
package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stockcast/backend-go/internal/cache"
	"github.com/stockcast/backend-go/internal/config"
	"github.com/stockcast/backend-go/internal/domain"
	"github.com/stockcast/backend-go/internal/forecast"
	"github.com/stockcast/backend-go/internal/metrics"
	"github.com/stockcast/backend-go/internal/repository"
	"github.com/stockcast/backend-go/internal/storage"
)

// maxReportErrors bounds the error list carried in batch run reports.
// Failed counts stay exact.
const maxReportErrors = 10

type ForecastService struct {
	catalog   repository.CatalogRepository
	forecasts repository.ForecastRepository
	cache     cache.ForecastCache
	store     storage.ObjectStorage
	cfg       config.ForecastConfig

	// one mutex per product so concurrent generate calls for the same
	// product serialize instead of racing on the stored forecast
	locks sync.Map
}

func NewForecastService(catalog repository.CatalogRepository, forecasts repository.ForecastRepository, cacheImpl cache.ForecastCache, store storage.ObjectStorage, cfg config.ForecastConfig) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &ForecastService{
		catalog:   catalog,
		forecasts: forecasts,
		cache:     cacheImpl,
		store:     store,
		cfg:       cfg,
	}
}

func (s *ForecastService) lockFor(productID int64) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(productID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Generate retrains the demand model on the product's sales history and
// replaces its stored forecast. A horizon of zero or less falls back to the
// configured default.
func (s *ForecastService) Generate(ctx context.Context, productID int64, horizonDays int) (*domain.ForecastResult, error) {
	mu := s.lockFor(productID)
	mu.Lock()
	defer mu.Unlock()

	if horizonDays <= 0 {
		horizonDays = s.cfg.HorizonDays
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	records, err := s.catalog.SalesHistory(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load sales history: %w", err)
	}

	started := time.Now()
	preds, model, err := forecast.Generate(records, horizonDays, s.cfg.MinHistoryDays, forecast.DefaultModelParams(), time.Now().UTC())
	if err != nil {
		metrics.ForecastRuns.WithLabelValues(metrics.StatusError).Inc()
		return nil, fmt.Errorf("forecast product %d: %w", productID, err)
	}
	metrics.ForecastDuration.Observe(time.Since(started).Seconds())

	status := metrics.StatusOK
	if model == nil {
		status = metrics.StatusFallback
	}
	metrics.ForecastRuns.WithLabelValues(status).Inc()
	metrics.ForecastPoints.Add(float64(len(preds)))

	now := time.Now().UTC()
	points := make([]domain.ForecastPoint, len(preds))
	for i, p := range preds {
		points[i] = domain.ForecastPoint{
			ProductID:         productID,
			ForecastDate:      p.Date,
			PredictedQuantity: p.Quantity,
			ConfidenceLower:   p.Lower,
			ConfidenceUpper:   p.Upper,
			ConfidenceLevel:   0.95,
			ModelName:         forecast.ModelName,
			ModelVersion:      forecast.ModelVersion,
			GeneratedAt:       now,
		}
	}

	if err := s.forecasts.ReplaceForProduct(ctx, productID, points); err != nil {
		return nil, fmt.Errorf("store forecast: %w", err)
	}

	if err := s.cache.Invalidate(ctx, productID); err != nil {
		log.Warn().Err(err).Int64("product_id", productID).Msg("forecast: cache invalidate failed")
	}

	if model != nil {
		log.Info().
			Int64("product_id", productID).
			Int("points", len(points)).
			Float64("r2", model.R2).
			Float64("accuracy", model.Accuracy).
			Msg("forecast generated")
	} else {
		log.Info().
			Int64("product_id", productID).
			Int("points", len(points)).
			Msg("forecast generated from fallback heuristic")
	}

	return buildForecastResult(product, points), nil
}

// GenerateAll refreshes every product's forecast using a bounded worker
// pool. Per-product failures are collected into the report instead of
// aborting the run.
func (s *ForecastService) GenerateAll(ctx context.Context, horizonDays int) (*domain.ForecastRunReport, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	workerCount := s.cfg.Workers
	if workerCount < 1 {
		workerCount = 1
	}

	jobs := make(chan domain.Product, len(products))
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		report domain.ForecastRunReport
	)

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for product := range jobs {
				_, err := s.Generate(ctx, product.ID, horizonDays)

				mu.Lock()
				if err != nil {
					report.Failed++
					if len(report.Errors) < maxReportErrors {
						report.Errors = append(report.Errors, fmt.Sprintf("product %d: %v", product.ID, err))
					}
					log.Error().Err(err).Int64("product_id", product.ID).Msg("forecast generation failed")
				} else {
					report.Generated++
				}
				mu.Unlock()
			}
		}()
	}

	for _, product := range products {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- product:
		}
	}
	close(jobs)
	wg.Wait()

	if over := report.Failed - len(report.Errors); over > 0 {
		report.Errors = append(report.Errors, fmt.Sprintf("and %d more", over))
	}

	log.Info().
		Int("generated", report.Generated).
		Int("failed", report.Failed).
		Int("products", len(products)).
		Msg("batch forecast run finished")

	return &report, nil
}

// GetForecast returns the stored forecast with its summary scalars,
// consulting the cache first.
func (s *ForecastService) GetForecast(ctx context.Context, productID int64) (*domain.ForecastResult, error) {
	if result, ok, err := s.cache.Get(ctx, productID); err == nil && ok {
		return result, nil
	} else if err != nil {
		log.Warn().Err(err).Int64("product_id", productID).Msg("forecast: cache get failed")
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	points, err := s.forecasts.GetByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load forecast: %w", err)
	}
	if len(points) == 0 {
		return nil, domain.ErrNoForecast
	}

	result := buildForecastResult(product, points)

	if err := s.cache.Set(ctx, productID, result); err != nil {
		log.Warn().Err(err).Int64("product_id", productID).Msg("forecast: cache set failed")
	}

	return result, nil
}

// Overview builds one dashboard row per product: forecast demand sums over
// the next 7, 30 and 90 days plus a coarse trend direction.
func (s *ForecastService) Overview(ctx context.Context) ([]domain.ForecastOverview, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	today := midnight(time.Now().UTC())
	rows := make([]domain.ForecastOverview, 0, len(products))
	for _, product := range products {
		next7, err := s.forecasts.SumRange(ctx, product.ID, today, today.AddDate(0, 0, 7))
		if err != nil {
			return nil, fmt.Errorf("sum forecast for product %d: %w", product.ID, err)
		}
		next30, err := s.forecasts.SumRange(ctx, product.ID, today, today.AddDate(0, 0, 30))
		if err != nil {
			return nil, fmt.Errorf("sum forecast for product %d: %w", product.ID, err)
		}
		next90, err := s.forecasts.SumRange(ctx, product.ID, today, today.AddDate(0, 0, 90))
		if err != nil {
			return nil, fmt.Errorf("sum forecast for product %d: %w", product.ID, err)
		}

		firstHalf, err := s.forecasts.SumRange(ctx, product.ID, today, today.AddDate(0, 0, 15))
		if err != nil {
			return nil, fmt.Errorf("sum forecast for product %d: %w", product.ID, err)
		}
		secondHalf := next30 - firstHalf

		rows = append(rows, domain.ForecastOverview{
			ProductID:   product.ID,
			ProductName: product.Name,
			Next7Days:   round2(next7),
			Next30Days:  round2(next30),
			Next90Days:  round2(next90),
			Trend:       classifyTrend(firstHalf, secondHalf),
		})
	}

	return rows, nil
}

// ExportSnapshot writes every stored forecast point to a CSV object in the
// archive bucket and returns the object key.
func (s *ForecastService) ExportSnapshot(ctx context.Context) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return "", fmt.Errorf("list products: %w", err)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"product_id", "sku", "forecast_date", "predicted_quantity", "confidence_lower", "confidence_upper", "model_name", "generated_at"}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	total := 0
	for _, product := range products {
		points, err := s.forecasts.GetByProduct(ctx, product.ID)
		if err != nil {
			return "", fmt.Errorf("load forecast for product %d: %w", product.ID, err)
		}
		for _, p := range points {
			record := []string{
				fmt.Sprintf("%d", p.ProductID),
				product.SKU,
				p.ForecastDate.Format("2006-01-02"),
				fmt.Sprintf("%.2f", p.PredictedQuantity),
				fmt.Sprintf("%.2f", p.ConfidenceLower),
				fmt.Sprintf("%.2f", p.ConfidenceUpper),
				p.ModelName,
				p.GeneratedAt.Format(time.RFC3339),
			}
			if err := writer.Write(record); err != nil {
				return "", err
			}
			total++
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	if err := s.store.EnsureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	key := fmt.Sprintf("forecasts/snapshot-%s.csv", time.Now().UTC().Format("20060102-150405"))
	if err := s.store.UploadObject(ctx, key, buf.Bytes()); err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	log.Info().Str("key", key).Int("points", total).Msg("forecast snapshot exported")
	return key, nil
}

func buildForecastResult(product *domain.Product, points []domain.ForecastPoint) *domain.ForecastResult {
	result := &domain.ForecastResult{
		ProductID:   product.ID,
		ProductName: product.Name,
		Points:      points,
	}
	if len(points) == 0 {
		return result
	}

	result.ModelName = points[0].ModelName
	result.GeneratedAt = points[0].GeneratedAt

	total := 0.0
	peak := points[0]
	for _, p := range points {
		total += p.PredictedQuantity
		if p.PredictedQuantity > peak.PredictedQuantity {
			peak = p
		}
	}
	result.TotalPredictedDemand = round2(total)
	result.AvgDailyDemand = round2(total / float64(len(points)))
	result.PeakDate = peak.ForecastDate
	result.PeakQuantity = peak.PredictedQuantity

	return result
}

// classifyTrend compares the two halves of the 30-day window. Within ten
// percent either way reads as stable.
func classifyTrend(firstHalf, secondHalf float64) string {
	if firstHalf <= 0 {
		if secondHalf > 0 {
			return "increasing"
		}
		return "stable"
	}
	ratio := secondHalf / firstHalf
	switch {
	case ratio > 1.1:
		return "increasing"
	case ratio < 0.9:
		return "decreasing"
	default:
		return "stable"
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
