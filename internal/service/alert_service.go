// backend-go/internal/service/alert_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stockcast/backend-go/internal/advisor"
	"github.com/stockcast/backend-go/internal/config"
	"github.com/stockcast/backend-go/internal/domain"
	"github.com/stockcast/backend-go/internal/events"
	"github.com/stockcast/backend-go/internal/metrics"
	"github.com/stockcast/backend-go/internal/repository"
)

// Alerts auto-expire a week after creation.
const alertTTL = 7 * 24 * time.Hour

type AlertService struct {
	catalog   repository.CatalogRepository
	forecasts repository.ForecastRepository
	alerts    repository.AlertRepository
	publisher events.AlertPublisher
	engine    *advisor.Advisor
	cfg       config.ReplenishConfig

	// one mutex per product, the clear-then-insert cycle must not interleave
	locks sync.Map
}

func NewAlertService(catalog repository.CatalogRepository, forecasts repository.ForecastRepository, alerts repository.AlertRepository, publisher events.AlertPublisher, cfg config.ReplenishConfig) *AlertService {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	engine := advisor.New(advisor.Config{
		SafetyStockDays:     cfg.SafetyStockDays,
		DefaultLeadTimeDays: cfg.DefaultLeadTimeDays,
		DefaultMinOrderQty:  cfg.DefaultMinOrderQty,
		RestockWindowDays:   cfg.RestockWindowDays,
	})
	return &AlertService{
		catalog:   catalog,
		forecasts: forecasts,
		alerts:    alerts,
		publisher: publisher,
		engine:    engine,
		cfg:       cfg,
	}
}

func (s *AlertService) lockFor(productID int64) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(productID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// GenerateForProduct re-evaluates one product's stock position. Open alerts
// for the product are cleared first so every run replaces the previous one;
// resolved alerts stay as history. At most one alert comes back per run.
func (s *AlertService) GenerateForProduct(ctx context.Context, productID int64) ([]domain.Alert, error) {
	mu := s.lockFor(productID)
	mu.Lock()
	defer mu.Unlock()

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	// 1. Assemble the stock position
	inventory, err := s.catalog.GetInventory(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	if inventory == nil {
		inventory = &domain.InventoryLevel{ProductID: productID}
	}

	var supplier *domain.Supplier
	if product.SupplierID != nil {
		supplier, err = s.catalog.GetSupplier(ctx, *product.SupplierID)
		if errors.Is(err, domain.ErrSupplierNotFound) {
			supplier = nil
		} else if err != nil {
			return nil, fmt.Errorf("load supplier: %w", err)
		}
	}

	now := time.Now().UTC()
	sold, err := s.catalog.QuantitySumSince(ctx, productID, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, fmt.Errorf("sum recent sales: %w", err)
	}
	avgDaily := sold / 30.0

	// Forecast demand over the exposure window, informational only
	leadTime := s.cfg.DefaultLeadTimeDays
	if supplier != nil && supplier.LeadTimeDays > 0 {
		leadTime = supplier.LeadTimeDays
	}
	today := midnight(now)
	forecastDemand, err := s.forecasts.SumRange(ctx, productID, today, today.AddDate(0, 0, leadTime+s.cfg.SafetyStockDays))
	if err != nil {
		log.Warn().Err(err).Int64("product_id", productID).Msg("alerts: forecast demand lookup failed")
		forecastDemand = 0
	}
	log.Debug().
		Int64("product_id", productID).
		Float64("avg_daily_demand", avgDaily).
		Float64("forecast_demand", forecastDemand).
		Msg("alert evaluation inputs")

	// 2. Clear open alerts before re-evaluating
	if _, err := s.alerts.DeleteUnresolvedByProduct(ctx, productID); err != nil {
		return nil, fmt.Errorf("clear open alerts: %w", err)
	}

	// 3. Run the rule ladder
	decision := s.engine.Evaluate(advisor.Input{
		Product:        *product,
		Inventory:      *inventory,
		Supplier:       supplier,
		AvgDailyDemand: avgDaily,
		ForecastDemand: forecastDemand,
	})
	if decision == nil {
		return []domain.Alert{}, nil
	}

	// 4. Persist and announce
	action := decision.RecommendedAction
	alert := domain.Alert{
		ProductID:           productID,
		ProductName:         product.Name,
		AlertType:           decision.AlertType,
		Priority:            decision.Priority,
		Title:               decision.Title,
		Message:             decision.Message,
		RecommendedAction:   &action,
		RecommendedQuantity: decision.RecommendedQuantity,
		CreatedAt:           now,
		ExpiresAt:           now.Add(alertTTL),
	}
	if err := s.alerts.Insert(ctx, &alert); err != nil {
		return nil, fmt.Errorf("store alert: %w", err)
	}

	metrics.AlertsCreated.WithLabelValues(string(alert.AlertType)).Inc()

	event := events.AlertRaisedEvent{
		ProductID:           productID,
		SKU:                 product.SKU,
		AlertType:           string(alert.AlertType),
		Priority:            string(alert.Priority),
		RecommendedQuantity: alert.RecommendedQuantity,
	}
	if err := s.publisher.PublishAlertRaised(ctx, event); err != nil {
		log.Warn().Err(err).Int64("product_id", productID).Msg("alerts: event publish failed")
	}

	log.Info().
		Int64("product_id", productID).
		Str("alert_type", string(alert.AlertType)).
		Str("priority", string(alert.Priority)).
		Msg("alert created")

	return []domain.Alert{alert}, nil
}

// GenerateAll sweeps every product with a bounded worker pool. Per-product
// failures are collected into the report instead of aborting the sweep.
func (s *AlertService) GenerateAll(ctx context.Context) (*domain.AlertRunReport, error) {
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
		report domain.AlertRunReport
	)

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for product := range jobs {
				created, err := s.GenerateForProduct(ctx, product.ID)

				mu.Lock()
				if err != nil {
					report.Failed++
					if len(report.Errors) < maxReportErrors {
						report.Errors = append(report.Errors, fmt.Sprintf("product %d: %v", product.ID, err))
					}
					log.Error().Err(err).Int64("product_id", product.ID).Msg("alert generation failed")
				} else {
					for _, alert := range created {
						report.Created++
						switch alert.AlertType {
						case domain.AlertStockoutWarning:
							report.StockoutWarnings++
						case domain.AlertLowStock:
							report.LowStock++
						case domain.AlertOverstock:
							report.Overstock++
						}
					}
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
		Int("created", report.Created).
		Int("failed", report.Failed).
		Int("products", len(products)).
		Msg("alert sweep finished")

	return &report, nil
}

func (s *AlertService) List(ctx context.Context, filter domain.AlertFilter) ([]domain.Alert, error) {
	return s.alerts.List(ctx, filter)
}

func (s *AlertService) Summary(ctx context.Context) (*domain.AlertSummary, error) {
	return s.alerts.Summary(ctx)
}

func (s *AlertService) Update(ctx context.Context, id int64, patch domain.AlertUpdate) (*domain.Alert, error) {
	return s.alerts.Update(ctx, id, patch)
}

// Resolve marks an alert resolved, stamping its resolution time.
func (s *AlertService) Resolve(ctx context.Context, id int64) (*domain.Alert, error) {
	resolved := true
	return s.alerts.Update(ctx, id, domain.AlertUpdate{IsResolved: &resolved})
}

func (s *AlertService) Delete(ctx context.Context, id int64) error {
	return s.alerts.Delete(ctx, id)
}
