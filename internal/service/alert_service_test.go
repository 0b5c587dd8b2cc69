// backend-go/internal/service/alert_service_test.go
package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockcast/backend-go/internal/config"
	"github.com/stockcast/backend-go/internal/domain"
	"github.com/stockcast/backend-go/internal/events"
	"github.com/stockcast/backend-go/internal/repository/memory"
)

// capturePublisher records published events. Safe for the sweep's workers.
type capturePublisher struct {
	mu     sync.Mutex
	events []events.AlertRaisedEvent
}

func (p *capturePublisher) PublishAlertRaised(ctx context.Context, event events.AlertRaisedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

// seedRecentSales writes a flat qtyPerDay for the given trailing days, well
// inside the 30-day demand window so the average stays exact.
func seedRecentSales(catalog *memory.CatalogRepository, productID int64, days, qtyPerDay int) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 1; i <= days; i++ {
		catalog.AddSales(domain.SalesRecord{
			ProductID: productID,
			SaleDate:  today.AddDate(0, 0, -i),
			Quantity:  qtyPerDay,
		})
	}
}

func newAlertFixture() (*memory.CatalogRepository, *memory.AlertRepository, *capturePublisher, *AlertService) {
	catalog := memory.NewCatalogRepository()
	forecasts := memory.NewForecastRepository()
	alerts := memory.NewAlertRepository()
	pub := &capturePublisher{}
	svc := NewAlertService(catalog, forecasts, alerts, pub, config.ReplenishConfig{
		SafetyStockDays:     7,
		DefaultLeadTimeDays: 7,
		DefaultMinOrderQty:  1,
		RestockWindowDays:   30,
		Workers:             2,
	})
	return catalog, alerts, pub, svc
}

func TestAlertService_GenerateForProduct_Stockout(t *testing.T) {
	catalog, alerts, pub, svc := newAlertFixture()

	supplierID := int64(1)
	catalog.AddSupplier(domain.Supplier{ID: 1, Name: "Northline Distribution", LeadTimeDays: 7, MinimumOrderQuantity: 10})
	catalog.AddProduct(domain.Product{ID: 1, SKU: "SKU-1", Name: "Espresso Beans", ReorderPoint: 10, SupplierID: &supplierID})
	catalog.SetInventory(domain.InventoryLevel{ProductID: 1, QuantityOnHand: 0})
	seedRecentSales(catalog, 1, 10, 6) // 2.0 a day over the trailing window
	ctx := context.Background()

	created, err := svc.GenerateForProduct(ctx, 1)

	require.NoError(t, err)
	require.Len(t, created, 1)
	alert := created[0]
	assert.Equal(t, domain.AlertStockoutWarning, alert.AlertType)
	assert.Equal(t, domain.PriorityCritical, alert.Priority)
	assert.Equal(t, "OUT OF STOCK: Espresso Beans", alert.Title)
	require.NotNil(t, alert.RecommendedQuantity)
	assert.Equal(t, 88, *alert.RecommendedQuantity)
	assert.Equal(t, 7*24*time.Hour, alert.ExpiresAt.Sub(alert.CreatedAt))
	assert.False(t, alert.IsResolved)

	stored, err := alerts.List(ctx, domain.AlertFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "SKU-1", pub.events[0].SKU)
	assert.Equal(t, "stockout_warning", pub.events[0].AlertType)
	assert.Equal(t, "critical", pub.events[0].Priority)
	require.NotNil(t, pub.events[0].RecommendedQuantity)
	assert.Equal(t, 88, *pub.events[0].RecommendedQuantity)
}

func TestAlertService_RerunReplacesOpenAlerts(t *testing.T) {
	catalog, alerts, _, svc := newAlertFixture()
	catalog.AddProduct(domain.Product{ID: 1, SKU: "SKU-1", Name: "Decaf Beans", ReorderPoint: 10})
	catalog.SetInventory(domain.InventoryLevel{ProductID: 1, QuantityOnHand: 0})
	ctx := context.Background()

	first, err := svc.GenerateForProduct(ctx, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = svc.Resolve(ctx, first[0].ID)
	require.NoError(t, err)

	second, err := svc.GenerateForProduct(ctx, 1)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].ID, second[0].ID)

	all, err := alerts.List(ctx, domain.AlertFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2, "resolved alerts survive as history")

	// another run with the same position swaps out only the open alert
	third, err := svc.GenerateForProduct(ctx, 1)
	require.NoError(t, err)
	require.Len(t, third, 1)

	all, err = alerts.List(ctx, domain.AlertFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAlertService_HealthyProduct(t *testing.T) {
	catalog, alerts, pub, svc := newAlertFixture()
	catalog.AddProduct(domain.Product{ID: 1, SKU: "SKU-1", Name: "Paper Cups", ReorderPoint: 10})
	catalog.SetInventory(domain.InventoryLevel{ProductID: 1, QuantityOnHand: 30})
	seedRecentSales(catalog, 1, 10, 3) // 1.0 a day
	ctx := context.Background()

	created, err := svc.GenerateForProduct(ctx, 1)

	require.NoError(t, err)
	assert.Empty(t, created)

	stored, err := alerts.List(ctx, domain.AlertFilter{})
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, pub.events)
}

func TestAlertService_MissingInventoryReadsAsZero(t *testing.T) {
	catalog, _, _, svc := newAlertFixture()
	catalog.AddProduct(domain.Product{ID: 1, SKU: "SKU-1", Name: "Gift Tumbler"})

	created, err := svc.GenerateForProduct(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, domain.AlertStockoutWarning, created[0].AlertType)
	assert.Equal(t, domain.PriorityCritical, created[0].Priority)
}

func TestAlertService_GenerateAll(t *testing.T) {
	catalog, _, pub, svc := newAlertFixture()

	catalog.AddProduct(domain.Product{ID: 1, SKU: "SKU-1", Name: "Decaf Beans", ReorderPoint: 10})
	catalog.SetInventory(domain.InventoryLevel{ProductID: 1, QuantityOnHand: 0})

	catalog.AddProduct(domain.Product{ID: 2, SKU: "SKU-2", Name: "Oat Milk", ReorderPoint: 10})
	catalog.SetInventory(domain.InventoryLevel{ProductID: 2, QuantityOnHand: 320})
	seedRecentSales(catalog, 2, 10, 3)

	catalog.AddProduct(domain.Product{ID: 3, SKU: "SKU-3", Name: "Paper Cups", ReorderPoint: 10})
	catalog.SetInventory(domain.InventoryLevel{ProductID: 3, QuantityOnHand: 30})
	seedRecentSales(catalog, 3, 10, 3)

	report, err := svc.GenerateAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 1, report.StockoutWarnings)
	assert.Equal(t, 1, report.Overstock)
	assert.Equal(t, 0, report.LowStock)
	assert.Equal(t, 0, report.Failed)
	assert.Len(t, pub.events, 2)
}

func TestAlertService_ResolveAndSummary(t *testing.T) {
	catalog, _, _, svc := newAlertFixture()
	catalog.AddProduct(domain.Product{ID: 1, SKU: "SKU-1", Name: "Decaf Beans", ReorderPoint: 10})
	catalog.SetInventory(domain.InventoryLevel{ProductID: 1, QuantityOnHand: 0})
	ctx := context.Background()

	created, err := svc.GenerateForProduct(ctx, 1)
	require.NoError(t, err)
	require.Len(t, created, 1)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Critical)
	assert.Equal(t, 1, summary.Unread)

	resolved, err := svc.Resolve(ctx, created[0].ID)
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved)
	require.NotNil(t, resolved.ResolvedAt)

	summary, err = svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total, "resolved alerts drop out of the summary")
}

func TestAlertService_UpdateReadFlag(t *testing.T) {
	catalog, _, _, svc := newAlertFixture()
	catalog.AddProduct(domain.Product{ID: 1, SKU: "SKU-1", Name: "Decaf Beans", ReorderPoint: 10})
	catalog.SetInventory(domain.InventoryLevel{ProductID: 1, QuantityOnHand: 0})
	ctx := context.Background()

	created, err := svc.GenerateForProduct(ctx, 1)
	require.NoError(t, err)
	require.Len(t, created, 1)

	read := true
	updated, err := svc.Update(ctx, created[0].ID, domain.AlertUpdate{IsRead: &read})
	require.NoError(t, err)
	assert.True(t, updated.IsRead)
	assert.False(t, updated.IsResolved, "marking read keeps the alert open")

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 0, summary.Unread)
}

func TestAlertService_UpdateUnknownAlert(t *testing.T) {
	_, _, _, svc := newAlertFixture()

	read := true
	_, err := svc.Update(context.Background(), 42, domain.AlertUpdate{IsRead: &read})

	assert.ErrorIs(t, err, domain.ErrAlertNotFound)
}
