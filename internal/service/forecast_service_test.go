// backend-go/internal/service/forecast_service_test.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockcast/backend-go/internal/config"
	"github.com/stockcast/backend-go/internal/domain"
	"github.com/stockcast/backend-go/internal/forecast"
	"github.com/stockcast/backend-go/internal/repository/memory"
	"github.com/stockcast/backend-go/internal/storage"
)

// captureCache is a map-backed cache double that counts traffic.
type captureCache struct {
	stored        map[int64]*domain.ForecastResult
	sets          int
	invalidations int
}

func newCaptureCache() *captureCache {
	return &captureCache{stored: make(map[int64]*domain.ForecastResult)}
}

func (c *captureCache) Get(ctx context.Context, productID int64) (*domain.ForecastResult, bool, error) {
	r, ok := c.stored[productID]
	return r, ok, nil
}

func (c *captureCache) Set(ctx context.Context, productID int64, result *domain.ForecastResult) error {
	c.stored[productID] = result
	c.sets++
	return nil
}

func (c *captureCache) Invalidate(ctx context.Context, productID int64) error {
	delete(c.stored, productID)
	c.invalidations++
	return nil
}

func (c *captureCache) InvalidateAll(ctx context.Context) error {
	c.stored = make(map[int64]*domain.ForecastResult)
	return nil
}

// captureStore keeps uploaded objects in memory.
type captureStore struct {
	objects map[string][]byte
}

func (s *captureStore) EnsureBucket(ctx context.Context) error { return nil }

func (s *captureStore) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	out := make([]storage.ObjectInfo, 0, len(s.objects))
	for k, v := range s.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(v))})
		}
	}
	return out, nil
}

func (s *captureStore) DownloadObject(ctx context.Context, key, destPath string) error { return nil }

func (s *captureStore) UploadObject(ctx context.Context, key string, data []byte) error {
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[key] = data
	return nil
}

// failingForecastRepo rejects writes for one product.
type failingForecastRepo struct {
	*memory.ForecastRepository
	failProduct int64
}

func (r *failingForecastRepo) ReplaceForProduct(ctx context.Context, productID int64, points []domain.ForecastPoint) error {
	if productID == r.failProduct {
		return errors.New("replace rejected")
	}
	return r.ForecastRepository.ReplaceForProduct(ctx, productID, points)
}

// seedSalesHistory writes one varied sale per day for the trailing period.
func seedSalesHistory(catalog *memory.CatalogRepository, productID int64, days, qty int) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := days; i >= 1; i-- {
		sold := qty + i%3
		catalog.AddSales(domain.SalesRecord{
			ProductID:    productID,
			SaleDate:     today.AddDate(0, 0, -i),
			Quantity:     sold,
			UnitPrice:    2,
			TotalRevenue: float64(sold) * 2,
		})
	}
}

func newForecastFixture() (*memory.CatalogRepository, *memory.ForecastRepository, *ForecastService) {
	catalog := memory.NewCatalogRepository()
	forecasts := memory.NewForecastRepository()
	svc := NewForecastService(catalog, forecasts, nil, nil, config.ForecastConfig{
		HorizonDays:    14,
		MinHistoryDays: 7,
		Workers:        2,
	})
	return catalog, forecasts, svc
}

func TestForecastService_Generate(t *testing.T) {
	catalog, forecasts, svc := newForecastFixture()
	catalog.AddProduct(domain.Product{ID: 1, SKU: "SKU-1", Name: "Espresso Beans"})
	seedSalesHistory(catalog, 1, 60, 5)
	ctx := context.Background()

	result, err := svc.Generate(ctx, 1, 0)

	require.NoError(t, err)
	require.Len(t, result.Points, 14, "zero horizon falls back to the configured default")
	assert.Equal(t, "Espresso Beans", result.ProductName)
	assert.Equal(t, forecast.ModelName, result.ModelName)
	assert.Greater(t, result.TotalPredictedDemand, 0.0)
	assert.Greater(t, result.AvgDailyDemand, 0.0)
	assert.GreaterOrEqual(t, result.PeakQuantity, result.AvgDailyDemand)

	stored, err := forecasts.GetByProduct(ctx, 1)
	require.NoError(t, err)
	require.Len(t, stored, 14)
	assert.Equal(t, 0.95, stored[0].ConfidenceLevel)
	assert.Equal(t, forecast.ModelVersion, stored[0].ModelVersion)
}

func TestForecastService_GenerateReplacesPrevious(t *testing.T) {
	catalog, forecasts, svc := newForecastFixture()
	catalog.AddProduct(domain.Product{ID: 1, SKU: "SKU-1", Name: "Espresso Beans"})
	seedSalesHistory(catalog, 1, 60, 5)
	ctx := context.Background()

	_, err := svc.Generate(ctx, 1, 14)
	require.NoError(t, err)
	_, err = svc.Generate(ctx, 1, 7)
	require.NoError(t, err)

	stored, err := forecasts.GetByProduct(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, stored, 7, "regeneration replaces the previous forecast wholesale")
}

func TestForecastService_GenerateSparseHistory(t *testing.T) {
	catalog, _, svc := newForecastFixture()
	catalog.AddProduct(domain.Product{ID: 2, SKU: "SKU-2", Name: "Seasonal Mug"})
	today := time.Now().UTC().Truncate(24 * time.Hour)
	catalog.AddSales(
		domain.SalesRecord{ProductID: 2, SaleDate: today.AddDate(0, 0, -3), Quantity: 4},
		domain.SalesRecord{ProductID: 2, SaleDate: today.AddDate(0, 0, -2), Quantity: 6},
		domain.SalesRecord{ProductID: 2, SaleDate: today.AddDate(0, 0, -1), Quantity: 5},
	)

	result, err := svc.Generate(context.Background(), 2, 10)

	require.NoError(t, err)
	require.Len(t, result.Points, 10)
	assert.Equal(t, 5.0, result.Points[0].PredictedQuantity, "three days of history takes the constant-mean path")
	assert.Equal(t, 2.5, result.Points[0].ConfidenceLower)
	assert.Equal(t, 7.5, result.Points[0].ConfidenceUpper)
}

func TestForecastService_GenerateUnknownProduct(t *testing.T) {
	_, _, svc := newForecastFixture()

	_, err := svc.Generate(context.Background(), 99, 14)

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestForecastService_GetForecastUsesCache(t *testing.T) {
	catalog := memory.NewCatalogRepository()
	forecasts := memory.NewForecastRepository()
	cc := newCaptureCache()
	svc := NewForecastService(catalog, forecasts, cc, nil, config.ForecastConfig{HorizonDays: 7, MinHistoryDays: 7, Workers: 1})

	catalog.AddProduct(domain.Product{ID: 1, SKU: "SKU-1", Name: "Espresso Beans"})
	seedSalesHistory(catalog, 1, 20, 4)
	ctx := context.Background()

	_, err := svc.Generate(ctx, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, cc.invalidations, "generation invalidates the cached entry")

	first, err := svc.GetForecast(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, cc.sets, "miss populates the cache")

	// wipe the backing store; a cache hit must not notice
	require.NoError(t, forecasts.ReplaceForProduct(ctx, 1, nil))

	second, err := svc.GetForecast(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cc.sets)
}

func TestForecastService_GetForecastNoData(t *testing.T) {
	catalog, _, svc := newForecastFixture()
	catalog.AddProduct(domain.Product{ID: 1, SKU: "SKU-1", Name: "Espresso Beans"})

	_, err := svc.GetForecast(context.Background(), 1)

	assert.ErrorIs(t, err, domain.ErrNoForecast)
}

func TestForecastService_GenerateAll(t *testing.T) {
	catalog := memory.NewCatalogRepository()
	forecasts := &failingForecastRepo{ForecastRepository: memory.NewForecastRepository(), failProduct: 2}
	svc := NewForecastService(catalog, forecasts, nil, nil, config.ForecastConfig{HorizonDays: 7, MinHistoryDays: 7, Workers: 2})

	for id := int64(1); id <= 3; id++ {
		catalog.AddProduct(domain.Product{ID: id, SKU: fmt.Sprintf("SKU-%d", id), Name: fmt.Sprintf("Product %d", id)})
		seedSalesHistory(catalog, id, 20, 3)
	}

	report, err := svc.GenerateAll(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Generated)
	assert.Equal(t, 1, report.Failed, "one bad product never aborts the batch")
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "product 2")
}

func TestForecastService_Overview(t *testing.T) {
	catalog, forecasts, svc := newForecastFixture()
	catalog.AddProduct(domain.Product{ID: 1, SKU: "SKU-1", Name: "Espresso Beans"})

	today := time.Now().UTC().Truncate(24 * time.Hour)
	points := make([]domain.ForecastPoint, 30)
	for i := range points {
		qty := 2.0
		if i >= 15 {
			qty = 4.0 // demand picking up in the back half
		}
		points[i] = domain.ForecastPoint{ForecastDate: today.AddDate(0, 0, i), PredictedQuantity: qty}
	}
	require.NoError(t, forecasts.ReplaceForProduct(context.Background(), 1, points))

	rows, err := svc.Overview(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Espresso Beans", rows[0].ProductName)
	assert.Equal(t, 14.0, rows[0].Next7Days)
	assert.Equal(t, 90.0, rows[0].Next30Days)
	assert.Equal(t, 90.0, rows[0].Next90Days)
	assert.Equal(t, "increasing", rows[0].Trend)
}

func TestForecastService_ExportSnapshot(t *testing.T) {
	catalog := memory.NewCatalogRepository()
	forecasts := memory.NewForecastRepository()
	store := &captureStore{}
	svc := NewForecastService(catalog, forecasts, nil, store, config.ForecastConfig{HorizonDays: 7, MinHistoryDays: 7, Workers: 1})

	catalog.AddProduct(domain.Product{ID: 1, SKU: "SKU-1", Name: "Espresso Beans"})
	today := time.Now().UTC().Truncate(24 * time.Hour)
	require.NoError(t, forecasts.ReplaceForProduct(context.Background(), 1, []domain.ForecastPoint{
		{ForecastDate: today.AddDate(0, 0, 1), PredictedQuantity: 4.5, ConfidenceLower: 3, ConfidenceUpper: 6, ModelName: forecast.ModelName},
		{ForecastDate: today.AddDate(0, 0, 2), PredictedQuantity: 5, ConfidenceLower: 3.5, ConfidenceUpper: 6.5, ModelName: forecast.ModelName},
	}))

	key, err := svc.ExportSnapshot(context.Background())

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "forecasts/snapshot-"), "key %s", key)

	data, ok := store.objects[key]
	require.True(t, ok)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3, "header plus one row per point")
	assert.Equal(t, "product_id,sku,forecast_date,predicted_quantity,confidence_lower,confidence_upper,model_name,generated_at", lines[0])
	assert.Contains(t, lines[1], "1,SKU-1,")
	assert.Contains(t, lines[1], ",4.50,3.00,6.00,RandomForest,")
}

func TestForecastService_ExportSnapshotWithoutStorage(t *testing.T) {
	_, _, svc := newForecastFixture()

	_, err := svc.ExportSnapshot(context.Background())

	assert.ErrorContains(t, err, "object storage is not configured")
}
