// backend-go/internal/repository/memory/forecast_repository.go
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/stockcast/backend-go/internal/domain"
	"github.com/stockcast/backend-go/internal/repository"
)

// ForecastRepository stores forecasts in memory with the same replace-all
// contract as the Postgres implementation.
type ForecastRepository struct {
	mu     sync.RWMutex
	points map[int64][]domain.ForecastPoint
	nextID int64
}

// NewForecastRepository creates an empty in-memory forecast store.
func NewForecastRepository() *ForecastRepository {
	return &ForecastRepository{points: make(map[int64][]domain.ForecastPoint), nextID: 1}
}

// Verify interface compliance
var _ repository.ForecastRepository = (*ForecastRepository)(nil)

func (r *ForecastRepository) ReplaceForProduct(ctx context.Context, productID int64, points []domain.ForecastPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	replacement := make([]domain.ForecastPoint, len(points))
	for i, p := range points {
		p.ID = r.nextID
		r.nextID++
		p.ProductID = productID
		replacement[i] = p
	}
	r.points[productID] = replacement

	return nil
}

func (r *ForecastRepository) GetByProduct(ctx context.Context, productID int64) ([]domain.ForecastPoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.points[productID]
	out := make([]domain.ForecastPoint, len(stored))
	copy(out, stored)

	return out, nil
}

func (r *ForecastRepository) SumRange(ctx context.Context, productID int64, from, to time.Time) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sum float64
	for _, p := range r.points[productID] {
		if !p.ForecastDate.Before(from) && p.ForecastDate.Before(to) {
			sum += p.PredictedQuantity
		}
	}

	return sum, nil
}
