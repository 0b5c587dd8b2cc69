// backend-go/internal/repository/forecast_repository.go
package repository

import (
	"context"
	"time"

	"github.com/stockcast/backend-go/internal/domain"
)

type ForecastRepository interface {
	// ReplaceForProduct atomically swaps the product's stored forecast for
	// the given point set: readers see either the old set or the new one,
	// never a mix.
	ReplaceForProduct(ctx context.Context, productID int64, points []domain.ForecastPoint) error

	// GetByProduct returns the stored forecast in ascending date order.
	GetByProduct(ctx context.Context, productID int64) ([]domain.ForecastPoint, error)

	// SumRange sums predicted quantity over forecast dates in [from, to).
	SumRange(ctx context.Context, productID int64, from, to time.Time) (float64, error)
}
