// backend-go/internal/repository/postgres/forecast_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stockcast/backend-go/internal/domain"
)

type forecastRepository struct {
	db *DB
}

func NewForecastRepository(db *DB) *forecastRepository {
	return &forecastRepository{db: db}
}

// ReplaceForProduct swaps the product's forecast inside one transaction so
// readers never observe a partial or mixed-generation set.
func (r *forecastRepository) ReplaceForProduct(ctx context.Context, productID int64, points []domain.ForecastPoint) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		// 1. Drop the previous generation
		if _, err := tx.ExecContext(ctx, `DELETE FROM forecasts WHERE product_id = $1`, productID); err != nil {
			return fmt.Errorf("failed to delete old forecasts: %w", err)
		}

		// 2. Insert the new point set
		query := `
			INSERT INTO forecasts (
				product_id, forecast_date, predicted_quantity,
				confidence_lower, confidence_upper, confidence_level,
				model_name, model_version, generated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, p := range points {
			_, err := stmt.ExecContext(
				ctx,
				productID,
				p.ForecastDate,
				p.PredictedQuantity,
				p.ConfidenceLower,
				p.ConfidenceUpper,
				p.ConfidenceLevel,
				p.ModelName,
				p.ModelVersion,
				p.GeneratedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert forecast point: %w", err)
			}
		}

		return nil
	})
}

func (r *forecastRepository) GetByProduct(ctx context.Context, productID int64) ([]domain.ForecastPoint, error) {
	query := `
		SELECT id, product_id, forecast_date, predicted_quantity,
			confidence_lower, confidence_upper, confidence_level,
			model_name, model_version, generated_at
		FROM forecasts
		WHERE product_id = $1
		ORDER BY forecast_date ASC
	`

	var points []domain.ForecastPoint
	if err := r.db.SelectContext(ctx, &points, query, productID); err != nil {
		return nil, fmt.Errorf("failed to get forecasts for product %d: %w", productID, err)
	}

	return points, nil
}

func (r *forecastRepository) SumRange(ctx context.Context, productID int64, from, to time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(predicted_quantity), 0)
		FROM forecasts
		WHERE product_id = $1 AND forecast_date >= $2 AND forecast_date < $3
	`

	var sum float64
	if err := r.db.GetContext(ctx, &sum, query, productID, from, to); err != nil {
		return 0, fmt.Errorf("failed to sum forecast demand for product %d: %w", productID, err)
	}

	return sum, nil
}
