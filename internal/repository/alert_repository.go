// backend-go/internal/repository/alert_repository.go
package repository

import (
	"context"

	"github.com/stockcast/backend-go/internal/domain"
)

type AlertRepository interface {
	// DeleteUnresolvedByProduct clears the product's open alerts ahead of a
	// fresh evaluation. Resolved alerts stay as history.
	DeleteUnresolvedByProduct(ctx context.Context, productID int64) (int64, error)

	// Insert persists a new alert and fills in its generated id.
	Insert(ctx context.Context, alert *domain.Alert) error

	List(ctx context.Context, filter domain.AlertFilter) ([]domain.Alert, error)
	GetByID(ctx context.Context, id int64) (*domain.Alert, error)

	// Update applies a partial read/resolved patch. Resolving stamps
	// resolved_at; un-resolving clears it.
	Update(ctx context.Context, id int64, patch domain.AlertUpdate) (*domain.Alert, error)

	Delete(ctx context.Context, id int64) error

	Summary(ctx context.Context) (*domain.AlertSummary, error)
}
