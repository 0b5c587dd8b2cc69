// backend-go/internal/repository/catalog_repository.go
package repository

import (
	"context"
	"time"

	"github.com/stockcast/backend-go/internal/domain"
)

// CatalogRepository serves the reference data the engine reads: products,
// suppliers, inventory positions and the sales ledger.
type CatalogRepository interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)

	GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error)

	// GetInventory returns nil without error when no snapshot row exists;
	// callers treat that as an empty stock position.
	GetInventory(ctx context.Context, productID int64) (*domain.InventoryLevel, error)

	// SalesHistory returns the full sales ledger for a product in ascending
	// sale-date order.
	SalesHistory(ctx context.Context, productID int64) ([]domain.SalesRecord, error)

	// QuantitySumSince sums quantities sold on or after the given date.
	QuantitySumSince(ctx context.Context, productID int64, since time.Time) (float64, error)
}
