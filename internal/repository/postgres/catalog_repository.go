// backend-go/internal/repository/postgres/catalog_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/stockcast/backend-go/internal/domain"
)

type catalogRepository struct {
	db *DB
}

// NewCatalogRepository serves products, suppliers, inventory and the sales
// ledger from one place; they share the same read patterns.
func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, sku, name, COALESCE(description, '') AS description,
			COALESCE(category, '') AS category, unit_cost, unit_price,
			reorder_point, safety_stock, supplier_id, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var p domain.Product
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}

	return &p, nil
}

func (r *catalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, sku, name, COALESCE(description, '') AS description,
			COALESCE(category, '') AS category, unit_cost, unit_price,
			reorder_point, safety_stock, supplier_id, created_at, updated_at
		FROM products
		ORDER BY id
	`

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

func (r *catalogRepository) ListProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, sku, name, COALESCE(description, '') AS description,
			COALESCE(category, '') AS category, unit_cost, unit_price,
			reorder_point, safety_stock, supplier_id, created_at, updated_at
		FROM products
		WHERE id IN (?)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build product id query: %w", err)
	}

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list products by ids: %w", err)
	}

	return products, nil
}

func (r *catalogRepository) GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	query := `
		SELECT id, name, COALESCE(contact_email, '') AS contact_email,
			lead_time_days, minimum_order_quantity, created_at
		FROM suppliers
		WHERE id = $1
	`

	var s domain.Supplier
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to get supplier %d: %w", id, err)
	}

	return &s, nil
}

func (r *catalogRepository) GetInventory(ctx context.Context, productID int64) (*domain.InventoryLevel, error) {
	query := `
		SELECT product_id, quantity_on_hand, quantity_reserved, quantity_on_order, updated_at
		FROM inventory_levels
		WHERE product_id = $1
	`

	var il domain.InventoryLevel
	if err := r.db.GetContext(ctx, &il, query, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// no snapshot means no stock tracked yet, not an error
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get inventory for product %d: %w", productID, err)
	}

	return &il, nil
}

func (r *catalogRepository) SalesHistory(ctx context.Context, productID int64) ([]domain.SalesRecord, error) {
	query := `
		SELECT id, product_id, sale_date, quantity, unit_price, total_revenue
		FROM sales
		WHERE product_id = $1
		ORDER BY sale_date ASC
	`

	var records []domain.SalesRecord
	if err := r.db.SelectContext(ctx, &records, query, productID); err != nil {
		return nil, fmt.Errorf("failed to load sales history for product %d: %w", productID, err)
	}

	return records, nil
}

func (r *catalogRepository) QuantitySumSince(ctx context.Context, productID int64, since time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM sales
		WHERE product_id = $1 AND sale_date >= $2
	`

	var sum float64
	if err := r.db.GetContext(ctx, &sum, query, productID, since); err != nil {
		return 0, fmt.Errorf("failed to sum recent sales for product %d: %w", productID, err)
	}

	return sum, nil
}
