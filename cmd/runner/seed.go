// backend-go/cmd/runner/seed.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v2"

	"github.com/stockcast/backend-go/pkg/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS suppliers (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	contact_email TEXT,
	lead_time_days INTEGER NOT NULL DEFAULT 7,
	minimum_order_quantity INTEGER NOT NULL DEFAULT 1,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
	id BIGSERIAL PRIMARY KEY,
	sku TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	description TEXT,
	category TEXT,
	unit_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
	unit_price DOUBLE PRECISION NOT NULL DEFAULT 0,
	reorder_point INTEGER NOT NULL DEFAULT 10,
	safety_stock INTEGER NOT NULL DEFAULT 5,
	supplier_id BIGINT REFERENCES suppliers(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS inventory_levels (
	product_id BIGINT PRIMARY KEY REFERENCES products(id) ON DELETE CASCADE,
	quantity_on_hand INTEGER NOT NULL DEFAULT 0,
	quantity_reserved INTEGER NOT NULL DEFAULT 0,
	quantity_on_order INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sales (
	id BIGSERIAL PRIMARY KEY,
	product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	sale_date TIMESTAMPTZ NOT NULL,
	quantity INTEGER NOT NULL,
	unit_price DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_revenue DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_sales_product_date ON sales (product_id, sale_date);

CREATE TABLE IF NOT EXISTS forecasts (
	id BIGSERIAL PRIMARY KEY,
	product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	forecast_date TIMESTAMPTZ NOT NULL,
	predicted_quantity DOUBLE PRECISION NOT NULL,
	confidence_lower DOUBLE PRECISION NOT NULL,
	confidence_upper DOUBLE PRECISION NOT NULL,
	confidence_level DOUBLE PRECISION NOT NULL DEFAULT 0.95,
	model_name TEXT NOT NULL,
	model_version TEXT NOT NULL,
	generated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_forecasts_product_date ON forecasts (product_id, forecast_date);

CREATE TABLE IF NOT EXISTS alerts (
	id BIGSERIAL PRIMARY KEY,
	product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	alert_type TEXT NOT NULL,
	priority TEXT NOT NULL,
	title TEXT NOT NULL,
	message TEXT NOT NULL,
	recommended_action TEXT,
	recommended_quantity INTEGER,
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	is_resolved BOOLEAN NOT NULL DEFAULT FALSE,
	resolved_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	expires_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_alerts_product ON alerts (product_id);
CREATE INDEX IF NOT EXISTS idx_alerts_open ON alerts (is_resolved, priority);
`

type seedSupplier struct {
	name     string
	email    string
	leadDays int
	minQty   int
}

type seedProduct struct {
	sku          string
	name         string
	description  string
	category     string
	unitCost     float64
	unitPrice    float64
	reorderPoint int
	safetyStock  int
	supplier     string
	baseDemand   int
	demandSpread int
	onHand       int
	reserved     int
	onOrder      int
}

var demoSuppliers = []seedSupplier{
	{name: "Northline Distribution", email: "sales@northline.example", leadDays: 7, minQty: 10},
	{name: "Pacific Wholesale", email: "orders@pacificwholesale.example", leadDays: 14, minQty: 25},
	{name: "Metro Same-Day Supply", email: "dispatch@metrosupply.example", leadDays: 3, minQty: 5},
}

// demoProducts covers the interesting shapes: a healthy seller, an item
// already out of stock, one sitting on months of excess, and one with no
// supplier on file.
var demoProducts = []seedProduct{
	{
		sku: "SKU-ESP-001", name: "Espresso Beans 1kg",
		description: "Dark roast arabica blend", category: "beverages",
		unitCost: 11.50, unitPrice: 18.90, reorderPoint: 40, safetyStock: 15,
		supplier: "Northline Distribution", baseDemand: 12, demandSpread: 9,
		onHand: 35, reserved: 5, onOrder: 0,
	},
	{
		sku: "SKU-ESP-002", name: "Decaf Blend 500g",
		description: "Swiss water process decaf", category: "beverages",
		unitCost: 7.25, unitPrice: 12.50, reorderPoint: 20, safetyStock: 8,
		supplier: "Northline Distribution", baseDemand: 5, demandSpread: 4,
		onHand: 0, reserved: 0, onOrder: 40,
	},
	{
		sku: "SKU-MLK-010", name: "Oat Milk 1L",
		description: "Barista edition oat drink", category: "dairy-alternatives",
		unitCost: 1.80, unitPrice: 3.20, reorderPoint: 60, safetyStock: 25,
		supplier: "Pacific Wholesale", baseDemand: 25, demandSpread: 14,
		onHand: 320, reserved: 10, onOrder: 0,
	},
	{
		sku: "SKU-CUP-200", name: "Paper Cups 200ct",
		description: "Double-wall 12oz cups", category: "disposables",
		unitCost: 6.40, unitPrice: 9.99, reorderPoint: 30, safetyStock: 10,
		supplier: "Pacific Wholesale", baseDemand: 8, demandSpread: 6,
		onHand: 120, reserved: 0, onOrder: 0,
	},
	{
		sku: "SKU-SYR-031", name: "Vanilla Syrup 750ml",
		description: "", category: "flavorings",
		unitCost: 4.10, unitPrice: 7.50, reorderPoint: 15, safetyStock: 5,
		supplier: "Metro Same-Day Supply", baseDemand: 3, demandSpread: 3,
		onHand: 18, reserved: 2, onOrder: 0,
	},
	{
		sku: "SKU-GFT-900", name: "Gift Tumbler",
		description: "Branded 450ml tumbler", category: "merchandise",
		unitCost: 9.00, unitPrice: 16.00, reorderPoint: 10, safetyStock: 4,
		supplier: "", baseDemand: 1, demandSpread: 2,
		onHand: 50, reserved: 0, onOrder: 0,
	},
}

// nullIfEmpty returns NULL if the string is empty, otherwise returns the string
func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func runSeed(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	ctx := context.Background()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Defer a rollback in case anything fails.
	defer tx.Rollback()

	logger.Log.Info().Msg("Starting database seeding...")

	supplierIDs, err := seedSuppliers(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to seed suppliers: %w", err)
	}

	productIDs, err := seedProducts(ctx, tx, supplierIDs)
	if err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	days := c.Int("days")
	if days <= 0 {
		days = 120
	}
	if err := seedSales(ctx, tx, productIDs, days); err != nil {
		return fmt.Errorf("failed to seed sales: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Log.Info().Int("days", days).Msg("Database seeding completed successfully")
	return nil
}

func seedSuppliers(ctx context.Context, tx *sql.Tx) (map[string]int64, error) {
	const query = `
		INSERT INTO suppliers (name, contact_email, lead_time_days, minimum_order_quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			contact_email = EXCLUDED.contact_email,
			lead_time_days = EXCLUDED.lead_time_days,
			minimum_order_quantity = EXCLUDED.minimum_order_quantity
		RETURNING id
	`

	ids := make(map[string]int64, len(demoSuppliers))
	for _, s := range demoSuppliers {
		var id int64
		if err := tx.QueryRowContext(ctx, query,
			s.name, nullIfEmpty(s.email), s.leadDays, s.minQty,
		).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to upsert supplier %s: %w", s.name, err)
		}
		ids[s.name] = id
	}

	logger.Log.Info().Int("count", len(ids)).Msg("Seeded suppliers")
	return ids, nil
}

func seedProducts(ctx context.Context, tx *sql.Tx, supplierIDs map[string]int64) (map[string]int64, error) {
	const productQuery = `
		INSERT INTO products (
			sku, name, description, category, unit_cost, unit_price,
			reorder_point, safety_stock, supplier_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (sku) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			unit_cost = EXCLUDED.unit_cost,
			unit_price = EXCLUDED.unit_price,
			reorder_point = EXCLUDED.reorder_point,
			safety_stock = EXCLUDED.safety_stock,
			supplier_id = EXCLUDED.supplier_id,
			updated_at = NOW()
		RETURNING id
	`

	const inventoryQuery = `
		INSERT INTO inventory_levels (product_id, quantity_on_hand, quantity_reserved, quantity_on_order)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id) DO UPDATE SET
			quantity_on_hand = EXCLUDED.quantity_on_hand,
			quantity_reserved = EXCLUDED.quantity_reserved,
			quantity_on_order = EXCLUDED.quantity_on_order,
			updated_at = NOW()
	`

	ids := make(map[string]int64, len(demoProducts))
	for _, p := range demoProducts {
		var supplierID sql.NullInt64
		if p.supplier != "" {
			id, ok := supplierIDs[p.supplier]
			if !ok {
				return nil, fmt.Errorf("supplier %s not found for sku %s", p.supplier, p.sku)
			}
			supplierID = sql.NullInt64{Int64: id, Valid: true}
		}

		var id int64
		if err := tx.QueryRowContext(ctx, productQuery,
			p.sku, p.name, nullIfEmpty(p.description), nullIfEmpty(p.category),
			p.unitCost, p.unitPrice, p.reorderPoint, p.safetyStock, supplierID,
		).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to upsert product %s: %w", p.sku, err)
		}
		ids[p.sku] = id

		if _, err := tx.ExecContext(ctx, inventoryQuery, id, p.onHand, p.reserved, p.onOrder); err != nil {
			return nil, fmt.Errorf("failed to upsert inventory for %s: %w", p.sku, err)
		}
	}

	logger.Log.Info().Int("count", len(ids)).Msg("Seeded products and inventory")
	return ids, nil
}

// seedSales replaces each product's history with a deterministic synthetic
// series so repeated runs produce identical data.
func seedSales(ctx context.Context, tx *sql.Tx, productIDs map[string]int64, days int) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sales (product_id, sale_date, quantity, unit_price, total_revenue)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare sales statement: %w", err)
	}
	defer stmt.Close()

	rng := rand.New(rand.NewSource(7))
	today := time.Now().UTC().Truncate(24 * time.Hour)

	rowCount := 0
	for _, p := range demoProducts {
		productID := productIDs[p.sku]

		if _, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE product_id = $1`, productID); err != nil {
			return fmt.Errorf("failed to clear sales for %s: %w", p.sku, err)
		}

		for back := days; back > 0; back-- {
			// Roughly one quiet day in twenty.
			if rng.Float64() < 0.05 {
				continue
			}

			date := today.AddDate(0, 0, -back)
			qty := p.baseDemand + rng.Intn(p.demandSpread+1)
			if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
				qty += p.baseDemand / 2
			}
			if qty <= 0 {
				continue
			}

			revenue := float64(qty) * p.unitPrice
			if _, err := stmt.ExecContext(ctx, productID, date, qty, p.unitPrice, revenue); err != nil {
				return fmt.Errorf("failed to insert sale for %s: %w", p.sku, err)
			}
			rowCount++
		}
	}

	logger.Log.Info().Int("rows", rowCount).Msg("Seeded sales history")
	return nil
}
