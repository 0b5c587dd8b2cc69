// backend-go/internal/repository/memory/catalog_repository.go
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stockcast/backend-go/internal/domain"
	"github.com/stockcast/backend-go/internal/repository"
)

// CatalogRepository provides in-memory catalog storage for tests and dry
// runs. Safe for concurrent use.
type CatalogRepository struct {
	mu        sync.RWMutex
	products  map[int64]domain.Product
	suppliers map[int64]domain.Supplier
	inventory map[int64]domain.InventoryLevel
	sales     map[int64][]domain.SalesRecord
}

// NewCatalogRepository creates an empty in-memory catalog.
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		products:  make(map[int64]domain.Product),
		suppliers: make(map[int64]domain.Supplier),
		inventory: make(map[int64]domain.InventoryLevel),
		sales:     make(map[int64][]domain.SalesRecord),
	}
}

// Verify interface compliance
var _ repository.CatalogRepository = (*CatalogRepository)(nil)

// AddProduct seeds a product.
func (r *CatalogRepository) AddProduct(p domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
}

// AddSupplier seeds a supplier.
func (r *CatalogRepository) AddSupplier(s domain.Supplier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers[s.ID] = s
}

// SetInventory seeds or replaces a product's stock position.
func (r *CatalogRepository) SetInventory(il domain.InventoryLevel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inventory[il.ProductID] = il
}

// AddSales appends ledger records for a product.
func (r *CatalogRepository) AddSales(records ...domain.SalesRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		r.sales[rec.ProductID] = append(r.sales[rec.ProductID], rec)
	}
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	return &p, nil
}

func (r *CatalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *CatalogRepository) ListProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *CatalogRepository) GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.suppliers[id]
	if !ok {
		return nil, domain.ErrSupplierNotFound
	}

	return &s, nil
}

func (r *CatalogRepository) GetInventory(ctx context.Context, productID int64) (*domain.InventoryLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	il, ok := r.inventory[productID]
	if !ok {
		return nil, nil
	}

	return &il, nil
}

func (r *CatalogRepository) SalesHistory(ctx context.Context, productID int64) ([]domain.SalesRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.sales[productID]
	out := make([]domain.SalesRecord, len(records))
	copy(out, records)
	sort.Slice(out, func(i, j int) bool { return out[i].SaleDate.Before(out[j].SaleDate) })

	return out, nil
}

func (r *CatalogRepository) QuantitySumSince(ctx context.Context, productID int64, since time.Time) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sum float64
	for _, rec := range r.sales[productID] {
		if !rec.SaleDate.Before(since) {
			sum += float64(rec.Quantity)
		}
	}

	return sum, nil
}
