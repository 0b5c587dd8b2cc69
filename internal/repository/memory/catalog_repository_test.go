// backend-go/internal/repository/memory/catalog_repository_test.go
package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockcast/backend-go/internal/domain"
)

func TestCatalogRepository_SalesQueries(t *testing.T) {
	repo := NewCatalogRepository()
	ctx := context.Background()
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	repo.AddSales(
		domain.SalesRecord{ProductID: 1, SaleDate: day.AddDate(0, 0, 2), Quantity: 3},
		domain.SalesRecord{ProductID: 1, SaleDate: day, Quantity: 1},
		domain.SalesRecord{ProductID: 1, SaleDate: day.AddDate(0, 0, 1), Quantity: 2},
		domain.SalesRecord{ProductID: 2, SaleDate: day, Quantity: 9},
	)

	history, err := repo.SalesHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, day, history[0].SaleDate, "history comes back chronological")
	assert.Equal(t, 3, history[2].Quantity)

	sum, err := repo.QuantitySumSince(ctx, 1, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 5.0, sum, "cutoff is inclusive")
}

func TestCatalogRepository_Lookups(t *testing.T) {
	repo := NewCatalogRepository()
	ctx := context.Background()

	repo.AddProduct(domain.Product{ID: 2, SKU: "SKU-2", Name: "Paper Cups"})
	repo.AddProduct(domain.Product{ID: 1, SKU: "SKU-1", Name: "Espresso Beans"})

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID, "listing is id-ordered")

	byIDs, err := repo.ListProductsByIDs(ctx, []int64{2, 99})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	assert.Equal(t, "Paper Cups", byIDs[0].Name)

	_, err = repo.GetProduct(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = repo.GetSupplier(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrSupplierNotFound)

	inv, err := repo.GetInventory(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, inv, "missing stock position is not an error")
}
