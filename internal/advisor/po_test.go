// backend-go/internal/advisor/po_test.go
package advisor

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockcast/backend-go/internal/domain"
)

func TestBuildDrafts(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	north := &domain.Supplier{ID: 1, Name: "Northline Distribution"}
	pacific := &domain.Supplier{ID: 2, Name: "Pacific Wholesale"}

	candidates := []POCandidate{
		{Product: domain.Product{ID: 3, SKU: "SKU-3", Name: "Paper Cups", UnitCost: 0.1}, Supplier: pacific, AvgDailyDemand: 12},
		{Product: domain.Product{ID: 1, SKU: "SKU-1", Name: "Espresso Beans", UnitCost: 2.5}, Supplier: north, AvgDailyDemand: 2.5},
		{Product: domain.Product{ID: 4, SKU: "SKU-4", Name: "Gift Tumbler", UnitCost: 9}, Supplier: nil, AvgDailyDemand: 1},
		{Product: domain.Product{ID: 2, SKU: "SKU-2", Name: "Vanilla Syrup", UnitCost: 4.25}, Supplier: north, AvgDailyDemand: 0.75},
	}

	drafts := BuildDrafts(candidates, now)

	require.Len(t, drafts, 2, "candidate without a supplier is dropped")

	first := drafts[0]
	assert.Equal(t, int64(1), first.SupplierID)
	assert.Equal(t, "Northline Distribution", first.SupplierName)
	assert.Equal(t, "draft", first.Status)
	assert.Equal(t, now, first.OrderDate)
	assert.True(t, strings.HasPrefix(first.PONumber, "PO-20240315-"), "po number %s", first.PONumber)
	assert.Len(t, first.PONumber, 18)

	require.Len(t, first.Lines, 2)
	assert.Equal(t, int64(1), first.Lines[0].ProductID, "lines come in product id order")
	assert.Equal(t, int64(2), first.Lines[1].ProductID)

	// 2.5 a day over the 30-day cover window
	assert.Equal(t, 75, first.Lines[0].Quantity)
	assert.True(t, first.Lines[0].LineTotal.Equal(decimal.NewFromFloat(187.5)), "line total %s", first.Lines[0].LineTotal)

	// 0.75 a day gives 22.5 units, truncated
	assert.Equal(t, 22, first.Lines[1].Quantity)
	assert.True(t, first.Lines[1].LineTotal.Equal(decimal.NewFromFloat(93.5)), "line total %s", first.Lines[1].LineTotal)

	assert.True(t, first.Subtotal.Equal(decimal.NewFromFloat(281)), "subtotal %s", first.Subtotal)

	second := drafts[1]
	assert.Equal(t, int64(2), second.SupplierID)
	assert.Equal(t, "Pacific Wholesale", second.SupplierName)
	require.Len(t, second.Lines, 1)
	assert.Equal(t, 360, second.Lines[0].Quantity)
	assert.NotEqual(t, first.PONumber, second.PONumber)
}

func TestBuildDrafts_MinimumOneUnit(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	supplier := &domain.Supplier{ID: 1, Name: "Metro Same-Day Supply"}

	drafts := BuildDrafts([]POCandidate{
		{Product: domain.Product{ID: 1, SKU: "SKU-1", Name: "Slow Mover", UnitCost: 3}, Supplier: supplier},
	}, now)

	require.Len(t, drafts, 1)
	require.Len(t, drafts[0].Lines, 1)
	assert.Equal(t, 1, drafts[0].Lines[0].Quantity, "a draft line never goes below one unit")
	assert.True(t, drafts[0].Subtotal.Equal(decimal.NewFromInt(3)), "subtotal %s", drafts[0].Subtotal)
}

func TestBuildDrafts_NoCandidates(t *testing.T) {
	assert.Empty(t, BuildDrafts(nil, time.Now().UTC()))
}
