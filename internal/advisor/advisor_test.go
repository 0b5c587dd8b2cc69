// backend-go/internal/advisor/advisor_test.go
package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockcast/backend-go/internal/domain"
)

func TestEvaluate_StockoutRisk(t *testing.T) {
	adv := New(DefaultConfig())

	// 50 units at 5 a day is 10 days of cover, inside the 14-day
	// lead-plus-safety window but past the 7-day lead time
	decision := adv.Evaluate(Input{
		Product:        domain.Product{ID: 1, SKU: "SKU-1", Name: "Espresso Beans", ReorderPoint: 10},
		Inventory:      domain.InventoryLevel{ProductID: 1, QuantityOnHand: 50, QuantityOnOrder: 10},
		Supplier:       &domain.Supplier{ID: 1, LeadTimeDays: 7, MinimumOrderQuantity: 1},
		AvgDailyDemand: 5,
	})

	require.NotNil(t, decision)
	assert.Equal(t, domain.AlertStockoutWarning, decision.AlertType)
	assert.Equal(t, domain.PriorityHigh, decision.Priority)
	assert.Equal(t, "Stockout Risk: Espresso Beans", decision.Title)
	assert.Equal(t, "Order within 3 days", decision.RecommendedAction)
	require.NotNil(t, decision.RecommendedQuantity)
	assert.Equal(t, 160, *decision.RecommendedQuantity)
	assert.InDelta(t, 10.0, decision.DaysOfStock, 1e-9)
}

func TestEvaluate_StockoutRiskInsideLeadTime(t *testing.T) {
	adv := New(DefaultConfig())

	decision := adv.Evaluate(Input{
		Product:        domain.Product{ID: 1, Name: "Espresso Beans", ReorderPoint: 10},
		Inventory:      domain.InventoryLevel{QuantityOnHand: 30},
		Supplier:       &domain.Supplier{LeadTimeDays: 7, MinimumOrderQuantity: 1},
		AvgDailyDemand: 5,
	})

	require.NotNil(t, decision)
	assert.Equal(t, domain.AlertStockoutWarning, decision.AlertType)
	assert.Equal(t, domain.PriorityCritical, decision.Priority, "six days of cover inside a seven-day lead time")
	assert.Equal(t, "Order within 0 days", decision.RecommendedAction)
}

func TestEvaluate_OutOfStock(t *testing.T) {
	adv := New(DefaultConfig())

	decision := adv.Evaluate(Input{
		Product:        domain.Product{ID: 2, SKU: "SKU-2", Name: "Decaf Beans", ReorderPoint: 10},
		Inventory:      domain.InventoryLevel{QuantityOnHand: 4, QuantityReserved: 4},
		AvgDailyDemand: 2,
	})

	require.NotNil(t, decision)
	assert.Equal(t, domain.AlertStockoutWarning, decision.AlertType)
	assert.Equal(t, domain.PriorityCritical, decision.Priority)
	assert.Equal(t, "OUT OF STOCK: Decaf Beans", decision.Title)
	assert.Equal(t, "Order immediately from supplier", decision.RecommendedAction)
	require.NotNil(t, decision.RecommendedQuantity)
	assert.Equal(t, 88, *decision.RecommendedQuantity, "no supplier profile falls back to default lead time and minimum")
}

func TestEvaluate_OutOfStockNoDemand(t *testing.T) {
	adv := New(DefaultConfig())

	decision := adv.Evaluate(Input{
		Product:   domain.Product{ID: 3, Name: "Gift Tumbler"},
		Inventory: domain.InventoryLevel{},
	})

	require.NotNil(t, decision)
	assert.Equal(t, domain.PriorityCritical, decision.Priority)
	require.NotNil(t, decision.RecommendedQuantity)
	assert.Equal(t, 0, *decision.RecommendedQuantity, "no observed demand sizes the order at zero")
	assert.Equal(t, float64(daysOfStockUnbounded), decision.DaysOfStock)
}

func TestEvaluate_LowStock(t *testing.T) {
	adv := New(DefaultConfig())

	decision := adv.Evaluate(Input{
		Product:        domain.Product{ID: 4, Name: "Paper Cups", ReorderPoint: 10},
		Inventory:      domain.InventoryLevel{QuantityOnHand: 8},
		Supplier:       &domain.Supplier{LeadTimeDays: 3, MinimumOrderQuantity: 5},
		AvgDailyDemand: 0.1,
	})

	require.NotNil(t, decision)
	assert.Equal(t, domain.AlertLowStock, decision.AlertType)
	assert.Equal(t, domain.PriorityMedium, decision.Priority)
	assert.Equal(t, "Low Stock: Paper Cups", decision.Title)
	assert.Equal(t, "Consider placing an order soon", decision.RecommendedAction)
}

func TestEvaluate_OverstockBoundary(t *testing.T) {
	adv := New(DefaultConfig())

	cases := []struct {
		name      string
		onHand    int
		overstock bool
	}{
		{"four times the reorder point", 40, false},
		{"just above four times", 41, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision := adv.Evaluate(Input{
				Product:        domain.Product{ID: 7, Name: "Oat Milk", ReorderPoint: 10},
				Inventory:      domain.InventoryLevel{QuantityOnHand: tc.onHand},
				AvgDailyDemand: 0.5,
			})

			if !tc.overstock {
				assert.Nil(t, decision)
				return
			}
			require.NotNil(t, decision)
			assert.Equal(t, domain.AlertOverstock, decision.AlertType)
			assert.Equal(t, domain.PriorityLow, decision.Priority)
			assert.Equal(t, "Review ordering patterns", decision.RecommendedAction)
			assert.Nil(t, decision.RecommendedQuantity, "overstock carries no order suggestion")
		})
	}
}

func TestEvaluate_HealthyPosition(t *testing.T) {
	adv := New(DefaultConfig())

	decision := adv.Evaluate(Input{
		Product:        domain.Product{ID: 8, Name: "House Blend", ReorderPoint: 10},
		Inventory:      domain.InventoryLevel{QuantityOnHand: 30},
		Supplier:       &domain.Supplier{LeadTimeDays: 7, MinimumOrderQuantity: 1},
		AvgDailyDemand: 1,
	})

	assert.Nil(t, decision)
}

func TestEvaluate_NoDemandSkipsTimeRule(t *testing.T) {
	adv := New(DefaultConfig())

	decision := adv.Evaluate(Input{
		Product:   domain.Product{ID: 9, Name: "Seasonal Mug", ReorderPoint: 3},
		Inventory: domain.InventoryLevel{QuantityOnHand: 5},
	})

	assert.Nil(t, decision, "without recent demand the stock never runs out")
}

func TestReorderQuantity_SupplierMinimum(t *testing.T) {
	adv := New(DefaultConfig())

	decision := adv.Evaluate(Input{
		Product:        domain.Product{ID: 5, Name: "Vanilla Syrup", ReorderPoint: 10},
		Inventory:      domain.InventoryLevel{QuantityOnHand: 6},
		Supplier:       &domain.Supplier{LeadTimeDays: 3, MinimumOrderQuantity: 25},
		AvgDailyDemand: 0.2,
	})

	require.NotNil(t, decision)
	assert.Equal(t, domain.AlertLowStock, decision.AlertType)
	require.NotNil(t, decision.RecommendedQuantity)
	assert.Equal(t, 25, *decision.RecommendedQuantity, "sub-minimum orders round up to the supplier minimum")
}

func TestReorderQuantity_AlreadyCovered(t *testing.T) {
	adv := New(DefaultConfig())

	decision := adv.Evaluate(Input{
		Product:        domain.Product{ID: 6, Name: "Filters", ReorderPoint: 100},
		Inventory:      domain.InventoryLevel{QuantityOnHand: 90},
		Supplier:       &domain.Supplier{LeadTimeDays: 7, MinimumOrderQuantity: 1},
		AvgDailyDemand: 1,
	})

	require.NotNil(t, decision)
	assert.Equal(t, domain.AlertLowStock, decision.AlertType)
	require.NotNil(t, decision.RecommendedQuantity)
	assert.Equal(t, 0, *decision.RecommendedQuantity, "target stock already covered by on-hand units")
}
