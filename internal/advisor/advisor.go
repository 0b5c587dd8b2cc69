// backend-go/internal/advisor/advisor.go
package advisor

import (
	"fmt"
	"math"

	"github.com/stockcast/backend-go/internal/domain"
)

// daysOfStockUnbounded stands in for "no recent demand, stock never runs
// out"; it keeps the time-based branch from ever firing.
const daysOfStockUnbounded = 999

// Config carries the rule tunables. Defaults apply when a product has no
// supplier profile.
type Config struct {
	SafetyStockDays     int
	DefaultLeadTimeDays int
	DefaultMinOrderQty  int
	RestockWindowDays   int
}

// DefaultConfig returns the production rule configuration.
func DefaultConfig() Config {
	return Config{
		SafetyStockDays:     7,
		DefaultLeadTimeDays: 7,
		DefaultMinOrderQty:  1,
		RestockWindowDays:   30,
	}
}

// Input is the stock position the advisor evaluates for one product.
// AvgDailyDemand is the trailing 30 actual days of sales, deliberately not
// the forecast, so alerts react to observed behavior even when no fresh
// forecast exists. ForecastDemand is the forecast sum over the lead plus
// safety window; callers log it but the ladder does not read it.
type Input struct {
	Product        domain.Product
	Inventory      domain.InventoryLevel
	Supplier       *domain.Supplier
	AvgDailyDemand float64
	ForecastDemand float64
}

// Decision is the alert the advisor wants raised for a product.
type Decision struct {
	AlertType           domain.AlertType
	Priority            domain.Priority
	Title               string
	Message             string
	RecommendedAction   string
	RecommendedQuantity *int
	DaysOfStock         float64
}

// Advisor is the pure replenishment rule engine. It holds no mutable state;
// every evaluation depends only on its input and the fixed config.
type Advisor struct {
	cfg Config
}

// New creates an advisor with the given rule configuration.
func New(cfg Config) *Advisor {
	return &Advisor{cfg: cfg}
}

// Evaluate runs the decision ladder top to bottom; the first matching rule
// wins and at most one decision comes back per product per run. A nil
// decision means the stock position needs no alert.
func (a *Advisor) Evaluate(in Input) *Decision {
	available := in.Inventory.Available()
	leadTime := a.leadTimeDays(in.Supplier)

	daysOfStock := float64(daysOfStockUnbounded)
	if in.AvgDailyDemand > 0 {
		daysOfStock = float64(available) / in.AvgDailyDemand
	}

	// 1. Already out of stock
	if available <= 0 {
		qty := a.reorderQty(in, leadTime)
		return &Decision{
			AlertType:           domain.AlertStockoutWarning,
			Priority:            domain.PriorityCritical,
			Title:               fmt.Sprintf("OUT OF STOCK: %s", in.Product.Name),
			Message:             fmt.Sprintf("Product %s is currently out of stock. Immediate reorder required.", in.Product.SKU),
			RecommendedAction:   "Order immediately from supplier",
			RecommendedQuantity: &qty,
			DaysOfStock:         daysOfStock,
		}
	}

	// 2. Will run out before a reorder can arrive
	if daysOfStock <= float64(leadTime+a.cfg.SafetyStockDays) {
		priority := domain.PriorityHigh
		if daysOfStock <= float64(leadTime) {
			priority = domain.PriorityCritical
		}
		orderWithin := math.Max(0, math.Round(daysOfStock-float64(leadTime)))
		qty := a.reorderQty(in, leadTime)
		return &Decision{
			AlertType:           domain.AlertStockoutWarning,
			Priority:            priority,
			Title:               fmt.Sprintf("Stockout Risk: %s", in.Product.Name),
			Message:             fmt.Sprintf("Only %.1f days of stock remaining. Lead time is %d days.", daysOfStock, leadTime),
			RecommendedAction:   fmt.Sprintf("Order within %d days", int(orderWithin)),
			RecommendedQuantity: &qty,
			DaysOfStock:         daysOfStock,
		}
	}

	// 3. At or below the reorder point
	if available <= in.Product.ReorderPoint {
		qty := a.reorderQty(in, leadTime)
		return &Decision{
			AlertType:           domain.AlertLowStock,
			Priority:            domain.PriorityMedium,
			Title:               fmt.Sprintf("Low Stock: %s", in.Product.Name),
			Message:             fmt.Sprintf("Stock level (%d) is at or below reorder point (%d).", available, in.Product.ReorderPoint),
			RecommendedAction:   "Consider placing an order soon",
			RecommendedQuantity: &qty,
			DaysOfStock:         daysOfStock,
		}
	}

	// 4. Sitting on far more than the reorder point, no quantity attached
	if available > in.Product.ReorderPoint*4 {
		return &Decision{
			AlertType:         domain.AlertOverstock,
			Priority:          domain.PriorityLow,
			Title:             fmt.Sprintf("Overstock: %s", in.Product.Name),
			Message:           fmt.Sprintf("Stock level (%d) is significantly above reorder point. Consider reducing future orders.", available),
			RecommendedAction: "Review ordering patterns",
			DaysOfStock:       daysOfStock,
		}
	}

	// 5. Healthy position
	return nil
}

// reorderQty sizes an order to cover lead time, the safety window and the
// restock window beyond it, net of what is on hand and already on order.
// Sub-minimum positive quantities round up to the supplier minimum.
func (a *Advisor) reorderQty(in Input, leadTime int) int {
	minOrder := a.cfg.DefaultMinOrderQty
	if in.Supplier != nil {
		minOrder = in.Supplier.MinimumOrderQuantity
	}

	targetDays := leadTime + a.cfg.SafetyStockDays + a.cfg.RestockWindowDays
	targetStock := in.AvgDailyDemand * float64(targetDays)

	available := in.Inventory.Available()
	qty := targetStock - float64(available) - float64(in.Inventory.QuantityOnOrder)
	if qty < 0 {
		qty = 0
	}
	if qty > 0 && qty < float64(minOrder) {
		qty = float64(minOrder)
	}

	return int(qty)
}

func (a *Advisor) leadTimeDays(s *domain.Supplier) int {
	if s != nil {
		return s.LeadTimeDays
	}

	return a.cfg.DefaultLeadTimeDays
}
