// backend-go/internal/domain/models.go
package domain

import "time"

// Product is a sellable item tracked by the replenishment engine.
type Product struct {
	ID           int64     `json:"id" db:"id"`
	SKU          string    `json:"sku" db:"sku"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	Category     string    `json:"category" db:"category"`
	UnitCost     float64   `json:"unit_cost" db:"unit_cost"`
	UnitPrice    float64   `json:"unit_price" db:"unit_price"`
	ReorderPoint int       `json:"reorder_point" db:"reorder_point"`
	SafetyStock  int       `json:"safety_stock" db:"safety_stock"`
	SupplierID   *int64    `json:"supplier_id" db:"supplier_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Supplier holds the ordering constraints used when drafting POs.
type Supplier struct {
	ID                   int64     `json:"id" db:"id"`
	Name                 string    `json:"name" db:"name"`
	ContactEmail         string    `json:"contact_email" db:"contact_email"`
	LeadTimeDays         int       `json:"lead_time_days" db:"lead_time_days"`
	MinimumOrderQuantity int       `json:"minimum_order_quantity" db:"minimum_order_quantity"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
}

// InventoryLevel is the current stock position for a product.
type InventoryLevel struct {
	ProductID        int64     `json:"product_id" db:"product_id"`
	QuantityOnHand   int       `json:"quantity_on_hand" db:"quantity_on_hand"`
	QuantityReserved int       `json:"quantity_reserved" db:"quantity_reserved"`
	QuantityOnOrder  int       `json:"quantity_on_order" db:"quantity_on_order"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// Available is on-hand minus reserved. May go negative when oversold;
// the rule engine relies on that.
func (il InventoryLevel) Available() int {
	return il.QuantityOnHand - il.QuantityReserved
}

// SalesRecord is a single day's sale of a product.
type SalesRecord struct {
	ID           int64     `json:"id" db:"id"`
	ProductID    int64     `json:"product_id" db:"product_id"`
	SaleDate     time.Time `json:"sale_date" db:"sale_date"`
	Quantity     int       `json:"quantity" db:"quantity"`
	UnitPrice    float64   `json:"unit_price" db:"unit_price"`
	TotalRevenue float64   `json:"total_revenue" db:"total_revenue"`
}

// ForecastPoint is one predicted day of demand for a product.
type ForecastPoint struct {
	ID                int64     `json:"id" db:"id"`
	ProductID         int64     `json:"product_id" db:"product_id"`
	ForecastDate      time.Time `json:"forecast_date" db:"forecast_date"`
	PredictedQuantity float64   `json:"predicted_quantity" db:"predicted_quantity"`
	ConfidenceLower   float64   `json:"confidence_lower" db:"confidence_lower"`
	ConfidenceUpper   float64   `json:"confidence_upper" db:"confidence_upper"`
	ConfidenceLevel   float64   `json:"confidence_level" db:"confidence_level"`
	ModelName         string    `json:"model_name" db:"model_name"`
	ModelVersion      string    `json:"model_version" db:"model_version"`
	GeneratedAt       time.Time `json:"generated_at" db:"generated_at"`
}

// Alert is a persisted replenishment decision for a product.
type Alert struct {
	ID                  int64      `json:"id" db:"id"`
	ProductID           int64      `json:"product_id" db:"product_id"`
	ProductName         string     `json:"product_name" db:"product_name"`
	AlertType           AlertType  `json:"alert_type" db:"alert_type"`
	Priority            Priority   `json:"priority" db:"priority"`
	Title               string     `json:"title" db:"title"`
	Message             string     `json:"message" db:"message"`
	RecommendedAction   *string    `json:"recommended_action" db:"recommended_action"`
	RecommendedQuantity *int       `json:"recommended_quantity" db:"recommended_quantity"`
	IsRead              bool       `json:"is_read" db:"is_read"`
	IsResolved          bool       `json:"is_resolved" db:"is_resolved"`
	ResolvedAt          *time.Time `json:"resolved_at" db:"resolved_at"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	ExpiresAt           time.Time  `json:"expires_at" db:"expires_at"`
}

// AlertFilter narrows alert listings. A nil Resolved returns both open and
// resolved alerts.
type AlertFilter struct {
	Priority *Priority
	Resolved *bool
	Limit    int
}

// AlertUpdate is a partial update to an alert's read/resolved flags.
// Nil fields are left untouched.
type AlertUpdate struct {
	IsRead     *bool `json:"is_read"`
	IsResolved *bool `json:"is_resolved"`
}
