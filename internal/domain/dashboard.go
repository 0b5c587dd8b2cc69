// backend-go/internal/domain/dashboard.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ForecastResult is the read-side view of a product's stored forecast,
// with the summary scalars the dashboard cards show.
type ForecastResult struct {
	ProductID            int64           `json:"product_id"`
	ProductName          string          `json:"product_name"`
	ModelName            string          `json:"model_name"`
	GeneratedAt          time.Time       `json:"generated_at"`
	Points               []ForecastPoint `json:"forecast_data"`
	TotalPredictedDemand float64         `json:"total_predicted_demand"`
	AvgDailyDemand       float64         `json:"avg_daily_demand"`
	PeakDate             time.Time       `json:"peak_date"`
	PeakQuantity         float64         `json:"peak_quantity"`
}

// ForecastOverview is one dashboard row per product: demand sums over the
// next 7/30/90 days and a coarse trend direction.
type ForecastOverview struct {
	ProductID   int64   `json:"product_id" db:"product_id"`
	ProductName string  `json:"product_name" db:"product_name"`
	Next7Days   float64 `json:"next_7_days" db:"next_7_days"`
	Next30Days  float64 `json:"next_30_days" db:"next_30_days"`
	Next90Days  float64 `json:"next_90_days" db:"next_90_days"`
	Trend       string  `json:"trend" db:"-"`
}

// AlertSummary counts open alerts by priority for the dashboard header.
type AlertSummary struct {
	Total    int `json:"total_alerts" db:"total"`
	Critical int `json:"critical" db:"critical"`
	High     int `json:"high" db:"high"`
	Medium   int `json:"medium" db:"medium"`
	Low      int `json:"low" db:"low"`
	Unread   int `json:"unread" db:"unread"`
}

// ForecastRunReport aggregates a batch forecast run. Errors holds at most
// the first few failures; Failed is the true count.
type ForecastRunReport struct {
	Generated int      `json:"generated"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
}

// AlertRunReport aggregates a batch alert sweep.
type AlertRunReport struct {
	Created          int      `json:"created"`
	StockoutWarnings int      `json:"stockout_warnings"`
	LowStock         int      `json:"low_stock"`
	Overstock        int      `json:"overstock"`
	Failed           int      `json:"failed"`
	Errors           []string `json:"errors"`
}

// PODraft is an advisory purchase order grouped by supplier. Drafts are
// returned to the caller, never persisted.
type PODraft struct {
	PONumber     string          `json:"po_number"`
	SupplierID   int64           `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Status       string          `json:"status"`
	OrderDate    time.Time       `json:"order_date"`
	Lines        []PODraftLine   `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PODraftLine is one product line on a draft.
type PODraftLine struct {
	ProductID   int64           `json:"product_id"`
	ProductSKU  string          `json:"product_sku"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	LineTotal   decimal.Decimal `json:"total_cost"`
}
