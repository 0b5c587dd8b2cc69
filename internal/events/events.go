package events

import "time"

const EventTypeAlertRaised = "replenishment.alert_raised"

// AlertRaisedEvent is emitted whenever the rule engine persists a new alert.
type AlertRaisedEvent struct {
	EventID             string    `json:"event_id"`
	EventType           string    `json:"event_type"`
	ProductID           int64     `json:"product_id"`
	SKU                 string    `json:"sku"`
	AlertType           string    `json:"alert_type"`
	Priority            string    `json:"priority"`
	RecommendedQuantity *int      `json:"recommended_quantity,omitempty"`
	OccurredAt          time.Time `json:"occurred_at"`
}
