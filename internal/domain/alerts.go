// backend-go/internal/domain/alerts.go
package domain

import "strings"

// AlertType classifies what a replenishment alert is about.
type AlertType string

const (
	AlertStockoutWarning AlertType = "stockout_warning"
	AlertLowStock        AlertType = "low_stock"
	AlertOverstock       AlertType = "overstock"
)

// Priority orders alerts by urgency.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

var priorityRanks = map[Priority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

// ParsePriority returns the priority for a given label (case-insensitive).
func ParsePriority(label string) (Priority, bool) {
	p := Priority(strings.ToLower(label))
	_, ok := priorityRanks[p]

	return p, ok
}

// Rank returns the sort weight for a priority, lower is more urgent.
// Unknown priorities sort last.
func (p Priority) Rank() int {
	if rank, ok := priorityRanks[p]; ok {
		return rank
	}

	return len(priorityRanks)
}

// Valid reports whether t is a known alert type.
func (t AlertType) Valid() bool {
	switch t {
	case AlertStockoutWarning, AlertLowStock, AlertOverstock:
		return true
	}

	return false
}
