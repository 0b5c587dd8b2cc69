// backend-go/internal/domain/alerts_test.go
package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePriority(t *testing.T) {
	cases := []struct {
		label string
		want  Priority
		ok    bool
	}{
		{"critical", PriorityCritical, true},
		{"HIGH", PriorityHigh, true},
		{"Medium", PriorityMedium, true},
		{"low", PriorityLow, true},
		{"urgent", Priority("urgent"), false},
		{"", Priority(""), false},
	}

	for _, tc := range cases {
		got, ok := ParsePriority(tc.label)
		assert.Equal(t, tc.ok, ok, "label %q", tc.label)
		if tc.ok {
			assert.Equal(t, tc.want, got, "label %q", tc.label)
		}
	}
}

func TestPriorityRank(t *testing.T) {
	assert.Less(t, PriorityCritical.Rank(), PriorityHigh.Rank())
	assert.Less(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Greater(t, Priority("bogus").Rank(), PriorityLow.Rank(), "unknown priorities sort last")
}

func TestAlertTypeValid(t *testing.T) {
	assert.True(t, AlertStockoutWarning.Valid())
	assert.True(t, AlertLowStock.Valid())
	assert.True(t, AlertOverstock.Valid())
	assert.False(t, AlertType("price_drop").Valid())
}
