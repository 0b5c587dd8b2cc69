// backend-go/internal/forecast/predict_test.go
package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockcast/backend-go/internal/domain"
)

func TestFallback_NoHistory(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	preds := Fallback(nil, 5, now)

	require.Len(t, preds, 5)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), preds[0].Date, "dates anchor at the day after now")
	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), preds[4].Date)
	for _, p := range preds {
		assert.Equal(t, 1.0, p.Quantity)
		assert.Equal(t, 0.5, p.Lower)
		assert.Equal(t, 1.5, p.Upper)
	}
}

func TestFallback_MeanOfHistory(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	records := []domain.SalesRecord{
		saleOn(now.AddDate(0, 0, -3), 4),
		saleOn(now.AddDate(0, 0, -2), 6),
		saleOn(now.AddDate(0, 0, -1), 5),
	}

	preds := Fallback(records, 3, now)

	require.Len(t, preds, 3)
	assert.Equal(t, 5.0, preds[0].Quantity)
	assert.Equal(t, 2.5, preds[0].Lower)
	assert.Equal(t, 7.5, preds[0].Upper)
}

func TestGenerate_ShortHistory(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	records := []domain.SalesRecord{
		saleOn(now.AddDate(0, 0, -3), 4),
		saleOn(now.AddDate(0, 0, -2), 6),
		saleOn(now.AddDate(0, 0, -1), 5),
	}

	preds, model, err := Generate(records, 7, MinTrainRows, DefaultModelParams(), now)

	require.NoError(t, err)
	assert.Nil(t, model, "fallback path trains no model")
	require.Len(t, preds, 7)
	assert.Equal(t, now.AddDate(0, 0, 1), preds[0].Date)
	assert.Equal(t, 5.0, preds[0].Quantity)
}

func TestGenerate_ConstantSeries(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := make([]domain.SalesRecord, 40)
	for i := range records {
		records[i] = saleOn(start.AddDate(0, 0, i), 5)
	}

	preds, model, err := Generate(records, 10, MinTrainRows, DefaultModelParams(), start.AddDate(0, 0, 40))

	require.NoError(t, err)
	require.NotNil(t, model)
	require.Len(t, preds, 10)

	lastObserved := start.AddDate(0, 0, 39)
	assert.Equal(t, lastObserved.AddDate(0, 0, 1), preds[0].Date, "trained path continues from the last observed day")
	for _, p := range preds {
		assert.Equal(t, 5.0, p.Quantity)
		assert.Equal(t, 5.0, p.Lower, "constant history leaves no spread")
		assert.Equal(t, 5.0, p.Upper)
	}
}

func TestGenerate_TrainedPath(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := make([]domain.SalesRecord, 60)
	for i := range records {
		records[i] = saleOn(start.AddDate(0, 0, i), 5+i%7)
	}
	now := start.AddDate(0, 0, 60)

	preds, model, err := Generate(records, 14, MinTrainRows, DefaultModelParams(), now)

	require.NoError(t, err)
	require.NotNil(t, model)
	require.Len(t, preds, 14)
	for i, p := range preds {
		assert.GreaterOrEqual(t, p.Lower, 0.0, "point %d", i)
		assert.GreaterOrEqual(t, p.Quantity, p.Lower, "point %d", i)
		assert.GreaterOrEqual(t, p.Upper, p.Quantity, "point %d", i)
	}

	again, _, err := Generate(records, 14, MinTrainRows, DefaultModelParams(), now)
	require.NoError(t, err)
	assert.Equal(t, preds, again, "fixed seed keeps runs reproducible")
}
