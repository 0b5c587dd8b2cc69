// backend-go/internal/forecast/model.go
package forecast

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// ModelName is recorded on every persisted point, fallback included,
	// so downstream consumers see a single model family.
	ModelName    = "RandomForest"
	ModelVersion = "1.0.0"

	// MinTrainRows is the smallest feature table worth training on.
	// Below this the generator takes the constant-mean fallback.
	MinTrainRows = 7
)

// ErrInsufficientHistory means the feature table is too small to train.
var ErrInsufficientHistory = errors.New("insufficient sales history to train model")

// Model is a trained demand regressor plus its holdout diagnostics.
// R2 and Accuracy are informational; they never gate a forecast.
type Model struct {
	forest *forest

	// R2 is the holdout R² in percent. Accuracy is (1 − MAPE) × 100 over
	// holdout rows with nonzero actuals. Both rounded to 2 decimals.
	R2       float64
	Accuracy float64
}

// Train fits the ensemble on the chronologically first 80% of rows and
// scores it on the final 20%. Rows must be in time order; the split never
// shuffles, so the holdout is always the most recent slice.
func Train(rows []FeatureRow, p ModelParams) (*Model, error) {
	if len(rows) < MinTrainRows {
		return nil, ErrInsufficientHistory
	}

	xs := make([][]float64, len(rows))
	ys := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = r.Vector()
		ys[i] = r.Quantity
	}

	nTest := (len(rows) + 4) / 5
	nTrain := len(rows) - nTest
	f := fitForest(xs[:nTrain], ys[:nTrain], p)

	estimates := make([]float64, nTest)
	actuals := make([]float64, nTest)
	for i := 0; i < nTest; i++ {
		estimates[i] = f.predict(xs[nTrain+i])
		actuals[i] = ys[nTrain+i]
	}

	m := &Model{forest: f}
	m.R2 = round2(scoreR2(estimates, actuals) * 100)
	m.Accuracy = round2((1 - scoreMAPE(estimates, actuals)) * 100)

	return m, nil
}

// Predict returns the raw ensemble output for one feature vector. Callers
// clamp to ≥ 0.
func (m *Model) Predict(x []float64) float64 {
	return m.forest.predict(x)
}

func scoreR2(estimates, actuals []float64) float64 {
	r2 := stat.RSquaredFrom(estimates, actuals, nil)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		return 0
	}

	return r2
}

// scoreMAPE skips zero actuals so flat no-sale holdouts do not blow the
// percentage up; with no usable rows it reports 1 (0% accuracy).
func scoreMAPE(estimates, actuals []float64) float64 {
	var sum float64
	var n int
	for i, a := range actuals {
		if a == 0 {
			continue
		}
		sum += math.Abs((a - estimates[i]) / a)
		n++
	}
	if n == 0 {
		return 1
	}

	return sum / float64(n)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
