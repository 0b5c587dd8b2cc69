// backend-go/internal/forecast/predict.go
package forecast

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/stockcast/backend-go/internal/domain"
)

// Prediction is one future day of demand with its confidence band.
type Prediction struct {
	Date     time.Time
	Quantity float64
	Lower    float64
	Upper    float64
}

// Generate runs the whole pipeline for one product's history: dense daily
// series, then either the trained recursive path or the constant-mean
// fallback when fewer than minHistory days exist. The returned Model is nil
// on the fallback path. Output is deterministic for a given (records,
// horizon, now).
func Generate(records []domain.SalesRecord, horizonDays, minHistory int, p ModelParams, now time.Time) ([]Prediction, *Model, error) {
	if minHistory <= 0 {
		minHistory = MinTrainRows
	}

	days := DailySeries(records)
	if len(days) < minHistory {
		return Fallback(records, horizonDays, now), nil, nil
	}

	rows := BuildFeatures(days)
	m, err := Train(rows, p)
	if err != nil {
		return nil, nil, err
	}

	return Recursive(m, days, horizonDays), m, nil
}

// Recursive produces horizon predictions one day at a time, feeding each
// prediction back into the lag and rolling features of later steps. The
// working buffer starts as the last 30 observed days; every step slides one
// observed day out and one predicted day in, so far-future steps see mostly
// the model's own output. Dates continue from the last observed day.
func Recursive(m *Model, days []DaySales, horizonDays int) []Prediction {
	lastDate := days[len(days)-1].Date

	seedLen := 30
	if len(days) < seedLen {
		seedLen = len(days)
	}
	seed := make([]float64, seedLen)
	for i := 0; i < seedLen; i++ {
		seed[i] = days[len(days)-seedLen+i].Quantity
	}

	preds := make([]float64, 0, horizonDays)
	out := make([]Prediction, 0, horizonDays)

	for i := 1; i <= horizonDays; i++ {
		future := lastDate.AddDate(0, 0, i)

		k := len(preds)
		buf := make([]float64, 0, len(seed)+k)
		if k < len(seed) {
			buf = append(buf, seed[k:]...)
		}
		buf = append(buf, preds...)

		vec, std30 := futureVector(future, buf)
		pred := m.Predict(vec)
		if pred < 0 {
			pred = 0
		}
		lower := pred - 1.96*std30
		if lower < 0 {
			lower = 0
		}
		upper := pred + 1.96*std30

		q := round2(pred)
		out = append(out, Prediction{Date: future, Quantity: q, Lower: round2(lower), Upper: round2(upper)})
		// later lags read the rounded value, same as what gets persisted
		preds = append(preds, q)
	}

	return out
}

// Fallback emits a flat forecast at the mean observed quantity, or 1.0 when
// there is no history at all. Bounds are half and one-and-a-half times the
// mean. Dates anchor at now rather than the last sale.
func Fallback(records []domain.SalesRecord, horizonDays int, now time.Time) []Prediction {
	avg := 1.0
	if len(records) > 0 {
		var sum float64
		for _, r := range records {
			sum += float64(r.Quantity)
		}
		avg = sum / float64(len(records))
	}

	q := round2(avg)
	lower := round2(math.Max(0, avg*0.5))
	upper := round2(avg * 1.5)

	base := midnightUTC(now)
	out := make([]Prediction, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		out = append(out, Prediction{Date: base.AddDate(0, 0, i), Quantity: q, Lower: lower, Upper: upper})
	}

	return out
}

// futureVector assembles the 15-feature vector for a future date from the
// recursive buffer, and returns the 30-day rolling deviation used for the
// confidence band. Rolling stats here use population deviation over
// whatever tail of the buffer is available.
func futureVector(t time.Time, buf []float64) ([]float64, float64) {
	dow, dom, month, week, weekend := calendarOf(t)
	v := make([]float64, 0, 15)
	v = append(v, dow, dom, month, week, weekend)

	for _, lag := range lagOffsets {
		if len(buf) >= lag {
			v = append(v, buf[len(buf)-lag])
		} else {
			v = append(v, 0)
		}
	}

	var std30 float64
	means := make([]float64, 0, len(rollingWindows))
	stds := make([]float64, 0, len(rollingWindows))
	for _, w := range rollingWindows {
		win := buf
		if len(buf) > w {
			win = buf[len(buf)-w:]
		}
		means = append(means, stat.Mean(win, nil))
		var sd float64
		if len(win) > 1 {
			sd = stat.PopStdDev(win, nil)
		}
		stds = append(stds, sd)
		if w == 30 {
			std30 = sd
		}
	}
	v = append(v, means...)
	v = append(v, stds...)

	return v, std30
}
