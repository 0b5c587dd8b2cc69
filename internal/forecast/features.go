// backend-go/internal/forecast/features.go
package forecast

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/stockcast/backend-go/internal/domain"
)

var (
	lagOffsets     = []int{1, 7, 14, 30}
	rollingWindows = []int{7, 14, 30}
)

// DaySales is one calendar day in the dense daily series.
type DaySales struct {
	Date     time.Time
	Quantity float64
	Revenue  float64
}

// FeatureRow is one training example: the calendar, lag and rolling
// features for a day plus the observed quantity as the target.
type FeatureRow struct {
	Date     time.Time
	Quantity float64

	DayOfWeek  float64
	DayOfMonth float64
	Month      float64
	WeekOfYear float64
	IsWeekend  float64

	Lags      [4]float64 // offsets 1, 7, 14, 30
	RollMeans [3]float64 // windows 7, 14, 30
	RollStds  [3]float64
}

// Vector returns the feature values in training order, target excluded.
func (r FeatureRow) Vector() []float64 {
	v := make([]float64, 0, 15)
	v = append(v, r.DayOfWeek, r.DayOfMonth, r.Month, r.WeekOfYear, r.IsWeekend)
	v = append(v, r.Lags[:]...)
	v = append(v, r.RollMeans[:]...)
	v = append(v, r.RollStds[:]...)

	return v
}

// DailySeries aggregates raw sales records into daily totals and fills
// calendar gaps with zero-quantity days. Missing days mean no sales, never
// missing data. Dates are normalized to UTC midnight; output is
// chronological.
func DailySeries(records []domain.SalesRecord) []DaySales {
	if len(records) == 0 {
		return nil
	}

	byDay := make(map[time.Time]*DaySales, len(records))
	var minDate, maxDate time.Time
	for _, r := range records {
		day := midnightUTC(r.SaleDate)
		if ds, ok := byDay[day]; ok {
			ds.Quantity += float64(r.Quantity)
			ds.Revenue += r.TotalRevenue
		} else {
			byDay[day] = &DaySales{Date: day, Quantity: float64(r.Quantity), Revenue: r.TotalRevenue}
		}
		if minDate.IsZero() || day.Before(minDate) {
			minDate = day
		}
		if maxDate.IsZero() || day.After(maxDate) {
			maxDate = day
		}
	}

	out := make([]DaySales, 0, int(maxDate.Sub(minDate).Hours()/24)+1)
	for d := minDate; !d.After(maxDate); d = d.AddDate(0, 0, 1) {
		if ds, ok := byDay[d]; ok {
			out = append(out, *ds)
		} else {
			out = append(out, DaySales{Date: d})
		}
	}

	return out
}

// BuildFeatures derives the full feature table from a dense daily series.
// Lags outside the series and single-sample deviations are 0, matching the
// zero-fill the model was designed around.
func BuildFeatures(days []DaySales) []FeatureRow {
	if len(days) == 0 {
		return nil
	}

	quantities := make([]float64, len(days))
	for i, d := range days {
		quantities[i] = d.Quantity
	}

	rows := make([]FeatureRow, len(days))
	for i, d := range days {
		row := FeatureRow{Date: d.Date, Quantity: d.Quantity}
		row.DayOfWeek, row.DayOfMonth, row.Month, row.WeekOfYear, row.IsWeekend = calendarOf(d.Date)

		for j, lag := range lagOffsets {
			if i-lag >= 0 {
				row.Lags[j] = quantities[i-lag]
			}
		}

		for j, w := range rollingWindows {
			start := i - w + 1
			if start < 0 {
				start = 0
			}
			win := quantities[start : i+1]
			row.RollMeans[j] = stat.Mean(win, nil)
			if len(win) > 1 {
				row.RollStds[j] = stat.StdDev(win, nil)
			}
		}

		rows[i] = row
	}

	return rows
}

// calendarOf extracts the calendar features for a date. Day of week is
// Monday-based (0..6); weekend means Saturday or Sunday.
func calendarOf(t time.Time) (dow, dom, month, week, weekend float64) {
	dowInt := (int(t.Weekday()) + 6) % 7
	_, isoWeek := t.ISOWeek()

	dow = float64(dowInt)
	dom = float64(t.Day())
	month = float64(int(t.Month()))
	week = float64(isoWeek)
	if dowInt >= 5 {
		weekend = 1
	}

	return dow, dom, month, week, weekend
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
