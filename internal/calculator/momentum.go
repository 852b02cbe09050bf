package calculator

import (
	"math"

	"MomentumCheck/internal/model"
)

// LookbackMonths are the momentum horizons. The entry for k months sits k+1
// slots from the end of the month-end series, since the current month-end
// occupies the last slot.
var LookbackMonths = [4]int{3, 6, 9, 12}

// MinMonthlyObservations is the current month plus twelve trailing months.
const MinMonthlyObservations = 12 + 1

// SelectPrices picks the price column once for the series and returns its
// non-missing observations in order.
func SelectPrices(series model.PriceSeries) (model.PriceField, []model.Observation) {
	field := series.Field()
	obs := make([]model.Observation, 0, len(series.Points))
	for _, p := range series.Points {
		v := field.Value(p)
		if math.IsNaN(v) {
			continue // provider null (holiday, halted session)
		}
		obs = append(obs, model.Observation{Time: p.Time, Price: v})
	}
	return field, obs
}

// ResampleMonthEnd keeps the last observation of each calendar month.
// Months are taken in each observation's own location, and each entry keeps
// its own trading date rather than a calendar month-end label.
func ResampleMonthEnd(daily []model.Observation) []model.Observation {
	var monthly []model.Observation
	for _, o := range daily {
		n := len(monthly)
		if n > 0 && sameMonth(monthly[n-1], o) {
			monthly[n-1] = o
			continue
		}
		monthly = append(monthly, o)
	}
	return monthly
}

func sameMonth(a, b model.Observation) bool {
	ay, am, _ := a.Time.Date()
	by, bm, _ := b.Time.Date()
	return ay == by && am == bm
}

// ComputeMomentum derives the 3/6/9/12-month returns from month-end closes.
func ComputeMomentum(monthly []model.Observation) (model.MomentumResult, error) {
	n := len(monthly)
	if n < MinMonthlyObservations {
		return model.MomentumResult{}, &model.InsufficientDataError{Have: n, Need: MinMonthlyObservations}
	}
	curr := monthly[n-1].Price

	var returns [len(LookbackMonths)]float64
	for i, months := range LookbackMonths {
		past := monthly[n-1-months]
		if !(past.Price > 0) {
			return model.MomentumResult{}, &model.InvalidPriceError{Months: months, Time: past.Time, Price: past.Price}
		}
		returns[i] = curr/past.Price - 1
	}

	r := model.MomentumResult{M3: returns[0], M6: returns[1], M9: returns[2], M12: returns[3]}
	r.Avg = (r.M3 + r.M6 + r.M9 + r.M12) / 4
	return r, nil
}

// Analyze runs the full in-memory pipeline on one daily series.
// It performs no I/O and keeps no state between calls.
func Analyze(series model.PriceSeries) (*model.Analysis, error) {
	field, daily := SelectPrices(series)
	monthly := ResampleMonthEnd(daily)

	result, err := ComputeMomentum(monthly)
	if err != nil {
		return nil, err
	}

	display := DisplayWindow(daily, DisplayWindowDays)
	low, high, err := DisplayRange(display)
	if err != nil {
		return nil, err
	}

	return &model.Analysis{
		Field:       field,
		MonthEnd:    monthly[len(monthly)-1].Time,
		Result:      result,
		Display:     display,
		DisplayLow:  low,
		DisplayHigh: high,
	}, nil
}
