package model

import "time"

// MomentumResult holds fractional returns over each look-back and their mean.
type MomentumResult struct {
	M3  float64 `json:"m3"`
	M6  float64 `json:"m6"`
	M9  float64 `json:"m9"`
	M12 float64 `json:"m12"`
	Avg float64 `json:"avg"`
}

// Positive is the sign predicate renderers use to pick a trend colour.
// A zero average counts as not positive.
func (r MomentumResult) Positive() bool { return r.Avg > 0 }

// Horizons returns the per-horizon returns keyed by look-back months, in ascending order.
func (r MomentumResult) Horizons() []Horizon {
	return []Horizon{
		{Months: 3, Return: r.M3},
		{Months: 6, Return: r.M6},
		{Months: 9, Return: r.M9},
		{Months: 12, Return: r.M12},
	}
}

// Horizon is one look-back return.
type Horizon struct {
	Months int
	Return float64
}

// Analysis is the complete output of one momentum request.
//
// MonthEnd is the date of the last observation in the latest month, i.e. the
// trading day whose close is "curr". It is not the calendar month end: a
// series ending Friday 2024-12-27 reports 2024-12-27, and a month still in
// progress reports its latest trading day.
type Analysis struct {
	RequestID       string
	RequestedSymbol string
	Identifier      string
	Field           PriceField
	MonthEnd        time.Time
	Result          MomentumResult
	Display         []Observation
	DisplayLow      float64
	DisplayHigh     float64
	GeneratedAt     time.Time
}
