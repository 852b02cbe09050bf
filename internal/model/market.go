package model

import "time"

// PricePoint is one daily observation. Missing provider values are NaN.
type PricePoint struct {
	Time     time.Time
	Close    float64
	AdjClose float64
}

// PriceSeries holds the raw daily history for one instrument, ascending by time.
type PriceSeries struct {
	Symbol      string
	Points      []PricePoint
	HasAdjClose bool // provider supplied an adjusted-close column
}

// Empty reports whether the provider returned no observations.
func (s PriceSeries) Empty() bool { return len(s.Points) == 0 }

// Field returns the price column to use for this series.
func (s PriceSeries) Field() PriceField {
	if s.HasAdjClose {
		return FieldAdjClose
	}
	return FieldClose
}

// PriceField names a price column.
type PriceField string

const (
	FieldAdjClose PriceField = "adj_close"
	FieldClose    PriceField = "close"
)

// Value returns the field's value from a point.
func (f PriceField) Value(p PricePoint) float64 {
	if f == FieldAdjClose {
		return p.AdjClose
	}
	return p.Close
}

// Observation is a single (date, price) pair of the selected column.
type Observation struct {
	Time  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// ResolvedInstrument is what the resolver hands to the pipeline.
type ResolvedInstrument struct {
	RequestedSymbol string
	Identifier      string
	Series          PriceSeries
}
