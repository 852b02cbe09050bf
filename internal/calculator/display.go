package calculator

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"MomentumCheck/internal/model"
)

// DisplayWindowDays is roughly one trading year of daily observations.
const DisplayWindowDays = 252

// DisplayWindow returns a copy of the most recent n daily observations.
func DisplayWindow(daily []model.Observation, n int) []model.Observation {
	start := len(daily) - n
	if start < 0 {
		start = 0
	}
	out := make([]model.Observation, len(daily)-start)
	copy(out, daily[start:])
	return out
}

// DisplayRange returns the low and high price of the window, used as the
// chart's y-axis domain.
func DisplayRange(window []model.Observation) (low, high float64, err error) {
	if len(window) == 0 {
		return 0, 0, errors.New("no observations in display window")
	}
	prices := make([]float64, len(window))
	for i, o := range window {
		prices[i] = o.Price
	}
	return floats.Min(prices), floats.Max(prices), nil
}
