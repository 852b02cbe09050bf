package collector

import (
	"context"
	"math"
	"sync"
	"time"

	"MomentumCheck/internal/model"
)

// MockFetcher returns fixed series keyed by identifier for development and
// testing. It records every identifier it is asked for.
type MockFetcher struct {
	Series map[string]model.PriceSeries
	Errors map[string]error

	mu    sync.Mutex
	calls []string
}

// NewMockFetcher creates an empty MockFetcher.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Series: make(map[string]model.PriceSeries),
		Errors: make(map[string]error),
	}
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, identifier, _ string) (model.PriceSeries, error) {
	m.mu.Lock()
	m.calls = append(m.calls, identifier)
	m.mu.Unlock()

	if err, ok := m.Errors[identifier]; ok {
		return model.PriceSeries{Symbol: identifier}, err
	}
	if s, ok := m.Series[identifier]; ok {
		return s, nil
	}
	return model.PriceSeries{Symbol: identifier}, nil
}

// Calls returns the identifiers requested so far, in order.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// AddSynthetic registers a weekday-only close series for identifier that ends
// on end and covers the given number of calendar days. Prices compound by
// dailyDrift from start.
func (m *MockFetcher) AddSynthetic(identifier string, end time.Time, days int, start, dailyDrift float64) {
	s := model.PriceSeries{Symbol: identifier}
	price := start
	for d := end.AddDate(0, 0, -days); !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		s.Points = append(s.Points, model.PricePoint{Time: d, Close: price, AdjClose: math.NaN()})
		price *= 1 + dailyDrift
	}
	m.Series[identifier] = s
}
