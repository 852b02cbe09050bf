package collector

import (
	"context"

	"MomentumCheck/internal/model"
)

// HistoryPeriod is the fixed look-back window requested from every data source.
const HistoryPeriod = "2y"

// Fetcher fetches daily price history for one identifier. An unknown
// identifier yields an empty series, not an error; errors are reserved for
// transport or provider failures.
type Fetcher interface {
	FetchHistory(ctx context.Context, identifier, period string) (model.PriceSeries, error)
	Name() string
}
