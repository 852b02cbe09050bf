package collector

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"

	"MomentumCheck/internal/model"
)

// YFinanceFetcher implements Fetcher using the go-yfinance library.
type YFinanceFetcher struct {
	log     zerolog.Logger
	history func(identifier, period string) ([]models.Bar, error)
}

// NewYFinanceFetcher creates a new go-yfinance backed fetcher.
func NewYFinanceFetcher(log zerolog.Logger) *YFinanceFetcher {
	return &YFinanceFetcher{
		log:     log.With().Str("fetcher", "yfinance").Logger(),
		history: tickerHistory,
	}
}

func (f *YFinanceFetcher) Name() string { return "yfinance" }

// FetchHistory requests unadjusted bars so both close and adjusted close are
// available to the calculator.
func (f *YFinanceFetcher) FetchHistory(ctx context.Context, identifier, period string) (model.PriceSeries, error) {
	series := model.PriceSeries{Symbol: identifier}
	if err := ctx.Err(); err != nil {
		return series, &model.TransportError{Identifier: identifier, Err: err}
	}

	type historyResult struct {
		bars []models.Bar
		err  error
	}
	done := make(chan historyResult, 1)
	go func() {
		bars, err := f.history(identifier, period)
		done <- historyResult{bars: bars, err: err}
	}()

	// go-yfinance takes no context; an abandoned call finishes in the background
	var res historyResult
	select {
	case <-ctx.Done():
		return series, &model.TransportError{Identifier: identifier, Err: ctx.Err()}
	case res = <-done:
	}

	if res.err != nil {
		if isNoDataMessage(res.err.Error()) {
			f.log.Debug().Err(res.err).Str("identifier", identifier).Msg("no data")
			return series, nil
		}
		return series, &model.TransportError{Identifier: identifier, Err: res.err}
	}
	return barsToSeries(identifier, res.bars), nil
}

func tickerHistory(identifier, period string) ([]models.Bar, error) {
	t, err := ticker.New(identifier)
	if err != nil {
		return nil, fmt.Errorf("create ticker: %w", err)
	}
	defer t.Close()

	bars, err := t.History(models.HistoryParams{
		Period:     period,
		Interval:   "1d",
		AutoAdjust: false,
	})
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return bars, nil
}

// barsToSeries converts library bars. A zero adjusted close means the column
// was absent.
func barsToSeries(identifier string, bars []models.Bar) model.PriceSeries {
	series := model.PriceSeries{Symbol: identifier}
	series.Points = make([]model.PricePoint, 0, len(bars))
	for _, bar := range bars {
		adj := math.NaN()
		if bar.AdjClose != 0 {
			adj = bar.AdjClose
			series.HasAdjClose = true
		}
		series.Points = append(series.Points, model.PricePoint{
			Time:     bar.Date,
			Close:    bar.Close,
			AdjClose: adj,
		})
	}
	series.Points = dedupeByDate(series.Points)
	return series
}

func isNoDataMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "no data") || strings.Contains(msg, "not found") ||
		strings.Contains(msg, "delisted")
}
