package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MomentumCheck/internal/model"
)

// testSeries builds a weekday daily series covering the given number of months
// up to December 2024.
func testSeries(symbol string, months int) model.PriceSeries {
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	from := to.AddDate(0, -months, 1)
	s := model.PriceSeries{Symbol: symbol}
	i := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		s.Points = append(s.Points, model.PricePoint{Time: d, Close: 100 + float64(i)*0.1})
		i++
	}
	return s
}

func newTestResolver(f Fetcher) *Resolver {
	return NewResolver(f, time.Second, zerolog.New(nil).Level(zerolog.Disabled))
}

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct{ in, want string }{
		{"spy", "SPY"},
		{"  brk-b \n", "BRK-B"},
		{"005930", "005930"},
		{" 005930 ", "005930"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSymbol(tt.in))
	}
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, []string{"005930.KS", "005930.KQ"}, Candidates("005930"))
	assert.Equal(t, []string{"SPY"}, Candidates("SPY"))
	assert.Equal(t, []string{"12345"}, Candidates("12345"))
	assert.Equal(t, []string{"1234567"}, Candidates("1234567"))
	assert.Equal(t, []string{"00593A"}, Candidates("00593A"))
}

func TestResolve_PrimarySuffixWins(t *testing.T) {
	f := NewMockFetcher()
	f.Series["005930.KS"] = testSeries("005930.KS", 24)
	f.Series["005930.KQ"] = testSeries("005930.KQ", 24)

	inst, err := newTestResolver(f).Resolve(context.Background(), "005930")
	require.NoError(t, err)
	assert.Equal(t, "005930", inst.RequestedSymbol)
	assert.Equal(t, "005930.KS", inst.Identifier)
	assert.False(t, inst.Series.Empty())
	assert.Equal(t, []string{"005930.KS"}, f.Calls())
}

func TestResolve_FallsBackToSecondarySuffix(t *testing.T) {
	f := NewMockFetcher()
	f.Series["035720.KQ"] = testSeries("035720.KQ", 24)

	inst, err := newTestResolver(f).Resolve(context.Background(), " 035720")
	require.NoError(t, err)
	assert.Equal(t, "035720.KQ", inst.Identifier)
	assert.Equal(t, []string{"035720.KS", "035720.KQ"}, f.Calls())
}

func TestResolve_RegionalCodeNotFound(t *testing.T) {
	f := NewMockFetcher()

	inst, err := newTestResolver(f).Resolve(context.Background(), "999999")
	require.NoError(t, err)
	assert.Equal(t, "999999", inst.Identifier)
	assert.True(t, inst.Series.Empty())
	assert.Equal(t, []string{"999999.KS", "999999.KQ"}, f.Calls())
}

func TestResolve_PlainSymbolFetchedDirectly(t *testing.T) {
	f := NewMockFetcher()
	f.Series["SPY"] = testSeries("SPY", 24)

	inst, err := newTestResolver(f).Resolve(context.Background(), "spy")
	require.NoError(t, err)
	assert.Equal(t, "SPY", inst.Identifier)
	assert.Equal(t, []string{"SPY"}, f.Calls())
}

func TestResolve_PlainSymbolEmpty(t *testing.T) {
	f := NewMockFetcher()

	inst, err := newTestResolver(f).Resolve(context.Background(), "nope")
	require.NoError(t, err)
	assert.Equal(t, "NOPE", inst.Identifier)
	assert.True(t, inst.Series.Empty())
	assert.Equal(t, []string{"NOPE"}, f.Calls())
}

func TestResolve_TransportErrorStopsProbing(t *testing.T) {
	f := NewMockFetcher()
	f.Errors["005930.KS"] = &model.TransportError{Identifier: "005930.KS", Err: errors.New("connection reset")}
	f.Series["005930.KQ"] = testSeries("005930.KQ", 24)

	_, err := newTestResolver(f).Resolve(context.Background(), "005930")
	require.Error(t, err)
	assert.Equal(t, model.KindTransport, model.ErrorKind(err))
	assert.Equal(t, []string{"005930.KS"}, f.Calls())
}

type deadlineFetcher struct{ hadDeadline bool }

func (d *deadlineFetcher) Name() string { return "deadline" }

func (d *deadlineFetcher) FetchHistory(ctx context.Context, id, _ string) (model.PriceSeries, error) {
	_, d.hadDeadline = ctx.Deadline()
	return model.PriceSeries{Symbol: id}, nil
}

func TestResolve_AppliesFetchTimeout(t *testing.T) {
	f := &deadlineFetcher{}
	_, err := newTestResolver(f).Resolve(context.Background(), "SPY")
	require.NoError(t, err)
	assert.True(t, f.hadDeadline)
}
