package collector

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"MomentumCheck/internal/model"
)

// Market suffixes probed for six-digit regional codes, in priority order.
const (
	SuffixPrimary   = ".KS" // KOSPI
	SuffixSecondary = ".KQ" // KOSDAQ
)

var regionalCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// NormalizeSymbol trims surrounding whitespace and uppercases the symbol.
func NormalizeSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// IsRegionalCode reports whether a normalized symbol is a six-digit regional code.
func IsRegionalCode(symbol string) bool {
	return regionalCodePattern.MatchString(symbol)
}

// Candidates returns the identifiers to try for a normalized symbol, in order.
func Candidates(symbol string) []string {
	if IsRegionalCode(symbol) {
		return []string{symbol + SuffixPrimary, symbol + SuffixSecondary}
	}
	return []string{symbol}
}

// Resolver maps a user-supplied symbol to a fetchable identifier.
type Resolver struct {
	Fetcher Fetcher
	Timeout time.Duration // per-fetch timeout; zero means none
	log     zerolog.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(fetcher Fetcher, timeout time.Duration, log zerolog.Logger) *Resolver {
	return &Resolver{
		Fetcher: fetcher,
		Timeout: timeout,
		log:     log.With().Str("component", "resolver").Logger(),
	}
}

// Resolve returns the first candidate identifier with a non-empty series.
// When no candidate has data the normalized symbol is returned with an empty
// series; the caller decides whether that is "not found". A transport error
// on any attempt stops resolution.
func (r *Resolver) Resolve(ctx context.Context, raw string) (model.ResolvedInstrument, error) {
	symbol := NormalizeSymbol(raw)
	out := model.ResolvedInstrument{RequestedSymbol: symbol, Identifier: symbol}

	for _, id := range Candidates(symbol) {
		series, err := r.fetch(ctx, id)
		if err != nil {
			return out, err
		}
		if !series.Empty() {
			out.Identifier = id
			out.Series = series
			return out, nil
		}
		r.log.Debug().Str("symbol", symbol).Str("identifier", id).Msg("empty series")
	}
	out.Series = model.PriceSeries{Symbol: symbol}
	return out, nil
}

func (r *Resolver) fetch(ctx context.Context, identifier string) (model.PriceSeries, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	return r.Fetcher.FetchHistory(ctx, identifier, HistoryPeriod)
}
