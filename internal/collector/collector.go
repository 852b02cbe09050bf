package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"MomentumCheck/internal/calculator"
	"MomentumCheck/internal/model"
)

// Collector orchestrates symbol resolution and momentum computation.
type Collector struct {
	Resolver *Resolver
	log      zerolog.Logger
	now      func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(resolver *Resolver, log zerolog.Logger) *Collector {
	return &Collector{
		Resolver: resolver,
		log:      log.With().Str("component", "collector").Logger(),
		now:      time.Now,
	}
}

// Collect resolves rawSymbol, fetches its history and computes momentum.
func (c *Collector) Collect(ctx context.Context, rawSymbol string) (*model.Analysis, error) {
	requestID := uuid.NewString()
	log := c.log.With().Str("request_id", requestID).Str("symbol", NormalizeSymbol(rawSymbol)).Logger()

	inst, err := c.Resolver.Resolve(ctx, rawSymbol)
	if err != nil {
		log.Warn().Err(err).Msg("resolve failed")
		return nil, fmt.Errorf("resolve %s: %w", inst.RequestedSymbol, err)
	}
	if inst.Series.Empty() {
		log.Info().Msg("no data")
		return nil, &model.NotFoundError{Symbol: inst.RequestedSymbol}
	}

	analysis, err := calculator.Analyze(inst.Series)
	if err != nil {
		log.Warn().Err(err).Str("identifier", inst.Identifier).Msg("momentum calculation failed")
		return nil, fmt.Errorf("analyze %s: %w", inst.Identifier, err)
	}

	analysis.RequestID = requestID
	analysis.RequestedSymbol = inst.RequestedSymbol
	analysis.Identifier = inst.Identifier
	analysis.GeneratedAt = c.now()

	log.Info().
		Str("identifier", inst.Identifier).
		Str("field", string(analysis.Field)).
		Float64("avg", analysis.Result.Avg).
		Msg("momentum computed")
	return analysis, nil
}
