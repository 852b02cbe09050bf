package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"MomentumCheck/internal/model"
)

// BarsAPIFetcher implements Fetcher against a generic daily-bars REST API.
type BarsAPIFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	log     zerolog.Logger
}

// NewBarsAPIFetcher creates a new fetcher with optional proxy support.
func NewBarsAPIFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration, log zerolog.Logger) *BarsAPIFetcher {
	return &BarsAPIFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
		log:     log.With().Str("fetcher", "bars_api").Logger(),
	}
}

func (f *BarsAPIFetcher) Name() string { return "bars_api" }

// apiBar is the expected JSON shape from the bars API. adj_close is optional.
type apiBar struct {
	Timestamp int64    `json:"timestamp"`
	Close     *float64 `json:"close"`
	AdjClose  *float64 `json:"adj_close"`
}

func (f *BarsAPIFetcher) FetchHistory(ctx context.Context, identifier, period string) (model.PriceSeries, error) {
	series := model.PriceSeries{Symbol: identifier}

	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&range=%s",
		f.BaseURL, url.QueryEscape(identifier), url.QueryEscape(period))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return series, &model.TransportError{Identifier: identifier, Err: err}
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return series, &model.TransportError{Identifier: identifier, Err: fmt.Errorf("fetch bars: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		f.log.Debug().Str("identifier", identifier).Msg("no data")
		return series, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return series, &model.TransportError{Identifier: identifier, Err: fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, truncate(body, 200))}
	}

	var bars []apiBar
	if err := json.NewDecoder(resp.Body).Decode(&bars); err != nil {
		return series, &model.TransportError{Identifier: identifier, Err: fmt.Errorf("decode bars: %w", err)}
	}

	series.Points = make([]model.PricePoint, 0, len(bars))
	for _, b := range bars {
		p := model.PricePoint{Time: time.Unix(b.Timestamp, 0).UTC(), Close: math.NaN(), AdjClose: math.NaN()}
		if b.Close != nil {
			p.Close = *b.Close
		}
		if b.AdjClose != nil {
			p.AdjClose = *b.AdjClose
			series.HasAdjClose = true
		}
		series.Points = append(series.Points, p)
	}

	// Ensure chronological order
	sort.Slice(series.Points, func(i, j int) bool { return series.Points[i].Time.Before(series.Points[j].Time) })
	series.Points = dedupeByDate(series.Points)
	return series, nil
}
