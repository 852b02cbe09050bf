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
	"strings"
	"time"

	"github.com/rs/zerolog"

	"MomentumCheck/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
	log     zerolog.Logger
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string, timeout time.Duration, log zerolog.Logger) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client:  newHTTPClient(proxyURL, timeout),
		log:     log.With().Str("fetcher", "yahoo").Logger(),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
				GMTOffset            int    `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchHistory downloads daily bars for identifier over period.
func (f *YahooFetcher) FetchHistory(ctx context.Context, identifier, period string) (model.PriceSeries, error) {
	series := model.PriceSeries{Symbol: identifier}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s&events=div,split",
		f.BaseURL, url.PathEscape(identifier), url.QueryEscape(period))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return series, &model.TransportError{Identifier: identifier, Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return series, &model.TransportError{Identifier: identifier, Err: fmt.Errorf("yahoo fetch: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return series, &model.TransportError{Identifier: identifier, Err: fmt.Errorf("yahoo read body: %w", err)}
	}

	var chart yahooChart
	decodeErr := json.Unmarshal(body, &chart)

	// Unknown symbols come back as 404 with a "Not Found" chart error.
	if chart.Chart.Error != nil && isYahooNotFound(chart.Chart.Error.Code, chart.Chart.Error.Description) {
		f.log.Debug().Str("identifier", identifier).Str("description", chart.Chart.Error.Description).Msg("no data")
		return series, nil
	}
	if resp.StatusCode == http.StatusNotFound {
		return series, nil
	}
	if resp.StatusCode != http.StatusOK {
		return series, &model.TransportError{Identifier: identifier, Err: fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(body, 200))}
	}
	if decodeErr != nil {
		return series, &model.TransportError{Identifier: identifier, Err: fmt.Errorf("yahoo decode: %w", decodeErr)}
	}
	if chart.Chart.Error != nil {
		return series, &model.TransportError{Identifier: identifier, Err: fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)}
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return series, nil
	}

	result := chart.Chart.Result[0]
	loc := exchangeLocation(result.Meta.ExchangeTimezoneName, result.Meta.GMTOffset)

	var closes, adjCloses []*float64
	if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
	}
	if len(result.Indicators.AdjClose) > 0 {
		adjCloses = result.Indicators.AdjClose[0].AdjClose
		series.HasAdjClose = len(adjCloses) > 0
	}

	series.Points = make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c, a := valueAt(closes, i), valueAt(adjCloses, i)
		if math.IsNaN(c) && math.IsNaN(a) {
			continue // skip null bars (holidays etc.)
		}
		series.Points = append(series.Points, model.PricePoint{
			Time:     time.Unix(ts, 0).In(loc),
			Close:    c,
			AdjClose: a,
		})
	}

	sort.Slice(series.Points, func(i, j int) bool { return series.Points[i].Time.Before(series.Points[j].Time) })
	series.Points = dedupeByDate(series.Points)
	return series, nil
}

func isYahooNotFound(code, description string) bool {
	return strings.EqualFold(code, "Not Found") ||
		strings.Contains(strings.ToLower(description), "no data found")
}

func valueAt(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return math.NaN()
	}
	return *values[i]
}

func exchangeLocation(name string, gmtOffset int) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if gmtOffset != 0 {
		return time.FixedZone("", gmtOffset)
	}
	return time.UTC
}

// dedupeByDate keeps the last point for each calendar date. Yahoo appends a
// live intraday bar during trading hours that can share the last bar's date.
func dedupeByDate(points []model.PricePoint) []model.PricePoint {
	out := points[:0]
	for _, p := range points {
		n := len(out)
		if n > 0 && sameDate(out[n-1].Time, p.Time) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
