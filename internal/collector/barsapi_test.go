package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MomentumCheck/internal/model"
)

func TestBarsAPIFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/bars/daily", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		switch r.URL.Query().Get("symbol") {
		case "SPY":
			_, _ = w.Write([]byte(`[
				{"timestamp":1704326400,"close":11,"adj_close":10.5},
				{"timestamp":1704240000,"close":10,"adj_close":9.5}
			]`))
		case "DOWN":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	f := NewBarsAPIFetcher(server.URL, "secret", "", 5*time.Second, zerolog.New(nil).Level(zerolog.Disabled))

	s, err := f.FetchHistory(context.Background(), "SPY", HistoryPeriod)
	require.NoError(t, err)
	require.Len(t, s.Points, 2)
	assert.True(t, s.HasAdjClose)
	assert.Equal(t, 9.5, s.Points[0].AdjClose)

	s, err = f.FetchHistory(context.Background(), "NOPE", HistoryPeriod)
	require.NoError(t, err)
	assert.True(t, s.Empty())

	_, err = f.FetchHistory(context.Background(), "DOWN", HistoryPeriod)
	assert.Equal(t, model.KindTransport, model.ErrorKind(err))
}
