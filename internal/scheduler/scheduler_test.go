package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MomentumCheck/internal/model"
)

type fakeAnalyzer struct {
	mu      sync.Mutex
	symbols []string
	err     error
}

func (f *fakeAnalyzer) Collect(_ context.Context, raw string) (*model.Analysis, error) {
	f.mu.Lock()
	f.symbols = append(f.symbols, raw)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &model.Analysis{
		RequestedSymbol: raw,
		Identifier:      raw,
		Field:           model.FieldClose,
		MonthEnd:        time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Result:          model.MomentumResult{M3: 0.1, M6: 0.1, M9: 0.1, M12: 0.1, Avg: 0.1},
	}, nil
}

func (f *fakeAnalyzer) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.symbols...)
}

type fakeSender struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return f.err
}

func newTestScheduler(a *fakeAnalyzer, s *fakeSender) *Scheduler {
	return NewScheduler(context.Background(), a, s, "SPY", zerolog.Nop())
}

func TestHandleCommand(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantSymbol string
		wantHelp   bool
	}{
		{"momentum with symbol", "/momentum QQQ", "QQQ", false},
		{"momentum with bot suffix", "/momentum@MomentumBot 005930", "005930", false},
		{"momentum default symbol", "/momentum", "SPY", false},
		{"short alias", "/m aapl", "aapl", false},
		{"bare symbol", "aapl", "aapl", false},
		{"help", "/help", "", true},
		{"start", "/start", "", true},
		{"unknown command", "/weekly", "", true},
		{"free text", "what is up", "", true},
		{"blank", "   ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &fakeAnalyzer{}
			s := newTestScheduler(a, &fakeSender{})

			reply := s.HandleCommand(context.Background(), tt.text)
			if tt.wantHelp {
				assert.Equal(t, HelpText, reply)
				assert.Empty(t, a.seen())
				return
			}
			assert.Equal(t, []string{tt.wantSymbol}, a.seen())
			assert.Contains(t, reply, "Avg Momentum Score: +10.00%")
		})
	}
}

func TestReport_FormatsError(t *testing.T) {
	a := &fakeAnalyzer{err: &model.NotFoundError{Symbol: "XYZ"}}
	s := newTestScheduler(a, &fakeSender{})

	reply := s.Report(context.Background(), " xyz ")
	assert.Contains(t, reply, "No data found for XYZ")

	reply = s.Report(context.Background(), "\tm&m.ns\n")
	assert.Contains(t, reply, "No data found for M&amp;M.NS.")
}

func TestRunReportNow_SendsDefaultSymbol(t *testing.T) {
	a := &fakeAnalyzer{}
	sender := &fakeSender{}
	s := newTestScheduler(a, sender)

	s.RunReportNow()

	assert.Equal(t, []string{"SPY"}, a.seen())
	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0], "SPY Momentum")
}

func TestRunReportNow_SendFailureIsLogged(t *testing.T) {
	sender := &fakeSender{err: errors.New("telegram down")}
	s := newTestScheduler(&fakeAnalyzer{}, sender)

	assert.NotPanics(t, s.RunReportNow)
	assert.Len(t, sender.messages, 1)
}

func TestRegister(t *testing.T) {
	s := newTestScheduler(&fakeAnalyzer{}, &fakeSender{})

	require.NoError(t, s.Register("0 0 9 1 * *"))
	assert.Len(t, s.Cron.Entries(), 1)

	assert.Error(t, s.Register("not a cron"))
	assert.Error(t, s.Register("0 9 1 * *"), "five fields without seconds")
}
