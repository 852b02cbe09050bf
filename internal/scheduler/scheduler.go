package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"MomentumCheck/internal/collector"
	"MomentumCheck/internal/model"
	"MomentumCheck/internal/notifier"
)

// HelpText lists the chat commands.
const HelpText = "Available commands:\n" +
	"• /momentum SYMBOL - momentum report (e.g. /momentum SPY, /momentum 005930)\n" +
	"• SYMBOL - same as /momentum SYMBOL\n" +
	"• /help - this message"

// Analyzer runs the momentum pipeline for one raw symbol.
type Analyzer interface {
	Collect(ctx context.Context, raw string) (*model.Analysis, error)
}

// Sender delivers a formatted report.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the periodic report and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector Analyzer
	Notifier  Sender
	Symbol    string
	Ctx       context.Context
	log       zerolog.Logger
}

// NewScheduler creates a new Scheduler that reports symbol on each tick.
func NewScheduler(ctx context.Context, col Analyzer, sender Sender, symbol string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  sender,
		Symbol:    symbol,
		Ctx:       ctx,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// Register adds the report task. reportCron uses the six-field format with seconds.
func (s *Scheduler) Register(reportCron string) error {
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunReportNow executes the report task immediately.
func (s *Scheduler) RunReportNow() {
	s.reportTask()
}

func (s *Scheduler) reportTask() {
	s.log.Info().Str("symbol", s.Symbol).Msg("running report task")
	s.trySend(s.Report(s.Ctx, s.Symbol))
}

// Report runs the pipeline for symbol and formats the outcome. Failures
// become a user-facing error message rather than an error value.
func (s *Scheduler) Report(ctx context.Context, symbol string) string {
	a, err := s.Collector.Collect(ctx, symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Str("kind", model.ErrorKind(err)).Msg("report failed")
		return notifier.FormatError(collector.NormalizeSymbol(symbol), err)
	}
	return notifier.FormatReport(a)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return HelpText
	}
	cmd := fields[0]
	if i := strings.IndexByte(cmd, '@'); i > 0 && strings.HasPrefix(cmd, "/") {
		cmd = cmd[:i] // "/momentum@SomeBot"
	}

	switch strings.ToLower(cmd) {
	case "/momentum", "/m":
		if len(fields) < 2 {
			return s.Report(ctx, s.Symbol)
		}
		return s.Report(ctx, fields[1])
	case "/help", "/start":
		return HelpText
	}
	if strings.HasPrefix(cmd, "/") || len(fields) > 1 {
		return HelpText
	}
	return s.Report(ctx, cmd)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
