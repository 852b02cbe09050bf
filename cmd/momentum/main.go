package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "time/tzdata" // exchange time zones on hosts without zoneinfo

	"github.com/rs/zerolog"

	"MomentumCheck/internal/collector"
	"MomentumCheck/internal/config"
	"MomentumCheck/internal/logger"
	"MomentumCheck/internal/notifier"
	"MomentumCheck/internal/scheduler"
	"MomentumCheck/internal/server"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	fetcher := newFetcher(cfg, log)
	log.Info().Str("data_source", fetcher.Name()).Msg("data source ready")

	resolver := collector.NewResolver(fetcher, cfg.DataSource.Timeout, log)
	col := collector.NewCollector(resolver, log)

	// One-shot mode: momentum SYMBOL
	if len(os.Args) > 1 {
		os.Exit(runOnce(col, os.Args[1], cfg.DataSource.Timeout))
	}

	log.Info().Msg("MomentumCheck starting")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := server.New(server.Config{
		Port:      cfg.Server.Port,
		Log:       log,
		Collector: col,
		DevMode:   cfg.Log.Pretty,
	})
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	if cfg.TelegramEnabled() {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		sched := scheduler.NewScheduler(ctx, col, tn, cfg.DataSource.Symbol, log)

		if cfg.Schedule.ReportCron != "" {
			if err := sched.Register(cfg.Schedule.ReportCron); err != nil {
				log.Fatal().Err(err).Msg("register cron tasks")
			}
			sched.Start()
			defer sched.Stop()
		}

		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("Telegram polling started")

		if os.Getenv("RUN_ON_START") == "true" {
			log.Info().Msg("RUN_ON_START enabled, sending report now")
			go sched.RunReportNow()
		}
	}

	log.Info().Int("port", cfg.Server.Port).Msg("MomentumCheck is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("MomentumCheck stopped")
}

func newFetcher(cfg *config.Config, log zerolog.Logger) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case config.ProviderBarsAPI:
		return collector.NewBarsAPIFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.Timeout, log)
	case config.ProviderYFinance:
		return collector.NewYFinanceFetcher(log)
	case config.ProviderMock:
		m := collector.NewMockFetcher()
		end := time.Now().UTC().Truncate(24 * time.Hour)
		m.AddSynthetic(collector.NormalizeSymbol(cfg.DataSource.Symbol), end, 730, 100, 0.0004)
		m.AddSynthetic("005930.KS", end, 730, 70000, -0.0002)
		return m
	default:
		return collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.Timeout, log)
	}
}

func runOnce(col *collector.Collector, symbol string, timeout time.Duration) int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*timeout+5*time.Second)
	defer cancel()

	a, err := col.Collect(ctx, symbol)
	if err != nil {
		fmt.Fprintln(os.Stderr, notifier.PlainText(notifier.FormatError(collector.NormalizeSymbol(symbol), err)))
		return 1
	}
	fmt.Println(notifier.PlainText(notifier.FormatReport(a)))
	return 0
}
