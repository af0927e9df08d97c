package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"market-sentiment-analyzer/internal/config"
	"market-sentiment-analyzer/internal/dashboard"
	"market-sentiment-analyzer/internal/logger"
	"market-sentiment-analyzer/internal/marketdata"
	"market-sentiment-analyzer/internal/news"
	"market-sentiment-analyzer/internal/pipeline"
	"market-sentiment-analyzer/internal/sentiment"
	"market-sentiment-analyzer/internal/store"
	"market-sentiment-analyzer/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	must(err)
	must(logger.Init())
	must(trace.Init())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() { _ = logger.Shutdown(context.Background()) }()
	defer func() { _ = trace.Shutdown(context.Background()) }()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	st, err := store.Open(cfg.DSN())
	must(err)
	defer st.Close()
	must(st.Init(ctx))

	prices := newPriceProvider(cfg)
	newsSource := newNewsProvider(cfg)
	classifier := sentiment.NewLexiconClassifier()

	pipe := pipeline.New(cfg, prices, newsSource, classifier, st)
	sched, err := pipeline.NewScheduler(cfg.Refresh.At)
	must(err)

	if cfg.Refresh.OnStart {
		runRefresh(ctx, pipe, sched)
	}

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: dashboard.NewServer(cfg, st, prices, pipe).Handler(),
	}
	go func() {
		logger.Info(ctx, "Dashboard listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(ctx, "HTTP server failed", err)
			cancel()
		}
	}()

	tick := time.NewTicker(60 * time.Second)
	defer tick.Stop()

	logger.Info(ctx, "Market sentiment analyzer started", "tickers", len(cfg.Tickers))
	for {
		select {
		case <-tick.C:
			if sched.ShouldRefreshNow(time.Now()) {
				runRefresh(ctx, pipe, sched)
			}
		case <-sigc:
			logger.Info(ctx, "Shutting down")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			_ = srv.Shutdown(shutdownCtx)
			shutdownCancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func runRefresh(ctx context.Context, pipe *pipeline.Pipeline, sched *pipeline.Scheduler) {
	report, err := pipe.Run(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Refresh run failed", err)
		return
	}
	sched.MarkRun(time.Now())
	for _, warning := range report.Warnings() {
		logger.Warn(ctx, "Refresh warning", "warning", warning)
	}
}

func newPriceProvider(cfg *config.Config) marketdata.Provider {
	if cfg.Prices.Provider == "KITE" {
		return marketdata.NewKiteProvider(
			os.Getenv(cfg.Prices.KiteAPIKeyEnv),
			os.Getenv(cfg.Prices.KiteAccessTokenEnv),
		)
	}
	return marketdata.NewStooqProvider(30 * time.Second)
}

func newNewsProvider(cfg *config.Config) news.Provider {
	if cfg.News.Provider == "SCRAPE" {
		return news.NewScrapeProvider(30 * time.Second)
	}
	return news.NewNewsAPIProvider(cfg.NewsAPIKey(), 30*time.Second)
}
