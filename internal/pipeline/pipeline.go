package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"market-sentiment-analyzer/internal/config"
	"market-sentiment-analyzer/internal/logger"
	"market-sentiment-analyzer/internal/marketdata"
	"market-sentiment-analyzer/internal/news"
	"market-sentiment-analyzer/internal/sentiment"
	"market-sentiment-analyzer/internal/types"
)

// Status classifies the result of one fetch stage. It replaces silent
// catch-all suppression: callers can tell "no data" from "fetch failed"
// from "feature disabled".
type Status string

const (
	StatusOK          Status = "ok"
	StatusEmpty       Status = "empty"
	StatusUnavailable Status = "provider_unavailable"
	StatusDegraded    Status = "degraded"
)

// Outcome is the result of one stage for one ticker.
type Outcome struct {
	Ticker  string `json:"ticker"`
	Stage   string `json:"stage"` // prices | news | indices
	Status  Status `json:"status"`
	Rows    int    `json:"rows"`
	Warning string `json:"warning,omitempty"`
}

// Report summarizes one pipeline run.
type Report struct {
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Outcomes []Outcome `json:"outcomes"`
}

// Warnings returns the human-readable warnings accumulated during a run.
func (r *Report) Warnings() []string {
	var out []string
	for _, o := range r.Outcomes {
		if o.Warning != "" {
			out = append(out, fmt.Sprintf("[%s/%s] %s", o.Ticker, o.Stage, o.Warning))
		}
	}
	return out
}

// Appender is the slice of the store the pipeline writes through.
type Appender interface {
	AppendPrices(ctx context.Context, bars []types.PriceBar) error
	AppendHeadlines(ctx context.Context, records []types.HeadlineRecord) error
}

// Pipeline runs the fetch, score, store sequence for the configured
// tickers. Strictly sequential per ticker; a failing provider degrades
// that ticker's stage to empty and the run continues.
type Pipeline struct {
	cfg        *config.Config
	prices     marketdata.Provider
	newsSource news.Provider
	classifier sentiment.Classifier
	store      Appender
}

// New wires a pipeline.
func New(cfg *config.Config, prices marketdata.Provider, newsSource news.Provider, classifier sentiment.Classifier, store Appender) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		prices:     prices,
		newsSource: newsSource,
		classifier: classifier,
		store:      store,
	}
}

// Run ingests all configured tickers. The date range is validated before
// any provider call; an inverted range fails the run outright.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start, end, err := p.cfg.DateRange()
	if err != nil {
		return nil, err
	}

	op := logger.StartOperation(ctx, "pipeline.run", "tickers", len(p.cfg.Tickers))
	defer op.End()
	ctx = op.Context()

	report := &Report{Started: time.Now()}
	for _, ticker := range p.cfg.Tickers {
		report.Outcomes = append(report.Outcomes, p.ingestPrices(ctx, ticker, start, end))
		report.Outcomes = append(report.Outcomes, p.ingestNews(ctx, ticker, start, end))
	}
	report.Finished = time.Now()

	logger.Info(ctx, "Pipeline run finished",
		"tickers", len(p.cfg.Tickers),
		"warnings", len(report.Warnings()))
	return report, nil
}

func (p *Pipeline) ingestPrices(ctx context.Context, ticker string, start, end types.Date) Outcome {
	outcome := Outcome{Ticker: ticker, Stage: "prices"}

	bars, err := p.prices.History(ctx, ticker, start, end)
	if err != nil {
		logger.ErrorWithErr(ctx, "Price fetch failed, continuing with empty data", err, "ticker", ticker)
		outcome.Status = StatusUnavailable
		outcome.Warning = fmt.Sprintf("price provider unavailable: %v", err)
		return outcome
	}
	if len(bars) == 0 {
		outcome.Status = StatusEmpty
		return outcome
	}

	if err := p.store.AppendPrices(ctx, bars); err != nil {
		logger.ErrorWithErr(ctx, "Price append failed", err, "ticker", ticker)
		outcome.Status = StatusUnavailable
		outcome.Warning = fmt.Sprintf("store append failed: %v", err)
		return outcome
	}

	outcome.Status = StatusOK
	outcome.Rows = len(bars)
	return outcome
}

func (p *Pipeline) ingestNews(ctx context.Context, ticker string, start, end types.Date) Outcome {
	outcome := Outcome{Ticker: ticker, Stage: "news"}

	articles, err := p.newsSource.Search(ctx, ticker+" stock", news.SearchOptions{
		Language: p.cfg.News.Language,
		SortBy:   p.cfg.News.SortBy,
		PageSize: p.cfg.News.PageSize,
		From:     start,
		To:       end,
	})
	if errors.Is(err, news.ErrMissingCredential) {
		logger.Warn(ctx, "News credential not configured, sentiment unavailable", "ticker", ticker)
		outcome.Status = StatusDegraded
		outcome.Warning = "sentiment unavailable: news credential not configured"
		return outcome
	}
	if err != nil {
		logger.ErrorWithErr(ctx, "News fetch failed, continuing with empty data", err, "ticker", ticker)
		outcome.Status = StatusUnavailable
		outcome.Warning = fmt.Sprintf("news provider unavailable: %v", err)
		return outcome
	}
	if len(articles) == 0 {
		outcome.Status = StatusEmpty
		return outcome
	}

	records := news.Normalize(ticker, articles, p.classifier, time.Now())
	if err := p.store.AppendHeadlines(ctx, records); err != nil {
		logger.ErrorWithErr(ctx, "Headline append failed", err, "ticker", ticker)
		outcome.Status = StatusUnavailable
		outcome.Warning = fmt.Sprintf("store append failed: %v", err)
		return outcome
	}

	outcome.Status = StatusOK
	outcome.Rows = len(records)
	return outcome
}
