package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"market-sentiment-analyzer/internal/config"
	"market-sentiment-analyzer/internal/news"
	"market-sentiment-analyzer/internal/sentiment"
	"market-sentiment-analyzer/internal/types"
)

type fakePrices struct {
	calls int
	bars  map[string][]types.PriceBar
	err   error
}

func (f *fakePrices) History(ctx context.Context, ticker string, start, end types.Date) ([]types.PriceBar, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.bars[ticker], nil
}

type fakeNews struct {
	calls    int
	articles map[string][]types.Article
	err      error
}

func (f *fakeNews) Search(ctx context.Context, query string, opts news.SearchOptions) ([]types.Article, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.articles[query], nil
}

type fakeStore struct {
	prices    []types.PriceBar
	headlines []types.HeadlineRecord
}

func (f *fakeStore) AppendPrices(ctx context.Context, bars []types.PriceBar) error {
	f.prices = append(f.prices, bars...)
	return nil
}

func (f *fakeStore) AppendHeadlines(ctx context.Context, records []types.HeadlineRecord) error {
	f.headlines = append(f.headlines, records...)
	return nil
}

func testConfig(tickers ...string) *config.Config {
	cfg := &config.Config{
		Tickers:   tickers,
		StartDate: "2026-08-01",
		EndDate:   "2026-08-20",
	}
	cfg.News.PageSize = 5
	cfg.News.Language = "en"
	cfg.News.SortBy = "relevancy"
	return cfg
}

func findOutcome(t *testing.T, report *Report, ticker, stage string) Outcome {
	t.Helper()
	for _, o := range report.Outcomes {
		if o.Ticker == ticker && o.Stage == stage {
			return o
		}
	}
	t.Fatalf("No outcome for %s/%s in %+v", ticker, stage, report.Outcomes)
	return Outcome{}
}

func TestRunHappyPath(t *testing.T) {
	prices := &fakePrices{bars: map[string][]types.PriceBar{
		"AAPL": {{Ticker: "AAPL", Date: "2026-08-03", Close: 101.2}},
	}}
	newsFake := &fakeNews{articles: map[string][]types.Article{
		"AAPL stock": {{Title: "Record growth and strong gains"}},
	}}
	store := &fakeStore{}

	pipe := New(testConfig("AAPL"), prices, newsFake, sentiment.NewLexiconClassifier(), store)

	report, err := pipe.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if o := findOutcome(t, report, "AAPL", "prices"); o.Status != StatusOK || o.Rows != 1 {
		t.Errorf("Unexpected prices outcome: %+v", o)
	}
	if o := findOutcome(t, report, "AAPL", "news"); o.Status != StatusOK || o.Rows != 1 {
		t.Errorf("Unexpected news outcome: %+v", o)
	}
	if len(store.prices) != 1 || len(store.headlines) != 1 {
		t.Errorf("Expected 1 price and 1 headline stored, got %d/%d", len(store.prices), len(store.headlines))
	}
	if store.headlines[0].Sentiment == nil {
		t.Error("Expected stored headline to carry a sentiment score")
	}
}

func TestRunRejectsInvertedRangeBeforeProviderCalls(t *testing.T) {
	cfg := testConfig("AAPL")
	cfg.StartDate = "2026-08-20"
	cfg.EndDate = "2026-08-01"

	prices := &fakePrices{}
	newsFake := &fakeNews{}
	pipe := New(cfg, prices, newsFake, sentiment.NewLexiconClassifier(), &fakeStore{})

	if _, err := pipe.Run(context.Background()); err == nil {
		t.Fatal("Expected inverted range to fail the run")
	}
	if prices.calls != 0 || newsFake.calls != 0 {
		t.Errorf("Expected no provider calls, got prices=%d news=%d", prices.calls, newsFake.calls)
	}
}

func TestRunDegradedOnMissingCredential(t *testing.T) {
	prices := &fakePrices{}
	newsFake := &fakeNews{err: news.ErrMissingCredential}
	store := &fakeStore{}

	pipe := New(testConfig("AAPL"), prices, newsFake, sentiment.NewLexiconClassifier(), store)

	report, err := pipe.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	o := findOutcome(t, report, "AAPL", "news")
	if o.Status != StatusDegraded {
		t.Errorf("Expected degraded news outcome, got %s", o.Status)
	}
	if len(store.headlines) != 0 {
		t.Errorf("Expected no headlines stored, got %d", len(store.headlines))
	}
}

func TestRunContinuesAfterProviderFailure(t *testing.T) {
	prices := &fakePrices{err: errors.New("connection refused")}
	newsFake := &fakeNews{articles: map[string][]types.Article{
		"AAPL stock": {{Title: "headline"}},
		"MSFT stock": {{Title: "headline"}},
	}}
	store := &fakeStore{}

	pipe := New(testConfig("AAPL", "MSFT"), prices, newsFake, sentiment.NewLexiconClassifier(), store)

	report, err := pipe.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, ticker := range []string{"AAPL", "MSFT"} {
		if o := findOutcome(t, report, ticker, "prices"); o.Status != StatusUnavailable {
			t.Errorf("Expected %s prices unavailable, got %s", ticker, o.Status)
		}
		if o := findOutcome(t, report, ticker, "news"); o.Status != StatusOK {
			t.Errorf("Expected %s news ok, got %s", ticker, o.Status)
		}
	}
	if len(report.Warnings()) != 2 {
		t.Errorf("Expected 2 warnings, got %v", report.Warnings())
	}
}

func TestRunEmptyNewsYieldsEmptyOutcome(t *testing.T) {
	prices := &fakePrices{}
	newsFake := &fakeNews{articles: map[string][]types.Article{}}
	store := &fakeStore{}

	pipe := New(testConfig("ZZZZ"), prices, newsFake, sentiment.NewLexiconClassifier(), store)

	report, err := pipe.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if o := findOutcome(t, report, "ZZZZ", "news"); o.Status != StatusEmpty {
		t.Errorf("Expected empty news outcome, got %s", o.Status)
	}
	if len(store.headlines) != 0 {
		t.Error("Expected nothing stored for empty news result")
	}
}

func TestSchedulerSingleRunPerDay(t *testing.T) {
	sched, err := NewScheduler("09:00")
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}

	morning := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	if sched.ShouldRefreshNow(morning) {
		t.Error("Refresh should not trigger before the configured time")
	}

	nineThirty := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)
	if !sched.ShouldRefreshNow(nineThirty) {
		t.Error("Refresh should trigger after the configured time")
	}

	sched.MarkRun(nineThirty)
	if sched.ShouldRefreshNow(nineThirty.Add(time.Hour)) {
		t.Error("Refresh should not trigger twice on the same day")
	}

	nextDay := nineThirty.AddDate(0, 0, 1)
	if !sched.ShouldRefreshNow(nextDay) {
		t.Error("Refresh should trigger again the next day")
	}
}

func TestSchedulerKeysRunsByLocalDay(t *testing.T) {
	sched, err := NewScheduler("09:00")
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}

	// 20:00 local in a zone west of UTC is already the next UTC day.
	loc := time.FixedZone("UTC-8", -8*60*60)
	evening := time.Date(2026, 8, 29, 20, 0, 0, 0, loc)
	if !sched.ShouldRefreshNow(evening) {
		t.Fatal("Refresh should trigger after the configured local time")
	}
	sched.MarkRun(evening)

	if sched.ShouldRefreshNow(evening.Add(time.Hour)) {
		t.Error("Refresh should not trigger twice on the same local day")
	}

	nextMorning := time.Date(2026, 8, 30, 9, 30, 0, 0, loc)
	if !sched.ShouldRefreshNow(nextMorning) {
		t.Error("Refresh should trigger on the next local day")
	}
}

func TestSchedulerRejectsBadTime(t *testing.T) {
	if _, err := NewScheduler("25:99"); err == nil {
		t.Error("Expected invalid HH:MM to be rejected")
	}
}
