package aggregate

import (
	"math"
	"math/rand"
	"testing"

	"market-sentiment-analyzer/internal/types"
)

func rec(ticker string, date types.Date, headline string, sentiment float64) types.HeadlineRecord {
	return types.HeadlineRecord{
		Ticker:    ticker,
		Date:      date,
		Headline:  headline,
		Sentiment: types.Float64Ptr(sentiment),
	}
}

func TestAverageByTicker(t *testing.T) {
	records := []types.HeadlineRecord{
		rec("AAPL", "2026-08-01", "h1", 0.2),
		rec("AAPL", "2026-08-01", "h2", -0.2),
		rec("AAPL", "2026-08-02", "h3", 0.0),
	}

	means := AverageByTicker(records)
	if len(means) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(means))
	}
	if got := means["AAPL"]; math.Abs(got) > 1e-12 {
		t.Errorf("Expected AAPL mean 0.0, got %v", got)
	}
}

func TestAverageOmitsUnscoredTickers(t *testing.T) {
	records := []types.HeadlineRecord{
		rec("AAPL", "2026-08-01", "h1", 0.4),
		{Ticker: "MSFT", Date: "2026-08-01", Headline: "h2", Sentiment: nil},
	}

	means := AverageByTicker(records)
	if _, ok := means["MSFT"]; ok {
		t.Error("Expected MSFT to be omitted, not zero-filled")
	}
	if got := means["AAPL"]; got != 0.4 {
		t.Errorf("Expected AAPL mean 0.4, got %v", got)
	}
}

func TestAverageEmptyInput(t *testing.T) {
	means := AverageByTicker(nil)
	if len(means) != 0 {
		t.Errorf("Expected empty result for empty input, got %v", means)
	}
}

func TestAveragePermutationInvariance(t *testing.T) {
	records := []types.HeadlineRecord{
		rec("AAPL", "2026-08-01", "h1", 0.3),
		rec("AAPL", "2026-08-02", "h2", -0.1),
		rec("MSFT", "2026-08-01", "h3", 0.7),
		rec("MSFT", "2026-08-02", "h4", 0.2),
		rec("TSLA", "2026-08-03", "h5", -0.5),
	}

	want := AverageByTicker(records)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]types.HeadlineRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := AverageByTicker(shuffled)
		if len(got) != len(want) {
			t.Fatalf("Group count changed under permutation: %d vs %d", len(got), len(want))
		}
		for ticker, mean := range want {
			if math.Abs(got[ticker]-mean) > 1e-12 {
				t.Errorf("Mean for %s changed under permutation: %v vs %v", ticker, got[ticker], mean)
			}
		}
	}
}

func TestAverageByDate(t *testing.T) {
	records := []types.HeadlineRecord{
		rec("AAPL", "2026-08-01", "h1", 0.2),
		rec("MSFT", "2026-08-01", "h2", 0.4),
		rec("AAPL", "2026-08-02", "h3", -0.6),
	}

	means := AverageByDate(records)
	if len(means) != 2 {
		t.Fatalf("Expected 2 dates, got %d", len(means))
	}
	if got := means["2026-08-01"]; math.Abs(got-0.3) > 1e-12 {
		t.Errorf("Expected 2026-08-01 mean 0.3, got %v", got)
	}
	if got := means["2026-08-02"]; math.Abs(got+0.6) > 1e-12 {
		t.Errorf("Expected 2026-08-02 mean -0.6, got %v", got)
	}
}

func TestCategoryDistribution(t *testing.T) {
	records := []types.HeadlineRecord{
		rec("AAPL", "2026-08-01", "h1", 0.2),
		rec("AAPL", "2026-08-01", "h2", -0.2),
		rec("AAPL", "2026-08-02", "h3", 0.0),
	}

	counts := CategoryDistribution(records)
	if counts[types.Positive] != 1 || counts[types.Negative] != 1 || counts[types.Neutral] != 1 {
		t.Errorf("Expected {Positive:1, Negative:1, Neutral:1}, got %v", counts)
	}
}

func TestCategoryDistributionSkipsNil(t *testing.T) {
	records := []types.HeadlineRecord{
		rec("AAPL", "2026-08-01", "h1", 0.5),
		{Ticker: "AAPL", Date: "2026-08-01", Headline: "h2", Sentiment: nil},
	}

	counts := CategoryDistribution(records)
	total := 0
	for _, n := range counts {
		total += n
	}
	if total != 1 {
		t.Errorf("Expected 1 counted record, got %d", total)
	}
}

func TestFilterTicker(t *testing.T) {
	records := []types.HeadlineRecord{
		rec("AAPL", "2026-08-01", "h1", 0.1),
		rec("MSFT", "2026-08-01", "h2", 0.2),
		rec("AAPL", "2026-08-02", "h3", 0.3),
	}

	got := FilterTicker(records, "AAPL")
	if len(got) != 2 {
		t.Fatalf("Expected 2 AAPL records, got %d", len(got))
	}
	if got[0].Headline != "h1" || got[1].Headline != "h3" {
		t.Error("Expected input order to be preserved")
	}
}
