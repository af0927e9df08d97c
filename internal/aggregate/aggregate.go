package aggregate

import (
	"market-sentiment-analyzer/internal/sentiment"
	"market-sentiment-analyzer/internal/types"
)

// The aggregator reduces scored headlines into per-group summaries. All
// reductions are commutative sums, so input order never affects results.
// Groups with no scored records are omitted, never zero-filled: callers
// must be able to distinguish "no opinion" from "neutral opinion".

// AverageByTicker returns the arithmetic mean sentiment per ticker over
// records with a non-nil sentiment.
func AverageByTicker(records []types.HeadlineRecord) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, rec := range records {
		if rec.Sentiment == nil {
			continue
		}
		sums[rec.Ticker] += *rec.Sentiment
		counts[rec.Ticker]++
	}

	means := make(map[string]float64, len(sums))
	for ticker, sum := range sums {
		means[ticker] = sum / float64(counts[ticker])
	}
	return means
}

// AverageByDate returns the arithmetic mean sentiment per calendar day
// over records with a non-nil sentiment.
func AverageByDate(records []types.HeadlineRecord) map[types.Date]float64 {
	sums := make(map[types.Date]float64)
	counts := make(map[types.Date]int)

	for _, rec := range records {
		if rec.Sentiment == nil {
			continue
		}
		sums[rec.Date] += *rec.Sentiment
		counts[rec.Date]++
	}

	means := make(map[types.Date]float64, len(sums))
	for date, sum := range sums {
		means[date] = sum / float64(counts[date])
	}
	return means
}

// CategoryDistribution counts records per sentiment category. Only records
// with a non-nil sentiment contribute; a category absent from the result
// has a count of zero, which the caller may synthesize for display.
func CategoryDistribution(records []types.HeadlineRecord) map[types.SentimentCategory]int {
	counts := make(map[types.SentimentCategory]int)
	for _, rec := range records {
		if rec.Sentiment == nil {
			continue
		}
		counts[sentiment.Categorize(*rec.Sentiment)]++
	}
	return counts
}

// FilterTicker returns the records belonging to one ticker, preserving
// input order.
func FilterTicker(records []types.HeadlineRecord, ticker string) []types.HeadlineRecord {
	var out []types.HeadlineRecord
	for _, rec := range records {
		if rec.Ticker == ticker {
			out = append(out, rec)
		}
	}
	return out
}
