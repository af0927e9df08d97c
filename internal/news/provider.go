package news

import (
	"context"
	"errors"
	"time"

	"market-sentiment-analyzer/internal/sentiment"
	"market-sentiment-analyzer/internal/types"
)

// ErrMissingCredential signals that the provider needs an API key and none
// is configured. Callers degrade to "no sentiment data" instead of failing.
var ErrMissingCredential = errors.New("news provider credential not configured")

// SearchOptions carries the provider query parameters.
type SearchOptions struct {
	Language string
	SortBy   string
	PageSize int
	From     types.Date
	To       types.Date
}

// Provider searches recent news. Results preserve the provider's relevance
// ranking; an empty result is not an error.
type Provider interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]types.Article, error)
}

// Normalize scores articles into headline records, preserving provider
// order. The publication date is used when present, the ingestion time
// otherwise.
func Normalize(ticker string, articles []types.Article, classifier sentiment.Classifier, ingestedAt time.Time) []types.HeadlineRecord {
	records := make([]types.HeadlineRecord, 0, len(articles))
	for _, article := range articles {
		if article.Title == "" {
			continue
		}
		date := types.DateOf(ingestedAt)
		if !article.PublishedAt.IsZero() {
			date = types.DateOf(article.PublishedAt)
		}
		score := classifier.Polarity(article.Title)
		records = append(records, types.HeadlineRecord{
			Ticker:    ticker,
			Date:      date,
			Headline:  article.Title,
			Sentiment: types.Float64Ptr(score),
		})
	}
	return records
}
