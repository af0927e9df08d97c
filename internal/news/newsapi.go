package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"market-sentiment-analyzer/internal/api"
	"market-sentiment-analyzer/internal/trace"
	"market-sentiment-analyzer/internal/types"
)

const newsAPIBaseURL = "https://newsapi.org"

// NewsAPIProvider queries a NewsAPI-style "everything" endpoint. The
// credential is optional at construction; Search reports
// ErrMissingCredential when it is absent.
type NewsAPIProvider struct {
	client *api.Client
	apiKey string
}

var _ Provider = (*NewsAPIProvider)(nil)

// NewNewsAPIProvider creates the REST news provider.
func NewNewsAPIProvider(apiKey string, timeout time.Duration) *NewsAPIProvider {
	return &NewsAPIProvider{
		client: api.NewClient(
			api.WithBaseURL(newsAPIBaseURL),
			api.WithTimeout(timeout),
			api.WithLogging(true),
		),
		apiKey: apiKey,
	}
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string    `json:"title"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

// Search runs an everything-query and returns articles in the provider's
// relevance order.
func (p *NewsAPIProvider) Search(ctx context.Context, query string, opts SearchOptions) ([]types.Article, error) {
	if p.apiKey == "" {
		return nil, ErrMissingCredential
	}

	ctx, span := trace.StartSpan(ctx, "newsapi.search")
	defer span.End()

	params := url.Values{}
	params.Set("q", query)
	if opts.Language != "" {
		params.Set("language", opts.Language)
	}
	if opts.SortBy != "" {
		params.Set("sortBy", opts.SortBy)
	}
	if opts.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	if opts.From != "" {
		params.Set("from", string(opts.From))
	}
	if opts.To != "" {
		params.Set("to", string(opts.To))
	}

	resp, err := p.client.GET(ctx, "/v2/everything?"+params.Encode(), map[string]string{
		"X-Api-Key": p.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("newsapi search %q: %w", query, err)
	}

	var body newsAPIResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("newsapi decode: %w", err)
	}
	if body.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %q", body.Status)
	}

	articles := make([]types.Article, 0, len(body.Articles))
	for _, a := range body.Articles {
		articles = append(articles, types.Article{
			Title:       a.Title,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}
