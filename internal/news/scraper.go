package news

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"market-sentiment-analyzer/internal/logger"
	"market-sentiment-analyzer/internal/types"
)

// ScrapeProvider collects headlines from public finance pages with colly.
// It needs no credential and serves as the keyless fallback news source.
type ScrapeProvider struct {
	sources []scrapeSource
	timeout time.Duration
}

var _ Provider = (*ScrapeProvider)(nil)

// scrapeSource defines one site to scrape
type scrapeSource struct {
	Name       string
	BaseURL    string
	SearchPath string // "{symbol}" is replaced by the ticker
	Selectors  headlineSelectors
	RateLimit  time.Duration
}

// headlineSelectors defines CSS selectors for extracting headline data
type headlineSelectors struct {
	Container   string
	Title       string
	PublishedAt string
}

// NewScrapeProvider creates a scraper over the default source list.
func NewScrapeProvider(timeout time.Duration) *ScrapeProvider {
	return &ScrapeProvider{
		sources: defaultSources(),
		timeout: timeout,
	}
}

func defaultSources() []scrapeSource {
	return []scrapeSource{
		{
			Name:       "Finviz",
			BaseURL:    "https://finviz.com",
			SearchPath: "/quote.ashx?t={symbol}",
			Selectors: headlineSelectors{
				Container:   "tr.news_table-row",
				Title:       "a.tab-link-news",
				PublishedAt: "td.news_date-cell",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "YahooFinance",
			BaseURL:    "https://finance.yahoo.com",
			SearchPath: "/quote/{symbol}/news",
			Selectors: headlineSelectors{
				Container:   "li.stream-item",
				Title:       "h3 a",
				PublishedAt: "time",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// Search scrapes each source for the queried symbol. The first
// whitespace-separated token of the query is treated as the ticker.
func (s *ScrapeProvider) Search(ctx context.Context, query string, opts SearchOptions) ([]types.Article, error) {
	symbol := query
	if fields := strings.Fields(query); len(fields) > 0 {
		symbol = fields[0]
	}

	perSource := opts.PageSize / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	var all []types.Article
	for _, source := range s.sources {
		articles, err := s.scrapeSource(ctx, source, symbol, perSource)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", source.Name, "symbol", symbol)
			continue
		}
		all = append(all, articles...)
		if len(all) >= opts.PageSize && opts.PageSize > 0 {
			all = all[:opts.PageSize]
			break
		}
		time.Sleep(source.RateLimit)
	}

	logger.Info(ctx, "Headline scraping completed", "symbol", symbol, "articles", len(all))
	return all, nil
}

// scrapeSource collects headlines from one site
func (s *ScrapeProvider) scrapeSource(ctx context.Context, source scrapeSource, symbol string, maxArticles int) ([]types.Article, error) {
	var articles []types.Article

	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(source.Selectors.Container, func(e *colly.HTMLElement) {
		if len(articles) >= maxArticles {
			return
		}

		title := strings.TrimSpace(e.DOM.Find(source.Selectors.Title).First().Text())
		if title == "" {
			return
		}

		articles = append(articles, types.Article{
			Title:       title,
			PublishedAt: parsePublished(e.DOM, source.Selectors.PublishedAt),
		})
	})

	target := source.BaseURL + strings.ReplaceAll(source.SearchPath, "{symbol}", url.QueryEscape(symbol))
	if err := c.Visit(target); err != nil {
		return nil, err
	}
	c.Wait()

	return articles, nil
}

// parsePublished tries common timestamp shapes; a zero time means the
// caller should fall back to the ingestion date.
func parsePublished(sel *goquery.Selection, selector string) time.Time {
	node := sel.Find(selector).First()
	if node.Length() == 0 {
		return time.Time{}
	}
	raw := strings.TrimSpace(node.AttrOr("datetime", node.Text()))
	for _, layout := range []string{time.RFC3339, "Jan-02-06 03:04PM", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func hostOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	return u.Host
}
