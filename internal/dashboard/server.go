package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"market-sentiment-analyzer/internal/aggregate"
	"market-sentiment-analyzer/internal/compare"
	"market-sentiment-analyzer/internal/config"
	"market-sentiment-analyzer/internal/logger"
	"market-sentiment-analyzer/internal/marketdata"
	"market-sentiment-analyzer/internal/pipeline"
	"market-sentiment-analyzer/internal/types"
)

// SentimentSeriesName is the column the daily average sentiment joins
// under in the comparative view.
const SentimentSeriesName = "Sentiment"

// Reader is the slice of the store the dashboard reads through.
type Reader interface {
	PricesForTicker(ctx context.Context, ticker string) ([]types.PriceBar, error)
	HeadlinesForTicker(ctx context.Context, ticker string) ([]types.HeadlineRecord, error)
	ReadAllHeadlines(ctx context.Context) ([]types.HeadlineRecord, error)
	DailySentiment(ctx context.Context, start, end types.Date) (map[types.Date]float64, error)
}

// Refresher triggers an ingest run on demand.
type Refresher interface {
	Run(ctx context.Context) (*pipeline.Report, error)
}

// Server exposes the dashboard tables and chart specs over HTTP.
type Server struct {
	cfg       *config.Config
	reader    Reader
	indexFeed marketdata.Provider
	refresher Refresher
}

// NewServer wires the dashboard handlers.
func NewServer(cfg *config.Config, reader Reader, indexFeed marketdata.Provider, refresher Refresher) *Server {
	return &Server{cfg: cfg, reader: reader, indexFeed: indexFeed, refresher: refresher}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/prices/{ticker}", s.handlePrices)
	mux.HandleFunc("GET /api/sentiment/average", s.handleAverageSentiment)
	mux.HandleFunc("GET /api/sentiment/distribution/{ticker}", s.handleDistribution)
	mux.HandleFunc("GET /api/sentiment/{ticker}", s.handleSentiment)
	mux.HandleFunc("GET /api/comparison", s.handleComparison)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	return mux
}

// TableResponse is the wire shape of every dashboard view: a chart
// descriptor plus the tabular data it draws from. Warnings carry the
// structured non-fatal messages toward the user-facing layer.
type TableResponse struct {
	Chart    *types.ChartSpec `json:"chart,omitempty"`
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	NoData   bool             `json:"no_data,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	ticker := r.PathValue("ticker")

	bars, err := s.reader.PricesForTicker(r.Context(), ticker)
	if err != nil {
		s.serverError(w, r, "reading prices", err)
		return
	}

	resp := TableResponse{
		Columns: []string{"date", "close"},
		Rows:    make([]map[string]any, 0, len(bars)),
	}
	for _, bar := range bars {
		resp.Rows = append(resp.Rows, map[string]any{
			"date":  bar.Date,
			"close": bar.Close,
		})
	}
	if len(bars) == 0 {
		resp.NoData = true
		resp.Warnings = []string{"No price data available for " + ticker + "."}
	} else {
		chart := closingPriceChart(ticker)
		resp.Chart = &chart
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	ticker := r.PathValue("ticker")

	records, err := s.reader.HeadlinesForTicker(r.Context(), ticker)
	if err != nil {
		s.serverError(w, r, "reading headlines", err)
		return
	}

	resp := TableResponse{
		Columns: []string{"headline", "sentiment"},
		Rows:    make([]map[string]any, 0, len(records)),
	}
	scored := 0
	for _, rec := range records {
		row := map[string]any{"headline": rec.Headline}
		if rec.Sentiment != nil {
			row["sentiment"] = *rec.Sentiment
			scored++
		}
		resp.Rows = append(resp.Rows, row)
	}
	switch {
	case len(records) == 0:
		resp.NoData = true
		resp.Warnings = []string{"No news data found."}
	case scored == 0:
		resp.Warnings = []string{"No valid sentiment data to display bar chart."}
	default:
		chart := headlineSentimentChart(ticker)
		resp.Chart = &chart
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) handleAverageSentiment(w http.ResponseWriter, r *http.Request) {
	records, err := s.reader.ReadAllHeadlines(r.Context())
	if err != nil {
		s.serverError(w, r, "reading headlines", err)
		return
	}

	means := aggregate.AverageByTicker(records)
	tickers := make([]string, 0, len(means))
	for ticker := range means {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	resp := TableResponse{
		Columns: []string{"ticker", "sentiment"},
		Rows:    make([]map[string]any, 0, len(tickers)),
	}
	for _, ticker := range tickers {
		resp.Rows = append(resp.Rows, map[string]any{
			"ticker":    ticker,
			"sentiment": means[ticker],
		})
	}
	if len(tickers) == 0 {
		resp.NoData = true
		resp.Warnings = []string{"No sentiment data available for average sentiment chart."}
	} else {
		chart := averageSentimentChart()
		resp.Chart = &chart
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	ticker := r.PathValue("ticker")

	records, err := s.reader.HeadlinesForTicker(r.Context(), ticker)
	if err != nil {
		s.serverError(w, r, "reading headlines", err)
		return
	}

	counts := aggregate.CategoryDistribution(records)

	resp := TableResponse{
		Columns: []string{"category", "count"},
		Rows:    make([]map[string]any, 0, len(counts)),
	}
	// Stable display order; absent categories render as zero.
	for _, cat := range []types.SentimentCategory{types.Positive, types.Negative, types.Neutral} {
		resp.Rows = append(resp.Rows, map[string]any{
			"category": cat,
			"count":    counts[cat],
		})
	}
	if len(counts) == 0 {
		resp.NoData = true
		resp.Warnings = []string{"No sentiment distribution available."}
		resp.Rows = resp.Rows[:0]
	} else {
		chart := distributionChart(ticker)
		resp.Chart = &chart
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	start, end, err := s.cfg.DateRange()
	if err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sentiments, err := s.reader.DailySentiment(ctx, start, end)
	if err != nil {
		s.serverError(w, r, "reading sentiment series", err)
		return
	}

	points := marketdata.IndexSeries(ctx, s.indexFeed, s.cfg.Indices, start, end)

	// Both sides are required: an indices-only join would survive the
	// normalizer and render a comparison with nothing to compare against.
	if len(sentiments) == 0 || len(points) == 0 {
		writeComparisonNoData(ctx, w)
		return
	}

	table := compare.Build(points, sentiments, SentimentSeriesName)
	normalized, err := compare.Normalize(table)
	if errors.Is(err, compare.ErrNoComparableData) {
		writeComparisonNoData(ctx, w)
		return
	}
	if err != nil {
		s.serverError(w, r, "normalizing comparison", err)
		return
	}

	resp := TableResponse{Columns: []string{"date", "series", "value"}}
	for _, date := range normalized.Dates() {
		row := normalized[date]
		names := make([]string, 0, len(row))
		for name := range row {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			resp.Rows = append(resp.Rows, map[string]any{
				"date":   date,
				"series": name,
				"value":  row[name],
			})
		}
	}
	chart := comparisonChart()
	resp.Chart = &chart
	writeJSON(ctx, w, http.StatusOK, resp)
}

func writeComparisonNoData(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusOK, TableResponse{
		Columns:  []string{"date", "series", "value"},
		Rows:     []map[string]any{},
		NoData:   true,
		Warnings: []string{"Not enough sentiment or index data to show comparative analysis."},
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	report, err := s.refresher.Run(r.Context())
	if err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, report)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, what string, err error) {
	logger.ErrorWithErr(r.Context(), "Dashboard request failed", err, "what", what, "path", r.URL.Path)
	writeJSON(r.Context(), w, http.StatusInternalServerError, map[string]string{"error": what + " failed"})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.ErrorWithErr(ctx, "Failed to encode response", err)
	}
}
