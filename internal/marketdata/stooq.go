package marketdata

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"market-sentiment-analyzer/internal/api"
	"market-sentiment-analyzer/internal/logger"
	"market-sentiment-analyzer/internal/trace"
	"market-sentiment-analyzer/internal/types"
)

const stooqBaseURL = "https://stooq.com"

// StooqProvider fetches daily bars from stooq's CSV download endpoint.
// No credential is required.
type StooqProvider struct {
	client *api.Client
}

var _ Provider = (*StooqProvider)(nil)

// NewStooqProvider creates a stooq-backed price provider.
func NewStooqProvider(timeout time.Duration) *StooqProvider {
	return &StooqProvider{
		client: api.NewClient(
			api.WithBaseURL(stooqBaseURL),
			api.WithTimeout(timeout),
			api.WithLogging(true),
		),
	}
}

// History downloads the daily CSV for one symbol and normalizes it.
func (p *StooqProvider) History(ctx context.Context, ticker string, start, end types.Date) ([]types.PriceBar, error) {
	ctx, span := trace.StartSpan(ctx, "stooq.history")
	defer span.End()

	url := fmt.Sprintf("/q/d/l/?s=%s&d1=%s&d2=%s&i=d",
		stooqSymbol(ticker),
		strings.ReplaceAll(string(start), "-", ""),
		strings.ReplaceAll(string(end), "-", ""))

	resp, err := p.client.GET(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("stooq fetch %s: %w", ticker, err)
	}

	bars, dropped := parseStooqCSV(resp.Body)
	if dropped > 0 {
		logger.Warn(ctx, "Skipped unparseable stooq rows", "ticker", ticker, "rows", dropped)
	}
	return normalizeBars(ctx, ticker, bars), nil
}

// stooq uses its own index names where the common caret symbols differ.
var stooqIndexAliases = map[string]string{
	"^gspc": "^spx",
	"^ixic": "^ndq",
}

// stooqSymbol maps a plain ticker to stooq's naming: US equities carry a
// ".us" suffix, index symbols translate through the alias table or pass
// through lowercased. Indices stooq does not carry fail the fetch and the
// caller skips the series.
func stooqSymbol(ticker string) string {
	s := strings.ToLower(ticker)
	if alias, ok := stooqIndexAliases[s]; ok {
		return alias
	}
	if strings.HasPrefix(s, "^") || strings.Contains(s, ".") {
		return s
	}
	return s + ".us"
}

// parseStooqCSV reads the Date,Open,High,Low,Close,Volume layout. An empty
// body or a "no data" answer yields zero bars, which is not an error.
func parseStooqCSV(body []byte) (bars []types.PriceBar, dropped int) {
	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil || len(records) < 2 {
		return nil, 0
	}

	for _, rec := range records[1:] {
		if len(rec) < 5 {
			dropped++
			continue
		}
		date, err := types.ParseDate(rec[0])
		if err != nil {
			dropped++
			continue
		}
		open, err1 := strconv.ParseFloat(rec[1], 64)
		high, err2 := strconv.ParseFloat(rec[2], 64)
		low, err3 := strconv.ParseFloat(rec[3], 64)
		closePx, err4 := strconv.ParseFloat(rec[4], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			dropped++
			continue
		}
		// Index CSVs omit the Volume column; treat as zero.
		var volume int64
		if len(rec) >= 6 {
			volume, _ = strconv.ParseInt(rec[5], 10, 64)
		}

		bars = append(bars, types.PriceBar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePx,
			Volume: volume,
		})
	}
	return bars, dropped
}
