package marketdata

import (
	"context"
	"math"
	"sort"

	"market-sentiment-analyzer/internal/logger"
	"market-sentiment-analyzer/internal/types"
)

// Provider fetches daily OHLCV history for one symbol. Implementations
// return bars ordered by date ascending, tagged with the requested ticker.
// An empty result is not an error; a provider failure is.
type Provider interface {
	History(ctx context.Context, ticker string, start, end types.Date) ([]types.PriceBar, error)
}

// normalizeBars shapes raw provider bars into the fixed schema: tag with
// the requested ticker, drop malformed rows with a warning, and sort by
// date ascending. Providers call this before returning.
func normalizeBars(ctx context.Context, ticker string, bars []types.PriceBar) []types.PriceBar {
	out := bars[:0]
	dropped := 0
	for _, bar := range bars {
		if bar.Date == "" || !finite(bar.Open, bar.High, bar.Low, bar.Close) {
			dropped++
			continue
		}
		bar.Ticker = ticker
		out = append(out, bar)
	}
	if dropped > 0 {
		logger.Warn(ctx, "Dropped malformed price rows", "ticker", ticker, "dropped", dropped)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
