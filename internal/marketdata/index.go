package marketdata

import (
	"context"

	"market-sentiment-analyzer/internal/logger"
	"market-sentiment-analyzer/internal/types"
)

// IndexSeries fetches closing values for a set of named indices over a
// date range. A failing index degrades to "absent from the result" with a
// warning; it never fails the whole fetch. Dates missing from any series
// are handled later by the comparison join.
func IndexSeries(ctx context.Context, provider Provider, indices map[string]string, start, end types.Date) []types.IndexPoint {
	var points []types.IndexPoint
	for name, symbol := range indices {
		bars, err := provider.History(ctx, symbol, start, end)
		if err != nil {
			logger.ErrorWithErr(ctx, "Index fetch failed, skipping series", err, "index", name, "symbol", symbol)
			continue
		}
		if len(bars) == 0 {
			logger.Warn(ctx, "Index fetch returned no rows", "index", name, "symbol", symbol)
			continue
		}
		for _, bar := range bars {
			points = append(points, types.IndexPoint{
				Date:      bar.Date,
				IndexName: name,
				Close:     bar.Close,
			})
		}
	}
	return points
}
