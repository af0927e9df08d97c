package dashboard

import (
	"fmt"

	"market-sentiment-analyzer/internal/types"
)

// Chart spec constructors for the dashboard views. The display layer gets
// a descriptor naming axes over the accompanying table, never pixels.

func closingPriceChart(ticker string) types.ChartSpec {
	return types.ChartSpec{
		Type:  types.ChartLine,
		X:     "date",
		Y:     "close",
		Title: fmt.Sprintf("%s Closing Price", ticker),
	}
}

func headlineSentimentChart(ticker string) types.ChartSpec {
	return types.ChartSpec{
		Type:  types.ChartBar,
		X:     "headline",
		Y:     "sentiment",
		Title: fmt.Sprintf("%s News Sentiment", ticker),
	}
}

func averageSentimentChart() types.ChartSpec {
	return types.ChartSpec{
		Type:  types.ChartBar,
		X:     "ticker",
		Y:     "sentiment",
		Color: "ticker",
		Title: "Average Sentiment",
	}
}

func distributionChart(ticker string) types.ChartSpec {
	return types.ChartSpec{
		Type:  types.ChartPie,
		X:     "category",
		Y:     "count",
		Title: fmt.Sprintf("%s Sentiment Distribution", ticker),
	}
}

func comparisonChart() types.ChartSpec {
	return types.ChartSpec{
		Type:  types.ChartLine,
		X:     "date",
		Y:     "value",
		Color: "series",
		Title: "Normalized Market Indices vs Sentiment Score",
	}
}
