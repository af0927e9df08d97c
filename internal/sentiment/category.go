package sentiment

import "market-sentiment-analyzer/internal/types"

// Polarity thresholds separating the sentiment categories. Both boundaries
// are exclusive: a score of exactly 0.1 or -0.1 is Neutral.
const (
	PositiveThreshold = 0.1
	NegativeThreshold = -0.1
)

// Categorize buckets a polarity score into Positive, Negative or Neutral.
// This is the single shared definition; every consumer goes through it.
func Categorize(score float64) types.SentimentCategory {
	switch {
	case score > PositiveThreshold:
		return types.Positive
	case score < NegativeThreshold:
		return types.Negative
	default:
		return types.Neutral
	}
}
