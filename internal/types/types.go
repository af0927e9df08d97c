package types

import "time"

// Date is a calendar day in ISO form (YYYY-MM-DD). ISO strings compare
// lexically in chronological order, so Date values sort and join directly.
type Date string

const dateLayout = "2006-01-02"

// DateOf truncates a timestamp to its UTC calendar day.
func DateOf(t time.Time) Date {
	return Date(t.UTC().Format(dateLayout))
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", err
	}
	return DateOf(t), nil
}

// Time returns the UTC midnight instant of the day, or the zero time for
// a malformed Date.
func (d Date) Time() time.Time {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func (d Date) Before(other Date) bool { return d < other }
func (d Date) After(other Date) bool  { return d > other }
func (d Date) String() string         { return string(d) }

// PriceBar is one daily OHLCV bar for a ticker. Unique per (ticker, date)
// and immutable once stored.
type PriceBar struct {
	Ticker string  `json:"ticker"`
	Date   Date    `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Article is a raw news item as returned by a news provider, in the
// provider's relevance order.
type Article struct {
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
}

// HeadlineRecord is a scored headline. Sentiment is nil when no polarity
// could be computed; the store keeps it as NULL. Rows are append-only and
// duplicates across runs are accepted rather than deduplicated.
type HeadlineRecord struct {
	Ticker    string   `json:"ticker"`
	Date      Date     `json:"date"`
	Headline  string   `json:"headline"`
	Sentiment *float64 `json:"sentiment"`
}

// SentimentCategory is the discrete bucket derived from a polarity score.
// It is never stored, always recomputed.
type SentimentCategory string

const (
	Positive SentimentCategory = "Positive"
	Negative SentimentCategory = "Negative"
	Neutral  SentimentCategory = "Neutral"
)

// IndexPoint is one closing value of a named market index.
type IndexPoint struct {
	Date      Date    `json:"date"`
	IndexName string  `json:"index_name"`
	Close     float64 `json:"close"`
}

// ChartType enumerates the chart kinds the display layer can render.
type ChartType string

const (
	ChartLine ChartType = "line"
	ChartBar  ChartType = "bar"
	ChartPie  ChartType = "pie"
)

// ChartSpec is the declarative contract toward the display layer: a chart
// descriptor paired with tabular data, never pixels.
type ChartSpec struct {
	Type  ChartType `json:"type"`
	X     string    `json:"x"`
	Y     string    `json:"y"`
	Color string    `json:"color,omitempty"`
	Title string    `json:"title"`
}

// Float64Ptr is a convenience for building optional sentiment values.
func Float64Ptr(v float64) *float64 { return &v }
