package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"market-sentiment-analyzer/internal/logger"
	"market-sentiment-analyzer/internal/types"
)

// Store persists price bars and scored headlines in postgres. Both tables
// are append-only: no updates, no read-modify-write, so concurrent
// appenders cannot lose rows.
type Store struct {
	db *sqlx.DB
}

// Open connects to postgres and configures the pool.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS stock_prices (
	ticker  TEXT             NOT NULL,
	date    DATE             NOT NULL,
	open    DOUBLE PRECISION NOT NULL,
	high    DOUBLE PRECISION NOT NULL,
	low     DOUBLE PRECISION NOT NULL,
	close   DOUBLE PRECISION NOT NULL,
	volume  BIGINT           NOT NULL
);

CREATE TABLE IF NOT EXISTS stock_news (
	ticker    TEXT NOT NULL,
	date      DATE NOT NULL,
	headline  TEXT NOT NULL,
	sentiment DOUBLE PRECISION
);
`

// Init creates the tables if they do not exist. It is idempotent and is
// called exactly once at process start, never mid-pipeline.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("store init: %w", err)
	}
	logger.Info(ctx, "Store initialized")
	return nil
}

// Reset drops and recreates the tables. Safe to call repeatedly.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS stock_prices; DROP TABLE IF EXISTS stock_news;`); err != nil {
		return fmt.Errorf("store reset: %w", err)
	}
	return s.Init(ctx)
}

type priceRow struct {
	Ticker string  `db:"ticker"`
	Date   string  `db:"date"`
	Open   float64 `db:"open"`
	High   float64 `db:"high"`
	Low    float64 `db:"low"`
	Close  float64 `db:"close"`
	Volume int64   `db:"volume"`
}

type headlineRow struct {
	Ticker    string   `db:"ticker"`
	Date      string   `db:"date"`
	Headline  string   `db:"headline"`
	Sentiment *float64 `db:"sentiment"`
}

func (r priceRow) bar() types.PriceBar {
	return types.PriceBar{
		Ticker: r.Ticker,
		Date:   types.Date(r.Date),
		Open:   r.Open,
		High:   r.High,
		Low:    r.Low,
		Close:  r.Close,
		Volume: r.Volume,
	}
}

func (r headlineRow) record() types.HeadlineRecord {
	return types.HeadlineRecord{
		Ticker:    r.Ticker,
		Date:      types.Date(r.Date),
		Headline:  r.Headline,
		Sentiment: r.Sentiment,
	}
}

// AppendPrices appends price bars. Duplicate (ticker, date) pairs from
// repeated runs are accepted; the table carries no dedup key.
func (s *Store) AppendPrices(ctx context.Context, bars []types.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	rows := make([]priceRow, 0, len(bars))
	for _, b := range bars {
		rows = append(rows, priceRow{
			Ticker: b.Ticker,
			Date:   string(b.Date),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}

	query := `
		INSERT INTO stock_prices (ticker, date, open, high, low, close, volume)
		VALUES (:ticker, :date, :open, :high, :low, :close, :volume)`

	if _, err := s.db.NamedExecContext(ctx, query, rows); err != nil {
		return fmt.Errorf("append prices: %w", err)
	}
	return nil
}

// AppendHeadlines appends scored headlines.
func (s *Store) AppendHeadlines(ctx context.Context, records []types.HeadlineRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]headlineRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, headlineRow{
			Ticker:    rec.Ticker,
			Date:      string(rec.Date),
			Headline:  rec.Headline,
			Sentiment: rec.Sentiment,
		})
	}

	query := `
		INSERT INTO stock_news (ticker, date, headline, sentiment)
		VALUES (:ticker, :date, :headline, :sentiment)`

	if _, err := s.db.NamedExecContext(ctx, query, rows); err != nil {
		return fmt.Errorf("append headlines: %w", err)
	}
	return nil
}

// ReadAllPrices reads the full price table ordered by ticker and date.
func (s *Store) ReadAllPrices(ctx context.Context) ([]types.PriceBar, error) {
	var rows []priceRow
	query := `
		SELECT ticker, to_char(date, 'YYYY-MM-DD') AS date, open, high, low, close, volume
		FROM stock_prices
		ORDER BY ticker, date`

	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("read prices: %w", err)
	}

	bars := make([]types.PriceBar, 0, len(rows))
	for _, r := range rows {
		bars = append(bars, r.bar())
	}
	return bars, nil
}

// PricesForTicker reads one ticker's bars ordered by date ascending.
func (s *Store) PricesForTicker(ctx context.Context, ticker string) ([]types.PriceBar, error) {
	var rows []priceRow
	query := `
		SELECT ticker, to_char(date, 'YYYY-MM-DD') AS date, open, high, low, close, volume
		FROM stock_prices
		WHERE ticker = $1
		ORDER BY date`

	if err := s.db.SelectContext(ctx, &rows, query, ticker); err != nil {
		return nil, fmt.Errorf("read prices for %s: %w", ticker, err)
	}

	bars := make([]types.PriceBar, 0, len(rows))
	for _, r := range rows {
		bars = append(bars, r.bar())
	}
	return bars, nil
}

// ReadAllHeadlines reads the full news table in insertion order.
func (s *Store) ReadAllHeadlines(ctx context.Context) ([]types.HeadlineRecord, error) {
	var rows []headlineRow
	query := `
		SELECT ticker, to_char(date, 'YYYY-MM-DD') AS date, headline, sentiment
		FROM stock_news`

	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("read headlines: %w", err)
	}

	records := make([]types.HeadlineRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.record())
	}
	return records, nil
}

// HeadlinesForTicker reads one ticker's headlines.
func (s *Store) HeadlinesForTicker(ctx context.Context, ticker string) ([]types.HeadlineRecord, error) {
	var rows []headlineRow
	query := `
		SELECT ticker, to_char(date, 'YYYY-MM-DD') AS date, headline, sentiment
		FROM stock_news
		WHERE ticker = $1`

	if err := s.db.SelectContext(ctx, &rows, query, ticker); err != nil {
		return nil, fmt.Errorf("read headlines for %s: %w", ticker, err)
	}

	records := make([]types.HeadlineRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.record())
	}
	return records, nil
}

// DailySentiment returns the per-day average sentiment between start and
// end inclusive, skipping NULL scores. Days with no scored headlines are
// absent from the result.
func (s *Store) DailySentiment(ctx context.Context, start, end types.Date) (map[types.Date]float64, error) {
	type row struct {
		Date      string  `db:"date"`
		Sentiment float64 `db:"sentiment"`
	}

	var rows []row
	query := `
		SELECT to_char(date, 'YYYY-MM-DD') AS date, AVG(sentiment) AS sentiment
		FROM stock_news
		WHERE sentiment IS NOT NULL AND date BETWEEN $1 AND $2
		GROUP BY date
		ORDER BY date`

	if err := s.db.SelectContext(ctx, &rows, query, string(start), string(end)); err != nil {
		return nil, fmt.Errorf("daily sentiment: %w", err)
	}

	series := make(map[types.Date]float64, len(rows))
	for _, r := range rows {
		series[types.Date(r.Date)] = r.Sentiment
	}
	return series, nil
}
