package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"market-sentiment-analyzer/internal/types"
)

type Config struct {
	Tickers      []string `yaml:"tickers"`
	StartDate    string   `yaml:"start_date"` // YYYY-MM-DD, optional
	EndDate      string   `yaml:"end_date"`   // YYYY-MM-DD, optional
	LookbackDays int      `yaml:"lookback_days"`

	// Named market indices compared against the sentiment series.
	Indices map[string]string `yaml:"indices"`

	Prices struct {
		Provider           string `yaml:"provider"` // STOOQ or KITE
		KiteAPIKeyEnv      string `yaml:"kite_api_key_env"`
		KiteAccessTokenEnv string `yaml:"kite_access_token_env"`
	} `yaml:"prices"`

	News struct {
		Provider  string `yaml:"provider"` // NEWSAPI or SCRAPE
		APIKeyEnv string `yaml:"api_key_env"`
		PageSize  int    `yaml:"page_size"`
		Language  string `yaml:"language"`
		SortBy    string `yaml:"sort_by"`
	} `yaml:"news"`

	DB struct {
		DSNEnv   string `yaml:"dsn_env"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Name     string `yaml:"name"`
		User     string `yaml:"user"`
		Password string `yaml:"password_env"`
	} `yaml:"db"`

	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`

	Refresh struct {
		At      string `yaml:"at"` // HH:MM local time
		OnStart bool   `yaml:"on_start"`
	} `yaml:"refresh"`
}

func (c *Config) Validate() error {
	if len(c.Tickers) == 0 {
		return errors.New("tickers cannot be empty")
	}
	if c.Prices.Provider != "STOOQ" && c.Prices.Provider != "KITE" {
		return fmt.Errorf("invalid prices.provider '%s': must be 'STOOQ' or 'KITE'", c.Prices.Provider)
	}
	if c.News.Provider != "NEWSAPI" && c.News.Provider != "SCRAPE" {
		return fmt.Errorf("invalid news.provider '%s': must be 'NEWSAPI' or 'SCRAPE'", c.News.Provider)
	}
	if _, _, err := c.DateRange(); err != nil {
		return err
	}
	if c.Refresh.At != "" {
		if _, err := time.Parse("15:04", c.Refresh.At); err != nil {
			return fmt.Errorf("invalid refresh.at '%s': must be HH:MM", c.Refresh.At)
		}
	}
	return nil
}

// DateRange resolves the configured window. Explicit start/end dates win
// over lookback_days. An inverted range is rejected here, before any
// provider is called.
func (c *Config) DateRange() (start, end types.Date, err error) {
	if c.StartDate != "" || c.EndDate != "" {
		start, err = types.ParseDate(c.StartDate)
		if err != nil {
			return "", "", fmt.Errorf("invalid start_date '%s': %w", c.StartDate, err)
		}
		end, err = types.ParseDate(c.EndDate)
		if err != nil {
			return "", "", fmt.Errorf("invalid end_date '%s': %w", c.EndDate, err)
		}
	} else {
		now := time.Now().UTC()
		end = types.DateOf(now)
		start = types.DateOf(now.AddDate(0, 0, -c.LookbackDays))
	}
	if end.Before(start) {
		return "", "", fmt.Errorf("invalid date range: end %s is before start %s", end, start)
	}
	return start, end, nil
}

// NewsAPIKey reads the news credential from the configured environment
// variable. An empty result is a valid configuration: sentiment features
// degrade instead of failing.
func (c *Config) NewsAPIKey() string {
	if c.News.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.News.APIKeyEnv)
}

// DSN builds the postgres connection string, preferring the dsn_env
// override when set.
func (c *Config) DSN() string {
	if c.DB.DSNEnv != "" {
		if dsn := os.Getenv(c.DB.DSNEnv); dsn != "" {
			return dsn
		}
	}
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		c.DB.Host, c.DB.Port, c.DB.Name, c.DB.User, os.Getenv(c.DB.Password))
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if len(c.Tickers) == 0 {
		c.Tickers = []string{"AAPL", "MSFT", "TSLA"}
	}
	if c.LookbackDays == 0 {
		c.LookbackDays = 30
	}
	if len(c.Indices) == 0 {
		c.Indices = map[string]string{
			"VIX":      "^VIX",
			"NIFTY 50": "^NSEI",
			"SENSEX":   "^BSESN",
			"S&P 500":  "^GSPC",
			"NASDAQ":   "^IXIC",
		}
	}
	if c.Prices.Provider == "" {
		c.Prices.Provider = "STOOQ"
	}
	if c.News.Provider == "" {
		c.News.Provider = "NEWSAPI"
	}
	if c.News.PageSize == 0 {
		c.News.PageSize = 5
	}
	if c.News.Language == "" {
		c.News.Language = "en"
	}
	if c.News.SortBy == "" {
		c.News.SortBy = "relevancy"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Refresh.At == "" {
		c.Refresh.At = "09:00"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
