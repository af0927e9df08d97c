package marketdata

import (
	"context"
	"fmt"
	"sync"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"market-sentiment-analyzer/internal/logger"
	"market-sentiment-analyzer/internal/trace"
	"market-sentiment-analyzer/internal/types"
)

// KiteProvider fetches daily bars through the Kite Connect historical-data
// API. The instrument list is loaded once, lazily, to resolve trading
// symbols to instrument tokens.
type KiteProvider struct {
	kc *kiteconnect.Client

	mu            sync.Mutex
	symbolToToken map[string]int
}

var _ Provider = (*KiteProvider)(nil)

// NewKiteProvider creates a Kite-backed price provider.
func NewKiteProvider(apiKey, accessToken string) *KiteProvider {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return &KiteProvider{kc: kc}
}

// History fetches daily candles for one symbol and normalizes them.
func (p *KiteProvider) History(ctx context.Context, ticker string, start, end types.Date) ([]types.PriceBar, error) {
	ctx, span := trace.StartSpan(ctx, "kite.history")
	defer span.End()

	token, err := p.resolveToken(ctx, ticker)
	if err != nil {
		return nil, err
	}

	candles, err := p.kc.GetHistoricalData(token, "day", start.Time(), end.Time(), false, false)
	if err != nil {
		return nil, fmt.Errorf("kite historical data %s: %w", ticker, err)
	}

	bars := make([]types.PriceBar, 0, len(candles))
	for _, c := range candles {
		bars = append(bars, types.PriceBar{
			Date:   types.DateOf(c.Date.Time),
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: int64(c.Volume),
		})
	}
	return normalizeBars(ctx, ticker, bars), nil
}

// resolveToken maps a trading symbol to its instrument token, loading the
// full instrument dump on first use.
func (p *KiteProvider) resolveToken(ctx context.Context, symbol string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.symbolToToken == nil {
		instruments, err := p.kc.GetInstruments()
		if err != nil {
			return 0, fmt.Errorf("kite instruments: %w", err)
		}
		p.symbolToToken = make(map[string]int, len(instruments))
		for _, inst := range instruments {
			p.symbolToToken[inst.Tradingsymbol] = inst.InstrumentToken
		}
		logger.Info(ctx, "Loaded kite instrument mappings", "count", len(p.symbolToToken))
	}

	token, ok := p.symbolToToken[symbol]
	if !ok {
		return 0, fmt.Errorf("unknown kite instrument: %s", symbol)
	}
	return token, nil
}
