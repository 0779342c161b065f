package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"StockScreener/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols without explicit bars get a generated series around Base.
type MockFetcher struct {
	Bars      map[string][]model.Bar
	Prices    map[string]float64
	Symbols   []string
	Base      float64
	Days      int
	PricesErr error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context) (map[string][]model.Bar, error) {
	out := make(map[string][]model.Bar, len(m.Bars)+len(m.Symbols))
	for sym, bars := range m.Bars {
		out[sym] = bars
	}
	for i, sym := range m.Symbols {
		if _, ok := out[sym]; ok {
			continue
		}
		out[sym] = generateMockBars(m.Base*(1+float64(i)*0.1), m.Days)
	}
	return out, nil
}

func (m *MockFetcher) FetchPrices(_ context.Context) (map[string]float64, error) {
	if m.PricesErr != nil {
		return nil, m.PricesErr
	}
	return m.Prices, nil
}

func generateMockBars(basePrice float64, count int) []model.Bar {
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -count)
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector builds market snapshots from a history source and an optional
// price feed.
type Collector struct {
	History HistoryProvider
	Prices  PriceProvider
	Logger  *logrus.Logger
	now     func() time.Time
}

// NewCollector creates a new Collector. prices may be nil, in which case the
// last close of each series stands in for the current price.
func NewCollector(history HistoryProvider, prices PriceProvider, logger *logrus.Logger) *Collector {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Collector{History: history, Prices: prices, Logger: logger, now: time.Now}
}

// Collect fetches history and prices. A failing price feed is logged and
// replaced by prices derived from history; a failing history source is fatal.
func (c *Collector) Collect(ctx context.Context) (*model.MarketSnapshot, error) {
	history, err := c.History.FetchHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	var prices map[string]float64
	if c.Prices != nil {
		prices, err = c.Prices.FetchPrices(ctx)
		if err != nil {
			c.Logger.WithError(err).Warnf("%s price feed failed, using last close", c.Prices.Name())
			prices = nil
		}
	}
	if len(prices) == 0 {
		prices = PricesFromHistory(history)
	}

	c.Logger.WithFields(logrus.Fields{
		"symbols": len(history),
		"prices":  len(prices),
	}).Info("market snapshot collected")

	return &model.MarketSnapshot{
		History:   history,
		Prices:    prices,
		FetchedAt: c.now(),
	}, nil
}

// PricesFromHistory uses each symbol's last close as its current price.
func PricesFromHistory(history map[string][]model.Bar) map[string]float64 {
	out := make(map[string]float64, len(history))
	for sym, bars := range history {
		if len(bars) > 0 {
			out[sym] = bars[len(bars)-1].Close
		}
	}
	return out
}
