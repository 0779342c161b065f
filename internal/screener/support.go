package screener

import (
	"sort"

	"StockScreener/internal/calculator"
	"StockScreener/internal/model"
)

func (c SupportConfig) enabled(level int) bool {
	switch level {
	case 1:
		return c.FilterSupport1
	case 2:
		return c.FilterSupport2
	case 3:
		return c.FilterSupport3
	}
	return false
}

// nearSupport returns the first enabled support level whose percent
// difference to price lies within [MinPercentage, MaxPercentage].
func (c SupportConfig) nearSupport(stock model.StockLevels, price float64) (level int, support, diff float64, ok bool) {
	for i, s := range stock.Supports() {
		level := i + 1
		if !c.enabled(level) || s <= 0 {
			continue
		}
		d := calculator.PercentDifference(price, s)
		if d >= c.MinPercentage && d <= c.MaxPercentage {
			return level, s, d, true
		}
	}
	return 0, 0, 0, false
}

// RSISupport finds user stocks that are oversold (RSI <= MaxRSI) and trading
// near one of their configured supports. Sorted by RSI ascending.
func RSISupport(in Input, cfg SupportConfig) []model.SupportMatch {
	var out []model.SupportMatch

	for _, stock := range sortedStocks(in.Watchlist) {
		price, ok := in.price(stock.Symbol)
		if !ok {
			continue
		}
		rsi, ok := calculator.LastRSI(in.History[stock.Symbol], cfg.RSIPeriod)
		if !ok || rsi > cfg.MaxRSI {
			continue
		}
		level, support, diff, ok := cfg.nearSupport(stock, price)
		if !ok {
			continue
		}
		out = append(out, model.SupportMatch{
			Symbol:       stock.Symbol,
			CurrentPrice: price,
			SupportLevel: level,
			SupportPrice: support,
			Difference:   diff,
			RSI:          rsi,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].RSI < out[j].RSI })
	return out
}

// Support finds user stocks trading near one of their configured supports,
// closest first.
func Support(in Input, cfg SupportConfig) []model.SupportMatch {
	var out []model.SupportMatch

	for _, stock := range sortedStocks(in.Watchlist) {
		price, ok := in.price(stock.Symbol)
		if !ok {
			continue
		}
		level, support, diff, ok := cfg.nearSupport(stock, price)
		if !ok {
			continue
		}
		out = append(out, model.SupportMatch{
			Symbol:       stock.Symbol,
			CurrentPrice: price,
			SupportLevel: level,
			SupportPrice: support,
			Difference:   diff,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Difference < out[j].Difference })
	return out
}
