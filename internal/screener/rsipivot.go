package screener

import (
	"sort"

	"StockScreener/internal/detector"
	"StockScreener/internal/model"
)

func (c PivotConfig) options() detector.PivotOptions {
	return detector.PivotOptions{
		FastPeriod:  c.FastPeriod,
		SlowPeriod:  c.SlowPeriod,
		Lookback:    c.PivotLookback,
		MinDistance: c.MinPivotDistance,
	}
}

// RSIPivot runs the RSI pivot-trendline analysis over every symbol with
// history and keeps the buy and sell signals. Neutral reads are dropped.
// Buys come first, then by breakout strength.
func RSIPivot(in Input, cfg PivotConfig) []model.PivotMatch {
	var out []model.PivotMatch
	tracked := in.levels()
	opts := cfg.options()

	for _, symbol := range in.symbols() {
		stock, isTracked := tracked[symbol]
		if cfg.WatchlistOnly && !isTracked {
			continue
		}
		bars := in.History[symbol]
		sig, ok := detector.RSIPivotSignal(bars, opts)
		if !ok || sig.Kind == model.PivotNeutral {
			continue
		}
		out = append(out, model.PivotMatch{
			Symbol: symbol,
			Date:   bars[len(bars)-1].Date,
			Signal: sig,
			Bought: stock.Bought,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Signal.Kind != out[j].Signal.Kind {
			return out[i].Signal.Kind == model.PivotBuy
		}
		return out[i].Signal.Strength > out[j].Signal.Strength
	})
	return out
}
