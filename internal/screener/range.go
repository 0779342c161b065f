package screener

import (
	"math"
	"sort"

	"StockScreener/internal/calculator"
	"StockScreener/internal/model"
)

// Range finds user stocks whose net move over the lookback stays inside
// [MinPercentage, MaxPercentage]. Sorted by the tightest range first.
func Range(in Input, cfg RangeConfig) []model.RangeMatch {
	var out []model.RangeMatch

	for _, stock := range sortedStocks(in.Watchlist) {
		if stock.Bought && !cfg.ShowBought {
			continue
		}
		price, ok := in.price(stock.Symbol)
		if !ok {
			continue
		}
		window, ok := in.window(stock.Symbol, cfg.LookbackPeriod)
		if !ok {
			continue
		}

		start := window[0].Close
		if start <= 0 {
			continue
		}
		pr := math.Abs(price-start) / start * 100
		if pr < cfg.MinPercentage || pr > cfg.MaxPercentage {
			continue
		}

		vt := calculator.LinearTrend(calculator.Volumes(window))
		if cfg.CheckVolume && vt >= 0 {
			continue
		}

		out = append(out, model.RangeMatch{
			Symbol:       stock.Symbol,
			CurrentPrice: price,
			StartPrice:   start,
			PriceRange:   calculator.Round2(pr),
			VolumeTrend:  vt,
			Bars:         len(window),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].PriceRange < out[j].PriceRange })
	return out
}

// sortedStocks returns a copy of the user's stocks ordered by symbol.
func sortedStocks(stocks []model.StockLevels) []model.StockLevels {
	out := append([]model.StockLevels(nil), stocks...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
