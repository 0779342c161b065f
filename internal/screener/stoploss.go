package screener

import (
	"sort"

	"StockScreener/internal/calculator"
	"StockScreener/internal/detector"
	"StockScreener/internal/model"
)

// StoplossLevel returns the stop a held stock is measured against: the stored
// price when it was set by hand, otherwise DefaultPercent below the buy price.
func (c StoplossConfig) StoplossLevel(stock model.StockLevels) (price, percent float64, ok bool) {
	if stock.StoplossManual && stock.StoplossPrice > 0 {
		pct := 0.0
		if stock.BuyPrice > 0 {
			pct = calculator.Round2((stock.BuyPrice - stock.StoplossPrice) / stock.BuyPrice * 100)
		}
		return stock.StoplossPrice, pct, true
	}
	price, ok = stock.AutoStoploss(c.DefaultPercent)
	return price, c.DefaultPercent, ok
}

// Stoploss reports held stocks with a buy price whose price sits within
// AlertPercent of their stop, or below it. Stocks without a traded price fall
// back to their last close. Broken stops come first, then the closest.
func Stoploss(in Input, cfg StoplossConfig) []model.StoplossMatch {
	var out []model.StoplossMatch

	for _, stock := range sortedStocks(in.Watchlist) {
		if !stock.Bought {
			continue
		}
		stop, pct, ok := cfg.StoplossLevel(stock)
		if !ok || !(stop > 0) {
			continue
		}
		bars := in.History[stock.Symbol]
		price, ok := in.price(stock.Symbol)
		if !ok {
			if len(bars) == 0 || !(bars[len(bars)-1].Close > 0) {
				continue
			}
			price = bars[len(bars)-1].Close
		}

		m := model.StoplossMatch{
			Symbol:          stock.Symbol,
			CurrentPrice:    price,
			BuyPrice:        stock.BuyPrice,
			StoplossPrice:   stop,
			StoplossPercent: pct,
			Manual:          stock.StoplossManual,
			ReturnPercent:   calculator.PercentDifference(price, stock.BuyPrice),
			StoplossDiff:    calculator.PercentDifference(price, stop),
			IsBroken:        price <= stop,
		}
		if !cfg.ShowAll && !m.IsBroken && m.StoplossDiff > cfg.AlertPercent {
			continue
		}
		m.Candle = detector.ConfirmCandles(bars)
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsBroken != out[j].IsBroken {
			return out[i].IsBroken
		}
		return out[i].StoplossDiff < out[j].StoplossDiff
	})
	return out
}
