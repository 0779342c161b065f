package screener

import (
	"math"
	"sort"

	"StockScreener/internal/detector"
	"StockScreener/internal/model"
)

// tier returns the highest threshold score reaches, 0 when none.
func (c InstitutionalConfig) tier(score float64) float64 {
	var out float64
	for _, t := range c.Thresholds {
		if score >= t && t > out {
			out = t
		}
	}
	return out
}

// Institutional scores every user stock with a positive price for
// institutional activity and keeps those with any score at MinScore or above.
// Highest accumulation or distribution first.
func Institutional(in Input, cfg InstitutionalConfig) []model.ActivityMatch {
	var out []model.ActivityMatch
	for _, stock := range sortedStocks(in.Watchlist) {
		price, ok := in.price(stock.Symbol)
		if !ok {
			continue
		}
		a, ok := detector.InstitutionalActivity(in.History[stock.Symbol])
		if !ok {
			continue
		}
		_, top := a.Dominant()
		if top < cfg.MinScore {
			continue
		}
		out = append(out, model.ActivityMatch{
			Symbol:       stock.Symbol,
			CurrentPrice: price,
			Activity:     a,
			Tier:         cfg.tier(top),
			Bought:       stock.Bought,
		})
	}

	side := func(m model.ActivityMatch) float64 {
		return math.Max(m.Activity.Accumulation, m.Activity.Distribution)
	}
	sort.SliceStable(out, func(i, j int) bool { return side(out[i]) > side(out[j]) })
	return out
}
