package screener

import (
	"math"
	"sort"

	"StockScreener/internal/detector"
	"StockScreener/internal/model"
)

func (c PredictionConfig) options() detector.PredictionOptions {
	return detector.PredictionOptions{
		Methods:          c.Methods,
		FibLevels:        c.FibLevels,
		StdDevMultiplier: c.StdDevMultiplier,
	}
}

// PredictSupport estimates support zones for every user stock with at least
// MinBars of history and keeps the most confident zone within MaxDistance
// percent of price, above or below. Most confident first.
func PredictSupport(in Input, cfg PredictionConfig) []model.SupportPrediction {
	var out []model.SupportPrediction
	opts := cfg.options()

	for _, stock := range sortedStocks(in.Watchlist) {
		price, ok := in.price(stock.Symbol)
		if !ok {
			continue
		}
		bars := in.History[stock.Symbol]
		if len(bars) < cfg.MinBars {
			continue
		}
		zones := detector.CombineSupports(detector.EstimateSupports(bars, price, opts), price)
		for _, z := range zones {
			distance := (price - z.Price) / z.Price * 100
			if math.Abs(distance) > cfg.MaxDistance || z.Confidence < cfg.MinConfidence {
				continue
			}
			out = append(out, model.SupportPrediction{
				Symbol:       stock.Symbol,
				CurrentPrice: price,
				Zone:         z,
				Distance:     distance,
				Bought:       stock.Bought,
			})
			break
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Zone.Confidence > out[j].Zone.Confidence })
	return out
}
