package screener

import (
	"math"
	"sort"

	"StockScreener/internal/detector"
	"StockScreener/internal/model"
)

func (c TrendlineConfig) directions() []model.Direction {
	switch c.TrendDirection {
	case string(model.DirectionUp):
		return []model.Direction{model.DirectionUp}
	case string(model.DirectionDown):
		return []model.Direction{model.DirectionDown}
	default:
		return []model.Direction{model.DirectionUp, model.DirectionDown}
	}
}

func (c TrendlineConfig) detectorConfig() detector.TrendlineConfig {
	return detector.TrendlineConfig{
		MinTouches:       c.MinTouches,
		ATRMultiplier:    c.ATRMultiplier,
		MinTrendDuration: c.MinTrendDuration,
	}
}

// Trendlines finds symbols trading within ProximityThreshold percent of a
// qualifying trendline. With TrendDirection "both" a symbol can match twice.
// Ranked by quality, then by absolute distance.
func Trendlines(in Input, cfg TrendlineConfig) []model.TrendlineMatch {
	var out []model.TrendlineMatch
	tracked := in.levels()
	dcfg := cfg.detectorConfig()
	minRank := cfg.MinTrendQuality.Rank()

	for _, symbol := range in.symbols() {
		stock, isTracked := tracked[symbol]
		if cfg.WatchlistOnly && !isTracked {
			continue
		}
		if stock.Bought && !cfg.ShowBought {
			continue
		}
		price, ok := in.price(symbol)
		if !ok {
			continue
		}
		window, ok := in.window(symbol, cfg.LookbackPeriod)
		if !ok {
			continue
		}

		for _, dir := range cfg.directions() {
			tl := detector.DetectTrendline(window, dir, dcfg)
			if tl == nil {
				continue
			}
			confirmed := detector.VolumeConfirmed(tl)
			if cfg.RequireVolumeConfirmation && !confirmed {
				continue
			}
			if tl.Quality.Rank() < minRank {
				continue
			}
			value := tl.ValueAt(len(window) - 1)
			dist := detector.DistancePercent(price, value)
			if math.Abs(dist) > cfg.ProximityThreshold {
				continue
			}
			out = append(out, model.TrendlineMatch{
				Symbol:          symbol,
				CurrentPrice:    price,
				Trendline:       *tl,
				TrendlineValue:  value,
				Distance:        dist,
				VolumeConfirmed: confirmed,
				Bought:          stock.Bought,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Trendline.Quality.Rank(), out[j].Trendline.Quality.Rank()
		if ri != rj {
			return ri > rj
		}
		return math.Abs(out[i].Distance) < math.Abs(out[j].Distance)
	})
	return out
}
