package screener

import (
	"sort"

	"StockScreener/internal/calculator"
	"StockScreener/internal/model"
)

// OtherSector groups stocks without a sector or folder.
const OtherSector = "Other"

func sectorOf(stock model.StockLevels) string {
	switch {
	case stock.Sector != "":
		return stock.Sector
	case stock.Folder != "":
		return stock.Folder
	default:
		return OtherSector
	}
}

// summarize builds the weekly summary of bars. ok is false when the first
// open is not positive.
func summarize(symbol string, bars []model.Bar, days int) (model.HeatmapStock, bool) {
	first, last := bars[0], bars[len(bars)-1]
	if first.Open <= 0 {
		return model.HeatmapStock{}, false
	}
	high, low := first.High, first.Low
	var volume float64
	for _, v := range calculator.Volumes(bars) {
		volume += v
	}
	for _, b := range bars {
		high = max(high, b.High)
		low = min(low, b.Low)
	}
	return model.HeatmapStock{
		Symbol:        symbol,
		Open:          first.Open,
		Close:         last.Close,
		High:          high,
		Low:           low,
		PercentChange: (last.Close - first.Open) / first.Open * 100,
		TotalVolume:   volume,
		AvgVolume:     volume / float64(days),
		Volatility:    (high - low) / first.Open * 100,
		RSI:           calculator.SimpleRSI(bars),
		TradingDays:   len(bars),
	}, true
}

// Heatmap summarizes the last AnalysisDays bars of each symbol and groups the
// TopN most traded stocks per sector. Sectors are ordered by total volume.
func Heatmap(in Input, cfg HeatmapConfig) []model.HeatmapSector {
	if cfg.AnalysisDays <= 0 {
		return nil
	}
	tracked := in.levels()
	bySector := make(map[string][]model.HeatmapStock)

	for _, symbol := range in.symbols() {
		stock, isTracked := tracked[symbol]
		if cfg.WatchlistOnly && !isTracked {
			continue
		}
		bars := model.Tail(in.History[symbol], cfg.AnalysisDays)
		if len(bars) == 0 {
			continue
		}
		s, ok := summarize(symbol, bars, cfg.AnalysisDays)
		if !ok || s.TotalVolume < cfg.MinVolume {
			continue
		}
		s.Sector = sectorOf(stock)
		bySector[s.Sector] = append(bySector[s.Sector], s)
	}

	out := make([]model.HeatmapSector, 0, len(bySector))
	for name, stocks := range bySector {
		sort.SliceStable(stocks, func(i, j int) bool { return stocks[i].TotalVolume > stocks[j].TotalVolume })
		if cfg.TopN > 0 && len(stocks) > cfg.TopN {
			stocks = stocks[:cfg.TopN]
		}
		sec := model.HeatmapSector{Sector: name, Stocks: stocks}
		for _, s := range stocks {
			sec.TotalVolume += s.TotalVolume
			sec.AverageChange += s.PercentChange
		}
		sec.AverageChange /= float64(len(stocks))
		out = append(out, sec)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalVolume != out[j].TotalVolume {
			return out[i].TotalVolume > out[j].TotalVolume
		}
		return out[i].Sector < out[j].Sector
	})
	return out
}
