package screener

import (
	"math"
	"testing"

	"StockScreener/internal/model"
)

// weekBars opens at 100 and closes at 110, with a range of 98..112.
func weekBars(n int, volume float64) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		bars[i] = model.Bar{
			Date:   testStart.AddDate(0, 0, i),
			Open:   100,
			High:   112,
			Low:    98,
			Close:  110,
			Volume: volume,
		}
	}
	return bars
}

func heatmapInput() Input {
	return Input{
		History: map[string][]model.Bar{
			"BIG":   weekBars(10, 1_000_000),
			"SMALL": weekBars(10, 200_000),
			"TINY":  weekBars(10, 1_000),
			"LOOSE": weekBars(10, 500_000),
		},
		Watchlist: []model.StockLevels{
			{Symbol: "BIG", Sector: "Banking"},
			{Symbol: "SMALL", Folder: "Banking"},
			{Symbol: "TINY", Sector: "Hydro"},
		},
	}
}

func TestHeatmap(t *testing.T) {
	out := Heatmap(heatmapInput(), DefaultHeatmapConfig())
	if len(out) != 2 {
		t.Fatalf("expected Banking and Other, got %+v", out)
	}
	bank := out[0]
	if bank.Sector != "Banking" || len(bank.Stocks) != 2 || bank.TotalVolume != 8_400_000 {
		t.Fatalf("unexpected banking sector %+v", bank)
	}
	if out[1].Sector != OtherSector || out[1].Stocks[0].Symbol != "LOOSE" {
		t.Errorf("expected LOOSE under %s, got %+v", OtherSector, out[1])
	}

	s := bank.Stocks[0]
	if s.Symbol != "BIG" || s.TradingDays != 7 || s.TotalVolume != 7_000_000 || s.AvgVolume != 1_000_000 {
		t.Errorf("unexpected BIG summary %+v", s)
	}
	if math.Abs(s.PercentChange-10) > 1e-9 || math.Abs(s.Volatility-14) > 1e-9 {
		t.Errorf("expected 10%% change and 14%% volatility, got %.2f / %.2f", s.PercentChange, s.Volatility)
	}
	if s.RSI != 100 {
		t.Errorf("expected RSI 100 for unchanged closes, got %.2f", s.RSI)
	}
	if math.Abs(bank.AverageChange-10) > 1e-9 {
		t.Errorf("expected average change 10, got %.2f", bank.AverageChange)
	}
}

func TestHeatmap_Options(t *testing.T) {
	cfg := DefaultHeatmapConfig()
	cfg.TopN = 1
	cfg.WatchlistOnly = true
	out := Heatmap(heatmapInput(), cfg)
	if len(out) != 1 || len(out[0].Stocks) != 1 || out[0].Stocks[0].Symbol != "BIG" {
		t.Errorf("expected only BIG, got %+v", out)
	}

	cfg = DefaultHeatmapConfig()
	cfg.AnalysisDays = 0
	if out := Heatmap(heatmapInput(), cfg); out != nil {
		t.Errorf("expected nil for zero days, got %+v", out)
	}
}

func TestHeatmap_NaNVolumeCountsAsZero(t *testing.T) {
	bars := weekBars(7, 1_000_000)
	bars[3].Volume = math.NaN()
	in := Input{
		History:   map[string][]model.Bar{"GAP": bars},
		Watchlist: []model.StockLevels{{Symbol: "GAP", Sector: "Hydro"}},
	}
	cfg := DefaultHeatmapConfig()
	got := Heatmap(in, cfg)
	if len(got) != 1 || len(got[0].Stocks) != 1 {
		t.Fatalf("expected one sector with one stock, got %+v", got)
	}
	s := got[0].Stocks[0]
	if s.TotalVolume != 6_000_000 || math.IsNaN(got[0].TotalVolume) {
		t.Errorf("expected NaN volume to count as 0, got stock %.0f sector %.0f", s.TotalVolume, got[0].TotalVolume)
	}
}
