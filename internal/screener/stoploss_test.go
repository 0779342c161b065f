package screener

import (
	"testing"

	"StockScreener/internal/model"
)

func TestStoplossLevel(t *testing.T) {
	cfg := DefaultStoplossConfig()
	tests := []struct {
		name    string
		stock   model.StockLevels
		price   float64
		percent float64
		ok      bool
	}{
		{"auto from buy price", model.StockLevels{BuyPrice: 200}, 170, 15, true},
		{"stale auto price is recomputed", model.StockLevels{BuyPrice: 200, StoplossPrice: 150}, 170, 15, true},
		{"manual price wins", model.StockLevels{BuyPrice: 200, StoplossPrice: 180, StoplossManual: true}, 180, 10, true},
		{"manual without price falls back", model.StockLevels{BuyPrice: 200, StoplossManual: true}, 170, 15, true},
		{"no buy price", model.StockLevels{}, 0, 15, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, pct, ok := cfg.StoplossLevel(tt.stock)
			if price != tt.price || pct != tt.percent || ok != tt.ok {
				t.Errorf("got (%.2f, %.2f, %t), want (%.2f, %.2f, %t)", price, pct, ok, tt.price, tt.percent, tt.ok)
			}
		})
	}
}

func TestStoploss(t *testing.T) {
	in := Input{
		History: map[string][]model.Bar{
			"CLOSE":  flatBars(100, 10),
			"NOLTP":  flatBars(90, 10),
			"SAFE":   flatBars(300, 10),
			"BROKEN": flatBars(80, 10),
		},
		Prices: map[string]float64{"CLOSE": 88, "SAFE": 300, "BROKEN": 80, "NOTHELD": 50},
		Watchlist: []model.StockLevels{
			{Symbol: "SAFE", Bought: true, BuyPrice: 300},
			{Symbol: "CLOSE", Bought: true, BuyPrice: 100},
			{Symbol: "BROKEN", Bought: true, BuyPrice: 100, StoplossPrice: 82, StoplossManual: true},
			{Symbol: "NOLTP", Bought: true, BuyPrice: 100},
			{Symbol: "NOTHELD", BuyPrice: 100},
			{Symbol: "NOBUY", Bought: true},
		},
	}

	got := Stoploss(in, DefaultStoplossConfig())
	want := []struct {
		symbol string
		price  float64
		diff   float64
		broken bool
	}{
		{"BROKEN", 80, -2.44, true},
		{"CLOSE", 88, 3.53, false},
		{"NOLTP", 90, 5.88, false},
	}
	if len(got) != 2 {
		t.Fatalf("expected two stocks within 5%% of their stop, got %+v", got)
	}
	for i, w := range want[:2] {
		m := got[i]
		if m.Symbol != w.symbol || m.CurrentPrice != w.price || m.StoplossDiff != w.diff || m.IsBroken != w.broken {
			t.Errorf("row %d = %+v, want %+v", i, m, w)
		}
	}
	if got[0].ReturnPercent != -20 || !got[0].Manual || got[0].StoplossPercent != 18 {
		t.Errorf("unexpected broken row %+v", got[0])
	}
	if got[1].StoplossPrice != 85 || got[1].Candle.Trend != "sideways" {
		t.Errorf("unexpected close row %+v", got[1])
	}

	cfg := DefaultStoplossConfig()
	cfg.ShowAll = true
	all := Stoploss(in, cfg)
	if len(all) != 4 {
		t.Fatalf("expected every held stock with a buy price, got %d", len(all))
	}
	if all[2].Symbol != want[2].symbol || all[2].StoplossDiff != want[2].diff {
		t.Errorf("last-close fallback row = %+v", all[2])
	}
	if all[3].Symbol != "SAFE" {
		t.Errorf("expected the safest stock last, got %s", all[3].Symbol)
	}
}
