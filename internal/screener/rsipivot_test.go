package screener

import (
	"testing"

	"StockScreener/internal/model"
)

// pivotBars steps 80 closes by step from start and moves the last one by jump,
// with pivot bumps at bars 40 and 60 on the side the trend leaves behind.
func pivotBars(start, step, jump float64) []model.Bar {
	bars := flatBars(0, 80)
	for i := range bars {
		c := start + step*float64(i)
		if i == len(bars)-1 {
			c = bars[i-1].Close + jump
		}
		bars[i].Open, bars[i].High, bars[i].Low, bars[i].Close = c, c, c, c
	}
	if step < 0 {
		bars[40].High += 5
		bars[60].High += 3
	} else {
		bars[40].Low -= 5
		bars[60].Low -= 3
	}
	return bars
}

func pivotInput() Input {
	return Input{
		History: map[string][]model.Bar{
			"BUYME":  pivotBars(130, -0.4, 6),
			"SELLME": pivotBars(70, 0.4, -6),
			"FLAT":   flatBars(100, 80),
			"SHORT":  flatBars(100, 30),
		},
		Watchlist: []model.StockLevels{{Symbol: "SELLME", Bought: true}},
	}
}

func TestRSIPivot(t *testing.T) {
	got := RSIPivot(pivotInput(), DefaultPivotConfig())
	if len(got) != 2 {
		t.Fatalf("expected a buy and a sell, got %+v", got)
	}
	buy, sell := got[0], got[1]
	if buy.Symbol != "BUYME" || buy.Signal.Kind != model.PivotBuy || buy.Bought {
		t.Errorf("unexpected buy %+v", buy)
	}
	if sell.Symbol != "SELLME" || sell.Signal.Kind != model.PivotSell || !sell.Bought {
		t.Errorf("unexpected sell %+v", sell)
	}
	if want := testStart.AddDate(0, 0, 79); !buy.Date.Equal(want) {
		t.Errorf("date = %s, want %s", buy.Date, want)
	}
	if buy.Key() != "signal_BUYME_buy" || sell.Key() != "signal_SELLME_sell" {
		t.Errorf("unexpected keys %q, %q", buy.Key(), sell.Key())
	}
}

func TestRSIPivot_WatchlistOnly(t *testing.T) {
	cfg := DefaultPivotConfig()
	cfg.WatchlistOnly = true
	got := RSIPivot(pivotInput(), cfg)
	if len(got) != 1 || got[0].Symbol != "SELLME" {
		t.Errorf("expected only SELLME, got %+v", got)
	}
}
