package screener

import (
	"testing"

	"StockScreener/internal/model"
)

func institutionalInput() Input {
	spring := flatBars(100, 60)
	spring[59].Open, spring[59].High, spring[59].Low, spring[59].Close, spring[59].Volume = 99, 102, 95, 101, 5000
	circular := flatBars(100, 60)
	for i := 55; i < 60; i++ {
		circular[i].Volume = 3000
	}
	return Input{
		History: map[string][]model.Bar{
			"SPRING": spring,
			"CIRC":   circular,
			"NOLTP":  spring,
			"SHORT":  flatBars(100, 30),
		},
		Prices: map[string]float64{"SPRING": 101, "CIRC": 100, "SHORT": 100},
		Watchlist: []model.StockLevels{
			{Symbol: "SPRING", Bought: true},
			{Symbol: "CIRC"},
			{Symbol: "NOLTP"},
			{Symbol: "SHORT"},
		},
	}
}

func TestInstitutional(t *testing.T) {
	if got := Institutional(institutionalInput(), DefaultInstitutionalConfig()); len(got) != 0 {
		t.Errorf("no stock reaches 0.65, got %+v", got)
	}

	cfg := DefaultInstitutionalConfig()
	cfg.MinScore = 0.3
	got := Institutional(institutionalInput(), cfg)
	if len(got) != 2 {
		t.Fatalf("expected SPRING and CIRC, got %+v", got)
	}
	first, second := got[0], got[1]
	if first.Symbol != "SPRING" || !first.Bought || first.Activity.Accumulation != 0.55 || first.Tier != 0.5 {
		t.Errorf("unexpected first match %+v", first)
	}
	if first.Key() != "institutional_SPRING_accumulation" {
		t.Errorf("key = %q", first.Key())
	}
	if second.Symbol != "CIRC" || second.Tier != 0 || second.Key() != "institutional_CIRC_manipulation" {
		t.Errorf("unexpected second match %+v", second)
	}
}
