package screener

import (
	"slices"
	"testing"

	"StockScreener/internal/model"
)

func consolidationInput() Input {
	return Input{
		History: map[string][]model.Bar{
			"FLAT":  flatBars(100, 30),
			"SHORT": flatBars(100, 10),
			"NOLTP": flatBars(100, 30),
			"OTHER": flatBars(50, 30),
		},
		Prices: map[string]float64{
			"FLAT":  100,
			"SHORT": 100,
			"OTHER": 50,
		},
		Watchlist: []model.StockLevels{{Symbol: "FLAT"}, {Symbol: "SHORT"}, {Symbol: "NOLTP"}},
	}
}

func TestConsolidation_FlatWindow(t *testing.T) {
	report := Consolidation(consolidationInput(), DefaultConsolidationConfig())

	got := matchSymbols(report.Matches, func(m model.ConsolidationMatch) string { return m.Symbol })
	if !slices.Equal(got, []string{"FLAT", "OTHER"}) {
		t.Fatalf("expected FLAT and OTHER, got %v", got)
	}
	m := report.Matches[0]
	if m.Score.Total != 10 {
		t.Errorf("expected score 10, got %d", m.Score.Total)
	}
	if m.Details.Name != "Rectangle" || m.NearLevel == nil {
		t.Errorf("expected rectangle near a level, got %+v / %+v", m.Details, m.NearLevel)
	}
	if len(report.Patterns) != 2 || len(report.Levels) != 2 {
		t.Errorf("expected two pattern and S/R rows, got %d and %d", len(report.Patterns), len(report.Levels))
	}
}

func TestConsolidation_Filters(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*ConsolidationConfig)
		matches  []string
		patterns int
	}{
		{"watchlist only", func(c *ConsolidationConfig) { c.WatchlistOnly = true }, []string{"FLAT"}, 1},
		{"pattern filter miss", func(c *ConsolidationConfig) { c.PatternFilter = string(model.PatternFlag) }, nil, 0},
		{"pattern filter hit", func(c *ConsolidationConfig) { c.PatternFilter = string(model.PatternRectangle) }, []string{"FLAT", "OTHER"}, 2},
		{"confidence too high", func(c *ConsolidationConfig) { c.MinPatternConfidence = 0.9 }, nil, 0},
		{"bias miss", func(c *ConsolidationConfig) { c.BreakoutBias = model.BiasBullish }, nil, 0},
		{"bias hit", func(c *ConsolidationConfig) { c.BreakoutBias = model.BiasNeutral }, []string{"FLAT", "OTHER"}, 2},
		{"score too high keeps pattern rows", func(c *ConsolidationConfig) { c.MinScore = 11 }, nil, 2},
		{"near S/R", func(c *ConsolidationConfig) { c.NearSupportResistance = true }, []string{"FLAT", "OTHER"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConsolidationConfig()
			tt.mutate(&cfg)
			report := Consolidation(consolidationInput(), cfg)
			got := matchSymbols(report.Matches, func(m model.ConsolidationMatch) string { return m.Symbol })
			if !slices.Equal(got, tt.matches) {
				t.Errorf("matches: expected %v, got %v", tt.matches, got)
			}
			if len(report.Patterns) != tt.patterns || len(report.Levels) != tt.patterns {
				t.Errorf("expected %d pattern/S-R rows, got %d/%d", tt.patterns, len(report.Patterns), len(report.Levels))
			}
		})
	}
}

func TestConsolidation_Empty(t *testing.T) {
	report := Consolidation(Input{}, DefaultConsolidationConfig())
	if report == nil || len(report.Matches) != 0 || len(report.Patterns) != 0 {
		t.Errorf("expected an empty report, got %+v", report)
	}
}
