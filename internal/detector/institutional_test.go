package detector

import (
	"slices"
	"testing"

	"StockScreener/internal/model"
)

func TestInstitutionalActivity(t *testing.T) {
	circular := flatOHLC(100, 60)
	for i := 55; i < 60; i++ {
		circular[i].Volume = 3000
	}
	spring := flatOHLC(100, 60)
	spring[59] = model.Bar{Open: 99, High: 102, Low: 95, Close: 101, Volume: 5000}

	tests := []struct {
		name         string
		bars         []model.Bar
		acc, dist    float64
		manip        float64
		volumeTrend  string
		wantPatterns []string
	}{
		{"flat", flatOHLC(100, 60), 0, 0, 0, VolumeStable, nil},
		{"tight range on rising volume", circular, 0, 0, 0.35, VolumeIncreasing, []string{"Circular Trading Pattern"}},
		{"spring on a volume spike", spring, 0.55, 0, 0.15, VolumeIncreasing, []string{
			"Volume Spike (Bullish)", "Stopping Volume (Bullish)", "Spring Pattern", "Statistical Anomaly (Bullish)",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := InstitutionalActivity(tt.bars)
			if !ok {
				t.Fatal("expected enough history")
			}
			if got.Accumulation != tt.acc || got.Distribution != tt.dist || got.Manipulation != tt.manip {
				t.Errorf("scores = %.2f/%.2f/%.2f, want %.2f/%.2f/%.2f",
					got.Accumulation, got.Distribution, got.Manipulation, tt.acc, tt.dist, tt.manip)
			}
			if got.VolumeTrend != tt.volumeTrend {
				t.Errorf("volume trend = %q, want %q", got.VolumeTrend, tt.volumeTrend)
			}
			if !slices.Equal(got.Patterns, tt.wantPatterns) {
				t.Errorf("patterns = %v, want %v", got.Patterns, tt.wantPatterns)
			}
		})
	}
}

func TestInstitutionalActivity_ShortHistory(t *testing.T) {
	if _, ok := InstitutionalActivity(flatOHLC(100, 49)); ok {
		t.Error("49 bars should be too short")
	}
}

func TestWyckoff(t *testing.T) {
	data := make([]activityBar, 30)
	for i := range data {
		c := 100 + float64(i)
		if i >= 15 {
			c = 114 - float64(i-15)*0.5
		}
		data[i] = activityBar{Bar: ohlc(c, c, c, c), avgVolume: 1000}
	}
	data[14].Volume = 2000

	if !wyckoff(data, true) {
		t.Error("expected distribution after a rise, heavy volume at the top and lower highs")
	}
	if wyckoff(data, false) {
		t.Error("a rising first half is not accumulation")
	}
	data[14].Volume = 1000
	if wyckoff(data, true) {
		t.Error("distribution needs heavy volume at the high")
	}
}
