package calculator

import (
	"math"
	"testing"

	"StockScreener/internal/model"
)

func TestPriceRange(t *testing.T) {
	bars := []model.Bar{
		{High: 105, Low: 95, Close: 100},
		{High: 104, Low: 96, Close: 100},
	}
	if got := PriceRange(bars); !approxEqual(got, 10, 1e-9) {
		t.Errorf("expected 10%%, got %f", got)
	}
	if got := PriceRange(nil); got != 0 {
		t.Errorf("expected 0 for empty window, got %f", got)
	}
	if got := PriceRange(constantBars(0, 3)); got != 0 {
		t.Errorf("expected 0 for zero average close, got %f", got)
	}
}

func TestDaysInRange(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   int
	}{
		{"all tight", []float64{50, 100, 100, 101, 99, 100}, 5},
		{"one outlier", []float64{100, 100, 100, 100, 110}, 4},
		{"too short", []float64{100, 100, 100, 100}, 0},
	}
	for _, tt := range tests {
		if got := DaysInRange(closeBars(tt.closes...)); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestClosenessToPreviousHigh(t *testing.T) {
	bars := constantBars(100, 10)
	bars[3].High = 104
	if got := ClosenessToPreviousHigh(bars, 100); !approxEqual(got, 4, 1e-9) {
		t.Errorf("expected 4%%, got %f", got)
	}
	if got := ClosenessToPreviousHigh(bars[:9], 100); got != 0 {
		t.Errorf("expected 0 under ten bars, got %f", got)
	}
	if got := ClosenessToPreviousHigh(bars, 0); got != 0 {
		t.Errorf("expected 0 for non-positive price, got %f", got)
	}
}

func TestVolumeTrend_TreatsNaNAsZero(t *testing.T) {
	bars := closeBars(1, 2, 3, 4, 5)
	for i := range bars {
		bars[i].Volume = 0
	}
	bars[2].Volume = math.NaN()
	if got := VolumeTrend(bars); got != 0 {
		t.Errorf("expected 0 slope with NaN treated as 0, got %f", got)
	}
}

func TestPercentDifference(t *testing.T) {
	tests := []struct {
		current, ref, want float64
	}{
		{102, 100, 2},
		{98, 100, -2},
		{100.333, 100, 0.33},
		{50, 0, 0},
		{50, -1, 0},
	}
	for _, tt := range tests {
		if got := PercentDifference(tt.current, tt.ref); got != tt.want {
			t.Errorf("PercentDifference(%.3f, %.3f): expected %.2f, got %.2f", tt.current, tt.ref, tt.want, got)
		}
	}
}
