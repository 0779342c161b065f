package calculator

import (
	"math"
	"testing"
)

func TestCalculateOBV(t *testing.T) {
	bars := closeBars(10, 11, 11, 9, 12)
	for i, v := range []float64{500, 100, 200, 300, math.NaN()} {
		bars[i].Volume = v
	}
	got := CalculateOBV(bars)
	// NaN volume on the last bar counts as 0
	want := []float64{0, 100, 100, -200, -200}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("obv[%d]: expected %.0f, got %.0f", i, want[i], got[i])
		}
	}
	if CalculateOBV(nil) != nil {
		t.Error("expected nil for no bars")
	}
}

func TestVolumeSMA(t *testing.T) {
	bars := closeBars(1, 2, 3, 4)
	for i := range bars {
		bars[i].Volume = float64(100 * (i + 1))
	}
	got := VolumeSMA(bars, 2)
	want := []float64{150, 250, 350}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if !approxEqual(got[i], want[i], 1e-9) {
			t.Errorf("avg[%d]: expected %.2f, got %.2f", i, want[i], got[i])
		}
	}
	if VolumeSMA(bars, 5) != nil || VolumeSMA(bars, 0) != nil {
		t.Error("expected nil for short input or bad period")
	}
}

func TestVWAP(t *testing.T) {
	bars := closeBars(10, 20)
	bars[0].Volume, bars[1].Volume = 1, 3
	if got, ok := VWAP(bars); !ok || !approxEqual(got, 17.5, 1e-9) {
		t.Errorf("expected 17.5, got %.4f (ok %t)", got, ok)
	}

	bars[0].Volume, bars[1].Volume = 0, 0
	if _, ok := VWAP(bars); ok {
		t.Error("no volume should give no VWAP")
	}
}
