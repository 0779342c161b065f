package calculator

import (
	talib "github.com/markcheno/go-talib"

	"StockScreener/internal/model"
)

// CalculateOBV returns on-balance volume, one value per bar, starting at 0 on
// the first bar. Missing volume counts as 0.
func CalculateOBV(bars []model.Bar) []float64 {
	if len(bars) == 0 {
		return nil
	}
	volumes := Volumes(bars)
	// talib starts the running total at the first volume
	obv := talib.Obv(model.Closes(bars), volumes)
	for i := range obv {
		obv[i] -= volumes[0]
	}
	return obv
}

// VolumeSMA returns the rolling mean volume, aligned like CalculateSMA.
func VolumeSMA(bars []model.Bar, period int) []float64 {
	if period <= 0 || len(bars) < period {
		return nil
	}
	return talib.Sma(Volumes(bars), period)[period-1:]
}

// VWAP is the volume-weighted mean of typical prices (H+L+C)/3 over bars.
// ok is false when there is no volume.
func VWAP(bars []model.Bar) (vwap float64, ok bool) {
	var sumPV, sumV float64
	for i, v := range Volumes(bars) {
		b := bars[i]
		sumPV += (b.High + b.Low + b.Close) / 3 * v
		sumV += v
	}
	if sumV <= 0 {
		return 0, false
	}
	return sumPV / sumV, true
}
