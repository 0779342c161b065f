package calculator

import (
	"math"

	talib "github.com/markcheno/go-talib"

	"StockScreener/internal/model"
)

// TrueRange is max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(bar model.Bar, prevClose float64) float64 {
	return math.Max(bar.High-bar.Low, math.Max(math.Abs(bar.High-prevClose), math.Abs(bar.Low-prevClose)))
}

// CalculateATR returns the Wilder-smoothed average true range. The first value
// is the simple mean of the first period true ranges; len = len(bars)-period.
// Requires len(bars) >= period+1.
func CalculateATR(bars []model.Bar, period int) []float64 {
	if period <= 0 || len(bars) < period+1 {
		return nil
	}
	atr := talib.Atr(model.Highs(bars), model.Lows(bars), model.Closes(bars), period)
	return atr[period:]
}

// ATRPercent is the mean true range over the first (up to) 14 bar-to-bar moves,
// expressed as a percent of the latest close. Used to size trendline touch bands.
func ATRPercent(bars []model.Bar) float64 {
	n := len(bars)
	if n < 2 {
		return 0
	}
	limit := min(15, n)
	sum := 0.0
	for i := 1; i < limit; i++ {
		sum += TrueRange(bars[i], bars[i-1].Close)
	}
	atr := sum / float64(min(14, n-1))
	last := bars[n-1].Close
	if last == 0 {
		return 0
	}
	return atr / last * 100
}
