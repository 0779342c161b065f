package calculator

import (
	talib "github.com/markcheno/go-talib"

	"StockScreener/internal/model"
)

// CalculateSMA returns the simple moving average of closes, one value per full
// window, aligned to the tail of bars. Empty when len(bars) < period.
func CalculateSMA(bars []model.Bar, period int) []float64 {
	if period <= 0 || len(bars) < period {
		return nil
	}
	return talib.Sma(model.Closes(bars), period)[period-1:]
}

// CalculateStdDev returns the population standard deviation of closes over
// each full window, aligned like CalculateSMA.
func CalculateStdDev(bars []model.Bar, period int) []float64 {
	if period <= 0 || len(bars) < period {
		return nil
	}
	// talib works from running sums of squares; centering on the first close
	// keeps a flat series at exactly zero.
	closes := model.Closes(bars)
	ref := closes[0]
	for i := range closes {
		closes[i] -= ref
	}
	return talib.StdDev(closes, period, 1)[period-1:]
}

// CalculateBBW returns Bollinger Band Width as a percent of the middle band:
// ((SMA+2SD) - (SMA-2SD)) / SMA * 100. A zero middle band yields 0.
func CalculateBBW(bars []model.Bar, period int) []float64 {
	sma := CalculateSMA(bars, period)
	if len(sma) == 0 {
		return nil
	}
	sd := CalculateStdDev(bars, period)
	out := make([]float64, len(sd))
	for i := range sd {
		if sma[i] == 0 {
			continue
		}
		upper := sma[i] + 2*sd[i]
		lower := sma[i] - 2*sd[i]
		out[i] = (upper - lower) / sma[i] * 100
	}
	return out
}

// CalculateEMA returns the exponential moving average of closes seeded with the
// SMA of the first window, aligned like CalculateSMA.
func CalculateEMA(bars []model.Bar, period int) []float64 {
	if period <= 0 || len(bars) < period {
		return nil
	}
	return talib.Ema(model.Closes(bars), period)[period-1:]
}
