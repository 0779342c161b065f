package calculator

import (
	"math"

	"StockScreener/internal/model"
)

// CalculateRSI computes the Wilder-smoothed RSI series. The first value uses
// the simple average gain/loss over the first period changes; every later value
// folds in one more change. len = len(bars)-period, empty if len(bars) < period+1.
func CalculateRSI(bars []model.Bar, period int) []float64 {
	if period <= 0 || len(bars) < period+1 {
		return nil
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		gain, loss := splitChange(bars[i].Close - bars[i-1].Close)
		avgGain += gain
		avgLoss += loss
	}
	p := float64(period)
	avgGain /= p
	avgLoss /= p

	out := make([]float64, 0, len(bars)-period)
	out = append(out, rsiValue(avgGain, avgLoss))
	for i := period + 1; i < len(bars); i++ {
		gain, loss := splitChange(bars[i].Close - bars[i-1].Close)
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out = append(out, rsiValue(avgGain, avgLoss))
	}
	return out
}

// LastRSI returns the most recent RSI rounded to 2 decimals.
// ok is false when there are not enough bars.
func LastRSI(bars []model.Bar, period int) (rsi float64, ok bool) {
	values := CalculateRSI(bars, period)
	if len(values) == 0 {
		return 0, false
	}
	return Round2(values[len(values)-1]), true
}

// CheckRSIConsolidation reports whether the last ten RSI readings stayed within
// threshold points of each other. Fewer than 5 readings is never consolidating.
func CheckRSIConsolidation(bars []model.Bar, period int, threshold float64) model.RSIConsolidation {
	values := CalculateRSI(bars, period)
	if len(values) < 5 {
		return model.RSIConsolidation{Values: values}
	}
	recent := values[len(values)-min(10, len(values)):]

	low, high := recent[0], recent[0]
	for _, v := range recent[1:] {
		low = math.Min(low, v)
		high = math.Max(high, v)
	}
	spread := high - low
	return model.RSIConsolidation{
		IsConsolidating: spread <= threshold,
		RangeLow:        low,
		RangeHigh:       high,
		RSIRange:        spread,
		Values:          recent,
	}
}

// SimpleRSI averages every gain and loss over the whole window without
// smoothing. It is what the weekly heatmap shows. Neutral 50 below two bars.
func SimpleRSI(bars []model.Bar) float64 {
	if len(bars) < 2 {
		return 50
	}
	var gains, losses float64
	for i := 1; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		if change >= 0 {
			gains += change
		} else {
			losses -= change
		}
	}
	n := float64(len(bars) - 1)
	return rsiValue(gains/n, losses/n)
}

func splitChange(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
