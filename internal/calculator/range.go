package calculator

import (
	"math"

	"StockScreener/internal/model"
)

// PriceRange is (max high - min low) / average close * 100 over the window.
func PriceRange(bars []model.Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	high, low := math.Inf(-1), math.Inf(1)
	sum := 0.0
	for _, b := range bars {
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
		sum += b.Close
	}
	avg := sum / float64(len(bars))
	if avg == 0 {
		return 0
	}
	return (high - low) / avg * 100
}

// DaysInRange counts how many of the last five closes sit within 2% of their mean.
func DaysInRange(bars []model.Bar) int {
	if len(bars) < 5 {
		return 0
	}
	recent := bars[len(bars)-5:]
	mid := 0.0
	for _, b := range recent {
		mid += b.Close
	}
	mid /= float64(len(recent))
	if mid == 0 {
		return 0
	}
	count := 0
	for _, b := range recent {
		if math.Abs(b.Close-mid)/mid <= 0.02 {
			count++
		}
	}
	return count
}

// ClosenessToPreviousHigh is how far (in percent of price) the window high sits
// above the current price. Zero for windows shorter than ten bars.
func ClosenessToPreviousHigh(bars []model.Bar, price float64) float64 {
	if len(bars) < 10 || price <= 0 {
		return 0
	}
	high := math.Inf(-1)
	for _, b := range bars {
		high = math.Max(high, b.High)
	}
	return (high - price) / price * 100
}

// VolumeTrend is the slope of the last five volumes. Missing volume counts as 0.
func VolumeTrend(bars []model.Bar) float64 {
	return RecentTrend(Volumes(bars))
}

// Volumes extracts volume with non-finite values replaced by 0.
func Volumes(bars []model.Bar) []float64 {
	out := model.Volumes(bars)
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = 0
		}
	}
	return out
}

// PercentDifference is (current - reference) / reference * 100 rounded to two
// decimals; 0 when reference is not positive.
func PercentDifference(current, reference float64) float64 {
	if reference <= 0 {
		return 0
	}
	return Round2((current - reference) / reference * 100)
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
