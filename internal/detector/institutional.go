package detector

import (
	"math"

	"StockScreener/internal/calculator"
	"StockScreener/internal/model"
)

const (
	activityWindow   = 30
	activityMinBars  = 50
	activityAvgSpan  = 20
	anomalySpan      = 30
	volumeSpikeRatio = 2.0
	obvDivergence    = 0.15
	vwapDeviation    = 0.03
)

// Volume trend labels of InstitutionalActivity.
const (
	VolumeIncreasing = "increasing"
	VolumeDecreasing = "decreasing"
	VolumeStable     = "stable"
)

// activityBar is a bar with the volume statistics computed over the whole
// history. avgVolume is 0 before the first full average window.
type activityBar struct {
	model.Bar
	obv       float64
	avgVolume float64
	relVolume float64
	anomaly   bool
}

func activityBars(bars []model.Bar) []activityBar {
	obv := calculator.CalculateOBV(bars)
	avg := calculator.VolumeSMA(bars, activityAvgSpan)
	volumes := calculator.Volumes(bars)

	out := make([]activityBar, len(bars))
	for i, b := range bars {
		b.Volume = volumes[i]
		out[i] = activityBar{Bar: b, obv: obv[i]}
		if k := i - (activityAvgSpan - 1); k >= 0 && k < len(avg) {
			out[i].avgVolume = avg[k]
			if avg[k] > 0 {
				out[i].relVolume = volumes[i] / avg[k]
			}
		}
	}
	markAnomalies(out)
	return out
}

// markAnomalies flags bars whose close-to-close change sits more than two
// standard deviations from the mean change of the 30 bars ending on it.
func markAnomalies(bars []activityBar) {
	changes := make([]float64, len(bars))
	valid := make([]bool, len(bars))
	for i := 1; i < len(bars); i++ {
		if prev := bars[i-1].Close; prev > 0 {
			changes[i], valid[i] = (bars[i].Close-prev)/prev, true
		}
	}
	for i := anomalySpan; i < len(bars); i++ {
		window := changes[i-anomalySpan+1 : i+1]
		ok := true
		for _, v := range valid[i-anomalySpan+1 : i+1] {
			ok = ok && v
		}
		if !ok {
			continue
		}
		m := mean(window)
		var variance float64
		for _, c := range window {
			variance += (c - m) * (c - m)
		}
		sd := math.Sqrt(variance / anomalySpan)
		if sd == 0 {
			sd = 0.001
		}
		bars[i].anomaly = math.Abs(changes[i]-m)/sd > 2
	}
}

func volumeTrend(recent []activityBar) string {
	n := len(recent)
	var last, prev float64
	for _, b := range recent[n-5:] {
		last += b.Volume
	}
	for _, b := range recent[n-10 : n-5] {
		prev += b.Volume
	}
	switch {
	case last > prev*1.5:
		return VolumeIncreasing
	case last < prev*0.75:
		return VolumeDecreasing
	}
	return VolumeStable
}

// wyckoff checks for a falling first half (rising when top), heavy volume at
// the window's extreme, and a second half of never-lower lows (never-higher
// highs when top).
func wyckoff(data []activityBar, top bool) bool {
	half := len(data) / 2
	first, second := data[:half], data[half:]
	a, b := first[0].Close, first[len(first)-1].Close
	if (!top && !(a > b)) || (top && !(a < b)) {
		return false
	}
	ext := 0
	for i, d := range data {
		if (!top && d.Low < data[ext].Low) || (top && d.High > data[ext].High) {
			ext = i
		}
	}
	if !(data[ext].Volume > data[ext].avgVolume*1.5) {
		return false
	}
	for i := 1; i < len(second); i++ {
		if (!top && second[i].Low < second[i-1].Low) || (top && second[i].High > second[i-1].High) {
			return false
		}
	}
	return true
}

// spring reports a bar among the last five that dipped below the low of the
// ten before and closed back above it on above-average volume. With top it
// looks for the mirrored upthrust above the prior high.
func spring(data []activityBar, top bool) bool {
	n := len(data)
	recent, previous := data[n-5:], data[n-15:n-5]
	level := previous[0].Low
	if top {
		level = previous[0].High
	}
	for _, d := range previous[1:] {
		if top {
			level = math.Max(level, d.High)
		} else {
			level = math.Min(level, d.Low)
		}
	}
	for _, d := range recent {
		if !(d.Volume > d.avgVolume) {
			continue
		}
		if (!top && d.Low < level && d.Close > level) || (top && d.High > level && d.Close < level) {
			return true
		}
	}
	return false
}

// circularTrading is a last-ten-bar range under 3% on 1.5 times the volume of
// the ten bars before.
func circularTrading(data []activityBar) bool {
	n := len(data)
	recent := data[n-10:]
	high, low := recent[0].High, recent[0].Low
	var vol, prevVol float64
	for _, d := range recent {
		high, low = math.Max(high, d.High), math.Min(low, d.Low)
		vol += d.Volume
	}
	for _, d := range data[n-20 : n-10] {
		prevVol += d.Volume
	}
	return low > 0 && (high-low)/low < 0.03 && vol > prevVol*1.5
}

// InstitutionalActivity scores the last 30 bars for accumulation, distribution
// and manipulation. Volume averages, OBV and anomalies are computed over the
// whole history first. ok is false with fewer than 50 bars.
func InstitutionalActivity(bars []model.Bar) (a model.InstitutionalActivity, ok bool) {
	if len(bars) < activityMinBars {
		return a, false
	}
	all := activityBars(bars)
	recent := all[len(all)-activityWindow:]
	latest, prev := recent[len(recent)-1], recent[len(recent)-2]
	up, down := latest.Close > prev.Close, latest.Close < prev.Close
	hit := func(score *float64, points float64, pattern string) {
		*score += points
		a.Patterns = append(a.Patterns, pattern)
	}

	if latest.relVolume > volumeSpikeRatio {
		switch {
		case up:
			hit(&a.Accumulation, 0.2, "Volume Spike (Bullish)")
		case down:
			hit(&a.Distribution, 0.2, "Volume Spike (Bearish)")
		}
	}
	a.VolumeTrend = volumeTrend(recent)

	if first := recent[0]; first.Close > 0 {
		priceChange := (latest.Close - first.Close) / first.Close
		base := math.Abs(first.obv)
		if base == 0 {
			base = 1
		}
		obvChange := (latest.obv - first.obv) / base
		if priceChange < 0 && obvChange > obvDivergence {
			hit(&a.Accumulation, 0.25, "OBV Bullish Divergence")
		}
		if priceChange > 0 && obvChange < -obvDivergence {
			hit(&a.Distribution, 0.25, "OBV Bearish Divergence")
		}
	}

	var avgRange float64
	for _, d := range recent {
		avgRange += d.High - d.Low
	}
	avgRange /= float64(len(recent))
	if latest.Volume > latest.avgVolume*1.5 && latest.High-latest.Low < avgRange*0.7 {
		switch {
		case up:
			hit(&a.Accumulation, 0.15, "Narrow Range, High Volume (Bullish)")
		case down:
			hit(&a.Distribution, 0.15, "Narrow Range, High Volume (Bearish)")
		}
	}

	if vwap, ok := calculator.VWAP(bars); ok && vwap > 0 {
		if dev := (latest.Close - vwap) / vwap; math.Abs(dev) > vwapDeviation {
			name := "Below VWAP"
			if dev > 0 {
				name = "Above VWAP"
			}
			hit(&a.Manipulation, 0.2, name)
		}
	}

	if wyckoff(recent, false) {
		hit(&a.Accumulation, 0.3, "Wyckoff Accumulation")
	}
	if wyckoff(recent, true) {
		hit(&a.Distribution, 0.3, "Wyckoff Distribution")
	}

	if latest.Volume > latest.avgVolume*2 && body(latest.Bar) < (latest.High-latest.Low)*0.3 {
		name := "Stopping Volume (Bearish)"
		if up {
			name = "Stopping Volume (Bullish)"
		}
		hit(&a.Manipulation, 0.15, name)
	}
	if spring(recent, false) {
		hit(&a.Accumulation, 0.2, "Spring Pattern")
	}
	if spring(recent, true) {
		hit(&a.Distribution, 0.2, "Upthrust Pattern")
	}

	var bull, bear int
	for _, d := range recent {
		if !d.anomaly || !(d.relVolume > 1.5) {
			continue
		}
		switch {
		case bullish(d.Bar):
			bull++
		case bearish(d.Bar):
			bear++
		}
	}
	switch {
	case bull > bear:
		hit(&a.Accumulation, 0.15, "Statistical Anomaly (Bullish)")
	case bear > bull:
		hit(&a.Distribution, 0.15, "Statistical Anomaly (Bearish)")
	}

	if circularTrading(recent) {
		hit(&a.Manipulation, 0.35, "Circular Trading Pattern")
	}

	a.Accumulation = calculator.Round2(math.Min(1, a.Accumulation))
	a.Distribution = calculator.Round2(math.Min(1, a.Distribution))
	a.Manipulation = calculator.Round2(math.Min(1, a.Manipulation))
	return a, true
}
