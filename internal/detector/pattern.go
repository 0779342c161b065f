package detector

import (
	"math"

	"StockScreener/internal/calculator"
	"StockScreener/internal/model"
)

const (
	minPatternBars = 10
	patternWindow  = 20
)

var patternTable = map[model.PatternType]model.PatternDetails{
	model.PatternRectangle: {
		Name:         "Rectangle",
		BreakoutBias: model.BiasNeutral,
		Description:  "Price bounded by horizontal support and resistance",
	},
	model.PatternAscendingTriangle: {
		Name:         "Ascending Triangle",
		BreakoutBias: model.BiasBullish,
		Description:  "Horizontal resistance with rising support",
	},
	model.PatternDescendingTriangle: {
		Name:         "Descending Triangle",
		BreakoutBias: model.BiasBearish,
		Description:  "Horizontal support with falling resistance",
	},
	model.PatternSymmetricalTriangle: {
		Name:         "Symmetrical Triangle",
		BreakoutBias: model.BiasNeutral,
		Description:  "Converging support and resistance",
	},
	model.PatternPennant: {
		Name:         "Pennant",
		BreakoutBias: model.BiasTrendContinuation,
		Description:  "Small symmetrical triangle after a strong move",
	},
	model.PatternFlag: {
		Name:         "Flag",
		BreakoutBias: model.BiasTrendContinuation,
		Description:  "Rectangle pattern against the prior trend",
	},
	model.PatternWedge: {
		Name:         "Wedge",
		BreakoutBias: model.BiasReversal,
		Description:  "Converging trendlines in same direction",
	},
	model.PatternUnknown: {
		Name:         "Unknown Pattern",
		BreakoutBias: model.BiasUnknown,
		Description:  "No clear pattern detected",
	},
}

// Details returns the static descriptor for a pattern; anything unrecognised
// maps to the unknown descriptor.
func Details(p model.PatternType) model.PatternDetails {
	if d, ok := patternTable[p]; ok {
		return d
	}
	return patternTable[model.PatternUnknown]
}

// ClassifyPattern fits lines through the highs and lows of the last 20 bars and
// names the consolidation shape they form. Slopes are percent of the average
// high per bar. Rules are tried in order and the first match wins, which leaves
// pennant and wedge shadowed by the triangle rules for most inputs.
func ClassifyPattern(bars []model.Bar) model.PatternResult {
	if len(bars) < minPatternBars {
		return model.PatternResult{Pattern: model.PatternUnknown}
	}
	recent := model.Tail(bars, patternWindow)

	highPts := make([]calculator.Point, len(recent))
	lowPts := make([]calculator.Point, len(recent))
	maxHigh, minLow := math.Inf(-1), math.Inf(1)
	sumHigh := 0.0
	for i, b := range recent {
		highPts[i] = calculator.Point{X: float64(i), Y: b.High}
		lowPts[i] = calculator.Point{X: float64(i), Y: b.Low}
		maxHigh = math.Max(maxHigh, b.High)
		minLow = math.Min(minLow, b.Low)
		sumHigh += b.High
	}
	avg := sumHigh / float64(len(recent))
	// no price scale to normalize against
	if !(avg > 0) {
		return model.PatternResult{Pattern: model.PatternUnknown}
	}

	m := model.PatternMetrics{
		HighSlope:    calculator.LinearRegression(highPts).Slope / avg * 100,
		LowSlope:     calculator.LinearRegression(lowPts).Slope / avg * 100,
		RangePercent: (maxHigh - minLow) / avg * 100,
	}

	pattern, confidence := classify(m)
	return model.PatternResult{Pattern: pattern, Confidence: confidence, Metrics: m}
}

func classify(m model.PatternMetrics) (model.PatternType, float64) {
	h, l, r := m.HighSlope, m.LowSlope, m.RangePercent
	switch {
	case math.Abs(h) < 0.2 && math.Abs(l) < 0.2 && r < 10:
		return model.PatternRectangle, 0.8
	case math.Abs(h) < 0.2 && l > 0.2:
		return model.PatternAscendingTriangle, 0.7
	case math.Abs(l) < 0.2 && h < -0.2:
		return model.PatternDescendingTriangle, 0.7
	case h < -0.1 && l > 0.1:
		return model.PatternSymmetricalTriangle, 0.6
	case h < -0.2 && l > 0.2 && r < 5:
		return model.PatternPennant, 0.6
	case math.Abs(h) < 0.3 && math.Abs(l) < 0.3 && r < 5:
		return model.PatternFlag, 0.5
	case (h < 0 && l < 0 && h < l) || (h > 0 && l > 0 && h > l):
		return model.PatternWedge, 0.6
	default:
		return model.PatternUnknown, 0
	}
}
