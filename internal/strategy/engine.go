package strategy

import (
	"StockScreener/internal/calculator"
	"StockScreener/internal/detector"
	"StockScreener/internal/model"
)

// MaxScore caps the consolidation score.
const MaxScore = 10

// rsiRangeThreshold is the RSI spread that still counts as ranging.
const rsiRangeThreshold = 10

// Params are the indicator settings for one consolidation evaluation.
type Params struct {
	BBPeriod      int
	ATRPeriod     int
	RSIPeriod     int
	SRSensitivity float64
	SRProximity   float64
}

// DefaultParams mirrors the consolidation analyzer defaults.
func DefaultParams() Params {
	return Params{
		BBPeriod:      20,
		ATRPeriod:     14,
		RSIPeriod:     14,
		SRSensitivity: 1.5,
		SRProximity:   3,
	}
}

// Analysis is everything computed for one symbol's window.
type Analysis struct {
	Indicators model.ConsolidationIndicators
	Levels     model.SupportResistance
	NearLevel  *model.NearLevel
	Details    model.PatternDetails
}

// Analyze runs every indicator and detector over the window. window is the
// lookback slice of bars and price the current traded price.
func Analyze(window []model.Bar, price float64, p Params) Analysis {
	levels := detector.DetectSupportResistance(window, p.SRSensitivity)
	near := detector.NearestLevel(levels, price, p.SRProximity)
	pattern := detector.ClassifyPattern(window)

	ind := model.ConsolidationIndicators{
		BBWTrend:            calculator.RecentTrend(calculator.CalculateBBW(window, p.BBPeriod)),
		ATRTrend:            calculator.RecentTrend(calculator.CalculateATR(window, p.ATRPeriod)),
		VolumeTrend:         calculator.VolumeTrend(window),
		PriceRange:          calculator.PriceRange(window),
		DaysInRange:         calculator.DaysInRange(window),
		ClosenessToHigh:     calculator.ClosenessToPreviousHigh(window, price),
		RSI:                 calculator.CheckRSIConsolidation(window, p.RSIPeriod, rsiRangeThreshold),
		Pattern:             pattern,
		NearSupportOrResist: near != nil,
	}
	return Analysis{
		Indicators: ind,
		Levels:     levels,
		NearLevel:  near,
		Details:    detector.Details(pattern.Pattern),
	}
}

// Score adds up the factor points and clamps the total to [0, MaxScore].
func Score(ind model.ConsolidationIndicators) model.ConsolidationScore {
	factors := []model.FactorScore{
		scoreContraction("bbw trend", ind.BBWTrend),
		scoreContraction("atr trend", ind.ATRTrend),
		scoreContraction("volume trend", ind.VolumeTrend),
		scorePriceRange(ind.PriceRange),
		scoreDaysInRange(ind.DaysInRange),
		scoreCloseness(ind.ClosenessToHigh),
		scoreRSI(ind.RSI),
		scorePattern(ind.Pattern),
		scoreNearSR(ind.NearSupportOrResist),
	}

	total := 0
	for _, f := range factors {
		total += f.Points
	}
	total = max(0, min(MaxScore, total))

	return model.ConsolidationScore{Factors: factors, Total: total}
}
