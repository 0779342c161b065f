package strategy

import (
	"fmt"

	"StockScreener/internal/model"
)

// scoreContraction awards points for a falling indicator slope.
// Used for BBW, ATR and volume alike.
func scoreContraction(name string, slope float64) model.FactorScore {
	var points int
	switch {
	case slope < -0.1:
		points = 2
	case slope < 0:
		points = 1
	}
	return model.FactorScore{
		Name:       name,
		Points:     points,
		Commentary: fmt.Sprintf("slope %+.3f", slope),
	}
}

// scorePriceRange rewards a tight high-low band.
func scorePriceRange(rangePct float64) model.FactorScore {
	var points int
	switch {
	case rangePct < 3:
		points = 2
	case rangePct < 5:
		points = 1
	}
	return model.FactorScore{
		Name:       "price range",
		Points:     points,
		Commentary: fmt.Sprintf("%.2f%%", rangePct),
	}
}

// scoreDaysInRange rewards closes clustering around their mean.
func scoreDaysInRange(days int) model.FactorScore {
	var points int
	switch {
	case days >= 4:
		points = 2
	case days >= 3:
		points = 1
	}
	return model.FactorScore{
		Name:       "days in range",
		Points:     points,
		Commentary: fmt.Sprintf("%d/5", days),
	}
}

// scoreCloseness rewards trading just under the window high.
// A price at or above the high scores nothing.
func scoreCloseness(closeness float64) model.FactorScore {
	var points int
	switch {
	case closeness > 0 && closeness < 3:
		points = 2
	case closeness > 0 && closeness < 5:
		points = 1
	}
	return model.FactorScore{
		Name:       "closeness to high",
		Points:     points,
		Commentary: fmt.Sprintf("%.2f%% below", closeness),
	}
}

// scoreRSI only counts when RSI itself is consolidating.
// Up to 2 points for the spread plus 1 for a mid-zone (40-60) average.
func scoreRSI(rsi model.RSIConsolidation) model.FactorScore {
	if !rsi.IsConsolidating {
		return model.FactorScore{Name: "rsi", Commentary: "not ranging"}
	}
	var points int
	switch {
	case rsi.RSIRange < 5:
		points = 2
	case rsi.RSIRange < 10:
		points = 1
	}
	avg := (rsi.RangeLow + rsi.RangeHigh) / 2
	if avg >= 40 && avg <= 60 {
		points++
	}
	return model.FactorScore{
		Name:       "rsi",
		Points:     points,
		Commentary: fmt.Sprintf("range %.1f around %.0f", rsi.RSIRange, avg),
	}
}

// scorePattern weighs classifier confidence, with a bonus for classic shapes.
func scorePattern(p model.PatternResult) model.FactorScore {
	var points int
	switch {
	case p.Confidence >= 0.7:
		points = 2
	case p.Confidence >= 0.6:
		points = 1
	}
	if p.Pattern.IsClassic() {
		points++
	}
	return model.FactorScore{
		Name:       "pattern",
		Points:     points,
		Commentary: fmt.Sprintf("%s (%.1f)", p.Pattern, p.Confidence),
	}
}

func scoreNearSR(near bool) model.FactorScore {
	if near {
		return model.FactorScore{Name: "near S/R", Points: 1, Commentary: "yes"}
	}
	return model.FactorScore{Name: "near S/R", Commentary: "no"}
}
