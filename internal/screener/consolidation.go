package screener

import (
	"sort"

	"StockScreener/internal/detector"
	"StockScreener/internal/model"
	"StockScreener/internal/strategy"
)

func (c ConsolidationConfig) params() strategy.Params {
	return strategy.Params{
		BBPeriod:      c.BBPeriod,
		ATRPeriod:     c.ATRPeriod,
		RSIPeriod:     c.RSIPeriod,
		SRSensitivity: c.SRSensitivity,
		SRProximity:   c.SRProximity,
	}
}

// passesFilters applies the RSI, pattern, confidence, bias and S/R gates.
// A symbol rejected here appears in none of the three lists.
func (c ConsolidationConfig) passesFilters(a strategy.Analysis) bool {
	ind := a.Indicators
	if c.RequireRSIConfirmation && !ind.RSI.IsConsolidating {
		return false
	}
	if c.PatternFilter != "" && c.PatternFilter != PatternFilterAll && string(ind.Pattern.Pattern) != c.PatternFilter {
		return false
	}
	if ind.Pattern.Confidence < c.MinPatternConfidence {
		return false
	}
	if c.BreakoutBias != "" && c.BreakoutBias != BiasAll && a.Details.BreakoutBias != c.BreakoutBias {
		return false
	}
	if c.NearSupportResistance && !ind.NearSupportOrResist {
		return false
	}
	return true
}

// Consolidation runs the consolidation analyzer and returns its three ranked
// lists: scored matches, pattern recognition and S/R analysis.
func Consolidation(in Input, cfg ConsolidationConfig) *model.ConsolidationReport {
	report := &model.ConsolidationReport{}
	tracked := in.levels()
	params := cfg.params()

	for _, symbol := range in.symbols() {
		if cfg.WatchlistOnly {
			if _, ok := tracked[symbol]; !ok {
				continue
			}
		}
		price, ok := in.price(symbol)
		if !ok {
			continue
		}
		window, ok := in.window(symbol, cfg.LookbackPeriod)
		if !ok {
			continue
		}

		a := strategy.Analyze(window, price, params)
		if !cfg.passesFilters(a) {
			continue
		}

		score := strategy.Score(a.Indicators)
		if score.Total >= cfg.MinScore {
			report.Matches = append(report.Matches, model.ConsolidationMatch{
				Symbol:       symbol,
				CurrentPrice: price,
				Score:        score,
				Indicators:   a.Indicators,
				Details:      a.Details,
				NearLevel:    a.NearLevel,
				Candles:      detector.DetectCandles(window),
			})
		}
		report.Patterns = append(report.Patterns, model.PatternMatch{
			Symbol:       symbol,
			CurrentPrice: price,
			Pattern:      a.Indicators.Pattern,
			Details:      a.Details,
		})
		report.Levels = append(report.Levels, model.SRMatch{
			Symbol:       symbol,
			CurrentPrice: price,
			Levels:       a.Levels,
			NearLevel:    a.NearLevel,
		})
	}

	sort.SliceStable(report.Matches, func(i, j int) bool {
		return report.Matches[i].Score.Total > report.Matches[j].Score.Total
	})
	sort.SliceStable(report.Patterns, func(i, j int) bool {
		return report.Patterns[i].Pattern.Confidence > report.Patterns[j].Pattern.Confidence
	})
	sort.SliceStable(report.Levels, func(i, j int) bool {
		return report.Levels[i].NearLevel != nil && report.Levels[j].NearLevel == nil
	})
	return report
}
