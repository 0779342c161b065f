// Package screener runs the watchlist screens over a market snapshot. Every
// screener is a pure function of its Input and options.
package screener

import (
	"fmt"
	"time"

	"StockScreener/internal/model"
)

// Names of the individual screens, as accepted by Only.
var Names = []model.ScanType{
	model.ScanConsolidation,
	model.ScanRange,
	model.ScanTrendline,
	model.ScanRSISupport,
	model.ScanSupport,
	model.ScanHeatmap,
	model.ScanStoploss,
	model.ScanSupportPrediction,
	model.ScanRSIPivot,
	model.ScanInstitutional,
}

// Only returns a copy of cfg with every screener disabled except the named ones.
func Only(cfg Config, names ...string) (Config, error) {
	if len(names) == 0 {
		return cfg, nil
	}
	enabled := make(map[model.ScanType]bool, len(names))
	for _, n := range names {
		t := model.ScanType(n)
		known := false
		for _, k := range Names {
			if k == t {
				known = true
				break
			}
		}
		if !known {
			return cfg, fmt.Errorf("unknown screener %q", n)
		}
		enabled[t] = true
	}
	cfg.Consolidation.Enabled = enabled[model.ScanConsolidation]
	cfg.Range.Enabled = enabled[model.ScanRange]
	cfg.Trendline.Enabled = enabled[model.ScanTrendline]
	cfg.RSISupport.Enabled = enabled[model.ScanRSISupport]
	cfg.Support.Enabled = enabled[model.ScanSupport]
	cfg.Heatmap.Enabled = enabled[model.ScanHeatmap]
	cfg.Stoploss.Enabled = enabled[model.ScanStoploss]
	cfg.SupportPrediction.Enabled = enabled[model.ScanSupportPrediction]
	cfg.RSIPivot.Enabled = enabled[model.ScanRSIPivot]
	cfg.Institutional.Enabled = enabled[model.ScanInstitutional]
	return cfg, nil
}

// RunAll runs every enabled screener. RunID is left to the caller.
func RunAll(in Input, cfg Config, now time.Time) *model.ScanReport {
	report := &model.ScanReport{
		StartedAt: now,
		Symbols:   len(in.History),
	}
	if cfg.Consolidation.Enabled {
		report.Consolidation = Consolidation(in, cfg.Consolidation)
	}
	if cfg.Range.Enabled {
		report.Range = Range(in, cfg.Range)
	}
	if cfg.Trendline.Enabled {
		report.Trendlines = Trendlines(in, cfg.Trendline)
	}
	if cfg.RSISupport.Enabled {
		report.RSISupport = RSISupport(in, cfg.RSISupport)
	}
	if cfg.Support.Enabled {
		report.Support = Support(in, cfg.Support)
	}
	if cfg.Heatmap.Enabled {
		report.Heatmap = Heatmap(in, cfg.Heatmap)
	}
	if cfg.Stoploss.Enabled {
		report.Stoploss = Stoploss(in, cfg.Stoploss)
	}
	if cfg.SupportPrediction.Enabled {
		report.SupportPrediction = PredictSupport(in, cfg.SupportPrediction)
	}
	if cfg.RSIPivot.Enabled {
		report.RSIPivot = RSIPivot(in, cfg.RSIPivot)
	}
	if cfg.Institutional.Enabled {
		report.Institutional = Institutional(in, cfg.Institutional)
	}
	return report
}
