package model

import (
	"fmt"
	"strings"
	"time"
)

// ScanType identifies which screener produced a hit.
type ScanType string

const (
	ScanConsolidation     ScanType = "consolidation"
	ScanRange             ScanType = "range"
	ScanTrendline         ScanType = "trendline"
	ScanRSISupport        ScanType = "rsi_support"
	ScanSupport           ScanType = "support"
	ScanHeatmap           ScanType = "heatmap"
	ScanStoploss          ScanType = "stoploss"
	ScanSupportPrediction ScanType = "support_prediction"
	ScanRSIPivot          ScanType = "rsi_pivot"
	ScanInstitutional     ScanType = "institutional"
)

// FactorScore is the contribution of one indicator to the consolidation score.
type FactorScore struct {
	Name       string `json:"name"`
	Points     int    `json:"points"`
	Commentary string `json:"commentary"`
}

// ConsolidationScore is the clamped 0..10 total with its breakdown.
type ConsolidationScore struct {
	Factors []FactorScore `json:"factors"`
	Total   int           `json:"total"`
}

// ConsolidationMatch is a symbol that passed the consolidation analyzer.
type ConsolidationMatch struct {
	Symbol       string                  `json:"symbol"`
	CurrentPrice float64                 `json:"currentPrice"`
	Score        ConsolidationScore      `json:"score"`
	Indicators   ConsolidationIndicators `json:"indicators"`
	Details      PatternDetails          `json:"details"`
	NearLevel    *NearLevel              `json:"nearLevel,omitempty"`
	Candles      []CandleSignal          `json:"candles,omitempty"`
	IsNew        bool                    `json:"isNew"`
}

// PatternMatch is one row of the pattern recognition list.
type PatternMatch struct {
	Symbol       string         `json:"symbol"`
	CurrentPrice float64        `json:"currentPrice"`
	Pattern      PatternResult  `json:"pattern"`
	Details      PatternDetails `json:"details"`
}

// SRMatch is one row of the S/R analysis list.
type SRMatch struct {
	Symbol       string            `json:"symbol"`
	CurrentPrice float64           `json:"currentPrice"`
	Levels       SupportResistance `json:"levels"`
	NearLevel    *NearLevel        `json:"nearLevel,omitempty"`
}

// RangeMatch is a symbol whose net move over the lookback stayed inside the band.
type RangeMatch struct {
	Symbol       string  `json:"symbol"`
	CurrentPrice float64 `json:"currentPrice"`
	StartPrice   float64 `json:"startPrice"`
	PriceRange   float64 `json:"priceRange"`
	VolumeTrend  float64 `json:"volumeTrend"`
	Bars         int     `json:"bars"`
	IsNew        bool    `json:"isNew"`
}

// TrendlineMatch is a symbol trading near a qualifying trendline.
type TrendlineMatch struct {
	Symbol          string          `json:"symbol"`
	CurrentPrice    float64         `json:"currentPrice"`
	Trendline       TrendlineResult `json:"trendline"`
	TrendlineValue  float64         `json:"trendlineValue"`
	Distance        float64         `json:"distance"`
	VolumeConfirmed bool            `json:"volumeConfirmed"`
	Bought          bool            `json:"bought"`
	IsNew           bool            `json:"isNew"`
}

// SupportMatch is a watchlist stock trading near one of its configured supports.
// RSI is zero for the plain support screener.
type SupportMatch struct {
	Symbol       string  `json:"symbol"`
	CurrentPrice float64 `json:"currentPrice"`
	SupportLevel int     `json:"supportLevel"`
	SupportPrice float64 `json:"supportPrice"`
	Difference   float64 `json:"difference"`
	RSI          float64 `json:"rsi,omitempty"`
	IsNew        bool    `json:"isNew"`
}

// StoplossMatch is a held stock trading near or below its stop-loss.
// ReturnPercent is measured from the buy price and StoplossDiff from the stop.
type StoplossMatch struct {
	Symbol          string             `json:"symbol"`
	CurrentPrice    float64            `json:"currentPrice"`
	BuyPrice        float64            `json:"buyPrice"`
	StoplossPrice   float64            `json:"stoplossPrice"`
	StoplossPercent float64            `json:"stoplossPercent"`
	Manual          bool               `json:"manual"`
	ReturnPercent   float64            `json:"returnPercent"`
	StoplossDiff    float64            `json:"stoplossDiff"`
	IsBroken        bool               `json:"isBroken"`
	Candle          CandleConfirmation `json:"candle"`
	IsNew           bool               `json:"isNew"`
}

// SupportPrediction is the most confident support zone found for a user stock.
// Distance is (price-zone)/zone in percent.
type SupportPrediction struct {
	Symbol       string      `json:"symbol"`
	CurrentPrice float64     `json:"currentPrice"`
	Zone         SupportZone `json:"zone"`
	Distance     float64     `json:"distance"`
	Bought       bool        `json:"bought"`
	IsNew        bool        `json:"isNew"`
}

// PivotMatch is a buy or sell signal from the RSI pivot-trendline analysis.
// Date is the bar the signal fired on.
type PivotMatch struct {
	Symbol string      `json:"symbol"`
	Date   time.Time   `json:"date"`
	Signal PivotSignal `json:"signal"`
	Bought bool        `json:"bought"`
	IsNew  bool        `json:"isNew"`
}

// ActivityMatch is a user stock whose institutional activity crossed the
// minimum score. Tier is the highest alert threshold its dominant score reached.
type ActivityMatch struct {
	Symbol       string                `json:"symbol"`
	CurrentPrice float64               `json:"currentPrice"`
	Activity     InstitutionalActivity `json:"activity"`
	Tier         float64               `json:"tier"`
	Bought       bool                  `json:"bought"`
	IsNew        bool                  `json:"isNew"`
}

// HeatmapStock is the weekly summary of one symbol.
type HeatmapStock struct {
	Symbol        string  `json:"symbol"`
	Sector        string  `json:"sector"`
	Open          float64 `json:"open"`
	Close         float64 `json:"close"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	PercentChange float64 `json:"percentChange"`
	TotalVolume   float64 `json:"totalVolume"`
	AvgVolume     float64 `json:"avgVolume"`
	Volatility    float64 `json:"volatility"`
	RSI           float64 `json:"rsi"`
	TradingDays   int     `json:"tradingDays"`
}

// HeatmapSector groups the top stocks of a sector.
type HeatmapSector struct {
	Sector        string         `json:"sector"`
	Stocks        []HeatmapStock `json:"stocks"`
	TotalVolume   float64        `json:"totalVolume"`
	AverageChange float64        `json:"averageChange"`
}

// ConsolidationReport holds the three lists produced by the consolidation analyzer.
type ConsolidationReport struct {
	Matches  []ConsolidationMatch `json:"matches"`
	Patterns []PatternMatch       `json:"patterns"`
	Levels   []SRMatch            `json:"levels"`
}

// ScanReport is the output of one full screening run.
type ScanReport struct {
	RunID             string               `json:"runId"`
	StartedAt         time.Time            `json:"startedAt"`
	Symbols           int                  `json:"symbols"`
	Consolidation     *ConsolidationReport `json:"consolidation,omitempty"`
	Range             []RangeMatch         `json:"range,omitempty"`
	Trendlines        []TrendlineMatch     `json:"trendlines,omitempty"`
	RSISupport        []SupportMatch       `json:"rsiSupport,omitempty"`
	Support           []SupportMatch       `json:"support,omitempty"`
	Heatmap           []HeatmapSector      `json:"heatmap,omitempty"`
	Stoploss          []StoplossMatch      `json:"stoploss,omitempty"`
	SupportPrediction []SupportPrediction  `json:"supportPrediction,omitempty"`
	RSIPivot          []PivotMatch         `json:"rsiPivot,omitempty"`
	Institutional     []ActivityMatch      `json:"institutional,omitempty"`
}

// HitCount returns the number of actionable hits per scan type.
func (r *ScanReport) HitCount() map[ScanType]int {
	out := map[ScanType]int{
		ScanRange:             len(r.Range),
		ScanTrendline:         len(r.Trendlines),
		ScanRSISupport:        len(r.RSISupport),
		ScanSupport:           len(r.Support),
		ScanHeatmap:           len(r.Heatmap),
		ScanStoploss:          len(r.Stoploss),
		ScanSupportPrediction: len(r.SupportPrediction),
		ScanRSIPivot:          len(r.RSIPivot),
		ScanInstitutional:     len(r.Institutional),
	}
	if r.Consolidation != nil {
		out[ScanConsolidation] = len(r.Consolidation.Matches)
	}
	return out
}

// Hit is one actionable row of a report, flattened for storage and alerting.
type Hit struct {
	Scan   ScanType
	Symbol string
	Key    string
	Value  float64
	IsNew  bool
}

// Flag keys identify a hit across runs for the "new" badge.

func (m ConsolidationMatch) Key() string { return "analyzer_" + m.Symbol }

func (m RangeMatch) Key() string { return "consolidation_" + m.Symbol }

func (m TrendlineMatch) Key() string {
	return fmt.Sprintf("trend_%s_%s", m.Symbol, m.Trendline.Direction)
}

// Key of a plain support hit; RSI-support hits are prefixed with "rsi_".
func (m SupportMatch) Key() string {
	return fmt.Sprintf("%s_support%d", m.Symbol, m.SupportLevel)
}

// Key of a stop-loss hit. A broken stop gets its own key so it is badged
// again when a nearby stop finally breaks.
func (m StoplossMatch) Key() string {
	if m.IsBroken {
		return "stoploss_broken_" + m.Symbol
	}
	return "stoploss_" + m.Symbol
}

func (m SupportPrediction) Key() string { return "predicted_" + m.Symbol }

func (m PivotMatch) Key() string {
	return fmt.Sprintf("signal_%s_%s", m.Symbol, strings.ToLower(string(m.Signal.Kind)))
}

// Key of an activity hit, per dominant side so a turn from accumulation to
// distribution is badged again.
func (m ActivityMatch) Key() string {
	side, _ := m.Activity.Dominant()
	return fmt.Sprintf("institutional_%s_%s", m.Symbol, side)
}

// Hits flattens every actionable list of the report. Heatmap rows are not
// hits and are left out.
func (r *ScanReport) Hits() []Hit {
	var out []Hit
	if r.Consolidation != nil {
		for _, m := range r.Consolidation.Matches {
			out = append(out, Hit{ScanConsolidation, m.Symbol, m.Key(), float64(m.Score.Total), m.IsNew})
		}
	}
	for _, m := range r.Range {
		out = append(out, Hit{ScanRange, m.Symbol, m.Key(), m.PriceRange, m.IsNew})
	}
	for _, m := range r.Trendlines {
		out = append(out, Hit{ScanTrendline, m.Symbol, m.Key(), m.Distance, m.IsNew})
	}
	for _, m := range r.RSISupport {
		out = append(out, Hit{ScanRSISupport, m.Symbol, "rsi_" + m.Key(), m.Difference, m.IsNew})
	}
	for _, m := range r.Support {
		out = append(out, Hit{ScanSupport, m.Symbol, m.Key(), m.Difference, m.IsNew})
	}
	for _, m := range r.Stoploss {
		out = append(out, Hit{ScanStoploss, m.Symbol, m.Key(), m.StoplossDiff, m.IsNew})
	}
	for _, m := range r.SupportPrediction {
		out = append(out, Hit{ScanSupportPrediction, m.Symbol, m.Key(), m.Distance, m.IsNew})
	}
	for _, m := range r.RSIPivot {
		out = append(out, Hit{ScanRSIPivot, m.Symbol, m.Key(), m.Signal.Strength, m.IsNew})
	}
	for _, m := range r.Institutional {
		_, score := m.Activity.Dominant()
		out = append(out, Hit{ScanInstitutional, m.Symbol, m.Key(), score, m.IsNew})
	}
	return out
}
