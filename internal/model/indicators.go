package model

// Direction of a trendline.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// TrendQuality grades a detected trendline.
type TrendQuality string

const (
	QualityWeak   TrendQuality = "weak"
	QualityMedium TrendQuality = "medium"
	QualityStrong TrendQuality = "strong"
)

// Rank orders qualities weak < medium < strong. Unknown values rank below weak.
func (q TrendQuality) Rank() int {
	switch q {
	case QualityWeak:
		return 1
	case QualityMedium:
		return 2
	case QualityStrong:
		return 3
	default:
		return 0
	}
}

// SRLevel is a clustered support or resistance price.
type SRLevel struct {
	Price    float64 `json:"price"`
	Strength int     `json:"strength"`
}

// SupportResistance holds the strongest levels on each side of the latest close.
type SupportResistance struct {
	Support    []SRLevel `json:"support"`
	Resistance []SRLevel `json:"resistance"`
}

// LevelKind tags a level as support or resistance.
type LevelKind string

const (
	LevelSupport    LevelKind = "support"
	LevelResistance LevelKind = "resistance"
)

// NearLevel is the closest S/R level within the proximity band.
type NearLevel struct {
	Kind     LevelKind `json:"kind"`
	Level    SRLevel   `json:"level"`
	Distance float64   `json:"distance"` // percent of current price
}

// TouchPoint is one bar that came within the adaptive threshold of a trendline.
type TouchPoint struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
	Date  string  `json:"date"`
}

// TrendlineResult is a fitted and scored trendline. Indices are relative to
// the window the detector received.
type TrendlineResult struct {
	Direction     Direction    `json:"direction"`
	Slope         float64      `json:"slope"`
	Intercept     float64      `json:"intercept"`
	Touches       int          `json:"touches"`
	TouchPoints   []TouchPoint `json:"touchPoints"`
	ExtremePoints int          `json:"extremePoints"`
	QualityScore  float64      `json:"qualityScore"`
	Quality       TrendQuality `json:"quality"`
	VolumeScore   float64      `json:"volumeScore"`
	Duration      int          `json:"duration"`
	Threshold     float64      `json:"threshold"`
}

// ValueAt evaluates the line at a bar index.
func (t *TrendlineResult) ValueAt(index int) float64 {
	return t.Slope*float64(index) + t.Intercept
}

// PatternType is a consolidation chart pattern.
type PatternType string

const (
	PatternRectangle           PatternType = "rectangle"
	PatternAscendingTriangle   PatternType = "ascending_triangle"
	PatternDescendingTriangle  PatternType = "descending_triangle"
	PatternSymmetricalTriangle PatternType = "symmetrical_triangle"
	PatternPennant             PatternType = "pennant"
	PatternFlag                PatternType = "flag"
	PatternWedge               PatternType = "wedge"
	PatternUnknown             PatternType = "unknown"
)

// IsClassic reports whether the pattern is a rectangle or one of the triangles.
func (p PatternType) IsClassic() bool {
	switch p {
	case PatternRectangle, PatternAscendingTriangle, PatternDescendingTriangle, PatternSymmetricalTriangle:
		return true
	}
	return false
}

// BreakoutBias is the expected breakout direction of a pattern.
type BreakoutBias string

const (
	BiasBullish           BreakoutBias = "bullish"
	BiasBearish           BreakoutBias = "bearish"
	BiasNeutral           BreakoutBias = "neutral"
	BiasTrendContinuation BreakoutBias = "trend_continuation"
	BiasReversal          BreakoutBias = "reversal"
	BiasUnknown           BreakoutBias = "unknown"
)

// PatternMetrics are the normalized slopes (percent of average price per bar)
// and the range of the analysed window.
type PatternMetrics struct {
	HighSlope    float64 `json:"highSlope"`
	LowSlope     float64 `json:"lowSlope"`
	RangePercent float64 `json:"rangePercent"`
}

// PatternResult is the classifier output.
type PatternResult struct {
	Pattern    PatternType    `json:"pattern"`
	Confidence float64        `json:"confidence"`
	Metrics    PatternMetrics `json:"metrics"`
}

// PatternDetails is the static descriptor of a pattern.
type PatternDetails struct {
	Name         string       `json:"name"`
	BreakoutBias BreakoutBias `json:"breakoutBias"`
	Description  string       `json:"description"`
}

// RSIConsolidation describes how tightly RSI has been ranging recently.
type RSIConsolidation struct {
	IsConsolidating bool      `json:"isConsolidating"`
	RangeLow        float64   `json:"rangeLow"`
	RangeHigh       float64   `json:"rangeHigh"`
	RSIRange        float64   `json:"rsiRange"`
	Values          []float64 `json:"rsiValues"`
}

// ConsolidationIndicators is the full input to consolidation scoring.
type ConsolidationIndicators struct {
	BBWTrend            float64          `json:"bbwTrend"`
	ATRTrend            float64          `json:"atrTrend"`
	VolumeTrend         float64          `json:"volumeTrend"`
	PriceRange          float64          `json:"priceRange"`
	DaysInRange         int              `json:"daysInRange"`
	ClosenessToHigh     float64          `json:"closenessToHigh"`
	RSI                 RSIConsolidation `json:"rsi"`
	Pattern             PatternResult    `json:"pattern"`
	NearSupportOrResist bool             `json:"nearSR"`
}

// CandleSignal is a candlestick pattern found on the latest bar.
type CandleSignal struct {
	Name      string `json:"name"`
	Direction string `json:"direction"` // bullish, bearish or neutral
	Strength  int    `json:"strength"`
}

// CandleConfirmation is the latest candle read for a held stock: the strongest
// multi-day pattern ending on the latest bar, else the strongest single-bar
// signal, plus the short-term trend.
type CandleConfirmation struct {
	Pattern   string `json:"pattern,omitempty"`
	Direction string `json:"direction,omitempty"` // bullish, bearish or neutral
	MultiDay  bool   `json:"multiDay,omitempty"`
	Trend     string `json:"trend,omitempty"` // uptrend, downtrend or sideways
}

// SupportEstimate is one support price proposed by a single method.
type SupportEstimate struct {
	Price      float64 `json:"price"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
	Detail     string  `json:"detail,omitempty"`
}

// SupportZone is a cluster of nearby estimates. Price is their
// confidence-weighted mean and Methods the distinct methods in the cluster.
type SupportZone struct {
	Price      float64  `json:"price"`
	Confidence float64  `json:"confidence"`
	Methods    []string `json:"methods"`
	Estimates  int      `json:"estimates"`
}

// PivotSignalKind is the outcome of the RSI pivot-trendline analysis.
type PivotSignalKind string

const (
	PivotBuy     PivotSignalKind = "BUY"
	PivotSell    PivotSignalKind = "SELL"
	PivotNeutral PivotSignalKind = "NEUTRAL"
)

// PivotSignal is the latest read of the fast/slow RSI pair against the line
// through the two most recent swing pivots. LinePrice is the line's value on
// the latest bar and Strength how far the close broke through it, in percent.
type PivotSignal struct {
	Kind      PivotSignalKind `json:"kind"`
	Price     float64         `json:"price"`
	RSIFast   float64         `json:"rsiFast"`
	RSISlow   float64         `json:"rsiSlow"`
	LinePrice float64         `json:"linePrice,omitempty"`
	Strength  float64         `json:"strength,omitempty"`
}

// InstitutionalActivity scores the last 30 bars for signs of large players.
// Each score is clamped to [0, 1]. Patterns lists the checks that fired.
type InstitutionalActivity struct {
	Accumulation float64  `json:"accumulation"`
	Distribution float64  `json:"distribution"`
	Manipulation float64  `json:"manipulation"`
	Patterns     []string `json:"patterns,omitempty"`
	VolumeTrend  string   `json:"volumeTrend"` // increasing, decreasing or stable
}

// Dominant returns the highest score and its name. Ties go to accumulation,
// then distribution.
func (a InstitutionalActivity) Dominant() (name string, score float64) {
	name, score = "accumulation", a.Accumulation
	if a.Distribution > score {
		name, score = "distribution", a.Distribution
	}
	if a.Manipulation > score {
		name, score = "manipulation", a.Manipulation
	}
	return name, score
}
