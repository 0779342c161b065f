package screener

import (
	"StockScreener/internal/model"
	"StockScreener/internal/strategy"
)

// ConsolidationConfig are the consolidation analyzer options.
type ConsolidationConfig struct {
	Enabled                bool               `yaml:"enabled"`
	LookbackPeriod         int                `yaml:"lookback_period"`
	BBPeriod               int                `yaml:"bb_period"`
	ATRPeriod              int                `yaml:"atr_period"`
	RSIPeriod              int                `yaml:"rsi_period"`
	MinScore               int                `yaml:"min_score"`
	WatchlistOnly          bool               `yaml:"watchlist_only"`
	RequireRSIConfirmation bool               `yaml:"require_rsi_confirmation"`
	SRSensitivity          float64            `yaml:"sr_sensitivity"`
	SRProximity            float64            `yaml:"sr_proximity"`
	PatternFilter          string             `yaml:"pattern_filter"`
	MinPatternConfidence   float64            `yaml:"min_pattern_confidence"`
	BreakoutBias           model.BreakoutBias `yaml:"breakout_bias"`
	NearSupportResistance  bool               `yaml:"near_support_resistance"`
}

// RangeConfig are the range scanner options.
type RangeConfig struct {
	Enabled        bool    `yaml:"enabled"`
	LookbackPeriod int     `yaml:"lookback_period"`
	MinPercentage  float64 `yaml:"min_percentage"`
	MaxPercentage  float64 `yaml:"max_percentage"`
	CheckVolume    bool    `yaml:"check_volume"`
	ShowBought     bool    `yaml:"show_bought"`
}

// TrendlineConfig are the trendline scanner options.
type TrendlineConfig struct {
	Enabled                   bool               `yaml:"enabled"`
	LookbackPeriod            int                `yaml:"lookback_period"`
	MinTouches                int                `yaml:"min_touches"`
	ProximityThreshold        float64            `yaml:"proximity_threshold"`
	ATRMultiplier             float64            `yaml:"atr_multiplier"`
	MinTrendDuration          int                `yaml:"min_trend_duration"`
	MinTrendQuality           model.TrendQuality `yaml:"min_trend_quality"`
	RequireVolumeConfirmation bool               `yaml:"require_volume_confirmation"`
	TrendDirection            string             `yaml:"trend_direction"`
	WatchlistOnly             bool               `yaml:"watchlist_only"`
	ShowBought                bool               `yaml:"show_bought"`
}

// SupportConfig drives both the RSI-support and the plain support screener.
// MaxRSI and RSIPeriod are ignored by the latter.
type SupportConfig struct {
	Enabled        bool    `yaml:"enabled"`
	MaxRSI         float64 `yaml:"max_rsi"`
	RSIPeriod      int     `yaml:"rsi_period"`
	FilterSupport1 bool    `yaml:"filter_support1"`
	FilterSupport2 bool    `yaml:"filter_support2"`
	FilterSupport3 bool    `yaml:"filter_support3"`
	MinPercentage  float64 `yaml:"min_percentage"`
	MaxPercentage  float64 `yaml:"max_percentage"`
}

// HeatmapConfig are the weekly sector heatmap options.
type HeatmapConfig struct {
	Enabled       bool    `yaml:"enabled"`
	AnalysisDays  int     `yaml:"analysis_days"`
	TopN          int     `yaml:"top_n"`
	MinVolume     float64 `yaml:"min_volume"`
	WatchlistOnly bool    `yaml:"watchlist_only"`
}

// StoplossConfig are the held-stock stop-loss options. Stops not set by hand
// sit DefaultPercent below the buy price.
type StoplossConfig struct {
	Enabled        bool    `yaml:"enabled"`
	DefaultPercent float64 `yaml:"default_percent"`
	AlertPercent   float64 `yaml:"alert_percent"`
	ShowAll        bool    `yaml:"show_all"`
}

// PredictionConfig are the multi-method support prediction options.
type PredictionConfig struct {
	Enabled          bool      `yaml:"enabled"`
	MinBars          int       `yaml:"min_bars"`
	MaxDistance      float64   `yaml:"max_distance"`
	MinConfidence    float64   `yaml:"min_confidence"`
	Methods          []string  `yaml:"methods"`
	FibLevels        []float64 `yaml:"fib_levels"`
	StdDevMultiplier float64   `yaml:"std_dev_multiplier"`
}

// PivotConfig are the RSI pivot-trendline signal options.
type PivotConfig struct {
	Enabled          bool `yaml:"enabled"`
	FastPeriod       int  `yaml:"fast_period"`
	SlowPeriod       int  `yaml:"slow_period"`
	PivotLookback    int  `yaml:"pivot_lookback"`
	MinPivotDistance int  `yaml:"min_pivot_distance"`
	WatchlistOnly    bool `yaml:"watchlist_only"`
}

// InstitutionalConfig are the institutional activity options. A stock is
// listed when any score reaches MinScore and tiered by Thresholds.
type InstitutionalConfig struct {
	Enabled    bool      `yaml:"enabled"`
	MinScore   float64   `yaml:"min_score"`
	Thresholds []float64 `yaml:"thresholds"`
}

// Config bundles every screener.
type Config struct {
	Consolidation     ConsolidationConfig `yaml:"consolidation"`
	Range             RangeConfig         `yaml:"range"`
	Trendline         TrendlineConfig     `yaml:"trendline"`
	RSISupport        SupportConfig       `yaml:"rsi_support"`
	Support           SupportConfig       `yaml:"support"`
	Heatmap           HeatmapConfig       `yaml:"heatmap"`
	Stoploss          StoplossConfig      `yaml:"stoploss"`
	SupportPrediction PredictionConfig    `yaml:"support_prediction"`
	RSIPivot          PivotConfig         `yaml:"rsi_pivot"`
	Institutional     InstitutionalConfig `yaml:"institutional"`
}

// PatternFilterAll and BiasAll disable the respective filters.
const (
	PatternFilterAll = "all"
	BiasAll          = model.BreakoutBias("all")
	DirectionBoth    = "both"
)

func DefaultConsolidationConfig() ConsolidationConfig {
	p := strategy.DefaultParams()
	return ConsolidationConfig{
		Enabled:              true,
		LookbackPeriod:       20,
		BBPeriod:             p.BBPeriod,
		ATRPeriod:            p.ATRPeriod,
		RSIPeriod:            p.RSIPeriod,
		MinScore:             3,
		SRSensitivity:        p.SRSensitivity,
		SRProximity:          p.SRProximity,
		PatternFilter:        PatternFilterAll,
		MinPatternConfidence: 0.6,
		BreakoutBias:         BiasAll,
	}
}

func DefaultRangeConfig() RangeConfig {
	return RangeConfig{
		Enabled:        true,
		LookbackPeriod: 20,
		MinPercentage:  0,
		MaxPercentage:  5,
		CheckVolume:    false,
	}
}

func DefaultTrendlineConfig() TrendlineConfig {
	return TrendlineConfig{
		Enabled:            true,
		LookbackPeriod:     180,
		MinTouches:         3,
		ProximityThreshold: 2,
		ATRMultiplier:      0.5,
		MinTrendDuration:   14,
		MinTrendQuality:    model.QualityMedium,
		TrendDirection:     DirectionBoth,
	}
}

func DefaultRSISupportConfig() SupportConfig {
	return SupportConfig{
		Enabled:        true,
		MaxRSI:         35,
		RSIPeriod:      14,
		FilterSupport1: true,
		FilterSupport2: true,
		FilterSupport3: true,
		MinPercentage:  -2,
		MaxPercentage:  5,
	}
}

func DefaultSupportConfig() SupportConfig {
	c := DefaultRSISupportConfig()
	c.MaxRSI = 0
	c.RSIPeriod = 0
	return c
}

func DefaultHeatmapConfig() HeatmapConfig {
	return HeatmapConfig{
		Enabled:      true,
		AnalysisDays: 7,
		TopN:         5,
		MinVolume:    100000,
	}
}

func DefaultStoplossConfig() StoplossConfig {
	return StoplossConfig{
		Enabled:        true,
		DefaultPercent: 15,
		AlertPercent:   5,
	}
}

func DefaultPredictionConfig() PredictionConfig {
	return PredictionConfig{
		Enabled:          true,
		MinBars:          50,
		MaxDistance:      7,
		MinConfidence:    0.7,
		FibLevels:        []float64{0.382, 0.5, 0.618},
		StdDevMultiplier: 2,
	}
}

func DefaultPivotConfig() PivotConfig {
	return PivotConfig{
		Enabled:          true,
		FastPeriod:       21,
		SlowPeriod:       55,
		PivotLookback:    5,
		MinPivotDistance: 10,
	}
}

func DefaultInstitutionalConfig() InstitutionalConfig {
	return InstitutionalConfig{
		Enabled:    true,
		MinScore:   0.65,
		Thresholds: []float64{0.5, 0.65, 0.8},
	}
}

// DefaultConfig enables every screener with its stock settings.
func DefaultConfig() Config {
	return Config{
		Consolidation:     DefaultConsolidationConfig(),
		Range:             DefaultRangeConfig(),
		Trendline:         DefaultTrendlineConfig(),
		RSISupport:        DefaultRSISupportConfig(),
		Support:           DefaultSupportConfig(),
		Heatmap:           DefaultHeatmapConfig(),
		Stoploss:          DefaultStoplossConfig(),
		SupportPrediction: DefaultPredictionConfig(),
		RSIPivot:          DefaultPivotConfig(),
		Institutional:     DefaultInstitutionalConfig(),
	}
}
