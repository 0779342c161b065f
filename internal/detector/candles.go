package detector

import (
	talibcdl "github.com/iwat/talib-cdl-go"

	"StockScreener/internal/model"
)

const minCandleBars = 3

type candleCheck struct {
	name string
	fn   func(talibcdl.SimpleSeries) []int
}

var candleChecks = []candleCheck{
	{"Doji", func(s talibcdl.SimpleSeries) []int { return talibcdl.Doji(s) }},
	{"Doji Star", func(s talibcdl.SimpleSeries) []int { return talibcdl.DojiStar(s) }},
	{"Evening Star", func(s talibcdl.SimpleSeries) []int { return talibcdl.EveningStar(s, 0.3) }},
	{"Piercing", func(s talibcdl.SimpleSeries) []int { return talibcdl.Piercing(s) }},
	{"Abandoned Baby", func(s talibcdl.SimpleSeries) []int { return talibcdl.AbandonedBaby(s, 0.3) }},
	{"Three White Soldiers", func(s talibcdl.SimpleSeries) []int { return talibcdl.ThreeWhiteSoldiers(s) }},
	{"Three Black Crows", func(s talibcdl.SimpleSeries) []int { return talibcdl.ThreeBlackCrows(s) }},
	{"Three Inside", func(s talibcdl.SimpleSeries) []int { return talibcdl.ThreeInside(s) }},
	{"Three Outside", func(s talibcdl.SimpleSeries) []int { return talibcdl.ThreeOutside(s) }},
	{"Three Line Strike", func(s talibcdl.SimpleSeries) []int { return talibcdl.ThreeLineStrike(s) }},
	{"Belt Hold", func(s talibcdl.SimpleSeries) []int { return talibcdl.BeltHold(s) }},
	{"Closing Marubozu", func(s talibcdl.SimpleSeries) []int { return talibcdl.ClosingMarubozu(s) }},
	{"Matching Low", func(s talibcdl.SimpleSeries) []int { return talibcdl.MatchingLow(s) }},
	{"Advance Block", func(s talibcdl.SimpleSeries) []int { return talibcdl.AdvanceBlock(s) }},
}

func toSeries(bars []model.Bar) talibcdl.SimpleSeries {
	n := len(bars)
	series := talibcdl.SimpleSeries{
		Opens:  make([]float64, n),
		Highs:  make([]float64, n),
		Lows:   make([]float64, n),
		Closes: make([]float64, n),
	}
	for i, b := range bars {
		series.Opens[i] = b.Open
		series.Highs[i] = b.High
		series.Lows[i] = b.Low
		series.Closes[i] = b.Close
	}
	return series
}

// DetectCandles lists the candlestick patterns completing on the latest bar.
// They annotate screener hits and do not feed the consolidation score.
func DetectCandles(bars []model.Bar) []model.CandleSignal {
	if len(bars) < minCandleBars {
		return nil
	}
	series := toSeries(bars)
	last := len(bars) - 1

	var out []model.CandleSignal
	for _, c := range candleChecks {
		results := c.fn(series)
		if len(results) <= last || results[last] == 0 {
			continue
		}
		v := results[last]
		dir := "bullish"
		if v < 0 {
			dir = "bearish"
			v = -v
		}
		if c.name == "Doji" {
			dir = "neutral"
		}
		out = append(out, model.CandleSignal{Name: c.name, Direction: dir, Strength: v})
	}
	return out
}
