package detector

import (
	"math"

	"StockScreener/internal/model"
)

const (
	confirmWindow = 10
	trendDays     = 5
)

// Trend labels returned by ShortTermTrend.
const (
	TrendUp       = "uptrend"
	TrendDown     = "downtrend"
	TrendSideways = "sideways"
)

func bullish(b model.Bar) bool { return b.Close > b.Open }

func bearish(b model.Bar) bool { return b.Close < b.Open }

func body(b model.Bar) float64 { return math.Abs(b.Close - b.Open) }

// large bodies cover more than 60% of the bar, small ones less than 30%.
func large(b model.Bar) bool { return body(b) > (b.High-b.Low)*0.6 }

func small(b model.Bar) bool { return body(b) < (b.High-b.Low)*0.3 }

func similarRanges(a, b, c model.Bar) bool {
	ra, rb, rc := a.High-a.Low, b.High-b.Low, c.High-c.Low
	return math.Abs(rb/ra-1) < 0.5 && math.Abs(rc/rb-1) < 0.5
}

type multiDayCheck struct {
	name string
	bars int
	// fn reports whether the pattern ends on the last bar and its direction.
	fn func(c []model.Bar) (found, up bool)
}

// multiDayChecks are tried in priority order.
var multiDayChecks = []multiDayCheck{
	{"Three White Soldiers", 3, func(c []model.Bar) (bool, bool) {
		a, b, d := c[0], c[1], c[2]
		ok := bullish(a) && bullish(b) && bullish(d) &&
			b.Open > a.Open && b.Open < a.Close && b.Close > a.Close &&
			d.Open > b.Open && d.Open < b.Close && d.Close > b.Close &&
			similarRanges(a, b, d)
		return ok, true
	}},
	{"Three Black Crows", 3, func(c []model.Bar) (bool, bool) {
		a, b, d := c[0], c[1], c[2]
		ok := bearish(a) && bearish(b) && bearish(d) &&
			b.Open < a.Open && b.Open > a.Close && b.Close < a.Close &&
			d.Open < b.Open && d.Open > b.Close && d.Close < b.Close &&
			similarRanges(a, b, d)
		return ok, false
	}},
	{"Morning Star", 3, func(c []model.Bar) (bool, bool) {
		a, b, d := c[0], c[1], c[2]
		ok := bearish(a) && large(a) && small(b) && bullish(d) && large(d) &&
			(b.High < a.Close || d.Close > (a.Open+a.Close)/2)
		return ok, true
	}},
	{"Evening Star", 3, func(c []model.Bar) (bool, bool) {
		a, b, d := c[0], c[1], c[2]
		ok := bullish(a) && large(a) && small(b) && bearish(d) && large(d) &&
			(b.Low > a.Close || d.Close < (a.Open+a.Close)/2)
		return ok, false
	}},
	{"Bullish Engulfing", 2, func(c []model.Bar) (bool, bool) {
		p, b := c[0], c[1]
		return bearish(p) && bullish(b) && b.Open < p.Close && b.Close > p.Open, true
	}},
	{"Bearish Engulfing", 2, func(c []model.Bar) (bool, bool) {
		p, b := c[0], c[1]
		return bullish(p) && bearish(b) && b.Open > p.Close && b.Close < p.Open, false
	}},
	{"Dark Cloud Cover", 2, func(c []model.Bar) (bool, bool) {
		p, b := c[0], c[1]
		return bullish(p) && bearish(b) && b.Open > p.High && b.Close < (p.Open+p.Close)/2, false
	}},
	{"Piercing Line", 2, func(c []model.Bar) (bool, bool) {
		p, b := c[0], c[1]
		return bullish(b) && bearish(p) && b.Open < p.Low && b.Close > (p.Open+p.Close)/2, true
	}},
	{"Harami", 2, func(c []model.Bar) (bool, bool) {
		p, b := c[0], c[1]
		lo, hi := math.Min(p.Open, p.Close), math.Max(p.Open, p.Close)
		inside := b.Open > lo && b.Open < hi && b.Close > lo && b.Close < hi
		return inside && body(p) > body(b)*2, bullish(b)
	}},
}

// MultiDayPattern returns the highest-priority multi-day pattern completing on
// the latest bar, looking at the last ten bars at most.
func MultiDayPattern(bars []model.Bar) (name string, up, ok bool) {
	recent := model.Tail(bars, confirmWindow)
	for _, c := range multiDayChecks {
		if len(recent) < c.bars {
			continue
		}
		found, dir := c.fn(recent[len(recent)-c.bars:])
		if !found {
			continue
		}
		name = c.name
		if c.name == "Harami" {
			name = "Bearish Harami"
			if dir {
				name = "Bullish Harami"
			}
		}
		return name, dir, true
	}
	return "", false, false
}

// ShortTermTrend reads the last five bars. A 1% move over the last three closes
// wins, then a latest bar that moved more than 1% open to close, then a 2% move
// across all five. Empty when fewer than five bars exist.
func ShortTermTrend(bars []model.Bar) string {
	if len(bars) < trendDays {
		return ""
	}
	last := bars[len(bars)-1]
	three := bars[len(bars)-3]
	switch {
	case last.Close > three.Close*1.01:
		return TrendUp
	case last.Close < three.Close*0.99:
		return TrendDown
	case bearish(last) && last.Close/last.Open < 0.99:
		return TrendDown
	case bullish(last) && last.Close/last.Open > 1.01:
		return TrendUp
	}
	first := bars[len(bars)-trendDays]
	switch {
	case last.Close > first.Close*1.02:
		return TrendUp
	case last.Close < first.Close*0.98:
		return TrendDown
	}
	return TrendSideways
}

// ConfirmCandles combines MultiDayPattern with the strongest single-bar signal
// from DetectCandles. The multi-day pattern wins when both exist.
func ConfirmCandles(bars []model.Bar) model.CandleConfirmation {
	out := model.CandleConfirmation{Trend: ShortTermTrend(bars)}
	if name, up, ok := MultiDayPattern(bars); ok {
		out.Pattern, out.MultiDay = name, true
		out.Direction = "bearish"
		if up {
			out.Direction = "bullish"
		}
		return out
	}
	var best *model.CandleSignal
	signals := DetectCandles(bars)
	for i := range signals {
		if best == nil || signals[i].Strength > best.Strength {
			best = &signals[i]
		}
	}
	if best != nil {
		out.Pattern, out.Direction = best.Name, best.Direction
	}
	return out
}
