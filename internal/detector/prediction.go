package detector

import (
	"math"
	"sort"
	"strconv"

	"StockScreener/internal/calculator"
	"StockScreener/internal/model"
)

// Support estimation methods, as named in PredictionOptions.Methods.
const (
	MethodPriceAction   = "Price Action"
	MethodVolumeProfile = "Volume Profile"
	MethodFibonacci     = "Fibonacci"
	MethodEMA           = "EMA"
	MethodDoubleBottom  = "Double Bottom"
	MethodTripleBottom  = "Triple Bottom"
	MethodRoundedBottom = "Rounded Bottom"
	MethodRSIDivergence = "RSI Divergence"
	MethodHistoricalLow = "Historical Level"
	MethodMeanReversion = "Mean Reversion"
	MethodStdDevBand    = "Std Dev Band"
	MethodVWAP          = "VWAP"
	MethodVWAPLowerBand = "VWAP Band"
)

const (
	predictionMaxDist    = 25.0 // percent below price an estimate may sit
	predictionIdealDist  = 12.0
	predictionMinDist    = 5.0
	predictionTolerance  = 0.03
	predictionMaxZones   = 5
	predictionSwingSpan  = 5
	predictionFibWindow  = 100
	predictionRSIPeriod  = 14
	predictionPivotRange = 50
)

// PredictionOptions tune EstimateSupports. Zero values use the stock settings.
type PredictionOptions struct {
	Methods          []string  // empty runs every method
	FibLevels        []float64 // retracement ratios, default 0.382, 0.5, 0.618
	StdDevMultiplier float64   // default 2
}

func (o PredictionOptions) withDefaults() PredictionOptions {
	if len(o.FibLevels) == 0 {
		o.FibLevels = []float64{0.382, 0.5, 0.618}
	}
	if o.StdDevMultiplier <= 0 {
		o.StdDevMultiplier = 2
	}
	return o
}

type estimator struct {
	method string
	fn     func(bars []model.Bar, price float64, o PredictionOptions) []model.SupportEstimate
}

var estimators = []estimator{
	{MethodPriceAction, priceActionSupports},
	{MethodVolumeProfile, volumeProfileSupports},
	{MethodFibonacci, fibonacciSupports},
	{MethodEMA, emaSupports},
	{MethodDoubleBottom, multipleBottomSupports},
	{MethodRoundedBottom, roundedBottomSupports},
	{MethodRSIDivergence, divergenceSupports},
	{MethodHistoricalLow, historicalSupports},
	{MethodMeanReversion, meanReversionSupports},
	{MethodStdDevBand, stdDevSupports},
	{MethodVWAP, vwapSupports},
}

// KnownMethods lists the method names accepted by PredictionOptions.Methods.
func KnownMethods() []string {
	out := make([]string, len(estimators))
	for i, e := range estimators {
		out[i] = e.method
	}
	return out
}

// EstimateSupports runs the selected methods over bars. Estimates that are
// not a positive finite price are dropped.
func EstimateSupports(bars []model.Bar, price float64, opts PredictionOptions) []model.SupportEstimate {
	if !(price > 0) || len(bars) == 0 {
		return nil
	}
	opts = opts.withDefaults()
	selected := make(map[string]bool, len(opts.Methods))
	for _, m := range opts.Methods {
		selected[m] = true
	}

	var out []model.SupportEstimate
	for _, e := range estimators {
		if len(selected) > 0 && !selected[e.method] {
			continue
		}
		for _, est := range e.fn(bars, price, opts) {
			if est.Price > 0 && !math.IsInf(est.Price, 0) && !math.IsNaN(est.Confidence) {
				out = append(out, est)
			}
		}
	}
	return out
}

// CombineSupports groups estimates whose sorted prices sit within 3% of price
// of their neighbour. Each zone takes the best confidence in it, plus 0.05 per
// extra method up to 0.15, plus up to 0.1 when it sits 0 to 12% below price,
// capped at 0.9. The five most confident zones are returned.
func CombineSupports(estimates []model.SupportEstimate, price float64) []model.SupportZone {
	if len(estimates) == 0 || !(price > 0) {
		return nil
	}
	sorted := append([]model.SupportEstimate(nil), estimates...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price < sorted[j].Price })

	tolerance := price * predictionTolerance
	var zones []model.SupportZone
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && math.Abs(sorted[i].Price-sorted[i-1].Price) <= tolerance {
			continue
		}
		zones = append(zones, zoneOf(sorted[start:i], price))
		start = i
	}

	sort.SliceStable(zones, func(i, j int) bool { return zones[i].Confidence > zones[j].Confidence })
	if len(zones) > predictionMaxZones {
		zones = zones[:predictionMaxZones]
	}
	return zones
}

func zoneOf(group []model.SupportEstimate, price float64) model.SupportZone {
	var weight, weighted, best float64
	var methods []string
	seen := make(map[string]bool)
	for _, e := range group {
		weight += e.Confidence
		weighted += e.Price * e.Confidence
		best = math.Max(best, e.Confidence)
		if !seen[e.Method] {
			seen[e.Method] = true
			methods = append(methods, e.Method)
		}
	}
	avg := weighted / weight
	if !(weight > 0) {
		avg = group[0].Price
	}

	boost := math.Min(0.15, float64(len(methods)-1)*0.05)
	distance := (price - avg) / price * 100
	if distance >= 0 && distance <= predictionIdealDist {
		boost += 0.1 * (1 - distance/predictionIdealDist)
	}
	return model.SupportZone{
		Price:      avg,
		Confidence: math.Min(0.9, best+boost),
		Methods:    methods,
		Estimates:  len(group),
	}
}

// priceActionSupports takes swing lows no lower than any bar within five bars
// on either side. Closer lows and lows on above-average volume score higher.
func priceActionSupports(bars []model.Bar, price float64, _ PredictionOptions) []model.SupportEstimate {
	if len(bars) < 10 {
		return nil
	}
	span := min(predictionSwingSpan, len(bars)/10)
	volumes := calculator.Volumes(bars)

	var out []model.SupportEstimate
	for i := span; i < len(bars)-span; i++ {
		low := bars[i].Low
		swing := true
		for j := i - span; j <= i+span; j++ {
			if j != i && bars[j].Low < low {
				swing = false
				break
			}
		}
		if !swing {
			continue
		}
		distance := (price - low) / price * 100
		if distance > predictionMaxDist {
			continue
		}
		var avgVolume float64
		for _, v := range volumes[i-span : i+span] {
			avgVolume += v
		}
		avgVolume /= float64(2 * span)
		boost := 0.0
		if volumes[i] > avgVolume {
			boost = 0.1
		}
		weight := 1 - distance/predictionMaxDist*0.5
		out = append(out, model.SupportEstimate{
			Price:      low,
			Confidence: math.Min(0.85, 0.65*weight+boost),
			Method:     MethodPriceAction,
			Detail:     bars[i].Date.Format("2006-01-02"),
		})
	}
	return out
}

// volumeProfileSupports buckets typical prices into bins 0.5% of price wide
// and keeps bins below price holding more volume than both neighbours.
func volumeProfileSupports(bars []model.Bar, price float64, _ PredictionOptions) []model.SupportEstimate {
	width := price * 0.005
	buckets := make(map[int64]float64)
	for _, b := range bars {
		v := b.Volume
		if !(v > 0) || math.IsInf(v, 0) {
			v = 1
		}
		tp := (b.High + b.Low + b.Close) / 3
		if math.IsNaN(tp) || math.IsInf(tp, 0) {
			continue
		}
		buckets[int64(math.Floor(tp/width))] += v
	}
	keys := make([]int64, 0, len(buckets))
	var total float64
	for k, v := range buckets {
		keys = append(keys, k)
		total += v
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	avg := total / float64(len(keys))

	var out []model.SupportEstimate
	for i := 1; i < len(keys)-1; i++ {
		v := buckets[keys[i]]
		if v <= buckets[keys[i-1]] || v <= buckets[keys[i+1]] {
			continue
		}
		level := float64(keys[i]) * width
		if level >= price {
			continue
		}
		out = append(out, model.SupportEstimate{
			Price:      level,
			Confidence: math.Min(0.4+v/avg*0.3, 0.9),
			Method:     MethodVolumeProfile,
		})
	}
	return out
}

// fibonacciSupports retraces the high-low range of the last 100 bars.
func fibonacciSupports(bars []model.Bar, price float64, o PredictionOptions) []model.SupportEstimate {
	recent := model.Tail(bars, predictionFibWindow)
	high, low := math.Inf(-1), math.Inf(1)
	for _, b := range recent {
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
	}

	var out []model.SupportEstimate
	for _, level := range o.FibLevels {
		p := high - (high-low)*level
		if !(p < price) {
			continue
		}
		conf := 0.6
		switch level {
		case 0.618:
			conf = 0.75
		case 0.5:
			conf = 0.7
		}
		out = append(out, model.SupportEstimate{
			Price:      p,
			Confidence: conf,
			Method:     MethodFibonacci,
			Detail:     strconv.FormatFloat(level, 'g', -1, 64),
		})
	}
	return out
}

// emaSupports uses the 20, 50 and 100 bar EMAs below price. Longer averages
// start more confident and every average loses up to 30% with distance.
func emaSupports(bars []model.Bar, price float64, _ PredictionOptions) []model.SupportEstimate {
	if len(bars) < 30 {
		return nil
	}
	var out []model.SupportEstimate
	for _, c := range []struct {
		period int
		conf   float64
	}{{20, 0.5}, {50, 0.6}, {100, 0.7}} {
		if len(bars) <= c.period {
			continue
		}
		ema := calculator.CalculateEMA(bars, c.period)
		latest := ema[len(ema)-1]
		if latest >= price {
			continue
		}
		distance := (price - latest) / price * 100
		if distance > predictionMaxDist {
			continue
		}
		out = append(out, model.SupportEstimate{
			Price:      latest,
			Confidence: math.Min(0.9, c.conf*(1-distance/predictionMaxDist*0.3)),
			Method:     MethodEMA,
			Detail:     strconv.Itoa(c.period),
		})
	}
	return out
}

type pivot struct {
	index int
	price float64
}

// lowPivots returns lows strictly below the two lows on either side.
func lowPivots(bars []model.Bar, from, to int) []pivot {
	var out []pivot
	for i := max(from, 2); i < min(to, len(bars)-2); i++ {
		l := bars[i].Low
		if l < bars[i-1].Low && l < bars[i-2].Low && l < bars[i+1].Low && l < bars[i+2].Low {
			out = append(out, pivot{i, l})
		}
	}
	return out
}

// multipleBottomSupports pairs pivot lows within 3% of each other and more
// than ten bars apart. Three or more matching bottoms make a triple bottom.
func multipleBottomSupports(bars []model.Bar, price float64, _ PredictionOptions) []model.SupportEstimate {
	bottoms := lowPivots(bars, 3, len(bars)-3)
	var out []model.SupportEstimate
	for i := 0; i < len(bottoms); i++ {
		b := bottoms[i]
		similar := 0
		for _, o := range bottoms {
			if math.Abs(o.price-b.price)/b.price < 0.03 && abs(o.index-b.index) > 10 {
				similar++
			}
		}
		if similar == 0 || b.price >= price {
			continue
		}
		est := model.SupportEstimate{Price: b.price, Confidence: 0.75, Method: MethodDoubleBottom}
		if similar >= 2 {
			est.Confidence, est.Method = 0.85, MethodTripleBottom
		}
		out = append(out, est)
		i += similar
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// roundedBottomSupports slides a 30 bar window in steps of ten and looks for a
// middle third averaging below both outer thirds.
func roundedBottomSupports(bars []model.Bar, price float64, _ PredictionOptions) []model.SupportEstimate {
	const segment = 30
	closes := model.Closes(bars)
	var out []model.SupportEstimate
	for start := 0; start+segment <= len(closes); start += 10 {
		first := mean(closes[start : start+10])
		middle := closes[start+10 : start+20]
		last := mean(closes[start+20 : start+30])
		mid := mean(middle)
		if !(first > mid && last > mid) {
			continue
		}
		lowest := middle[0]
		for _, c := range middle {
			lowest = math.Min(lowest, c)
		}
		if lowest >= price {
			continue
		}
		symmetry := math.Min(first, last) / math.Max(first, last)
		out = append(out, model.SupportEstimate{
			Price:      lowest,
			Confidence: 0.6 + symmetry*0.3,
			Method:     MethodRoundedBottom,
		})
	}
	return out
}

// divergenceSupports looks for two consecutive pivot lows in the last 50 bars
// where price made a lower low while RSI made a higher one. Only the first
// divergence is reported.
func divergenceSupports(bars []model.Bar, price float64, _ PredictionOptions) []model.SupportEstimate {
	if len(bars) < predictionPivotRange {
		return nil
	}
	rsi := calculator.CalculateRSI(bars, predictionRSIPeriod)
	// rsi[k] belongs to bar k+period
	rsiAt := func(i int) float64 {
		if k := i - predictionRSIPeriod; k >= 0 && k < len(rsi) {
			return rsi[k]
		}
		return 0
	}
	lows := lowPivots(bars, len(bars)-predictionPivotRange, len(bars)-5)
	for i := 0; i+1 < len(lows); i++ {
		a, b := lows[i], lows[i+1]
		ra, rb := rsiAt(a.index), rsiAt(b.index)
		if b.price >= a.price || rb <= ra || ra <= 0 || b.price >= price {
			continue
		}
		strength := (a.price-b.price)/a.price + (rb-ra)/ra
		return []model.SupportEstimate{{
			Price:      b.price,
			Confidence: math.Min(0.7+strength*0.2, 0.9),
			Method:     MethodRSIDivergence,
		}}
	}
	return nil
}

// historicalSupports groups every low with the first earlier group within 3%
// and keeps groups touched at least twice whose mean sits 5 to 25% below price.
// Confidence grows with touches and with closeness to a 12% pullback.
func historicalSupports(bars []model.Bar, price float64, _ PredictionOptions) []model.SupportEstimate {
	if len(bars) < predictionPivotRange {
		return nil
	}
	type group struct {
		key  float64
		lows []float64
	}
	var groups []*group
	for _, b := range bars {
		var g *group
		for _, c := range groups {
			if math.Abs(b.Low-c.key) <= b.Low*predictionTolerance {
				g = c
				break
			}
		}
		if g == nil {
			g = &group{key: b.Low}
			groups = append(groups, g)
		}
		g.lows = append(g.lows, b.Low)
	}

	var out []model.SupportEstimate
	for _, g := range groups {
		if len(g.lows) < 2 {
			continue
		}
		avg := mean(g.lows)
		distance := (price - avg) / price * 100
		if distance < predictionMinDist || distance > predictionMaxDist {
			continue
		}
		touch := math.Min(0.9, 0.6+float64(len(g.lows))/10*0.3)
		ideal := 1 - math.Min(1, math.Abs(distance-predictionIdealDist)/(predictionMaxDist-predictionMinDist))
		out = append(out, model.SupportEstimate{
			Price:      avg,
			Confidence: touch * (0.7 + ideal*0.3),
			Method:     MethodHistoricalLow,
			Detail:     strconv.Itoa(len(g.lows)) + " touches",
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	if len(out) > predictionMaxZones {
		out = out[:predictionMaxZones]
	}
	return out
}

// meanReversionSupports offers the mean close of the whole history.
func meanReversionSupports(bars []model.Bar, price float64, _ PredictionOptions) []model.SupportEstimate {
	sma := calculator.CalculateSMA(bars, len(bars))
	if len(sma) == 0 || sma[0] >= price {
		return nil
	}
	return []model.SupportEstimate{{Price: sma[0], Confidence: 0.7, Method: MethodMeanReversion}}
}

// stdDevSupports offers the mean close minus StdDevMultiplier deviations.
func stdDevSupports(bars []model.Bar, price float64, o PredictionOptions) []model.SupportEstimate {
	sma := calculator.CalculateSMA(bars, len(bars))
	sd := calculator.CalculateStdDev(bars, len(bars))
	if len(sma) == 0 || len(sd) == 0 {
		return nil
	}
	band := sma[0] - sd[0]*o.StdDevMultiplier
	if band >= price {
		return nil
	}
	return []model.SupportEstimate{{
		Price:      band,
		Confidence: 0.6 + o.StdDevMultiplier*0.1,
		Method:     MethodStdDevBand,
		Detail:     strconv.FormatFloat(o.StdDevMultiplier, 'g', -1, 64) + "σ",
	}}
}

// vwapSupports offers the running VWAP of typical prices and the band two
// volume-weighted deviations below it. Missing volume weighs 1.
func vwapSupports(bars []model.Bar, price float64, _ PredictionOptions) []model.SupportEstimate {
	var sumPV, sumV, sumDev, vwap float64
	for _, b := range bars {
		v := b.Volume
		if !(v > 0) || math.IsInf(v, 0) {
			v = 1
		}
		tp := (b.High + b.Low + b.Close) / 3
		sumPV += tp * v
		sumV += v
		vwap = sumPV / sumV
		sumDev += (tp - vwap) * (tp - vwap) * v
	}
	if sumV == 0 {
		return nil
	}
	band := vwap - 2*math.Sqrt(sumDev/sumV)

	var out []model.SupportEstimate
	if vwap < price {
		out = append(out, model.SupportEstimate{Price: vwap, Confidence: 0.75, Method: MethodVWAP})
	}
	if band < price {
		out = append(out, model.SupportEstimate{Price: band, Confidence: 0.65, Method: MethodVWAPLowerBand})
	}
	return out
}
