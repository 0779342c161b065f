package detector

import (
	"StockScreener/internal/calculator"
	"StockScreener/internal/model"
)

// PivotOptions configure RSIPivotSignal. Zero fields take the defaults
// 21, 55, 5 and 10.
type PivotOptions struct {
	FastPeriod  int
	SlowPeriod  int
	Lookback    int
	MinDistance int
}

func (o PivotOptions) withDefaults() PivotOptions {
	if o.FastPeriod <= 0 {
		o.FastPeriod = 21
	}
	if o.SlowPeriod <= 0 {
		o.SlowPeriod = 55
	}
	if o.Lookback <= 0 {
		o.Lookback = 5
	}
	if o.MinDistance <= 0 {
		o.MinDistance = 10
	}
	return o
}

func pivotValue(b model.Bar, high bool) float64 {
	if high {
		return b.High
	}
	return b.Low
}

// swingPivots returns the bars whose high (or low) is strictly beyond every
// bar within lookback on both sides.
func swingPivots(bars []model.Bar, lookback int, high bool) []pivot {
	var out []pivot
	for i := lookback; i < len(bars)-lookback; i++ {
		v := pivotValue(bars[i], high)
		isPivot := true
		for j := i - lookback; j <= i+lookback && isPivot; j++ {
			if j == i {
				continue
			}
			w := pivotValue(bars[j], high)
			isPivot = (high && w < v) || (!high && w > v)
		}
		if isPivot {
			out = append(out, pivot{i, v})
		}
	}
	return out
}

// spacedPivots keeps each pivot at least minDistance bars after the last kept one.
func spacedPivots(pivots []pivot, minDistance int) []pivot {
	if len(pivots) == 0 {
		return nil
	}
	out := []pivot{pivots[0]}
	for _, p := range pivots[1:] {
		if p.index-out[len(out)-1].index >= minDistance {
			out = append(out, p)
		}
	}
	return out
}

func lineAt(a, b pivot, x int) float64 {
	if a.index == b.index {
		return a.price
	}
	slope := (b.price - a.price) / float64(b.index-a.index)
	return a.price + slope*float64(x-a.index)
}

// RSIPivotSignal compares the fast and slow RSI on the latest bar and checks
// the line through the last two spaced swing pivots. A bullish RSI with lower
// highs and a close crossing above the falling line is a buy. A bearish RSI
// with higher lows and a close crossing below the rising line is a sell.
// Everything else is neutral. ok is false when the history is too short.
func RSIPivotSignal(bars []model.Bar, opts PivotOptions) (sig model.PivotSignal, ok bool) {
	o := opts.withDefaults()
	if len(bars) < max(o.SlowPeriod, o.Lookback*2)+10 {
		return sig, false
	}
	fast := calculator.CalculateRSI(bars, o.FastPeriod)
	slow := calculator.CalculateRSI(bars, o.SlowPeriod)
	if len(fast) == 0 || len(slow) == 0 {
		return sig, false
	}

	last := len(bars) - 1
	price, prev := bars[last].Close, bars[last-1].Close
	rf, rs := fast[len(fast)-1], slow[len(slow)-1]
	sig = model.PivotSignal{
		Kind:    model.PivotNeutral,
		Price:   price,
		RSIFast: calculator.Round2(rf),
		RSISlow: calculator.Round2(rs),
	}

	switch {
	case rf > rs:
		highs := spacedPivots(swingPivots(bars, o.Lookback, true), o.MinDistance)
		if n := len(highs); n >= 2 && highs[n-1].price < highs[n-2].price {
			line := lineAt(highs[n-2], highs[n-1], last)
			if price > line && prev <= line {
				sig.Kind = model.PivotBuy
				sig.LinePrice = calculator.Round2(line)
				sig.Strength = calculator.Round2((price - line) / line * 100)
			}
		}
	case rf < rs:
		lows := spacedPivots(swingPivots(bars, o.Lookback, false), o.MinDistance)
		if n := len(lows); n >= 2 && lows[n-1].price > lows[n-2].price {
			line := lineAt(lows[n-2], lows[n-1], last)
			if price < line && prev >= line {
				sig.Kind = model.PivotSell
				sig.LinePrice = calculator.Round2(line)
				sig.Strength = calculator.Round2((line - price) / line * 100)
			}
		}
	}
	return sig, true
}
