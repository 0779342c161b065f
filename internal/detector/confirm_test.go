package detector

import (
	"testing"

	"StockScreener/internal/model"
)

func ohlc(o, h, l, c float64) model.Bar {
	return model.Bar{Open: o, High: h, Low: l, Close: c, Volume: 1000}
}

func flatOHLC(price float64, n int) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		bars[i] = ohlc(price, price, price, price)
	}
	return bars
}

func TestMultiDayPattern(t *testing.T) {
	tests := []struct {
		name string
		bars []model.Bar
		want string
		up   bool
	}{
		{"three white soldiers", []model.Bar{ohlc(100, 106, 99, 105), ohlc(102, 109, 101, 108), ohlc(105, 112, 104, 111)}, "Three White Soldiers", true},
		{"three black crows", []model.Bar{ohlc(111, 112, 104, 105), ohlc(108, 109, 101, 102), ohlc(105, 106, 98, 99)}, "Three Black Crows", false},
		{"morning star", []model.Bar{ohlc(110, 111, 99, 100), ohlc(98, 99, 96, 97.5), ohlc(99, 108, 98.5, 107)}, "Morning Star", true},
		{"bullish engulfing", []model.Bar{ohlc(105, 106, 99, 100), ohlc(99, 107, 98, 106)}, "Bullish Engulfing", true},
		{"bearish engulfing", []model.Bar{ohlc(100, 106, 99, 105), ohlc(106, 107, 98, 99)}, "Bearish Engulfing", false},
		{"dark cloud cover", []model.Bar{ohlc(100, 106, 99, 105), ohlc(107, 108, 101, 102)}, "Dark Cloud Cover", false},
		{"piercing line", []model.Bar{ohlc(105, 106, 100, 101), ohlc(99, 104, 98, 104)}, "Piercing Line", true},
		{"bullish harami", []model.Bar{ohlc(110, 111, 99, 100), ohlc(102, 105, 101, 104)}, "Bullish Harami", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, up, ok := MultiDayPattern(tt.bars)
			if !ok || name != tt.want || up != tt.up {
				t.Errorf("got (%q, %t, %t), want (%q, %t, true)", name, up, ok, tt.want, tt.up)
			}
		})
	}
}

func TestMultiDayPattern_None(t *testing.T) {
	if name, _, ok := MultiDayPattern(flatOHLC(100, 10)); ok {
		t.Errorf("flat bars should not form a pattern, got %q", name)
	}
	if _, _, ok := MultiDayPattern(nil); ok {
		t.Error("no bars should not form a pattern")
	}
}

func TestShortTermTrend(t *testing.T) {
	closes := func(cs ...float64) []model.Bar {
		bars := make([]model.Bar, len(cs))
		for i, c := range cs {
			bars[i] = ohlc(c, c, c, c)
		}
		return bars
	}
	bearishLast := closes(100, 100, 100, 100, 100)
	bearishLast[4] = ohlc(101.5, 101.5, 100.4, 100.4)

	tests := []struct {
		name string
		bars []model.Bar
		want string
	}{
		{"too short", closes(100, 101, 102, 103), ""},
		{"flat", closes(100, 100, 100, 100, 100), TrendSideways},
		{"last three up", closes(100, 100, 100, 100, 102), TrendUp},
		{"last three down", closes(100, 100, 100, 100, 98), TrendDown},
		{"strong bearish bar", bearishLast, TrendDown},
		{"five day drift", closes(100, 101.2, 101.5, 102.0, 102.5), TrendUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortTermTrend(tt.bars); got != tt.want {
				t.Errorf("ShortTermTrend = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfirmCandles_PrefersMultiDay(t *testing.T) {
	bars := append(flatOHLC(100, 3), ohlc(105, 106, 99, 100), ohlc(99, 107, 98, 106))
	got := ConfirmCandles(bars)
	want := model.CandleConfirmation{Pattern: "Bullish Engulfing", Direction: "bullish", MultiDay: true, Trend: TrendUp}
	if got != want {
		t.Errorf("ConfirmCandles = %+v, want %+v", got, want)
	}
}

func TestConfirmCandles_FlatSeries(t *testing.T) {
	got := ConfirmCandles(flatOHLC(100, 10))
	if got.MultiDay {
		t.Errorf("flat series should not confirm a multi-day pattern: %+v", got)
	}
	if got.Trend != TrendSideways {
		t.Errorf("expected sideways trend, got %q", got.Trend)
	}
}
