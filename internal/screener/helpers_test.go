package screener

import (
	"time"

	"StockScreener/internal/model"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func flatBars(price float64, n int) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		bars[i] = model.Bar{
			Date:   testStart.AddDate(0, 0, i),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: 1000,
		}
	}
	return bars
}

// stepBars moves the close by step each bar, starting at 100.
func stepBars(step float64, n int) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		c := 100 + step*float64(i)
		bars[i] = model.Bar{
			Date:   testStart.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

// uptrendBars puts every fifth low on y = 100 + 0.5x and the rest 2 above it,
// with volume rising along the trend.
func uptrendBars(n int) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		low := 100 + 0.5*float64(i)
		if i%5 != 0 {
			low += 2
		}
		bars[i] = model.Bar{
			Date:   testStart.AddDate(0, 0, i),
			Open:   low + 0.5,
			High:   low + 1,
			Low:    low,
			Close:  low + 0.5,
			Volume: 1000 + float64(i)*10,
		}
	}
	return bars
}

func matchSymbols[T any](items []T, symbol func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = symbol(it)
	}
	return out
}
