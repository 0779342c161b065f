package detector

import (
	"time"

	"StockScreener/internal/model"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// uptrendBars puts every fifth low exactly on y = 100 + 0.5x and the rest 2
// points above it. Highs sit 1 above the low and closes halfway.
func uptrendBars(n int, volume func(i int) float64) []model.Bar {
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
			Volume: volume(i),
		}
	}
	return bars
}

func flatVolume(int) float64 { return 1000 }

func risingVolume(i int) float64 { return 1000 + float64(i)*10 }

// walkBars turns step sizes into a random-walk OHLC series.
func walkBars(steps []float64) []model.Bar {
	bars := make([]model.Bar, len(steps))
	price := 100.0
	for i, s := range steps {
		open := price
		price += s
		if price < 1 {
			price = 1
		}
		high, low := open, price
		if price > open {
			high, low = price, open
		}
		bars[i] = model.Bar{
			Date:   testStart.AddDate(0, 0, i),
			Open:   open,
			High:   high + 0.25,
			Low:    low - 0.25,
			Close:  price,
			Volume: 1000 + float64(i%7)*100,
		}
	}
	return bars
}
