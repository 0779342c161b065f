package calculator

import (
	"math"
	"time"

	"StockScreener/internal/model"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// closeBars builds bars whose open/high/low all equal the close.
func closeBars(closes ...float64) []model.Bar {
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
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

func constantBars(price float64, n int) []model.Bar {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return closeBars(closes...)
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
