package collector

import (
	"context"

	"StockScreener/internal/model"
)

// HistoryProvider loads daily bars for every symbol.
type HistoryProvider interface {
	FetchHistory(ctx context.Context) (map[string][]model.Bar, error)
	Name() string
}

// PriceProvider loads the latest traded price for every symbol.
type PriceProvider interface {
	FetchPrices(ctx context.Context) (map[string]float64, error)
	Name() string
}
