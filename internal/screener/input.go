package screener

import (
	"sort"

	"StockScreener/internal/model"
)

// Input is the market and user state every screener reads.
type Input struct {
	History   map[string][]model.Bar
	Prices    map[string]float64
	Watchlist []model.StockLevels
}

// NewInput builds an Input from a collected snapshot.
func NewInput(snap *model.MarketSnapshot, stocks []model.StockLevels) Input {
	if snap == nil {
		return Input{Watchlist: stocks}
	}
	return Input{History: snap.History, Prices: snap.Prices, Watchlist: stocks}
}

// symbols returns the history symbols in sorted order.
func (in Input) symbols() []string {
	out := make([]string, 0, len(in.History))
	for s := range in.History {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// price returns the current price, ok only when it is positive.
func (in Input) price(symbol string) (float64, bool) {
	p, ok := in.Prices[symbol]
	return p, ok && p > 0
}

// levels indexes the user's stocks by symbol.
func (in Input) levels() map[string]model.StockLevels {
	out := make(map[string]model.StockLevels, len(in.Watchlist))
	for _, s := range in.Watchlist {
		out[s.Symbol] = s
	}
	return out
}

// window returns the last n bars, ok only when at least n are available.
func (in Input) window(symbol string, n int) ([]model.Bar, bool) {
	bars := in.History[symbol]
	if n <= 0 || len(bars) < n {
		return nil, false
	}
	return model.Tail(bars, n), true
}
