// Package watchlist stores the user's stocks and their configured levels.
package watchlist

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"StockScreener/internal/calculator"
	"StockScreener/internal/model"
)

// ErrNotFound is returned for symbols that are not in the watchlist.
var ErrNotFound = errors.New("stock not found")

// Manager guards the watchlist state and persists every change.
type Manager struct {
	mu       sync.Mutex
	state    *State
	filePath string
	now      func() time.Time
}

// NewManager creates a Manager, loading state from disk.
func NewManager(filePath string) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	return &Manager{state: state, filePath: filePath, now: time.Now}, nil
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (m *Manager) index(symbol string) int {
	for i, s := range m.state.Stocks {
		if s.Symbol == symbol {
			return i
		}
	}
	return -1
}

// List returns a copy of every stock ordered by symbol.
func (m *Manager) List() []model.StockLevels {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := append([]model.StockLevels(nil), m.state.Stocks...)
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Get returns one stock.
func (m *Manager) Get(symbol string) (model.StockLevels, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(normalize(symbol))
	if i < 0 {
		return model.StockLevels{}, fmt.Errorf("%s: %w", symbol, ErrNotFound)
	}
	return m.state.Stocks[i], nil
}

// Symbols returns every tracked symbol in order.
func (m *Manager) Symbols() []string {
	stocks := m.List()
	out := make([]string, len(stocks))
	for i, s := range stocks {
		out[i] = s.Symbol
	}
	return out
}

func validate(s model.StockLevels) error {
	if s.Symbol == "" {
		return errors.New("symbol is required")
	}
	for i, p := range s.Supports() {
		if p < 0 {
			return fmt.Errorf("support price %d must not be negative", i+1)
		}
	}
	if s.UpperLimit < 0 {
		return errors.New("upper limit must not be negative")
	}
	if s.BuyPrice < 0 || s.StoplossPrice < 0 {
		return errors.New("buy and stop-loss prices must not be negative")
	}
	return nil
}

// Upsert adds a stock or replaces its levels. AddedAt is kept for existing stocks.
func (m *Manager) Upsert(s model.StockLevels) error {
	s.Symbol = normalize(s.Symbol)
	if err := validate(s); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.index(s.Symbol); i >= 0 {
		s.AddedAt = m.state.Stocks[i].AddedAt
		m.state.Stocks[i] = s
	} else {
		if s.AddedAt.IsZero() {
			s.AddedAt = m.now()
		}
		m.state.Stocks = append(m.state.Stocks, s)
	}
	return m.save()
}

// Remove deletes a stock.
func (m *Manager) Remove(symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(normalize(symbol))
	if i < 0 {
		return fmt.Errorf("%s: %w", symbol, ErrNotFound)
	}
	m.state.Stocks = append(m.state.Stocks[:i], m.state.Stocks[i+1:]...)
	return m.save()
}

// ToggleWatchlist flips the watchlist flag and returns the new value.
func (m *Manager) ToggleWatchlist(symbol string) (bool, error) {
	var on bool
	err := m.update(symbol, func(s *model.StockLevels) {
		s.Watchlist = !s.Watchlist
		on = s.Watchlist
	})
	return on, err
}

// SetBought marks a stock as held or not.
func (m *Manager) SetBought(symbol string, bought bool) error {
	return m.update(symbol, func(s *model.StockLevels) { s.Bought = bought })
}

// SetBuyPrice records a position: the stock is marked as held and, unless its
// stop-loss was set by hand, the stop moves to percent below the new price.
func (m *Manager) SetBuyPrice(symbol string, price, percent float64) error {
	if !(price > 0) {
		return fmt.Errorf("buy price must be positive, got %v", price)
	}
	return m.update(symbol, func(s *model.StockLevels) {
		s.Bought = true
		s.BuyPrice = price
		if !s.StoplossManual {
			s.StoplossPrice, _ = s.AutoStoploss(percent)
			s.StoplossPercent = percent
		}
	})
}

// SetStoploss pins the stop-loss at price so automatic updates leave it
// alone. A zero price hands the stop back to automatic updates.
func (m *Manager) SetStoploss(symbol string, price float64) error {
	if price < 0 {
		return fmt.Errorf("stop-loss must not be negative, got %v", price)
	}
	return m.update(symbol, func(s *model.StockLevels) {
		s.StoplossManual = price > 0
		s.StoplossPrice = price
		s.StoplossPercent = 0
		if price > 0 && s.BuyPrice > 0 {
			s.StoplossPercent = math.Round((s.BuyPrice - price) / s.BuyPrice * 100)
		}
	})
}

// RefreshStoplosses moves every automatic stop of a held stock to percent
// below its buy price and returns how many changed. Nothing is written when
// no stop moved.
func (m *Manager) RefreshStoplosses(percent float64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	changed := 0
	for i := range m.state.Stocks {
		s := &m.state.Stocks[i]
		if !s.Bought || s.StoplossManual {
			continue
		}
		stop, ok := s.AutoStoploss(percent)
		if !ok || (stop == s.StoplossPrice && percent == s.StoplossPercent) {
			continue
		}
		s.StoplossPrice, s.StoplossPercent = stop, percent
		changed++
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, m.save()
}

func (m *Manager) update(symbol string, fn func(*model.StockLevels)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(normalize(symbol))
	if i < 0 {
		return fmt.Errorf("%s: %w", symbol, ErrNotFound)
	}
	fn(&m.state.Stocks[i])
	return m.save()
}

// Dashboard returns the percent distance of each stock's price to its
// supports and upper limit. Unset levels and stocks without a price show 0.
func (m *Manager) Dashboard(prices map[string]float64) []model.DashboardRow {
	stocks := m.List()
	rows := make([]model.DashboardRow, 0, len(stocks))
	for _, s := range stocks {
		price := prices[s.Symbol]
		row := model.DashboardRow{Symbol: s.Symbol, CurrentPrice: price, Levels: s}
		if price > 0 {
			for i, sp := range s.Supports() {
				row.SupportDiffs[i] = calculator.PercentDifference(price, sp)
			}
			row.UpperLimitDiff = calculator.PercentDifference(price, s.UpperLimit)
		}
		rows = append(rows, row)
	}
	return rows
}

func (m *Manager) save() error {
	if err := SaveState(m.filePath, m.state); err != nil {
		return fmt.Errorf("save watchlist: %w", err)
	}
	return nil
}
