package watchlist

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"StockScreener/internal/model"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "watchlist.json")
	m, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	m.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return m, path
}

func TestManager_UpsertAndReload(t *testing.T) {
	m, path := newTestManager(t)

	if err := m.Upsert(model.StockLevels{Symbol: " nabil ", SupportPrice1: 500, Watchlist: true}); err != nil {
		t.Fatal(err)
	}
	if err := m.Upsert(model.StockLevels{Symbol: "HDL", SupportPrice2: 1200}); err != nil {
		t.Fatal(err)
	}
	if got := m.Symbols(); !slices.Equal(got, []string{"HDL", "NABIL"}) {
		t.Errorf("expected sorted upper-case symbols, got %v", got)
	}

	first, _ := m.Get("NABIL")
	m.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	if err := m.Upsert(model.StockLevels{Symbol: "NABIL", SupportPrice1: 520}); err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := reloaded.Get("nabil")
	if err != nil {
		t.Fatal(err)
	}
	if got.SupportPrice1 != 520 || !got.AddedAt.Equal(first.AddedAt) {
		t.Errorf("expected updated levels with the original AddedAt, got %+v", got)
	}
	if len(reloaded.List()) != 2 {
		t.Errorf("expected 2 stocks after reload, got %d", len(reloaded.List()))
	}
}

func TestManager_Validation(t *testing.T) {
	m, _ := newTestManager(t)
	tests := []model.StockLevels{
		{Symbol: "  "},
		{Symbol: "ABC", SupportPrice3: -1},
		{Symbol: "ABC", UpperLimit: -5},
	}
	for _, s := range tests {
		if err := m.Upsert(s); err == nil {
			t.Errorf("expected validation error for %+v", s)
		}
	}
	if len(m.List()) != 0 {
		t.Error("invalid stocks must not be stored")
	}
}

func TestManager_FlagsAndRemove(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.Upsert(model.StockLevels{Symbol: "ABC"}); err != nil {
		t.Fatal(err)
	}

	on, err := m.ToggleWatchlist("abc")
	if err != nil || !on {
		t.Fatalf("expected watchlist on, got %v %v", on, err)
	}
	if on, _ = m.ToggleWatchlist("ABC"); on {
		t.Error("expected watchlist off after second toggle")
	}
	if err := m.SetBought("ABC", true); err != nil {
		t.Fatal(err)
	}
	if s, _ := m.Get("ABC"); !s.Bought {
		t.Error("expected bought flag")
	}

	if err := m.Remove("ABC"); err != nil {
		t.Fatal(err)
	}
	for _, err := range []error{
		m.Remove("ABC"),
		m.SetBought("ABC", false),
	} {
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	}
	if _, err := m.ToggleWatchlist("ABC"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestManager_Dashboard(t *testing.T) {
	m, _ := newTestManager(t)
	m.Upsert(model.StockLevels{Symbol: "ABC", SupportPrice1: 100, SupportPrice3: 90, UpperLimit: 120})
	m.Upsert(model.StockLevels{Symbol: "XYZ", SupportPrice1: 50})

	rows := m.Dashboard(map[string]float64{"ABC": 102})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	abc := rows[0]
	if abc.SupportDiffs != [3]float64{2, 0, 13.33} || abc.UpperLimitDiff != -15 {
		t.Errorf("unexpected ABC row %+v", abc)
	}
	if xyz := rows[1]; xyz.CurrentPrice != 0 || xyz.SupportDiffs != [3]float64{} {
		t.Errorf("expected zero diffs without a price, got %+v", xyz)
	}
}

func TestLoadState_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewManager(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestManager_Stoploss(t *testing.T) {
	m, path := newTestManager(t)
	if err := m.Upsert(model.StockLevels{Symbol: "NABIL"}); err != nil {
		t.Fatal(err)
	}

	if err := m.SetBuyPrice("nabil", 0, 15); err == nil {
		t.Error("expected error for zero buy price")
	}
	if err := m.SetBuyPrice("nabil", 500, 15); err != nil {
		t.Fatal(err)
	}
	s, _ := m.Get("NABIL")
	if !s.Bought || s.BuyPrice != 500 || s.StoplossPrice != 425 || s.StoplossPercent != 15 {
		t.Errorf("unexpected position %+v", s)
	}

	if n, err := m.RefreshStoplosses(10); err != nil || n != 1 {
		t.Fatalf("expected one refreshed stop, got %d (%v)", n, err)
	}
	if n, _ := m.RefreshStoplosses(10); n != 0 {
		t.Errorf("unchanged stops should not count, got %d", n)
	}
	if s, _ := m.Get("NABIL"); s.StoplossPrice != 450 {
		t.Errorf("expected stop at 450, got %.2f", s.StoplossPrice)
	}

	if err := m.SetStoploss("NABIL", 460); err != nil {
		t.Fatal(err)
	}
	if n, _ := m.RefreshStoplosses(20); n != 0 {
		t.Errorf("manual stops should be left alone, got %d", n)
	}
	if err := m.SetBuyPrice("NABIL", 600, 15); err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	s, _ = reloaded.Get("NABIL")
	if !s.StoplossManual || s.StoplossPrice != 460 || s.BuyPrice != 600 || s.StoplossPercent != 8 {
		t.Errorf("manual stop should survive a new buy price and a reload, got %+v", s)
	}

	if err := m.SetStoploss("NABIL", 0); err != nil {
		t.Fatal(err)
	}
	if n, _ := m.RefreshStoplosses(15); n != 1 {
		t.Errorf("cleared stop should be automatic again, got %d", n)
	}
	if s, _ := m.Get("NABIL"); s.StoplossManual || s.StoplossPrice != 510 {
		t.Errorf("unexpected stop after reset %+v", s)
	}

	if err := m.SetStoploss("MISSING", 10); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
