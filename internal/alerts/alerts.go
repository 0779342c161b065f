// Package alerts tracks when each hit was first flagged so digests can badge
// recent ones as new.
package alerts

import (
	"math"
	"sync"
	"time"

	"StockScreener/internal/model"
)

// NewBadgeDays is how long a hit keeps its "new" badge after first sighting.
const NewBadgeDays = 3

// FlagStore remembers the first sighting of each flag key.
type FlagStore interface {
	FirstSeen(key string) (time.Time, bool, error)
	MarkSeen(key string, at time.Time) error
}

// MemoryStore is an in-process FlagStore.
type MemoryStore struct {
	mu    sync.Mutex
	flags map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flags: make(map[string]time.Time)}
}

func (m *MemoryStore) FirstSeen(key string) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.flags[key]
	return t, ok, nil
}

func (m *MemoryStore) MarkSeen(key string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.flags[key]; !ok {
		m.flags[key] = at
	}
	return nil
}

// Tracker decides which hits are new.
type Tracker struct {
	Store     FlagStore
	BadgeDays int
}

func NewTracker(store FlagStore) *Tracker {
	return &Tracker{Store: store, BadgeDays: NewBadgeDays}
}

// IsNew records key on first sight and reports whether it was first seen
// within BadgeDays of now. Partial days round up.
func (t *Tracker) IsNew(key string, now time.Time) (bool, error) {
	first, ok, err := t.Store.FirstSeen(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, t.Store.MarkSeen(key, now)
	}
	days := math.Ceil(math.Abs(now.Sub(first).Hours()) / 24)
	return days <= float64(t.BadgeDays), nil
}

// Annotate sets IsNew on every actionable hit of report. The first store
// error stops the pass and is returned.
func (t *Tracker) Annotate(report *model.ScanReport, now time.Time) error {
	mark := func(key string, dst *bool) error {
		fresh, err := t.IsNew(key, now)
		if err != nil {
			return err
		}
		*dst = fresh
		return nil
	}

	if report.Consolidation != nil {
		for i := range report.Consolidation.Matches {
			m := &report.Consolidation.Matches[i]
			if err := mark(m.Key(), &m.IsNew); err != nil {
				return err
			}
		}
	}
	for i := range report.Range {
		if err := mark(report.Range[i].Key(), &report.Range[i].IsNew); err != nil {
			return err
		}
	}
	for i := range report.Trendlines {
		if err := mark(report.Trendlines[i].Key(), &report.Trendlines[i].IsNew); err != nil {
			return err
		}
	}
	for i := range report.RSISupport {
		if err := mark("rsi_"+report.RSISupport[i].Key(), &report.RSISupport[i].IsNew); err != nil {
			return err
		}
	}
	for i := range report.Support {
		if err := mark(report.Support[i].Key(), &report.Support[i].IsNew); err != nil {
			return err
		}
	}
	for i := range report.Stoploss {
		if err := mark(report.Stoploss[i].Key(), &report.Stoploss[i].IsNew); err != nil {
			return err
		}
	}
	for i := range report.SupportPrediction {
		if err := mark(report.SupportPrediction[i].Key(), &report.SupportPrediction[i].IsNew); err != nil {
			return err
		}
	}
	for i := range report.RSIPivot {
		if err := mark(report.RSIPivot[i].Key(), &report.RSIPivot[i].IsNew); err != nil {
			return err
		}
	}
	for i := range report.Institutional {
		if err := mark(report.Institutional[i].Key(), &report.Institutional[i].IsNew); err != nil {
			return err
		}
	}
	return nil
}
