package scheduler

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"StockScreener/internal/alerts"
	"StockScreener/internal/collector"
	"StockScreener/internal/model"
	"StockScreener/internal/screener"
	"StockScreener/internal/watchlist"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func flat(price float64, n int) []model.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, n)
	for i := range bars {
		bars[i] = model.Bar{Date: start.AddDate(0, 0, i), Open: price, High: price, Low: price, Close: price, Volume: 1000}
	}
	return bars
}

func newTestScheduler(t *testing.T) (*Scheduler, *fakeNotifier) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	wl, err := watchlist.NewManager(filepath.Join(t.TempDir(), "watchlist.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := wl.Upsert(model.StockLevels{Symbol: "ABC", SupportPrice1: 100}); err != nil {
		t.Fatal(err)
	}

	mock := &collector.MockFetcher{
		Bars:   map[string][]model.Bar{"ABC": flat(101, 30)},
		Prices: map[string]float64{"ABC": 101},
	}
	n := &fakeNotifier{}
	s := NewScheduler(context.Background(), Deps{
		Collector: collector.NewCollector(mock, mock, logger),
		Watchlist: wl,
		Tracker:   alerts.NewTracker(alerts.NewMemoryStore()),
		Notifier:  n,
		Screeners: screener.DefaultConfig(),
		Logger:    logger,
	})
	now := time.Date(2024, 2, 1, 15, 15, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, n
}

func TestScan_BadgesAndExpires(t *testing.T) {
	s, _ := newTestScheduler(t)
	ctx := context.Background()

	report, err := s.Scan(ctx, string(model.ScanSupport))
	if err != nil {
		t.Fatal(err)
	}
	if report.RunID == "" {
		t.Error("expected a run id")
	}
	if len(report.Support) != 1 || !report.Support[0].IsNew {
		t.Fatalf("expected one new support hit, got %+v", report.Support)
	}
	if report.Consolidation != nil || len(report.Range) != 0 {
		t.Error("only the support screener should run")
	}

	later := time.Date(2024, 2, 6, 15, 15, 0, 0, time.UTC)
	s.now = func() time.Time { return later }
	report, err = s.Scan(ctx, string(model.ScanSupport))
	if err != nil {
		t.Fatal(err)
	}
	if report.Support[0].IsNew {
		t.Error("hit seen five days ago should no longer be new")
	}
}

func TestScan_UnknownScreener(t *testing.T) {
	s, _ := newTestScheduler(t)
	if _, err := s.Scan(context.Background(), "momentum"); err == nil {
		t.Error("expected error for unknown screener")
	}
}

func TestRunScanNow_SendsDigest(t *testing.T) {
	s, n := newTestScheduler(t)
	s.RunScanNow()
	if len(n.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(n.sent))
	}
	if !strings.Contains(n.sent[0], "ABC 101.00 | S1 100.00 (+1.00%)") {
		t.Errorf("digest missing support hit:\n%s", n.sent[0])
	}
}

func TestRegisterAll(t *testing.T) {
	s, _ := newTestScheduler(t)
	if err := s.RegisterAll("0 15 15 * * 0-4", "0 0 16 * * 4"); err != nil {
		t.Fatal(err)
	}
	if len(s.Cron.Entries()) != 2 {
		t.Errorf("expected two entries, got %d", len(s.Cron.Entries()))
	}
	if err := s.RegisterAll("nonsense", ""); err == nil {
		t.Error("expected error for bad cron expression")
	}
}

func TestHandleCommand(t *testing.T) {
	s, _ := newTestScheduler(t)
	ctx := context.Background()

	tests := []struct {
		command string
		want    string
	}{
		{"/start", "Available commands"},
		{"", "Available commands"},
		{"/support@screener_bot", "S1 100.00 (+1.00%)"},
		{"/watchlist", "ABC 101.00 | S1 +1.00%"},
		{"/history", "No scans recorded yet."},
		{"/predict", "No stocks matched today."},
		{"/signals", "No stocks matched today."},
		{"/institutional", "No stocks matched today."},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			if got := s.HandleCommand(ctx, tt.command); !strings.Contains(got, tt.want) {
				t.Errorf("HandleCommand(%q) = %q, want it to contain %q", tt.command, got, tt.want)
			}
		})
	}
}

func TestHandleCommand_StoplossPersistsAutoStop(t *testing.T) {
	s, _ := newTestScheduler(t)
	if err := s.Watchlist.Upsert(model.StockLevels{Symbol: "ABC", SupportPrice1: 100, Bought: true, BuyPrice: 115}); err != nil {
		t.Fatal(err)
	}

	got := s.HandleCommand(context.Background(), "/stoploss")
	if !strings.Contains(got, "ABC 101.00 | SL 97.75 (+3.32%) | buy 115.00 (-12.17%)") {
		t.Errorf("unexpected reply %q", got)
	}
	if strings.Contains(got, "Near support") {
		t.Error("only the stop-loss screener should run")
	}
	stock, err := s.Watchlist.Get("ABC")
	if err != nil {
		t.Fatal(err)
	}
	if stock.StoplossPrice != 97.75 || stock.StoplossPercent != 15 {
		t.Errorf("expected the automatic stop to be saved, got %+v", stock)
	}
}
