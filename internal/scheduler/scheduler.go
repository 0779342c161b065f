package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"StockScreener/internal/alerts"
	"StockScreener/internal/collector"
	"StockScreener/internal/model"
	"StockScreener/internal/notifier"
	"StockScreener/internal/recorder"
	"StockScreener/internal/screener"
	"StockScreener/internal/watchlist"
)

// Scheduler manages the cron tasks and answers bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Watchlist *watchlist.Manager
	Tracker   *alerts.Tracker
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Screeners screener.Config
	Logger    *logrus.Logger
	Ctx       context.Context

	mu  sync.Mutex
	now func() time.Time
}

// Deps are the collaborators of a Scheduler.
type Deps struct {
	Collector *collector.Collector
	Watchlist *watchlist.Manager
	Tracker   *alerts.Tracker
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Screeners screener.Config
	Logger    *logrus.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, d Deps) *Scheduler {
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}
	if d.Recorder == nil {
		d.Recorder = recorder.NewNoopRecorder()
	}
	if d.Tracker == nil {
		d.Tracker = alerts.NewTracker(alerts.NewMemoryStore())
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: d.Collector,
		Watchlist: d.Watchlist,
		Tracker:   d.Tracker,
		Notifier:  d.Notifier,
		Recorder:  d.Recorder,
		Screeners: d.Screeners,
		Logger:    d.Logger,
		Ctx:       ctx,
		now:       time.Now,
	}
}

// RegisterAll registers the scan task and, when heatmapCron is set, the
// heatmap digest.
func (s *Scheduler) RegisterAll(scanCron, heatmapCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if heatmapCron != "" {
		if _, err := s.Cron.AddFunc(heatmapCron, s.heatmapTask); err != nil {
			return fmt.Errorf("register heatmap task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunScanNow executes the scan task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

// Scan collects fresh data, runs the named screeners (all enabled ones when
// names is empty), badges new hits and records the run. Scans never overlap.
func (s *Scheduler) Scan(ctx context.Context, names ...string) (*model.ScanReport, error) {
	cfg, err := screener.Only(s.Screeners, names...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.Collector.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	var stocks []model.StockLevels
	if s.Watchlist != nil {
		if cfg.Stoploss.Enabled {
			if n, err := s.Watchlist.RefreshStoplosses(cfg.Stoploss.DefaultPercent); err != nil {
				s.Logger.Errorf("refresh stop-losses: %v", err)
			} else if n > 0 {
				s.Logger.WithField("stocks", n).Info("stop-losses updated")
			}
		}
		stocks = s.Watchlist.List()
	}

	now := s.now()
	report := screener.RunAll(screener.NewInput(snap, stocks), cfg, now)
	report.RunID = uuid.NewString()

	log := s.Logger.WithField("run", report.RunID)
	if err := s.Tracker.Annotate(report, now); err != nil {
		log.Errorf("annotate new hits: %v", err)
	}
	if err := s.Recorder.RecordScan(report); err != nil {
		log.Errorf("record scan: %v", err)
	}

	fields := logrus.Fields{"symbols": report.Symbols}
	for t, n := range report.HitCount() {
		fields[string(t)] = n
	}
	log.WithFields(fields).Info("scan finished")
	return report, nil
}

func (s *Scheduler) scanTask() {
	s.Logger.Info("running scan task")
	report, err := s.Scan(s.Ctx)
	if err != nil {
		s.Logger.Errorf("scan: %v", err)
		s.trySend(fmt.Sprintf("❌ Scan failed: %v", err))
		return
	}
	s.trySend(notifier.FormatScanReport(report))
}

func (s *Scheduler) heatmapTask() {
	s.Logger.Info("running heatmap task")
	report, err := s.Scan(s.Ctx, string(model.ScanHeatmap))
	if err != nil {
		s.Logger.Errorf("heatmap: %v", err)
		return
	}
	s.trySend(notifier.FormatScanReport(report))
}

var commandScans = map[string]model.ScanType{
	"/consolidation": model.ScanConsolidation,
	"/range":         model.ScanRange,
	"/trendline":     model.ScanTrendline,
	"/rsi":           model.ScanRSISupport,
	"/support":       model.ScanSupport,
	"/heatmap":       model.ScanHeatmap,
	"/stoploss":      model.ScanStoploss,
	"/predict":       model.ScanSupportPrediction,
	"/signals":       model.ScanRSIPivot,
	"/institutional": model.ScanInstitutional,
}

const helpText = "Available commands:\n" +
	"• /scan - run every screener\n" +
	"• /consolidation, /range, /trendline, /rsi, /support, /heatmap - run one screener\n" +
	"• /stoploss - held stocks near their stop-loss\n" +
	"• /predict - predicted support zones\n" +
	"• /signals - RSI pivot buy and sell signals\n" +
	"• /institutional - accumulation and distribution scores\n" +
	"• /watchlist - levels and distances\n" +
	"• /history - recent scans"

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// strip a @botname suffix
	cmd, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	if t, ok := commandScans[cmd]; ok {
		report, err := s.Scan(ctx, string(t))
		if err != nil {
			return fmt.Sprintf("❌ %s failed: %v", t, err)
		}
		return notifier.FormatScanReport(report)
	}

	switch cmd {
	case "/scan":
		report, err := s.Scan(ctx)
		if err != nil {
			return fmt.Sprintf("❌ Scan failed: %v", err)
		}
		return notifier.FormatScanReport(report)
	case "/watchlist":
		if s.Watchlist == nil {
			return "Watchlist is not configured."
		}
		snap, err := s.Collector.Collect(ctx)
		if err != nil {
			return fmt.Sprintf("❌ Price fetch failed: %v", err)
		}
		return notifier.FormatWatchlist(s.Watchlist.Dashboard(snap.Prices))
	case "/history":
		runs, err := s.Recorder.RecentRuns(5)
		if err != nil {
			return fmt.Sprintf("❌ History unavailable: %v", err)
		}
		return notifier.FormatRuns(runs)
	default:
		return helpText
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Logger.Errorf("send notification: %v", err)
	}
}
