package recorder

import (
	"time"

	"StockScreener/internal/model"
)

// RunSummary is one stored scan run.
type RunSummary struct {
	RunID     string
	StartedAt time.Time
	Symbols   int
	Hits      int
	NewHits   int
}

// Recorder persists scan history for later review.
type Recorder interface {
	RecordScan(report *model.ScanReport) error
	RecentRuns(limit int) ([]RunSummary, error)
	Close() error
}
