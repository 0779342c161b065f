package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockScreener/internal/model"
)

// HistoryLoader reads the static history blob from a local file or an URL.
// Source values starting with http:// or https:// are fetched, anything else is
// read from disk.
type HistoryLoader struct {
	Source string
	APIKey string
	Client *http.Client
}

// NewHistoryLoader creates a loader with optional proxy support.
func NewHistoryLoader(source, apiKey, proxyURL string) *HistoryLoader {
	return &HistoryLoader{
		Source: source,
		APIKey: apiKey,
		Client: newHTTPClient(proxyURL),
	}
}

func (h *HistoryLoader) Name() string { return "history" }

func (h *HistoryLoader) FetchHistory(ctx context.Context) (map[string][]model.Bar, error) {
	data, err := h.read(ctx)
	if err != nil {
		return nil, err
	}
	return ParseHistory(data)
}

func (h *HistoryLoader) read(ctx context.Context) ([]byte, error) {
	if !strings.HasPrefix(h.Source, "http://") && !strings.HasPrefix(h.Source, "https://") {
		data, err := os.ReadFile(h.Source)
		if err != nil {
			return nil, fmt.Errorf("read history: %w", err)
		}
		return data, nil
	}

	req, err := newRequest(ctx, h.Source, h.APIKey)
	if err != nil {
		return nil, err
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch history: status %d, body: %s", resp.StatusCode, string(body))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read history body: %w", err)
	}
	return data, nil
}

// number accepts a JSON number or a numeric string such as "1,234.5".
type number struct {
	value float64
	set   bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// malformed values drop the record, not the whole blob
			return nil
		}
		n.value, n.set = v, true
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	n.value, n.set = v, true
	return nil
}

// stamp accepts RFC3339, 2006-01-02, 2006_01_02, "2006-01-02 15:04:05" and
// unix seconds, as a number or a string.
type stamp struct {
	t time.Time
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006_01_02",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

func (s *stamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var raw string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	} else {
		raw = string(b)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		s.t = time.Unix(secs, 0).UTC()
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			s.t = t.UTC()
			return nil
		}
	}
	return nil
}

type historyRecord struct {
	Symbol string `json:"symbol"`
	Time   stamp  `json:"time"`
	Date   stamp  `json:"date"`
	Open   number `json:"open"`
	High   number `json:"high"`
	Low    number `json:"low"`
	Close  number `json:"close"`
	Volume number `json:"volume"`
}

func (r historyRecord) bar() (model.Bar, bool) {
	date := r.Time.t
	if date.IsZero() {
		date = r.Date.t
	}
	if date.IsZero() || !r.Open.set || !r.High.set || !r.Low.set || !r.Close.set {
		return model.Bar{}, false
	}
	return model.Bar{
		Date:   date,
		Open:   r.Open.value,
		High:   r.High.value,
		Low:    r.Low.value,
		Close:  r.Close.value,
		Volume: r.Volume.value,
	}, true
}

// ParseHistory decodes a history blob. Both a flat array of records carrying
// a symbol and an object keyed by symbol are accepted. Records without a date
// or any of open/high/low/close are dropped. Each series is sorted ascending
// and repeated dates keep the last record.
func ParseHistory(data []byte) (map[string][]model.Bar, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("parse history: empty input")
	}

	grouped := make(map[string][]historyRecord)
	switch data[0] {
	case '[':
		var flat []historyRecord
		if err := json.Unmarshal(data, &flat); err != nil {
			return nil, fmt.Errorf("parse history: %w", err)
		}
		for _, r := range flat {
			sym := strings.TrimSpace(r.Symbol)
			if sym == "" {
				continue
			}
			grouped[sym] = append(grouped[sym], r)
		}
	case '{':
		if err := json.Unmarshal(data, &grouped); err != nil {
			return nil, fmt.Errorf("parse history: %w", err)
		}
	default:
		return nil, fmt.Errorf("parse history: unexpected token %q", data[0])
	}

	out := make(map[string][]model.Bar, len(grouped))
	for sym, records := range grouped {
		sym = strings.TrimSpace(sym)
		if sym == "" || sym == "undefined" {
			continue
		}
		for _, r := range records {
			if b, ok := r.bar(); ok {
				out[sym] = append(out[sym], b)
			}
		}
	}
	for sym, bars := range out {
		out[sym] = normalizeBars(bars)
	}
	return out, nil
}

// normalizeBars sorts by date and keeps the last of any repeated date.
func normalizeBars(bars []model.Bar) []model.Bar {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Date.Equal(b.Date) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
