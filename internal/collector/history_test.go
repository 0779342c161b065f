package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseHistory_FlatArray(t *testing.T) {
	blob := `[
		{"symbol":"NABIL","time":"2024_01_02","open":"1,000","high":1010,"low":990,"close":1005,"volume":"12000"},
		{"symbol":"NABIL","time":"2024-01-01","open":995,"high":1000,"low":980,"close":998,"volume":10000},
		{"symbol":"NABIL","time":"2024-01-02","open":1001,"high":1012,"low":991,"close":1006,"volume":13000},
		{"symbol":"NABIL","time":"2024-01-03","open":1006,"high":"n/a","low":995,"close":1000},
		{"symbol":"","time":"2024-01-03","open":1,"high":1,"low":1,"close":1},
		{"symbol":"HDL","date":1704067200,"open":500,"high":510,"low":495,"close":505,"volume":800}
	]`
	got, err := ParseHistory([]byte(blob))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 symbols, got %d", len(got))
	}

	nabil := got["NABIL"]
	if len(nabil) != 2 {
		t.Fatalf("expected 2 NABIL bars after dedupe and drop, got %d", len(nabil))
	}
	if !nabil[0].Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected ascending order, first bar %s", nabil[0].Date)
	}
	if nabil[1].Open != 1001 || nabil[1].Volume != 13000 {
		t.Errorf("expected the last duplicate to win, got %+v", nabil[1])
	}

	hdl := got["HDL"]
	if len(hdl) != 1 || !hdl[0].Date.Equal(time.Unix(1704067200, 0)) {
		t.Errorf("unexpected HDL bars %+v", hdl)
	}
}

func TestParseHistory_KeyedObject(t *testing.T) {
	blob := `{
		"NABIL": [
			{"date":"2024-01-02T00:00:00Z","open":1,"high":2,"low":0.5,"close":1.5},
			{"date":"2024-01-01","open":1,"high":2,"low":0.5,"close":1.2}
		],
		"undefined": [{"date":"2024-01-01","open":1,"high":1,"low":1,"close":1}],
		"EMPTY": []
	}`
	got, err := ParseHistory([]byte(blob))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected only NABIL, got %v", got)
	}
	if bars := got["NABIL"]; len(bars) != 2 || bars[0].Close != 1.2 || bars[1].Volume != 0 {
		t.Errorf("unexpected NABIL bars %+v", bars)
	}
}

func TestParseHistory_Invalid(t *testing.T) {
	for _, blob := range []string{"", "   ", "42", `{"A": 5}`, "[{"} {
		if _, err := ParseHistory([]byte(blob)); err == nil {
			t.Errorf("expected error for %q", blob)
		}
	}
}

func TestHistoryLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	blob := `[{"symbol":"ABC","time":"2024-01-01","open":1,"high":1,"low":1,"close":1}]`
	if err := os.WriteFile(path, []byte(blob), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := NewHistoryLoader(path, "", "").FetchHistory(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got["ABC"]) != 1 {
		t.Errorf("expected one ABC bar, got %v", got)
	}

	if _, err := NewHistoryLoader(filepath.Join(t.TempDir(), "missing.json"), "", "").FetchHistory(context.Background()); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestHistoryLoader_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"ABC":[{"time":"2024-01-01","open":1,"high":1,"low":1,"close":1}]}`))
	}))
	defer srv.Close()

	got, err := NewHistoryLoader(srv.URL, "secret", "").FetchHistory(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got["ABC"]) != 1 {
		t.Errorf("expected one ABC bar, got %v", got)
	}

	if _, err := NewHistoryLoader(srv.URL, "wrong", "").FetchHistory(context.Background()); err == nil {
		t.Error("expected error on 401")
	}
}
