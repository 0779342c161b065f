package watchlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"StockScreener/internal/model"
)

// State is the on-disk watchlist document.
type State struct {
	Stocks    []model.StockLevels `json:"stocks"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// LoadState reads the watchlist from a JSON file. Returns an empty state if the file doesn't exist.
func LoadState(filePath string) (*State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse watchlist: %w", err)
	}
	return &state, nil
}

// SaveState writes the watchlist through a temp file and rename so readers
// never see a partial document.
func SaveState(filePath string, state *State) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create watchlist dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".watchlist-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write watchlist: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close watchlist: %w", err)
	}
	return os.Rename(tmp.Name(), filePath)
}
