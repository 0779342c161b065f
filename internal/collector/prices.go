package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// PriceFetcher reads live prices from the REST price feed. It tries
// /api/prices ({symbol: ltp}) first and falls back to /api/stocks
// ([{symbol, ltp, ...}]).
type PriceFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewPriceFetcher creates a new fetcher with optional proxy support.
func NewPriceFetcher(baseURL, apiKey, proxyURL string) *PriceFetcher {
	return &PriceFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *PriceFetcher) Name() string { return "prices" }

type stockQuote struct {
	Symbol string `json:"symbol"`
	LTP    number `json:"ltp"`
}

func (f *PriceFetcher) FetchPrices(ctx context.Context) (map[string]float64, error) {
	var prices map[string]number
	err := f.getJSON(ctx, "/api/prices", &prices)
	if err == nil && len(prices) > 0 {
		out := make(map[string]float64, len(prices))
		for sym, p := range prices {
			if p.set {
				out[sym] = p.value
			}
		}
		return out, nil
	}

	var stocks []stockQuote
	if stocksErr := f.getJSON(ctx, "/api/stocks", &stocks); stocksErr != nil {
		if err == nil {
			err = errors.New("empty price map")
		}
		return nil, fmt.Errorf("prices fetch failed: %w; stocks fallback also failed: %w", err, stocksErr)
	}
	out := make(map[string]float64, len(stocks))
	for _, s := range stocks {
		if s.Symbol != "" && s.LTP.set {
			out[s.Symbol] = s.LTP.value
		}
	}
	return out, nil
}

func (f *PriceFetcher) getJSON(ctx context.Context, path string, v any) error {
	req, err := newRequest(ctx, f.BaseURL+path, f.APIKey)
	if err != nil {
		return err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("get %s: status %d, body: %s", path, resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
