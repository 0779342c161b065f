package model

import (
	"math"
	"time"
)

// StockLevels is the user's annotation of one stock.
// Zero prices mean "not set".
type StockLevels struct {
	Symbol          string    `json:"symbol"`
	SupportPrice1   float64   `json:"supportPrice1,omitempty"`
	SupportPrice2   float64   `json:"supportPrice2,omitempty"`
	SupportPrice3   float64   `json:"supportPrice3,omitempty"`
	UpperLimit      float64   `json:"upperLimit,omitempty"`
	Sector          string    `json:"sector,omitempty"`
	Folder          string    `json:"folder,omitempty"`
	Watchlist       bool      `json:"watchlist"`
	Bought          bool      `json:"bought"`
	BuyPrice        float64   `json:"buyPrice,omitempty"`
	StoplossPrice   float64   `json:"stoplossPrice,omitempty"`
	StoplossPercent float64   `json:"stoplossPercent,omitempty"` // below BuyPrice
	StoplossManual  bool      `json:"stoplossManual,omitempty"`
	AddedAt         time.Time `json:"addedAt"`
}

// Supports returns the three support slots in order (1-based level = index+1).
func (s StockLevels) Supports() [3]float64 {
	return [3]float64{s.SupportPrice1, s.SupportPrice2, s.SupportPrice3}
}

// AutoStoploss returns the stop-loss percent below BuyPrice, rounded to two
// decimals. ok is false without a buy price.
func (s StockLevels) AutoStoploss(percent float64) (price float64, ok bool) {
	if !(s.BuyPrice > 0) {
		return 0, false
	}
	return math.Round(s.BuyPrice*(1-percent/100)*100) / 100, true
}

// DashboardRow is the dashboard view of one watchlist stock.
type DashboardRow struct {
	Symbol         string      `json:"symbol"`
	CurrentPrice   float64     `json:"currentPrice"`
	SupportDiffs   [3]float64  `json:"supportDiffs"`
	UpperLimitDiff float64     `json:"upperLimitDiff"`
	Levels         StockLevels `json:"levels"`
}
