package detector

import (
	"math"
	"sort"

	"StockScreener/internal/calculator"
	"StockScreener/internal/model"
)

const (
	minSRBars          = 10
	minClusterStrength = 3
	maxLevelsPerSide   = 5
)

type cluster struct {
	price float64
	count int
}

// DetectSupportResistance clusters the window's highs and lows into price bins
// whose width is sensitivity percent of the latest close, so the bins widen with
// the stock's price. Bins touched at least three times become levels: below the
// latest close is support, everything else resistance. At most five per side,
// strongest first.
func DetectSupportResistance(bars []model.Bar, sensitivity float64) model.SupportResistance {
	var out model.SupportResistance
	if len(bars) < minSRBars || sensitivity <= 0 {
		return out
	}
	lastClose := bars[len(bars)-1].Close
	binWidth := lastClose * sensitivity / 100
	if !(binWidth > 0) || math.IsInf(binWidth, 0) {
		return out
	}

	prices := make([]float64, 0, 2*len(bars))
	for _, b := range bars {
		prices = append(prices, calculator.Round2(b.High))
	}
	for _, b := range bars {
		prices = append(prices, calculator.Round2(b.Low))
	}

	// clusters keep insertion order; the first price seen represents the bin
	var clusters []*cluster
	byKey := make(map[int64]*cluster)
	for _, p := range prices {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			continue
		}
		key := int64(math.Round(p / binWidth))
		c, ok := byKey[key]
		if !ok {
			c = &cluster{price: p}
			byKey[key] = c
			clusters = append(clusters, c)
		}
		c.count++
	}

	strong := make([]*cluster, 0, len(clusters))
	for _, c := range clusters {
		if c.count >= minClusterStrength {
			strong = append(strong, c)
		}
	}
	sort.SliceStable(strong, func(i, j int) bool { return strong[i].count > strong[j].count })

	for _, c := range strong {
		level := model.SRLevel{Price: c.price, Strength: c.count}
		if c.price < lastClose {
			if len(out.Support) < maxLevelsPerSide {
				out.Support = append(out.Support, level)
			}
		} else if len(out.Resistance) < maxLevelsPerSide {
			out.Resistance = append(out.Resistance, level)
		}
	}
	return out
}

// NearestLevel returns the level closest to price whose distance is strictly
// within proximity percent, or nil. Support distance is (price-level)/price and
// resistance distance (level-price)/price, both in percent.
func NearestLevel(levels model.SupportResistance, price, proximity float64) *model.NearLevel {
	if price <= 0 {
		return nil
	}
	var best *model.NearLevel
	consider := func(kind model.LevelKind, lvl model.SRLevel, distance float64) {
		if math.Abs(distance) >= proximity {
			return
		}
		if best == nil || math.Abs(distance) < math.Abs(best.Distance) {
			best = &model.NearLevel{Kind: kind, Level: lvl, Distance: distance}
		}
	}
	for _, lvl := range levels.Support {
		consider(model.LevelSupport, lvl, (price-lvl.Price)/price*100)
	}
	for _, lvl := range levels.Resistance {
		consider(model.LevelResistance, lvl, (lvl.Price-price)/price*100)
	}
	return best
}
