package detector

import (
	"math"

	"StockScreener/internal/calculator"
	"StockScreener/internal/model"
)

// TrendlineConfig controls trendline acceptance.
type TrendlineConfig struct {
	MinTouches       int
	ATRMultiplier    float64
	MinTrendDuration int
}

// VolumeConfirmationScore is the volume score at which a trend counts as
// backed by volume.
const VolumeConfirmationScore = 25

// AdaptiveThreshold is the touch band around a trendline:
// lastClose * atrMultiplier * ATR%/100.
func AdaptiveThreshold(bars []model.Bar, atrMultiplier float64) float64 {
	if len(bars) == 0 {
		return 0
	}
	return bars[len(bars)-1].Close * (atrMultiplier * calculator.ATRPercent(bars) / 100)
}

// DetectTrendline fits a support (up) or resistance (down) line through the
// window's swing points and scores it. Returns nil when the fit slopes the
// wrong way or too few touches or too short a span is found.
func DetectTrendline(bars []model.Bar, dir model.Direction, cfg TrendlineConfig) *model.TrendlineResult {
	extremes := findExtremePoints(bars, dir)
	if len(extremes) < 2 {
		return nil
	}

	line := calculator.LinearRegression(extremes)
	if dir == model.DirectionUp && !(line.Slope > 0) {
		return nil
	}
	if dir == model.DirectionDown && !(line.Slope < 0) {
		return nil
	}

	threshold := AdaptiveThreshold(bars, cfg.ATRMultiplier)
	touches := countTouches(bars, line, dir, threshold)
	if len(touches) < cfg.MinTouches {
		return nil
	}

	duration := 0
	if len(touches) >= 2 {
		duration = touches[len(touches)-1].Index - touches[0].Index
	}
	if duration < cfg.MinTrendDuration {
		return nil
	}

	score := qualityScore(len(touches), duration, len(extremes), line.Slope)
	return &model.TrendlineResult{
		Direction:     dir,
		Slope:         line.Slope,
		Intercept:     line.Intercept,
		Touches:       len(touches),
		TouchPoints:   touches,
		ExtremePoints: len(extremes),
		QualityScore:  score,
		Quality:       gradeQuality(score),
		VolumeScore:   volumeScore(bars, dir),
		Duration:      duration,
		Threshold:     threshold,
	}
}

// VolumeConfirmed reports whether a trendline's volume score clears the bar.
func VolumeConfirmed(res *model.TrendlineResult) bool {
	return res != nil && res.VolumeScore >= VolumeConfirmationScore
}

// DistancePercent is (current - trendline) / trendline * 100 rounded to two
// decimals; 0 when the trendline value is 0.
func DistancePercent(current, trendlineValue float64) float64 {
	if trendlineValue == 0 {
		return 0
	}
	return calculator.Round2((current - trendlineValue) / trendlineValue * 100)
}

// findExtremePoints collects swing lows for uptrends and swing highs for
// downtrends. The first and last bars are added when they are more extreme than
// the nearest collected point.
func findExtremePoints(bars []model.Bar, dir model.Direction) []calculator.Point {
	n := len(bars)
	if n == 0 {
		return nil
	}
	value := func(i int) float64 { return bars[i].Low }
	beyond := func(a, b float64) bool { return a < b }
	if dir == model.DirectionDown {
		value = func(i int) float64 { return bars[i].High }
		beyond = func(a, b float64) bool { return a > b }
	}

	var points []calculator.Point
	for i := 1; i < n-1; i++ {
		v := value(i)
		if !beyond(value(i-1), v) && !beyond(value(i+1), v) {
			points = append(points, calculator.Point{X: float64(i), Y: v})
		}
	}

	if len(points) == 0 || beyond(value(0), points[0].Y) {
		points = append([]calculator.Point{{X: 0, Y: value(0)}}, points...)
	}
	last := n - 1
	if beyond(value(last), points[len(points)-1].Y) {
		points = append(points, calculator.Point{X: float64(last), Y: value(last)})
	}
	return points
}

func countTouches(bars []model.Bar, line calculator.Line, dir model.Direction, threshold float64) []model.TouchPoint {
	var touches []model.TouchPoint
	for i := 0; i < len(bars); i++ {
		actual := bars[i].Low
		if dir == model.DirectionDown {
			actual = bars[i].High
		}
		if math.Abs(actual-line.At(float64(i))) <= threshold {
			touches = append(touches, model.TouchPoint{
				Index: i,
				Value: actual,
				Date:  bars[i].Date.Format("2006-01-02"),
			})
			i++ // adjacent bar would double count
		}
	}
	return touches
}

func qualityScore(touches, duration, extremes int, slope float64) float64 {
	score := math.Min(float64(touches)*10, 40)
	score += math.Min(float64(duration)/3, 30)
	score += math.Min(float64(extremes)*5, 20)
	score += math.Min(math.Abs(slope)*100, 10)
	return score
}

func gradeQuality(score float64) model.TrendQuality {
	switch {
	case score >= 75:
		return model.QualityStrong
	case score >= 50:
		return model.QualityMedium
	default:
		return model.QualityWeak
	}
}

// volumeScore counts bars that moved with the trend on rising volume,
// normalised against one such bar in five.
func volumeScore(bars []model.Bar, dir model.Direction) float64 {
	if len(bars) == 0 {
		return 0
	}
	volumes := calculator.Volumes(bars)
	count := 0
	for i := 1; i < len(bars); i++ {
		favourable := bars[i].Close > bars[i-1].Close
		if dir == model.DirectionDown {
			favourable = bars[i].Close < bars[i-1].Close
		}
		if favourable && volumes[i] > volumes[i-1] {
			count++
		}
	}
	return math.Min(100, float64(count)/(float64(len(bars))/5)*100)
}
