package calculator

// Point is an (x, y) sample for regression.
type Point struct {
	X float64
	Y float64
}

// Line is slope/intercept of an OLS fit.
type Line struct {
	Slope     float64
	Intercept float64
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Trend labels for ClassifyTrend.
const (
	TrendRising  = "rising"
	TrendFalling = "falling"
	TrendFlat    = "flat"
)

// trendDeadband is the slope magnitude below which a trend reads as flat.
const trendDeadband = 0.1

// minTrendPoints is the fewest samples LinearTrend will fit.
const minTrendPoints = 5

// LinearRegression fits y = slope*x + intercept by least squares. A degenerate
// fit (all x equal, or no points) has slope 0 and passes through mean y.
func LinearRegression(points []Point) Line {
	n := float64(len(points))
	if n == 0 {
		return Line{}
	}
	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumXX += p.X * p.X
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return Line{Intercept: sumY / n}
	}
	slope := (n*sumXY - sumX*sumY) / denom
	return Line{Slope: slope, Intercept: (sumY - slope*sumX) / n}
}

// LinearTrend is the OLS slope of values against their index.
// Returns 0 for fewer than five values or a zero denominator.
func LinearTrend(values []float64) float64 {
	if len(values) < minTrendPoints {
		return 0
	}
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// RecentTrend is LinearTrend over the last five values.
func RecentTrend(values []float64) float64 {
	if len(values) < minTrendPoints {
		return 0
	}
	return LinearTrend(values[len(values)-minTrendPoints:])
}

// ClassifyTrend maps a slope onto rising / falling / flat.
func ClassifyTrend(slope float64) string {
	switch {
	case slope > trendDeadband:
		return TrendRising
	case slope < -trendDeadband:
		return TrendFalling
	default:
		return TrendFlat
	}
}
