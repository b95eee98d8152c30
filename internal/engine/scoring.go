package engine

import "math"

// Curve is a log-normal scoring curve described by its 10th percentile and
// median, both in milliseconds. A value at the median scores 0.5 and a value at
// p10 scores 0.9.
type Curve struct {
	P10    float64
	Median float64
}

// Mobile curves used by the native engine.
var (
	CurveFirstContentfulPaint = Curve{P10: 1800, Median: 3000}
	CurveFirstMeaningfulPaint = Curve{P10: 2000, Median: 4000}
	CurveSpeedIndex           = Curve{P10: 3387, Median: 5800}
	CurveInteractive          = Curve{P10: 3785, Median: 7300}
	CurveBootupTime           = Curve{P10: 1291, Median: 3500}
)

// inverse of erfc(x) = 1/5, makes p10 land exactly on 0.9
const inverseErfcOneFifth = 0.9061938024368232

// Score maps value onto the curve. The result is clamped into the band the
// value falls in so that p10 and median remain hard thresholds.
func (c Curve) Score(value float64) float64 {
	if c.Median <= 0 || value <= 0 {
		return 1
	}
	xLogRatio := math.Log(math.Max(math.SmallestNonzeroFloat64, value/c.Median))
	p10LogRatio := -math.Log(math.Max(math.SmallestNonzeroFloat64, c.P10/c.Median))
	standardized := xLogRatio * inverseErfcOneFifth / p10LogRatio
	percentile := (1 - math.Erf(standardized)) / 2

	var score float64
	switch {
	case value <= c.P10:
		score = math.Max(0.9, math.Min(1, percentile))
	case value <= c.Median:
		score = math.Max(0.5, math.Min(0.8999999999999999, percentile))
	default:
		score = math.Max(0, math.Min(0.49999999999999994, percentile))
	}
	return math.Round(score*100) / 100
}
