package models

// SpikeTrain is an ordered sequence of spike timestamps in milliseconds,
// strictly non-decreasing, covering one simulated neuron's firing events
// over a finite recording window starting at zero. May be empty.
type SpikeTrain []float64

// RateSeries is a piecewise-constant estimate of instantaneous firing rate.
// BinCenters and Rates always have equal length.
type RateSeries struct {
	BinCenters []float64 // ms
	Rates      []float64 // spikes per second
	BinSize    float64   // ms
}

// ISIStatistics summarises the distribution of consecutive-spike intervals.
// When NumIntervals is zero every numeric field is zero, never NaN.
type ISIStatistics struct {
	MeanISI      float64 // ms
	StdISI       float64 // ms, population standard deviation
	CV           float64 // dimensionless
	NumIntervals int
}

// FiringPattern is the qualitative classification of a spike train.
type FiringPattern string

const (
	PatternRegular     FiringPattern = "regular/rhythmic"
	PatternPoissonLike FiringPattern = "Poisson-like/irregular"
	PatternBursty      FiringPattern = "bursty/highly variable"
)

// CV thresholds separating the firing pattern classes. Fixed constants of
// the analysis, not configuration.
const (
	CVRegularUpper = 0.5
	CVPoissonUpper = 1.5
)

// ClassifyCV maps a coefficient of variation onto a firing pattern.
func ClassifyCV(cv float64) FiringPattern {
	switch {
	case cv < CVRegularUpper:
		return PatternRegular
	case cv < CVPoissonUpper:
		return PatternPoissonLike
	default:
		return PatternBursty
	}
}
