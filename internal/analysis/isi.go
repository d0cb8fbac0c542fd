package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/neurostack/spiketrace/internal/models"
)

// ISIAnalyzer computes inter-spike-interval statistics.
type ISIAnalyzer struct{}

// NewISIAnalyzer creates an ISI analyzer.
func NewISIAnalyzer() *ISIAnalyzer {
	return &ISIAnalyzer{}
}

// Analyze returns mean, population standard deviation, and coefficient of
// variation of the consecutive-spike intervals. Trains with fewer than two
// spikes yield the all-zero record; a zero mean clamps CV to zero rather
// than dividing by it.
func (a *ISIAnalyzer) Analyze(train models.SpikeTrain) models.ISIStatistics {
	intervals := Intervals(train)
	if len(intervals) == 0 {
		return models.ISIStatistics{}
	}

	mean := stat.Mean(intervals, nil)
	std := stat.PopStdDev(intervals, nil)

	cv := 0.0
	if mean > 0 {
		cv = std / mean
	}

	return models.ISIStatistics{
		MeanISI:      mean,
		StdISI:       std,
		CV:           cv,
		NumIntervals: len(intervals),
	}
}

// Intervals returns the consecutive differences of a spike train.
// Empty and single-spike trains have no intervals.
func Intervals(train models.SpikeTrain) []float64 {
	if len(train) < 2 {
		return nil
	}
	intervals := make([]float64, len(train)-1)
	for i := 1; i < len(train); i++ {
		intervals[i-1] = train[i] - train[i-1]
	}
	return intervals
}
