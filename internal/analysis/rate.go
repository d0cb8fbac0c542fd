package analysis

import (
	"fmt"
	"math"

	"github.com/neurostack/spiketrace/internal/models"
	"github.com/neurostack/spiketrace/internal/utils"
)

// DefaultBinSizeMs is the bin width used when the caller does not pick one.
const DefaultBinSizeMs = 50.0

// DefaultDurationMs is assumed for an empty train with no explicit duration.
// An arbitrary but fixed policy: "no spikes" is read as a one-second window.
const DefaultDurationMs = 1000.0

// RateEstimator converts spike timestamps into a binned firing-rate series.
type RateEstimator struct{}

// NewRateEstimator creates a firing-rate estimator.
func NewRateEstimator() *RateEstimator {
	return &RateEstimator{}
}

// Estimate partitions [0, duration] into half-open bins of binSize ms (the
// right edge of the last bin is inclusive) and converts per-bin spike counts
// to rates in spikes per second.
//
// binSize zero selects DefaultBinSizeMs; negative is rejected. duration <= 0
// means unset: the last spike time is used, or DefaultDurationMs when the
// train is empty.
func (e *RateEstimator) Estimate(train models.SpikeTrain, binSize, duration float64) (models.RateSeries, error) {
	if binSize < 0 {
		return models.RateSeries{}, utils.NewInvalidParameter("estimate rate", fmt.Sprintf("bin size must be > 0, got %g", binSize))
	}
	if binSize == 0 {
		binSize = DefaultBinSizeMs
	}
	if duration <= 0 {
		if len(train) > 0 {
			duration = train[len(train)-1]
		} else {
			duration = DefaultDurationMs
		}
	}

	numBins := int(math.Ceil(duration / binSize))
	series := models.RateSeries{
		BinCenters: make([]float64, numBins),
		Rates:      make([]float64, numBins),
		BinSize:    binSize,
	}
	if numBins == 0 {
		return series, nil
	}

	upper := float64(numBins) * binSize
	counts := make([]int, numBins)
	for _, t := range train {
		if t < 0 || t > upper {
			continue
		}
		idx := int(t / binSize)
		if idx >= numBins {
			idx = numBins - 1
		}
		counts[idx]++
	}

	secondsPerBin := binSize / 1000.0
	for i := range counts {
		series.BinCenters[i] = float64(i)*binSize + binSize/2
		series.Rates[i] = float64(counts[i]) / secondsPerBin
	}

	return series, nil
}
