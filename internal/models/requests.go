package models

import "time"

// AnalysisRequest carries the parameters for one simulation-and-analysis run.
type AnalysisRequest struct {
	Rate       float64 // mean firing rate, Hz; must be >= 0
	DurationMs float64 // recording length, ms; must be > 0
	Seed       uint64
	BinSizeMs  float64 // rate estimation bin width; 0 selects the default
}

// AnalysisResult bundles the numeric artifacts of one run in a form any
// rendering layer can consume directly.
type AnalysisResult struct {
	Train           SpikeTrain
	Rate            RateSeries
	ISI             ISIStatistics
	Pattern         FiringPattern
	MeanRateHz      float64
	DurationSeconds float64
	CreatedAt       time.Time
}
