package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/neurostack/spiketrace/internal/analysis"
	"github.com/neurostack/spiketrace/internal/generator"
	"github.com/neurostack/spiketrace/internal/models"
)

// SpikeGenerator defines the simulation behaviour used by the pipeline.
type SpikeGenerator interface {
	Generate(rate, duration float64, seed uint64) (models.SpikeTrain, error)
}

// RateEstimator defines the binned-rate behaviour used by the pipeline.
type RateEstimator interface {
	Estimate(train models.SpikeTrain, binSize, duration float64) (models.RateSeries, error)
}

// ISIAnalyzer defines the interval-statistics behaviour used by the pipeline.
type ISIAnalyzer interface {
	Analyze(train models.SpikeTrain) models.ISIStatistics
}

// Pipeline orchestrates one simulate-then-characterize run.
type Pipeline struct {
	logger    *slog.Logger
	generator SpikeGenerator
	rates     RateEstimator
	isi       ISIAnalyzer
}

// NewPipeline constructs an analysis pipeline.
func NewPipeline(logger *slog.Logger, gen SpikeGenerator, rates RateEstimator, isi ISIAnalyzer) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if gen == nil {
		gen = generator.New()
	}
	if rates == nil {
		rates = analysis.NewRateEstimator()
	}
	if isi == nil {
		isi = analysis.NewISIAnalyzer()
	}

	return &Pipeline{
		logger:    logger,
		generator: gen,
		rates:     rates,
		isi:       isi,
	}
}

// Run generates a spike train and derives both estimator projections.
// The rate series covers the full requested recording window; the summary
// figures (duration, mean rate) follow the recorded train itself.
func (p *Pipeline) Run(req models.AnalysisRequest) (models.AnalysisResult, error) {
	train, err := p.generator.Generate(req.Rate, req.DurationMs, req.Seed)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("generate spike train: %w", err)
	}
	p.logger.Debug("spike train generated",
		slog.Int("spikes", len(train)),
		slog.Float64("rate_hz", req.Rate),
		slog.Uint64("seed", req.Seed),
	)

	rateSeries, err := p.rates.Estimate(train, req.BinSizeMs, req.DurationMs)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("estimate firing rate: %w", err)
	}

	isiStats := p.isi.Analyze(train)

	result := models.AnalysisResult{
		Train:     train,
		Rate:      rateSeries,
		ISI:       isiStats,
		Pattern:   models.ClassifyCV(isiStats.CV),
		CreatedAt: time.Now().UTC(),
	}
	result.DurationSeconds, result.MeanRateHz = recordingSummary(train)

	return result, nil
}

// recordingSummary derives the observed duration (seconds) and mean rate
// (Hz) from the train, assuming a one-second window when it is empty.
func recordingSummary(train models.SpikeTrain) (float64, float64) {
	durationSeconds := 1.0
	if len(train) > 0 {
		durationSeconds = train[len(train)-1] / 1000.0
	}
	if durationSeconds <= 0 {
		return durationSeconds, 0
	}
	return durationSeconds, float64(len(train)) / durationSeconds
}
