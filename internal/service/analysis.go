// Package service exposes the analysis facade shared by the CLI and the
// HTTP API.
package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/neurostack/spiketrace/internal/engine"
	"github.com/neurostack/spiketrace/internal/metrics"
	"github.com/neurostack/spiketrace/internal/models"
	"github.com/neurostack/spiketrace/internal/plot"
	"github.com/neurostack/spiketrace/internal/utils"
)

// FigureRenderer writes an analysis result to an image file.
type FigureRenderer interface {
	Render(result models.AnalysisResult, path string) error
}

// AnalysisService runs the simulation pipeline and tracks run timings.
type AnalysisService struct {
	logger    *slog.Logger
	pipeline  *engine.Pipeline
	renderer  FigureRenderer
	latencies *utils.LatencyTracker
}

// NewAnalysisService constructs the service facade.
func NewAnalysisService(logger *slog.Logger, pipeline *engine.Pipeline, renderer FigureRenderer) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if renderer == nil {
		renderer = plot.NewRenderer()
	}
	return &AnalysisService{
		logger:    logger,
		pipeline:  pipeline,
		renderer:  renderer,
		latencies: utils.NewLatencyTracker(1024),
	}
}

// Analyze executes one simulate-and-characterize run.
func (s *AnalysisService) Analyze(req models.AnalysisRequest) (models.AnalysisResult, error) {
	if s.pipeline == nil {
		return models.AnalysisResult{}, fmt.Errorf("pipeline not configured")
	}

	start := time.Now()
	result, err := s.pipeline.Run(req)
	duration := time.Since(start)
	if err != nil {
		metrics.ObserveAnalysis(duration, metrics.OutcomeError)
		s.logger.Error("analysis run failed", slog.Any("error", err))
		return models.AnalysisResult{}, err
	}

	s.latencies.Observe(duration)
	metrics.ObserveAnalysis(duration, metrics.OutcomeSuccess)
	metrics.AddSpikesGenerated(len(result.Train))
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		p95 := s.latencies.Percentile(95)
		s.logger.Info("analysis latency", slog.Duration("p95", p95), slog.Int("samples", count))
	}

	return result, nil
}

// RenderFigure writes the diagnostic figure for a previously computed
// result. A failed write leaves the result untouched and never a partial
// file on disk.
func (s *AnalysisService) RenderFigure(result models.AnalysisResult, path string) error {
	if path == "" {
		path = plot.DefaultFigurePath
	}
	if err := s.renderer.Render(result, path); err != nil {
		s.logger.Error("figure render failed", slog.String("path", path), slog.Any("error", err))
		return err
	}
	s.logger.Info("figure saved", slog.String("path", path))
	return nil
}
