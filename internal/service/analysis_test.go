package service

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/neurostack/spiketrace/internal/engine"
	"github.com/neurostack/spiketrace/internal/models"
	"github.com/neurostack/spiketrace/internal/utils"
)

type fakeRenderer struct {
	calls int
	path  string
	err   error
}

func (f *fakeRenderer) Render(result models.AnalysisResult, path string) error {
	f.calls++
	f.path = path
	return f.err
}

func TestAnalyzeSuccess(t *testing.T) {
	svc := NewAnalysisService(nil, engine.NewPipeline(nil, nil, nil, nil), &fakeRenderer{})

	result, err := svc.Analyze(models.AnalysisRequest{Rate: 15, DurationMs: 1000, Seed: 42, BinSizeMs: 50})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(result.Train) == 0 {
		t.Fatalf("expected non-empty train")
	}
	if svc.latencies.Count() != 1 {
		t.Fatalf("expected one latency sample, got %d", svc.latencies.Count())
	}
}

func TestAnalyzeInvalidParameter(t *testing.T) {
	svc := NewAnalysisService(nil, engine.NewPipeline(nil, nil, nil, nil), &fakeRenderer{})

	if _, err := svc.Analyze(models.AnalysisRequest{Rate: -1, DurationMs: 1000}); !errors.Is(err, utils.ErrInvalidParameter) {
		t.Fatalf("expected invalid parameter error, got %v", err)
	}
}

func TestAnalyzeNoPipeline(t *testing.T) {
	svc := NewAnalysisService(nil, nil, &fakeRenderer{})

	if _, err := svc.Analyze(models.AnalysisRequest{Rate: 1, DurationMs: 10}); err == nil {
		t.Fatalf("expected error without a pipeline")
	}
}

func TestRenderFigureDefaultsPath(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := NewAnalysisService(nil, engine.NewPipeline(nil, nil, nil, nil), renderer)

	if err := svc.RenderFigure(models.AnalysisResult{}, ""); err != nil {
		t.Fatalf("render: %v", err)
	}
	if renderer.calls != 1 {
		t.Fatalf("expected one render call, got %d", renderer.calls)
	}
	if filepath.Base(renderer.path) != "spike_analysis.png" {
		t.Fatalf("expected default figure path, got %q", renderer.path)
	}
}

func TestRenderFigurePropagatesError(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("disk full")}
	svc := NewAnalysisService(nil, engine.NewPipeline(nil, nil, nil, nil), renderer)

	if err := svc.RenderFigure(models.AnalysisResult{}, "out.png"); err == nil {
		t.Fatalf("expected render error to propagate")
	}
}
