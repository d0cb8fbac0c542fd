package analysis

import (
	"math"
	"testing"

	"github.com/neurostack/spiketrace/internal/models"
)

func TestAnalyzeDegenerateTrains(t *testing.T) {
	analyzer := NewISIAnalyzer()

	tests := []struct {
		name  string
		train models.SpikeTrain
	}{
		{name: "empty", train: nil},
		{name: "single spike", train: models.SpikeTrain{5.0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stats := analyzer.Analyze(tc.train)
			if stats != (models.ISIStatistics{}) {
				t.Fatalf("expected zero-filled statistics, got %+v", stats)
			}
		})
	}
}

func TestAnalyzeKnownIntervals(t *testing.T) {
	analyzer := NewISIAnalyzer()

	// Intervals: 10, 10, 20.
	stats := analyzer.Analyze(models.SpikeTrain{0, 10, 20, 40})

	if stats.NumIntervals != 3 {
		t.Fatalf("expected 3 intervals, got %d", stats.NumIntervals)
	}
	wantMean := 40.0 / 3.0
	if math.Abs(stats.MeanISI-wantMean) > 1e-9 {
		t.Fatalf("mean ISI %v, want %v", stats.MeanISI, wantMean)
	}
	wantStd := math.Sqrt(200.0 / 9.0)
	if math.Abs(stats.StdISI-wantStd) > 1e-9 {
		t.Fatalf("std ISI %v, want %v", stats.StdISI, wantStd)
	}
	if math.Abs(stats.CV-wantStd/wantMean) > 1e-9 {
		t.Fatalf("cv %v, want %v", stats.CV, wantStd/wantMean)
	}
}

func TestAnalyzeZeroMeanClampsCV(t *testing.T) {
	analyzer := NewISIAnalyzer()

	// Coincident spikes: every interval is zero, so the mean is zero too.
	stats := analyzer.Analyze(models.SpikeTrain{5, 5, 5})

	if stats.NumIntervals != 2 {
		t.Fatalf("expected 2 intervals, got %d", stats.NumIntervals)
	}
	if stats.CV != 0 {
		t.Fatalf("expected cv clamped to 0, got %v", stats.CV)
	}
	if math.IsNaN(stats.CV) || math.IsInf(stats.CV, 0) {
		t.Fatalf("cv must stay finite, got %v", stats.CV)
	}
}

func TestAnalyzeRegularTrain(t *testing.T) {
	analyzer := NewISIAnalyzer()

	stats := analyzer.Analyze(models.SpikeTrain{0, 100, 200, 300, 400})

	if stats.MeanISI != 100 {
		t.Fatalf("mean ISI %v, want 100", stats.MeanISI)
	}
	if stats.StdISI != 0 {
		t.Fatalf("std ISI %v, want 0", stats.StdISI)
	}
	if stats.CV != 0 {
		t.Fatalf("cv %v, want 0", stats.CV)
	}
}

func TestIntervals(t *testing.T) {
	got := Intervals(models.SpikeTrain{1, 4, 9})
	want := []float64{3, 5}
	if len(got) != len(want) {
		t.Fatalf("expected %d intervals, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("interval %d: %v, want %v", i, got[i], want[i])
		}
	}
	if Intervals(models.SpikeTrain{7}) != nil {
		t.Fatalf("expected nil intervals for single spike")
	}
}
