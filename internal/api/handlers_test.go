package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/neurostack/spiketrace/internal/config"
	"github.com/neurostack/spiketrace/internal/engine"
	"github.com/neurostack/spiketrace/internal/service"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	svc := service.NewAnalysisService(nil, engine.NewPipeline(nil, nil, nil, nil), nil)
	defaults := config.SimulationConfig{RateHz: 15, DurationMs: 1000, Seed: 42}
	handlers := NewHandlers(nil, svc, defaults, 50)

	mux := http.NewServeMux()
	handlers.Register(mux)
	return mux
}

func TestHandleAnalyzeDefaults(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(""))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.SpikeTimesMs) == 0 {
		t.Fatalf("expected spikes in response")
	}
	if len(resp.Rate.RatesHz) != 20 {
		t.Fatalf("expected 20 rate bins, got %d", len(resp.Rate.RatesHz))
	}
	if resp.ISI.NumIntervals != len(resp.SpikeTimesMs)-1 {
		t.Fatalf("interval count %d does not match %d spikes", resp.ISI.NumIntervals, len(resp.SpikeTimesMs))
	}
	if resp.Pattern == "" {
		t.Fatalf("expected a pattern classification")
	}
	if !strings.Contains(resp.Summary, "SPIKE TRAIN ANALYSIS SUMMARY") {
		t.Fatalf("expected rendered summary in response")
	}
}

func TestHandleAnalyzeOverrides(t *testing.T) {
	mux := newTestMux(t)

	body := `{"rate_hz": 0, "duration_ms": 500, "seed": 3}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.SpikeTimesMs) != 0 {
		t.Fatalf("expected empty train for zero rate, got %d spikes", len(resp.SpikeTimesMs))
	}
	if resp.ISI.NumIntervals != 0 || resp.ISI.CV != 0 {
		t.Fatalf("expected zero-filled ISI statistics, got %+v", resp.ISI)
	}
}

func TestHandleAnalyzeInvalidParameter(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{"rate_hz": -3}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative rate, got %d", rec.Code)
	}
}

func TestHandleAnalyzeMethodNotAllowed(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyze", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET, got %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("unexpected health body %q", rec.Body.String())
	}
}
