package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/neurostack/spiketrace/internal/config"
	"github.com/neurostack/spiketrace/internal/models"
	"github.com/neurostack/spiketrace/internal/report"
	"github.com/neurostack/spiketrace/internal/service"
	"github.com/neurostack/spiketrace/internal/utils"
)

// AnalyzeRequest is the JSON body of POST /api/v1/analyze. Omitted fields
// fall back to the configured simulation defaults.
type AnalyzeRequest struct {
	RateHz     *float64 `json:"rate_hz,omitempty"`
	DurationMs *float64 `json:"duration_ms,omitempty"`
	Seed       *uint64  `json:"seed,omitempty"`
	BinSizeMs  *float64 `json:"bin_size_ms,omitempty"`
}

// RateSeriesPayload is the wire form of a binned rate estimate.
type RateSeriesPayload struct {
	BinCentersMs []float64 `json:"bin_centers_ms"`
	RatesHz      []float64 `json:"rates_hz"`
	BinSizeMs    float64   `json:"bin_size_ms"`
}

// ISIStatisticsPayload is the wire form of interval statistics.
type ISIStatisticsPayload struct {
	MeanISIMs    float64 `json:"mean_isi_ms"`
	StdISIMs     float64 `json:"std_isi_ms"`
	CV           float64 `json:"cv"`
	NumIntervals int     `json:"num_intervals"`
}

// AnalyzeResponse carries the numeric artifacts of one run plus the
// rendered console summary.
type AnalyzeResponse struct {
	SpikeTimesMs    []float64            `json:"spike_times_ms"`
	Rate            RateSeriesPayload    `json:"rate"`
	ISI             ISIStatisticsPayload `json:"isi"`
	Pattern         string               `json:"pattern"`
	MeanRateHz      float64              `json:"mean_rate_hz"`
	DurationSeconds float64              `json:"duration_seconds"`
	Summary         string               `json:"summary"`
	CreatedAt       time.Time            `json:"created_at"`
}

// Handlers exposes the analysis service over HTTP.
type Handlers struct {
	logger   *slog.Logger
	service  *service.AnalysisService
	defaults config.SimulationConfig
	binSize  float64
}

// NewHandlers constructs the HTTP handler set.
func NewHandlers(logger *slog.Logger, svc *service.AnalysisService, defaults config.SimulationConfig, binSizeMs float64) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		logger:   logger,
		service:  svc,
		defaults: defaults,
		binSize:  binSizeMs,
	}
}

// Register wires the handler routes onto a mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/api/v1/analyze", h.handleAnalyze)
}

func (h *Handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// An empty body runs the configured defaults.
	var body AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	req := h.toDomainRequest(body)
	result, err := h.service.Analyze(req)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidParameter) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("analyze request failed", slog.Any("error", err))
		http.Error(w, "analysis failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, toAnalyzeResponse(result))
}

func (h *Handlers) toDomainRequest(body AnalyzeRequest) models.AnalysisRequest {
	req := models.AnalysisRequest{
		Rate:       h.defaults.RateHz,
		DurationMs: h.defaults.DurationMs,
		Seed:       h.defaults.Seed,
		BinSizeMs:  h.binSize,
	}
	if body.RateHz != nil {
		req.Rate = *body.RateHz
	}
	if body.DurationMs != nil {
		req.DurationMs = *body.DurationMs
	}
	if body.Seed != nil {
		req.Seed = *body.Seed
	}
	if body.BinSizeMs != nil {
		req.BinSizeMs = *body.BinSizeMs
	}
	return req
}

func toAnalyzeResponse(result models.AnalysisResult) AnalyzeResponse {
	return AnalyzeResponse{
		SpikeTimesMs: append([]float64(nil), result.Train...),
		Rate: RateSeriesPayload{
			BinCentersMs: append([]float64(nil), result.Rate.BinCenters...),
			RatesHz:      append([]float64(nil), result.Rate.Rates...),
			BinSizeMs:    result.Rate.BinSize,
		},
		ISI: ISIStatisticsPayload{
			MeanISIMs:    result.ISI.MeanISI,
			StdISIMs:     result.ISI.StdISI,
			CV:           result.ISI.CV,
			NumIntervals: result.ISI.NumIntervals,
		},
		Pattern:         string(result.Pattern),
		MeanRateHz:      result.MeanRateHz,
		DurationSeconds: result.DurationSeconds,
		Summary:         report.Render(result),
		CreatedAt:       result.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
	}
}
