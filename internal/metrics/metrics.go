package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels successful analysis runs.
	OutcomeSuccess = "success"
	// OutcomeError labels failed analysis runs.
	OutcomeError = "error"
)

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spiketrace",
			Name:      "analyses_total",
			Help:      "Total number of analysis runs handled, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	analysisDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "spiketrace",
			Name:      "analysis_seconds",
			Help:      "Analysis run latency in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
	)

	spikesGeneratedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "spiketrace",
			Name:      "spikes_generated_total",
			Help:      "Total number of simulated spikes across all runs.",
		},
	)
)

// Register attaches spiketrace collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		analysesTotal,
		analysisDurationSeconds,
		spikesGeneratedTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveAnalysis records an analysis run duration and outcome label.
func ObserveAnalysis(duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	analysesTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	analysisDurationSeconds.Observe(duration.Seconds())
}

// AddSpikesGenerated accumulates the number of spikes produced by a run.
func AddSpikesGenerated(n int) {
	if n > 0 {
		spikesGeneratedTotal.Add(float64(n))
	}
}
