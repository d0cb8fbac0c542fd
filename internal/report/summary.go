// Package report formats analysis results for the console.
package report

import (
	"fmt"
	"strings"

	"github.com/neurostack/spiketrace/internal/models"
)

const rule = "============================================================"

// Render produces the spike train summary report. Field order is stable:
// duration, spike count, mean rate, then the ISI block, then the pattern
// interpretation.
func Render(result models.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(rule + "\n")
	b.WriteString("           SPIKE TRAIN ANALYSIS SUMMARY\n")
	b.WriteString(rule + "\n\n")

	b.WriteString("Recording Properties:\n")
	fmt.Fprintf(&b, "  Duration:              %.2f seconds\n", result.DurationSeconds)
	fmt.Fprintf(&b, "  Total spikes:          %d\n", len(result.Train))
	fmt.Fprintf(&b, "  Mean firing rate:      %.2f Hz\n", result.MeanRateHz)

	b.WriteString("\nInter-Spike Interval Statistics:\n")
	fmt.Fprintf(&b, "  Mean ISI:              %.2f ms\n", result.ISI.MeanISI)
	fmt.Fprintf(&b, "  ISI standard dev:      %.2f ms\n", result.ISI.StdISI)
	fmt.Fprintf(&b, "  Coefficient of var:    %.2f\n", result.ISI.CV)
	fmt.Fprintf(&b, "  Number of intervals:   %d\n", result.ISI.NumIntervals)

	b.WriteString("\nFiring Pattern Interpretation:\n")
	fmt.Fprintf(&b, "  CV = %.2f suggests: %s firing\n", result.ISI.CV, result.Pattern)

	b.WriteString(rule + "\n")
	return b.String()
}
