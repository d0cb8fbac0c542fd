// Package plot renders the three-panel diagnostic figure: spike raster,
// binned firing rate with mean overlay, and ISI histogram with summary
// statistics.
package plot

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/neurostack/spiketrace/internal/analysis"
	"github.com/neurostack/spiketrace/internal/models"
	"github.com/neurostack/spiketrace/internal/utils"
)

// DefaultFigurePath is where the analyze command writes the figure.
const DefaultFigurePath = "figures/spike_analysis.png"

const isiHistogramBins = 16

var (
	rasterColor  = color.RGBA{A: 255}
	rateColor    = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	overlayColor = color.RGBA{R: 178, G: 34, B: 34, A: 255}
	histColor    = color.RGBA{R: 255, G: 127, B: 80, A: 255}
)

// Renderer draws analysis results to a PNG file.
type Renderer struct {
	Width  vg.Length
	Height vg.Length
}

// NewRenderer creates a renderer with the default canvas size.
func NewRenderer() *Renderer {
	return &Renderer{Width: 9 * vg.Inch, Height: 10 * vg.Inch}
}

// Render draws the three panels and writes them to path. The image is
// written to a temporary file first and renamed into place, so a failed
// render never leaves a truncated figure behind.
func (r *Renderer) Render(result models.AnalysisResult, path string) error {
	const op = "render figure"

	raster, err := rasterPanel(result.Train)
	if err != nil {
		return utils.NewAppError(op, "raster panel", err)
	}
	rate, err := ratePanel(result.Rate)
	if err != nil {
		return utils.NewAppError(op, "rate panel", err)
	}
	hist, err := isiPanel(result.Train, result.ISI)
	if err != nil {
		return utils.NewAppError(op, "isi panel", err)
	}

	img := vgimg.New(r.Width, r.Height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 3,
		Cols: 1,
		PadY: vg.Millimeter * 3,
		PadX: vg.Millimeter * 2,
	}
	panels := [][]*plot.Plot{{raster}, {rate}, {hist}}
	canvases := plot.Align(panels, tiles, dc)
	for i := range panels {
		panels[i][0].Draw(canvases[i][0])
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return utils.NewAppError(op, "create output directory", err)
		}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return utils.NewAppError(op, "create output file", err)
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return utils.NewAppError(op, "encode png", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return utils.NewAppError(op, "close output file", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return utils.NewAppError(op, "finalize output file", err)
	}

	return nil
}

// rasterPanel plots each spike as a tick at y=1.
func rasterPanel(train models.SpikeTrain) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "A. Spike Raster Plot"
	p.Y.Label.Text = "Neuron"
	p.Y.Min, p.Y.Max = 0.5, 1.5
	p.Y.Tick.Marker = plot.ConstantTicks(nil)
	p.X.Min = 0
	p.X.Max = rasterXMax(train)

	if len(train) == 0 {
		return p, nil
	}

	pts := make(plotter.XYs, len(train))
	for i, t := range train {
		pts[i].X = t
		pts[i].Y = 1
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle.Shape = draw.BoxGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	scatter.GlyphStyle.Color = rasterColor
	p.Add(scatter)

	return p, nil
}

func rasterXMax(train models.SpikeTrain) float64 {
	if len(train) == 0 || train[len(train)-1] < analysis.DefaultDurationMs {
		return analysis.DefaultDurationMs
	}
	return train[len(train)-1]
}

// ratePanel plots the binned rate curve with a dashed mean overlay.
func ratePanel(series models.RateSeries) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "B. Instantaneous Firing Rate"
	p.Y.Label.Text = "Firing Rate (Hz)"
	p.Legend.Top = true

	if len(series.Rates) == 0 {
		return p, nil
	}

	pts := make(plotter.XYs, len(series.Rates))
	for i := range series.Rates {
		pts[i].X = series.BinCenters[i]
		pts[i].Y = series.Rates[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = rateColor
	p.Add(line)

	mean := stat.Mean(series.Rates, nil)
	overlay, err := horizontalLine(mean, pts[0].X, pts[len(pts)-1].X)
	if err != nil {
		return nil, err
	}
	p.Add(overlay)
	p.Legend.Add(fmt.Sprintf("Mean: %.1f Hz", mean), overlay)

	return p, nil
}

// isiPanel plots the interval histogram with a mean overlay and a stats
// annotation in the top-right corner.
func isiPanel(train models.SpikeTrain, stats models.ISIStatistics) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "C. Inter-Spike Interval Distribution"
	p.X.Label.Text = "Inter-Spike Interval (ms)"
	p.Y.Label.Text = "Count"

	intervals := analysis.Intervals(train)
	if len(intervals) > 0 {
		hist, err := plotter.NewHist(plotter.Values(intervals), isiHistogramBins)
		if err != nil {
			return nil, err
		}
		hist.FillColor = histColor
		p.Add(hist)

		overlay, err := verticalLine(stats.MeanISI, histogramPeak(intervals))
		if err != nil {
			return nil, err
		}
		p.Add(overlay)
		p.Legend.Add(fmt.Sprintf("Mean: %.1f ms", stats.MeanISI), overlay)
		p.Legend.Top = true
		p.Legend.Left = true
	}

	labels, err := statsAnnotation(intervals, stats)
	if err != nil {
		return nil, err
	}
	if labels != nil {
		p.Add(labels)
	}

	return p, nil
}

func horizontalLine(y, xmin, xmax float64) (*plotter.Line, error) {
	line, err := plotter.NewLine(plotter.XYs{{X: xmin, Y: y}, {X: xmax, Y: y}})
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = overlayColor
	line.LineStyle.Width = vg.Points(1)
	line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	return line, nil
}

func verticalLine(x, ymax float64) (*plotter.Line, error) {
	line, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: ymax}})
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = overlayColor
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	return line, nil
}

// histogramPeak approximates the tallest histogram bar so overlays span
// the full panel height.
func histogramPeak(intervals []float64) float64 {
	min, max := intervals[0], intervals[0]
	for _, v := range intervals {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		return float64(len(intervals))
	}

	counts := make([]int, isiHistogramBins)
	width := (max - min) / float64(isiHistogramBins)
	for _, v := range intervals {
		idx := int((v - min) / width)
		if idx >= isiHistogramBins {
			idx = isiHistogramBins - 1
		}
		counts[idx]++
	}
	peak := 0
	for _, c := range counts {
		if c > peak {
			peak = c
		}
	}
	return float64(peak)
}

func statsAnnotation(intervals []float64, stats models.ISIStatistics) (*plotter.Labels, error) {
	if len(intervals) == 0 {
		return nil, nil
	}

	xmax := intervals[0]
	for _, v := range intervals {
		if v > xmax {
			xmax = v
		}
	}
	top := histogramPeak(intervals)

	lines := []string{
		fmt.Sprintf("Mean ISI: %.2f ms", stats.MeanISI),
		fmt.Sprintf("Std ISI: %.2f ms", stats.StdISI),
		fmt.Sprintf("CV: %.2f", stats.CV),
		fmt.Sprintf("Intervals: %d", stats.NumIntervals),
	}
	xys := make(plotter.XYs, len(lines))
	for i := range lines {
		xys[i].X = xmax * 0.72
		xys[i].Y = top * (0.95 - 0.07*float64(i))
	}

	return plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: lines})
}
