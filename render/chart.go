// Package render turns the engine's render-ready payloads into bytes: PNG
// charts, the HTML dashboard, XLSX workbooks and the CLI outputs.
package render

import (
	"bytes"
	"io"
	"math"

	"github.com/pkg/errors"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/lisacrebassa/pals-analysis/engine"
	"github.com/lisacrebassa/pals-analysis/metrics"
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("chart has no data")

// Size is the pixel size of a rendered chart.
type Size struct {
	Width  int
	Height int
}

// DefaultSize matches the dashboard layout.
var DefaultSize = Size{Width: 800, Height: 500}

func (s Size) orDefault() Size {
	if s.Width <= 0 {
		s.Width = DefaultSize.Width
	}
	if s.Height <= 0 {
		s.Height = DefaultSize.Height
	}
	return s
}

// ChartPNG draws cfg as a PNG image into w.
func ChartPNG(w io.Writer, cfg *engine.ChartConfig, size Size) error {
	if cfg == nil {
		return ErrNoData
	}
	size = size.orDefault()

	var buf bytes.Buffer
	var err error
	switch cfg.ChartType {
	case engine.ChartHeatmap:
		err = heatmapPNG(&buf, cfg, size)
	case engine.ChartScatter:
		err = scatterPNG(&buf, cfg, size)
	case engine.ChartHistogram, engine.ChartCountPlot:
		err = barPNG(&buf, cfg, size)
	default:
		return errors.Errorf("unsupported chart type %q", cfg.ChartType)
	}
	if err != nil {
		return err
	}

	metrics.RecordChart(cfg.ChartType)
	_, err = w.Write(buf.Bytes())
	return errors.WithStack(err)
}

// pointStyle renders dots only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

func scatterPNG(w io.Writer, cfg *engine.ChartConfig, size Size) error {
	if len(cfg.Series) == 0 || len(cfg.Series[0].Data) == 0 {
		return ErrNoData
	}
	points := cfg.Series[0].Data

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Value
	}

	ch := chart.Chart{
		Title:      cfg.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: cfg.XAxis, Range: paddedRange(xs)},
		YAxis:      chart.YAxis{Name: cfg.YAxis, Range: paddedRange(ys)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    cfg.Series[0].Name,
				XValues: xs,
				YValues: ys,
				Style:   pointStyle(seriesColor(cfg)),
			},
		},
	}
	return errors.Wrap(ch.Render(chart.PNG, w), "render scatter")
}

func barPNG(w io.Writer, cfg *engine.ChartConfig, size Size) error {
	if len(cfg.Series) == 0 || len(cfg.Series[0].Data) == 0 {
		return ErrNoData
	}
	points := cfg.Series[0].Data
	col := seriesColor(cfg)

	bars := make([]chart.Value, len(points))
	maxV := 0.0
	for i, p := range points {
		bars[i] = chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		}
		maxV = math.Max(maxV, p.Value)
	}
	if maxV <= 0 {
		maxV = 1
	}

	bc := chart.BarChart{
		Title:      cfg.Title,
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   barWidth(size.Width, len(bars)),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.Style{TextRotationDegrees: labelRotation(cfg)},
		YAxis: chart.YAxis{
			Name:  cfg.YAxis,
			Range: &chart.ContinuousRange{Min: 0, Max: maxV * 1.1},
		},
		Bars: bars,
	}
	return errors.Wrap(bc.Render(chart.PNG, w), "render bars")
}

// paddedRange widens [min, max] by 5% on each side; a single value gets a
// unit-wide window so the range is never empty.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func barWidth(width, n int) int {
	if n == 0 {
		return 0
	}
	bw := (width - 120) / (n + n/3 + 1)
	if bw < 8 {
		return 8
	}
	if bw > 60 {
		return 60
	}
	return bw
}

// Count plots carry zone names; tilt them so they do not overlap.
func labelRotation(cfg *engine.ChartConfig) float64 {
	if cfg.ChartType == engine.ChartCountPlot {
		return 45
	}
	return 0
}

func seriesColor(cfg *engine.ChartConfig) drawing.Color {
	if len(cfg.Series) > 0 && cfg.Series[0].Color != "" {
		return drawing.ColorFromHex(trimHash(cfg.Series[0].Color))
	}
	return chart.ColorBlue
}

func trimHash(s string) string {
	if len(s) > 0 && s[0] == '#' {
		return s[1:]
	}
	return s
}
