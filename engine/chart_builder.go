package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// CHART BUILDER: Produces ChartConfig from engine results
// ============================================================================
// One builder per chart type the dashboard draws: heatmap, scatter,
// histogram, count plot. The renderer turns ChartConfig into pixels.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildHeatmap produces an annotated correlation heatmap.
func BuildHeatmap(m *CorrelationMatrix, title string) *ChartConfig {
	if m == nil || len(m.Labels) == 0 {
		return nil
	}

	values := make([][]Number, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]Number, len(row))
		for j, v := range row {
			values[i][j] = Number(v)
		}
	}

	return &ChartConfig{
		ChartType: ChartHeatmap,
		Title:     title,
		Series:    []ChartSeries{},
		Heatmap: &HeatmapData{
			Labels: append([]string(nil), m.Labels...),
			Values: values,
			Min:    -1,
			Max:    1,
		},
	}
}

// BuildScatter plots y against x for every row where both are present.
func BuildScatter(view RecordView, x, y, title string, opts ...Option) (*ChartConfig, error) {
	cfg := applyOptions(opts)
	if err := RequireMeasures(view, x, y); err != nil {
		return nil, err
	}

	points := make([]ChartPoint, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		xv, yv := view.Measure(i, x), view.Measure(i, y)
		if math.IsNaN(xv) || math.IsNaN(yv) {
			continue
		}
		label := ""
		if cfg.LabelColumn != "" {
			label = view.Dimension(i, cfg.LabelColumn)
		}
		points = append(points, ChartPoint{Label: label, X: xv, Value: yv})
	}

	return &ChartConfig{
		ChartType: ChartScatter,
		Title:     title,
		XAxis:     x,
		YAxis:     y,
		Series:    []ChartSeries{{Name: y, Data: points, Color: defaultColors[0]}},
		Colors:    assignColors(1),
		ShowGrid:  true,
	}, nil
}

// BuildHistogram produces one bar per bin, labelled with its range.
func BuildHistogram(bins []Bin, column, title string) *ChartConfig {
	points := make([]ChartPoint, 0, len(bins))
	for _, b := range bins {
		points = append(points, ChartPoint{
			Label: fmt.Sprintf("%s–%s", FormatNumber(RoundTo2(b.Lower)), FormatNumber(RoundTo2(b.Upper))),
			X:     b.Lower,
			Value: float64(b.Count),
		})
	}

	return &ChartConfig{
		ChartType: ChartHistogram,
		Title:     title,
		XAxis:     column,
		YAxis:     countAxis,
		Series:    []ChartSeries{{Name: column, Data: points, Color: defaultColors[0]}},
		Colors:    assignColors(1),
		ShowGrid:  true,
	}
}

const countAxis = "Count"

// BuildCountPlot produces one bar per category, in the order of groups.
func BuildCountPlot(groups []Group, column, title string) *ChartConfig {
	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, ChartPoint{
			Label: g.Label,
			Value: float64(g.Count),
		})
	}

	return &ChartConfig{
		ChartType: ChartCountPlot,
		Title:     title,
		XAxis:     column,
		YAxis:     countAxis,
		Series:    []ChartSeries{{Name: column, Data: points, Color: defaultColors[0]}},
		Colors:    assignColors(1),
		ShowGrid:  true,
	}
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
