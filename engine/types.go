package engine

import (
	"math"
	"strconv"
)

// ============================================================================
// ENGINE TYPES: Tables, Groups, Render-Ready Builders
// ============================================================================
// Tables are read through RecordView (see view.go). Everything below is the
// shape the builders hand to the renderer: charts, tables and text lines.
// ============================================================================

// ============================================================================
// RECORD: Generic data row
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
//
//	Record{Dimensions["name"]="Anubis", Measures["hp"]=120}
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// GROUP: Intermediate computation result
// ============================================================================

// Group represents a grouped/aggregated result.
// Builders convert these into ChartConfig, TableData, or TextData.
type Group struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Value float64    `json:"value"`
	Count int        `json:"count"`
	View  RecordView `json:"-"` // Sub-view for records in this group (zero-copy)
}

// Bin is one equal-width histogram bucket. Lower is inclusive; Upper is
// exclusive except for the last bin.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Number is a float that encodes NaN and ±Inf as JSON null.
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// ============================================================================
// CHART TYPES
// ============================================================================

// Chart types produced by the builders.
const (
	ChartHeatmap   = "heatmap"
	ChartScatter   = "scatter"
	ChartHistogram = "histogram"
	ChartCountPlot = "countplot"
)

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`

	// Heatmap is set for ChartType == "heatmap" only.
	Heatmap *HeatmapData `json:"heatmap,omitempty"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
// Categorical charts use Label/Value; scatter and histogram also set X.
type ChartPoint struct {
	Label string  `json:"label"`
	X     float64 `json:"x,omitempty"`
	Value float64 `json:"value"`
}

// HeatmapData is a square annotated matrix (row i, column j).
type HeatmapData struct {
	Labels []string   `json:"labels"`
	Values [][]Number `json:"values"`
	Min    float64    `json:"min"`
	Max    float64    `json:"max"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals or aggregations for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values,omitempty"`
}

// ============================================================================
// TEXT TYPES
// ============================================================================

// TextData is a single labelled answer line, e.g. "Nombre de Pals nocturnes : 12".
type TextData struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	RawValue Number `json:"rawValue"`
	Count    int    `json:"count"`
}

// String renders the line the way the dashboard prints it.
func (t TextData) String() string {
	if t.Label == "" {
		return t.Value
	}
	return t.Label + " " + t.Value
}
