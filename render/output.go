package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/lisacrebassa/pals-analysis/engine"
	"github.com/lisacrebassa/pals-analysis/views"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Output formats accepted by Write.
const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
	FormatText   = "text"
	FormatCSV    = "csv"
)

// Formats lists the output formats of Write.
func Formats() []string {
	return []string{FormatJSON, FormatPretty, FormatText, FormatCSV}
}

// Write renders pages in the given format.
func Write(w io.Writer, format string, pages ...*views.Page) error {
	switch format {
	case FormatJSON, FormatPretty:
		var v interface{} = pages
		if len(pages) == 1 {
			v = pages[0]
		}
		return WriteJSON(w, v, format == FormatPretty)
	case FormatText:
		return WriteText(w, pages...)
	case FormatCSV:
		return WriteCSV(w, pages...)
	}
	return errors.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats(), ", "))
}

// ============================================================================
// JSON
// ============================================================================

// WriteJSON encodes v followed by a newline. NaN measures encode as null.
func WriteJSON(w io.Writer, v interface{}, pretty bool) error {
	var out []byte
	var err error
	if pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return errors.Wrap(err, "marshal output")
	}
	_, err = fmt.Fprintln(w, string(out))
	return errors.WithStack(err)
}

// ============================================================================
// TEXT
// ============================================================================

// WriteText prints pages for a terminal: tables aligned in columns, charts
// as label/value lists.
func WriteText(w io.Writer, pages ...*views.Page) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, p := range pages {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintln(tw, p.Title)
		fmt.Fprintln(tw, p.Subtitle)
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, p.Header)

		for _, s := range p.Sections {
			fmt.Fprintln(tw)
			if s.Title != "" {
				fmt.Fprintf(tw, "## %s\n", s.Title)
			}
			if s.Text != nil {
				fmt.Fprintln(tw, s.Text.String())
			}
			switch s.Type {
			case views.SectionMessage:
				fmt.Fprintln(tw, s.Message)
			case views.SectionTable:
				writeTableText(tw, s.Table)
			case views.SectionChart:
				writeChartText(tw, s.Chart)
			}
		}
	}
	return errors.WithStack(tw.Flush())
}

func writeTableText(w io.Writer, t *engine.TableData) {
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Label
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
}

func writeChartText(w io.Writer, c *engine.ChartConfig) {
	if c.Heatmap != nil {
		for _, row := range heatmapRows(c.Heatmap) {
			fmt.Fprintln(w, strings.Join(row, "\t"))
		}
		return
	}
	for _, row := range seriesRows(c) {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
}

// ============================================================================
// CSV: one block per section, separated by an empty line
// ============================================================================

// WriteCSV writes every section as a CSV block headed by its title, ready
// to paste into a spreadsheet.
func WriteCSV(w io.Writer, pages ...*views.Page) error {
	cw := csv.NewWriter(w)
	first := true
	for _, p := range pages {
		for _, s := range p.Sections {
			if !first {
				_ = cw.Write([]string{})
			}
			first = false

			title := s.Title
			if title == "" {
				title = s.ID
			}
			_ = cw.Write([]string{title})
			for _, row := range sectionRows(s) {
				_ = cw.Write(row)
			}
		}
	}
	cw.Flush()
	return errors.WithStack(cw.Error())
}

// sectionRows flattens a section to a header row followed by data rows.
func sectionRows(s *views.Section) [][]string {
	var rows [][]string
	if s.Text != nil {
		rows = append(rows, []string{s.Text.Label, s.Text.Value})
	}
	switch s.Type {
	case views.SectionMessage:
		rows = append(rows, []string{s.Message})
	case views.SectionTable:
		rows = append(rows, tableRows(s.Table)...)
	case views.SectionChart:
		if s.Chart.Heatmap != nil {
			rows = append(rows, heatmapRows(s.Chart.Heatmap)...)
		} else {
			rows = append(rows, seriesRows(s.Chart)...)
		}
	}
	return rows
}

func tableRows(t *engine.TableData) [][]string {
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Key
	}
	return append([][]string{header}, t.Rows...)
}

// seriesRows: single series gives two columns; scatter adds the x value.
func seriesRows(c *engine.ChartConfig) [][]string {
	if len(c.Series) == 0 {
		return nil
	}
	xLabel, yLabel := c.XAxis, c.YAxis
	if xLabel == "" {
		xLabel = "Label"
	}
	if yLabel == "" {
		yLabel = "Value"
	}

	data := c.Series[0].Data
	if c.ChartType == engine.ChartScatter {
		rows := [][]string{{"label", xLabel, yLabel}}
		for _, d := range data {
			rows = append(rows, []string{d.Label, engine.FormatNumber(d.X), engine.FormatNumber(d.Value)})
		}
		return rows
	}

	rows := [][]string{{xLabel, yLabel}}
	for _, d := range data {
		rows = append(rows, []string{d.Label, engine.FormatNumber(d.Value)})
	}
	return rows
}

func heatmapRows(h *engine.HeatmapData) [][]string {
	rows := [][]string{append([]string{""}, h.Labels...)}
	for i, label := range h.Labels {
		row := []string{label}
		for _, v := range h.Values[i] {
			row = append(row, engine.FormatNumber(engine.RoundTo2(float64(v))))
		}
		rows = append(rows, row)
	}
	return rows
}
