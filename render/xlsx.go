package render

import (
	"io"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/lisacrebassa/pals-analysis/engine"
	"github.com/lisacrebassa/pals-analysis/views"
)

// SummarySheet holds page titles, text lines and messages.
const SummarySheet = "Résumé"

const maxSheetName = 31

// WriteXLSX writes one workbook for pages: a summary sheet, then one sheet
// per table or chart section named after the section id.
func WriteXLSX(w io.Writer, pages ...*views.Page) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return errors.Wrap(err, "xlsx rename summary sheet")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "xlsx header style")
	}

	x := &xlsxWriter{f: f, bold: bold, used: map[string]bool{SummarySheet: true}}
	row := 1
	for _, p := range pages {
		row = x.summary(p, row)
		for _, s := range p.Sections {
			var rows [][]string
			var numeric []bool
			switch s.Type {
			case views.SectionTable:
				rows, numeric = tableRows(s.Table), numericColumns(s.Table)
			case views.SectionChart:
				rows = sectionRows(s)
				numeric = labelledNumbers(rows)
			default:
				continue
			}
			if err := x.sheet(s.ID, rows, numeric); err != nil {
				return err
			}
		}
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 48); err != nil {
		return errors.WithStack(err)
	}

	return errors.Wrap(f.Write(w), "xlsx write")
}

type xlsxWriter struct {
	f    *excelize.File
	bold int
	used map[string]bool
}

func (x *xlsxWriter) summary(p *views.Page, row int) int {
	put := func(values ...string) {
		for c, v := range values {
			_ = x.f.SetCellValue(SummarySheet, cellName(c+1, row), v)
		}
		row++
	}

	_ = x.f.SetCellStyle(SummarySheet, cellName(1, row), cellName(1, row), x.bold)
	put(p.Kind.Title())
	put(p.Header)
	for _, s := range p.Sections {
		switch {
		case s.Text != nil:
			put(s.Text.Label, s.Text.Value)
		case s.Type == views.SectionMessage:
			put(s.Title, s.Message)
		}
	}
	return row + 1
}

// sheet writes rows with a bold header. Columns flagged numeric are stored
// as numbers when they parse; NaN stays text.
func (x *xlsxWriter) sheet(id string, rows [][]string, numeric []bool) error {
	name := x.sheetName(id)
	if _, err := x.f.NewSheet(name); err != nil {
		return errors.Wrapf(err, "xlsx new sheet %s", name)
	}

	for r, row := range rows {
		for c, v := range row {
			var value interface{} = v
			if r > 0 && c < len(numeric) && numeric[c] {
				if n, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(n) {
					value = n
				}
			}
			if err := x.f.SetCellValue(name, cellName(c+1, r+1), value); err != nil {
				return errors.WithStack(err)
			}
		}
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		last := cellName(len(rows[0]), 1)
		if err := x.f.SetCellStyle(name, "A1", last, x.bold); err != nil {
			return errors.WithStack(err)
		}
		if err := x.f.SetColWidth(name, "A", colName(len(rows[0])), 18); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// sheetName truncates id to the sheet name limit and keeps names unique
// across pages.
func (x *xlsxWriter) sheetName(id string) string {
	base := truncate(id, maxSheetName)
	name := base
	for i := 2; x.used[name]; i++ {
		suffix := "_" + strconv.Itoa(i)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	x.used[name] = true
	return name
}

func numericColumns(t *engine.TableData) []bool {
	out := make([]bool, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Type == "number"
	}
	return out
}

// labelledNumbers flags every column but the first, which holds labels.
func labelledNumbers(rows [][]string) []bool {
	if len(rows) == 0 {
		return nil
	}
	out := make([]bool, len(rows[0]))
	for i := 1; i < len(out); i++ {
		out[i] = true
	}
	return out
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// colName maps 1 to A, 26 to Z, 27 to AA.
func colName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}
