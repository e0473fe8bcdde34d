package engine

import (
	"fmt"
)

// ============================================================================
// TABLE BUILDER: Produces TableData from a RecordView
// ============================================================================
// Row per record, columns chosen by the caller. Column types come from the
// view: measures are right-aligned numbers, dimensions left-aligned text.
// ============================================================================

// BuildTable lists the given columns for every row of view, in view order.
func BuildTable(view RecordView, columns []string, title string) (*TableData, error) {
	if err := RequireColumns(view, columns...); err != nil {
		return nil, err
	}

	cols := make([]Column, 0, len(columns))
	numeric := make([]bool, len(columns))
	for i, key := range columns {
		numeric[i] = HasMeasure(view, key)
		col := Column{Key: key, Label: key, Type: "text", Align: "left"}
		if numeric[i] {
			col.Type = "number"
			col.Align = "right"
		}
		cols = append(cols, col)
	}

	rows := make([][]string, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		row := make([]string, len(columns))
		for c, key := range columns {
			if numeric[c] {
				row[c] = FormatNumber(view.Measure(i, key))
			} else {
				row[c] = view.Dimension(i, key)
			}
		}
		rows = append(rows, row)
	}

	return &TableData{
		Title:   title,
		Columns: cols,
		Rows:    rows,
		Summary: &Summary{
			Label: fmt.Sprintf("%s rows", FormatInt(view.Len())),
		},
	}, nil
}
