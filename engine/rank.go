package engine

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// ============================================================================
// RANKING: Top-N over a numeric column
// ============================================================================

// RankTop sorts by column (descending unless Ascending is given) and returns
// the first min(n, Len) rows as a SubView of the input.
//
// The sort is stable, so equal values keep input order. NaN rows sort last
// in both directions. n <= 0 yields an empty view.
func RankTop(view RecordView, column string, n int, opts ...Option) (RecordView, error) {
	cfg := applyOptions(opts)
	if err := RequireMeasures(view, column); err != nil {
		return nil, err
	}

	indices := make([]int, view.Len())
	for i := range indices {
		indices[i] = i
	}

	sort.SliceStable(indices, func(a, b int) bool {
		va := view.Measure(indices[a], column)
		vb := view.Measure(indices[b], column)
		switch {
		case math.IsNaN(va):
			return false
		case math.IsNaN(vb):
			return true
		case cfg.Ascending:
			return va < vb
		default:
			return va > vb
		}
	})

	if n < 0 {
		n = 0
	}
	if n < len(indices) {
		indices = indices[:n]
	}
	return newSubView(view, indices), nil
}

// TopSingle returns the single highest row by column.
// An empty table is an *EmptyInputError, never a zero Record.
func TopSingle(view RecordView, column string) (Record, error) {
	top, err := RankTop(view, column, 1)
	if err != nil {
		return Record{}, err
	}
	if top.Len() == 0 {
		return Record{}, errors.WithStack(&EmptyInputError{Table: TableName(view), Op: "TopSingle"})
	}
	return RecordAt(top, 0), nil
}
