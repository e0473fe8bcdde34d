package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ============================================================================
// AGGREGATORS: Counting and Measure Summaries via RecordView
// ============================================================================
// All functions operate on RecordView; zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view).
// ============================================================================

// CountBy groups the rows of a view by the raw value of a dimension and
// counts them. Groups come back most frequent first; equal counts keep
// first-appearance order.
func CountBy(view RecordView, dimension string) []Group {
	if view.Len() == 0 {
		return nil
	}
	groups := groupBySingle(view, dimension)
	for i := range groups {
		groups[i].Count = groups[i].View.Len()
		groups[i].Value = float64(groups[i].Count)
	}
	sortByCount(groups)
	return groups
}

// ValueCounts counts rows per distinct value of a dimension, most frequent
// first. Blank values are dropped; equal counts keep first-appearance order.
func ValueCounts(view RecordView, dimension string) ([]Group, error) {
	if err := requireDimension(view, dimension); err != nil {
		return nil, err
	}
	groups := CountBy(view, dimension)
	out := groups[:0:0]
	for _, g := range groups {
		if !isBlank(g.Key) {
			out = append(out, g)
		}
	}
	return out, nil
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

// ============================================================================
// GROUPING
// ============================================================================

func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// sortByCount is stable: equal groups keep their grouping order.
func sortByCount(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
}

// ============================================================================
// MEASURE SUMMARIES
// ============================================================================

// MaxMeasure returns the largest non-NaN value of a named measure.
func MaxMeasure(view RecordView, measure string) float64 {
	m := math.Inf(-1)
	found := false
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if math.IsNaN(v) {
			continue
		}
		if !found || v > m {
			m = v
			found = true
		}
	}
	if !found {
		return math.NaN()
	}
	return m
}

// MinMeasure returns the smallest non-NaN value of a named measure.
func MinMeasure(view RecordView, measure string) float64 {
	m := math.Inf(1)
	found := false
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if math.IsNaN(v) {
			continue
		}
		if !found || v < m {
			m = v
			found = true
		}
	}
	if !found {
		return math.NaN()
	}
	return m
}

// CountNaN counts rows whose measure is NaN.
func CountNaN(view RecordView, measure string) int {
	n := 0
	for i := 0; i < view.Len(); i++ {
		if math.IsNaN(view.Measure(i, measure)) {
			n++
		}
	}
	return n
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatNumber prints whole numbers without decimals and everything else
// with two. NaN prints as "NaN".
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 0):
		return fmt.Sprintf("%v", v)
	case v == math.Trunc(v) && math.Abs(v) < 1e15:
		return fmt.Sprintf("%d", int64(v))
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
