package engine

// ============================================================================
// FILTERS: Predicate Filtering via RecordView
// ============================================================================
// Single pass over the view. Returns a SubView (index list into parent);
// zero data copy, input order preserved.
// ============================================================================

// Predicate decides whether row i of view is kept.
type Predicate func(view RecordView, i int) bool

// FilterPredicate returns the rows satisfying pred, in input order.
func FilterPredicate(view RecordView, pred Predicate) RecordView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if pred(view, i) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// MeasureAbove keeps rows where measure > threshold. NaN never passes.
func MeasureAbove(measure string, threshold float64) Predicate {
	return func(view RecordView, i int) bool {
		return view.Measure(i, measure) > threshold
	}
}

// MeasureEquals keeps rows where measure == value. NaN never passes.
func MeasureEquals(measure string, value float64) Predicate {
	return func(view RecordView, i int) bool {
		return view.Measure(i, measure) == value
	}
}
