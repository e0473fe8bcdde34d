package engine

import (
	"math"
)

// ============================================================================
// ANALYTICS: Correlation matrix and histogram binning
// ============================================================================

// DefaultBins is the histogram bin count used when none is configured.
const DefaultBins = 20

// CorrelationMatrix holds pairwise Pearson coefficients for Labels.
// Values[i][j] is NaN when the pair has fewer than two complete rows or
// either side has zero variance.
type CorrelationMatrix struct {
	Labels []string
	Values [][]float64
}

// Correlation computes the Pearson correlation of every pair of columns,
// using only rows where both values are present (pairwise-complete).
func Correlation(view RecordView, columns []string) (*CorrelationMatrix, error) {
	if err := RequireMeasures(view, columns...); err != nil {
		return nil, err
	}

	m := &CorrelationMatrix{
		Labels: append([]string(nil), columns...),
		Values: make([][]float64, len(columns)),
	}
	for i := range columns {
		m.Values[i] = make([]float64, len(columns))
	}

	for i := range columns {
		for j := i; j < len(columns); j++ {
			r := pearson(view, columns[i], columns[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

func pearson(view RecordView, a, b string) float64 {
	var xs, ys []float64
	for i := 0; i < view.Len(); i++ {
		x, y := view.Measure(i, a), view.Measure(i, b)
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	n := len(xs)
	if n < 2 {
		return math.NaN()
	}

	var mx, my float64
	for i := 0; i < n; i++ {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var sxx, syy, sxy float64
	for i := 0; i < n; i++ {
		dx, dy := xs[i]-mx, ys[i]-my
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}

	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r))
}

// Histogram splits the non-NaN values of column into equal-width bins over
// [min, max]. A constant column gets the range [v-0.5, v+0.5]. A column
// with no values yields no bins.
func Histogram(view RecordView, column string, opts ...Option) ([]Bin, error) {
	cfg := applyOptions(opts)
	if err := RequireMeasures(view, column); err != nil {
		return nil, err
	}

	lo := MinMeasure(view, column)
	hi := MaxMeasure(view, column)
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return nil, nil
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	n := cfg.Bins
	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Lower = lo + float64(i)*width
		bins[i].Upper = lo + float64(i+1)*width
	}
	bins[n-1].Upper = hi

	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, column)
		if math.IsNaN(v) {
			continue
		}
		idx := int((v - lo) / width)
		if idx >= n {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].Count++
	}
	return bins, nil
}
