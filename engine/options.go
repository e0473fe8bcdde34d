package engine

// ============================================================================
// ENGINE OPTIONS: Functional options for ranking, grouping and builders
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Ascending    bool   // RankTop: sort non-decreasing instead of non-increasing
	OutputColumn string // GroupTopCategories: write the grouped labels here
	OtherLabel   string // GroupTopCategories: sentinel for collapsed values
	Bins         int    // Histogram: number of equal-width bins
	LabelColumn  string // BuildScatter: dimension used to label points
}

// Ascending makes RankTop sort smallest first.
func Ascending() Option {
	return func(c *config) {
		c.Ascending = true
	}
}

// WithOutputColumn makes GroupTopCategories write into a new column
// (e.g. "zone_grouped") instead of relabeling the source column.
func WithOutputColumn(column string) Option {
	return func(c *config) {
		c.OutputColumn = column
	}
}

// WithOtherLabel overrides the "Autres" sentinel.
func WithOtherLabel(label string) Option {
	return func(c *config) {
		c.OtherLabel = label
	}
}

// WithBins sets the histogram bin count.
func WithBins(n int) Option {
	return func(c *config) {
		c.Bins = n
	}
}

// WithLabelColumn labels scatter points with a dimension value.
func WithLabelColumn(column string) Option {
	return func(c *config) {
		c.LabelColumn = column
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		OtherLabel: OtherLabel,
		Bins:       DefaultBins,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Bins <= 0 {
		cfg.Bins = DefaultBins
	}
	return cfg
}
