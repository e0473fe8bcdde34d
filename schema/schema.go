package schema

// ============================================================================
// SCHEMA: Describes the shape of a dataset for the loader and the engine
// ============================================================================
// Auto-discovered from CSV headers and cell contents. The loader uses it to
// decide which cells become dimensions (string) and which become measures
// (float64); the discover command prints it.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`

	// Columns lists every column key in header order.
	Columns    []string        `json:"columns"`
	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`

	// Auto-discovery metadata
	Rows           int    `json:"rows"`
	DiscoveredFrom string `json:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty"`
}

// DimensionMeta describes a string column used for grouping/filtering.
type DimensionMeta struct {
	Key             string   `json:"key"`
	DisplayName     string   `json:"displayName"`
	SampleValues    []string `json:"sampleValues"`
	NullCount       int      `json:"nullCount,omitempty"`
	UniqueCount     int      `json:"uniqueCount"`
	CardinalityHint string   `json:"cardinalityHint,omitempty"` // "low", "medium", "high"
}

// MeasureMeta describes a numeric column. Empty cells load as NaN.
type MeasureMeta struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	NullCount   int    `json:"nullCount,omitempty"`
	// IsFlag marks 0/1 columns such as nocturnal.
	IsFlag bool `json:"isFlag,omitempty"`
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// IsMeasure reports whether key was classified numeric.
func (c Config) IsMeasure(key string) bool {
	for _, m := range c.Measures {
		if m.Key == key {
			return true
		}
	}
	return false
}

// IsDimension reports whether key was classified categorical.
func (c Config) IsDimension(key string) bool {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return true
		}
	}
	return false
}
