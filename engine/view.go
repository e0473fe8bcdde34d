package engine

// ============================================================================
// RECORD VIEW: Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns or mutates table data. It reads through this interface.
//
// Implementations:
//   SliceView: wraps []Record (CSV loader, test tables)
//   SubView: filtered/reordered subset (indices into parent, zero-copy)
//   DerivedView: parent + computed columns (parent untouched)
//
// A derived column never writes into the cached table: it is layered on top.
// ============================================================================

// RecordView provides indexed access to a dataset.
// The engine calls Dimension/Measure in tight loops; keep implementations fast.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) float64
	DimensionKeys() []string // available dimension keys, in column order
	MeasureKeys() []string   // available measure keys, in column order
}

// Named is implemented by views that carry a table name.
type Named interface {
	Name() string
}

// TableName returns the view's table name, or "" when it has none.
func TableName(view RecordView) string {
	if n, ok := view.(Named); ok {
		return n.Name()
	}
	return ""
}

// HasDimension reports whether key is a categorical column of the view.
func HasDimension(view RecordView, key string) bool {
	return containsKey(view.DimensionKeys(), key)
}

// HasMeasure reports whether key is a numeric column of the view.
func HasMeasure(view RecordView, key string) bool {
	return containsKey(view.MeasureKeys(), key)
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// RecordAt materializes row i of a view into a standalone Record.
func RecordAt(view RecordView, i int) Record {
	rec := Record{
		Dimensions: make(map[string]string, len(view.DimensionKeys())),
		Measures:   make(map[string]float64, len(view.MeasureKeys())),
	}
	for _, k := range view.DimensionKeys() {
		rec.Dimensions[k] = view.Dimension(i, k)
	}
	for _, k := range view.MeasureKeys() {
		rec.Measures[k] = view.Measure(i, k)
	}
	return rec
}

// ============================================================================
// SLICE VIEW: wraps []Record
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
// Built by helpers.ParseCSV through NewTable.
type SliceView struct {
	name    string
	records []Record
	dimKeys []string
	mesKeys []string
}

// NewTable creates a named RecordView with an explicit column order.
// A table with zero rows still reports its columns.
func NewTable(name string, records []Record, dimKeys, mesKeys []string) RecordView {
	return &SliceView{
		name:    name,
		records: records,
		dimKeys: dimKeys,
		mesKeys: mesKeys,
	}
}

func (v *SliceView) Name() string { return v.name }
func (v *SliceView) Len() int     { return len(v.records) }

func (v *SliceView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.records) {
		return ""
	}
	return v.records[i].Dimensions[key]
}

func (v *SliceView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.records) {
		return 0
	}
	return v.records[i].Measures[key]
}

func (v *SliceView) DimensionKeys() []string { return v.dimKeys }
func (v *SliceView) MeasureKeys() []string   { return v.mesKeys }

// ============================================================================
// SUB VIEW: filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered or reordered subset of a parent RecordView.
// Holds indices into the parent; no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Name() string { return TableName(v.parent) }
func (v *SubView) Len() int     { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.indices) {
		return 0
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ============================================================================
// DERIVED VIEW: computed columns layered over a parent
// ============================================================================

// DerivedView adds (or shadows) columns on top of a parent view.
// Values are computed once by the caller and held here; the parent is
// never written to.
type DerivedView struct {
	parent   RecordView
	measures map[string][]float64
	dims     map[string][]string
	mesKeys  []string
	dimKeys  []string
}

func newDerivedView(parent RecordView) *DerivedView {
	return &DerivedView{
		parent:   parent,
		measures: make(map[string][]float64),
		dims:     make(map[string][]string),
		mesKeys:  append([]string(nil), parent.MeasureKeys()...),
		dimKeys:  append([]string(nil), parent.DimensionKeys()...),
	}
}

// withMeasure registers a numeric column. A dimension of the same name is
// hidden so the key stays unambiguous.
func (v *DerivedView) withMeasure(key string, values []float64) *DerivedView {
	v.measures[key] = values
	delete(v.dims, key)
	v.dimKeys = removeKey(v.dimKeys, key)
	if !containsKey(v.mesKeys, key) {
		v.mesKeys = append(v.mesKeys, key)
	}
	return v
}

// withDimension registers a categorical column.
func (v *DerivedView) withDimension(key string, values []string) *DerivedView {
	v.dims[key] = values
	delete(v.measures, key)
	v.mesKeys = removeKey(v.mesKeys, key)
	if !containsKey(v.dimKeys, key) {
		v.dimKeys = append(v.dimKeys, key)
	}
	return v
}

func (v *DerivedView) Name() string { return TableName(v.parent) }
func (v *DerivedView) Len() int     { return v.parent.Len() }

func (v *DerivedView) Dimension(i int, key string) string {
	if col, ok := v.dims[key]; ok {
		if i < 0 || i >= len(col) {
			return ""
		}
		return col[i]
	}
	return v.parent.Dimension(i, key)
}

func (v *DerivedView) Measure(i int, key string) float64 {
	if col, ok := v.measures[key]; ok {
		if i < 0 || i >= len(col) {
			return 0
		}
		return col[i]
	}
	return v.parent.Measure(i, key)
}

func (v *DerivedView) DimensionKeys() []string { return v.dimKeys }
func (v *DerivedView) MeasureKeys() []string   { return v.mesKeys }

func removeKey(keys []string, key string) []string {
	out := keys[:0:0]
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}
