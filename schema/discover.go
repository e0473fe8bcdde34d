package schema

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dimchansky/utfbom"
	"github.com/pkg/errors"
)

// ============================================================================
// AUTO-DISCOVERY: Column typing from CSV contents
// ============================================================================
// Inspects raw CSV and generates a schema.Config.
//
// Classification per column:
//   1. Collect non-null values (empty, "NaN", "NA", "null" count as null)
//   2. Every value parses as a float → measure, otherwise dimension
//   3. Cardinality hint + sorted sample values for the discover report
//
// Nothing is skipped: the datasets are pre-cleaned, and the engine needs
// every column it is told about. A column with no values at all is a
// measure whose cells are all NaN.
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize int    // Max rows to inspect (0 = all)
	Name       string // Dataset name override (otherwise "dataset")
}

// DefaultDiscoverOptions inspects every row.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{}
}

// DiscoverFromCSV generates a schema.Config by inspecting CSV data.
// A leading UTF-8 BOM is ignored. Rows whose field count differs from the
// header are an error, as are duplicate column names.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	sr, _ := utfbom.Skip(bytes.NewReader(data))
	reader := csv.NewReader(sr)

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("CSV has no header row")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV headers")
	}

	keys, err := HeaderKeys(headers)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for opt.SampleSize <= 0 || len(rows) < opt.SampleSize {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "malformed CSV row %d", len(rows)+2)
		}
		rows = append(rows, row)
	}

	config := &Config{
		Name:           opt.Name,
		Version:        "1.0",
		Columns:        keys,
		Rows:           len(rows),
		DiscoveredFrom: "CSV",
		DiscoveredAt:   time.Now().Format(time.RFC3339),
	}
	if config.Name == "" {
		config.Name = "dataset"
	}

	for i, header := range headers {
		col := analyzeColumn(header, keys[i], i, rows)
		switch col.role {
		case roleMeasure:
			config.Measures = append(config.Measures, col.toMeasure())
		default:
			config.Dimensions = append(config.Dimensions, col.toDimension())
		}
	}

	return config, nil
}

// HeaderKeys normalizes CSV headers into column keys. Blank headers become
// "unnamed_<index>"; two headers that normalize to the same key are an error.
func HeaderKeys(headers []string) ([]string, error) {
	if len(headers) == 0 {
		return nil, errors.New("CSV has no columns")
	}
	keys := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		key := toSnakeCase(strings.TrimSpace(h))
		if key == "" {
			key = fmt.Sprintf("unnamed_%d", i)
		}
		if prev, dup := seen[key]; dup {
			return nil, errors.Errorf("duplicate column %q (columns %d and %d)", key, prev+1, i+1)
		}
		seen[key] = i
		keys[i] = key
	}
	return keys, nil
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnRole int

const (
	roleDimension columnRole = iota
	roleMeasure
)

type columnAnalysis struct {
	header string
	key    string
	index  int
	role   columnRole

	// Stats
	uniqueCount int
	nullCount   int
	sampleVals  []string
	isFlag      bool

	cardinalityHint string
}

// analyzeColumn inspects all values in a column and classifies it.
func analyzeColumn(header, key string, index int, rows [][]string) columnAnalysis {
	col := columnAnalysis{
		header: header,
		key:    key,
		index:  index,
	}

	uniqueSet := make(map[string]bool)
	numeric := true
	flag := true

	for _, row := range rows {
		val := strings.TrimSpace(row[index])
		if IsNull(val) {
			col.nullCount++
			continue
		}
		uniqueSet[val] = true
		if !numeric {
			continue
		}
		f, ok := ParseNumber(val)
		if !ok {
			numeric = false
			continue
		}
		if f != 0 && f != 1 {
			flag = false
		}
	}

	col.uniqueCount = len(uniqueSet)
	col.sampleVals = collectSamples(uniqueSet, 10)

	if numeric {
		col.role = roleMeasure
		col.isFlag = flag && col.uniqueCount > 0
	} else {
		col.role = roleDimension
	}

	switch {
	case col.uniqueCount <= 10:
		col.cardinalityHint = "low"
	case col.uniqueCount <= 100:
		col.cardinalityHint = "medium"
	default:
		col.cardinalityHint = "high"
	}

	return col
}

// ============================================================================
// CELL PARSING
// ============================================================================

var nullTokens = map[string]bool{
	"":     true,
	"NaN":  true,
	"nan":  true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"null": true,
	"NULL": true,
	"None": true,
}

// IsNull reports whether a trimmed cell denotes a missing value.
func IsNull(s string) bool {
	return nullTokens[s]
}

// ParseNumber parses a trimmed cell as a float. Thousands separators and
// currency signs are not accepted: "1,234" is text.
func ParseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ============================================================================
// CONVERSION HELPERS
// ============================================================================

func (col *columnAnalysis) toDimension() DimensionMeta {
	return DimensionMeta{
		Key:             col.key,
		DisplayName:     toDisplayName(col.header),
		SampleValues:    col.sampleVals,
		NullCount:       col.nullCount,
		UniqueCount:     col.uniqueCount,
		CardinalityHint: col.cardinalityHint,
	}
}

func (col *columnAnalysis) toMeasure() MeasureMeta {
	return MeasureMeta{
		Key:         col.key,
		DisplayName: toDisplayName(col.header),
		NullCount:   col.nullCount,
		IsFlag:      col.isFlag,
	}
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}

	s = result.String()
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "__", "_")
	s = strings.Trim(s, "_")
	return s
}

// toDisplayName cleans a header for human display.
// "melee_attack" → "Melee Attack", "hp" → "Hp"
func toDisplayName(s string) string {
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}

// collectSamples picks up to maxSamples values, sorted for deterministic output.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}
	sort.Strings(samples)

	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
