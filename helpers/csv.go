package helpers

import (
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"strings"

	"github.com/dimchansky/utfbom"
	"github.com/pkg/errors"

	"github.com/lisacrebassa/pals-analysis/engine"
	"github.com/lisacrebassa/pals-analysis/schema"
)

// ============================================================================
// CSV HELPER: Parses CSV data into an engine table
// ============================================================================
// The caller reads the CSV from wherever it lives (data dir, S3).
// This helper converts the raw bytes into Records using the schema:
// dimension cells stay strings, measure cells become float64 and an empty
// measure cell is NaN. Malformed input is an error, never a skipped row.
// ============================================================================

// ParseCSV parses CSV bytes into Records using schema for classification.
// Returned alongside are the dimension and measure keys in header order.
func ParseCSV(data []byte, sch schema.Config) ([]engine.Record, []string, []string, error) {
	sr, _ := utfbom.Skip(bytes.NewReader(data))
	reader := csv.NewReader(sr)

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to read CSV headers")
	}
	keys, err := schema.HeaderKeys(headers)
	if err != nil {
		return nil, nil, nil, err
	}

	type colMapping struct {
		key       string
		isMeasure bool
	}

	var dimKeys, mesKeys []string
	mappings := make([]colMapping, len(keys))
	for i, key := range keys {
		switch {
		case sch.IsMeasure(key):
			mappings[i] = colMapping{key: key, isMeasure: true}
			mesKeys = append(mesKeys, key)
		case sch.IsDimension(key):
			mappings[i] = colMapping{key: key}
			dimKeys = append(dimKeys, key)
		default:
			return nil, nil, nil, errors.Errorf("column %q is not in schema %q", key, sch.Name)
		}
	}

	var records []engine.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "malformed CSV row %d", line)
		}

		rec := engine.Record{
			Dimensions: make(map[string]string, len(dimKeys)),
			Measures:   make(map[string]float64, len(mesKeys)),
		}

		for i, val := range row {
			m := mappings[i]
			val = strings.TrimSpace(val)

			if !m.isMeasure {
				if schema.IsNull(val) {
					val = ""
				}
				rec.Dimensions[m.key] = val
				continue
			}
			if schema.IsNull(val) {
				rec.Measures[m.key] = math.NaN()
				continue
			}
			f, ok := schema.ParseNumber(val)
			if !ok {
				return nil, nil, nil, errors.Errorf("row %d: column %q: %q is not a number", line, m.key, val)
			}
			rec.Measures[m.key] = f
		}

		records = append(records, rec)
	}

	return records, dimKeys, mesKeys, nil
}

// ParseCSVView parses CSV into a named RecordView whose columns follow the
// header order.
func ParseCSVView(name string, data []byte, sch schema.Config) (engine.RecordView, error) {
	records, dimKeys, mesKeys, err := ParseCSV(data, sch)
	if err != nil {
		return nil, err
	}
	return engine.NewTable(name, records, dimKeys, mesKeys), nil
}

// LoadTable discovers the schema of data and parses it in one step.
func LoadTable(name string, data []byte) (engine.RecordView, *schema.Config, error) {
	sch, err := schema.DiscoverFromCSV(data, schema.DiscoverOptions{Name: name})
	if err != nil {
		return nil, nil, err
	}
	view, err := ParseCSVView(name, data, *sch)
	if err != nil {
		return nil, nil, err
	}
	return view, sch, nil
}
