package engine

import (
	"strconv"
)

// ============================================================================
// TEXT BUILDER: Produces TextData for one-line answers
// ============================================================================

// BuildCountText reports the row count of view, e.g. "Nombre de Pals nocturnes : 12".
func BuildCountText(label string, view RecordView) *TextData {
	n := view.Len()
	return &TextData{
		Label:    label,
		Value:    strconv.Itoa(n),
		RawValue: Number(n),
		Count:    n,
	}
}

// BuildRecordText reports one field of a record, typically the name of a
// TopSingle winner, carrying the ranking value alongside.
func BuildRecordText(label string, rec Record, nameKey, valueKey string) *TextData {
	return &TextData{
		Label:    label,
		Value:    rec.Dimensions[nameKey],
		RawValue: Number(rec.Measures[valueKey]),
		Count:    1,
	}
}
