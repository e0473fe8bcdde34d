package engine

import (
	"fmt"

	"github.com/pkg/errors"
)

// SchemaError reports a column a formula needs that is absent or not numeric.
// It fails the view that asked for the column, never the whole dashboard.
type SchemaError struct {
	Table  string
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	table := e.Table
	if table == "" {
		table = "table"
	}
	return fmt.Sprintf("schema: %s.%s %s", table, e.Column, e.Reason)
}

// Schema error reasons.
const (
	ReasonMissing        = "is missing"
	ReasonNotNumeric     = "is not numeric"
	ReasonNotCategorical = "is not categorical"
)

// EmptyInputError reports an operation that needs at least one row.
type EmptyInputError struct {
	Table string
	Op    string
}

func (e *EmptyInputError) Error() string {
	table := e.Table
	if table == "" {
		table = "table"
	}
	return fmt.Sprintf("%s: %s has no rows", e.Op, table)
}

// IsSchemaError reports whether err wraps a *SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// IsEmptyInput reports whether err wraps an *EmptyInputError.
func IsEmptyInput(err error) bool {
	var ee *EmptyInputError
	return errors.As(err, &ee)
}

// RequireMeasures checks that every key is a numeric column of view.
func RequireMeasures(view RecordView, keys ...string) error {
	for _, key := range keys {
		if HasMeasure(view, key) {
			continue
		}
		reason := ReasonMissing
		if HasDimension(view, key) {
			reason = ReasonNotNumeric
		}
		return errors.WithStack(&SchemaError{Table: TableName(view), Column: key, Reason: reason})
	}
	return nil
}

// RequireColumns checks that every key is a column of view, of any type.
func RequireColumns(view RecordView, keys ...string) error {
	for _, key := range keys {
		if !HasMeasure(view, key) && !HasDimension(view, key) {
			return errors.WithStack(&SchemaError{Table: TableName(view), Column: key, Reason: ReasonMissing})
		}
	}
	return nil
}

func requireDimension(view RecordView, key string) error {
	if HasDimension(view, key) {
		return nil
	}
	reason := ReasonMissing
	if HasMeasure(view, key) {
		reason = ReasonNotCategorical
	}
	return errors.WithStack(&SchemaError{Table: TableName(view), Column: key, Reason: reason})
}
