package destinations

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrEmptySource is returned when the source table has no data rows.
	ErrEmptySource = errors.New("source table has no data rows")

	// ErrCountMismatch is returned when an index's count disagrees with its destinations.
	ErrCountMismatch = errors.New("index count does not match destinations")
)

// FieldError describes one column of a row that failed coercion.
type FieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Reason)
}

// ValidationError lists every offending field of a single row.
type ValidationError struct {
	Row    int
	Line   int
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("row %d (line %d): invalid %s", e.Row, e.Line, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// HasField reports whether the named column is among the failures.
func (e *ValidationError) HasField(name string) bool {
	for _, f := range e.Fields {
		if f.Field == name {
			return true
		}
	}
	return false
}
