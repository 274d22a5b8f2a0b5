package source

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceNotFound is matched by *SourceNotFoundError.
	ErrSourceNotFound = errors.New("source table not found")

	// ErrMalformedRow is matched by *MalformedRowError and *HeaderError.
	ErrMalformedRow = errors.New("malformed row")
)

// SourceNotFoundError lists every candidate path that was checked.
type SourceNotFoundError struct {
	Tried []string
}

func (e *SourceNotFoundError) Error() string {
	if len(e.Tried) == 0 {
		return "source table not found: no candidate paths configured"
	}
	return "source table not found; tried: " + strings.Join(e.Tried, ", ")
}

func (e *SourceNotFoundError) Is(target error) bool {
	return target == ErrSourceNotFound
}

// MalformedRowError reports a data row that cannot be split into the header's columns.
type MalformedRowError struct {
	Row    int
	Line   int
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed row %d (line %d): %s", e.Row, e.Line, e.Reason)
}

func (e *MalformedRowError) Is(target error) bool {
	return target == ErrMalformedRow
}

// HeaderError reports a header row that does not carry the expected columns.
type HeaderError struct {
	Missing   []string
	Duplicate []string
}

func (e *HeaderError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing columns "+strings.Join(e.Missing, ", "))
	}
	if len(e.Duplicate) > 0 {
		parts = append(parts, "duplicate columns "+strings.Join(e.Duplicate, ", "))
	}
	return "malformed header row (line 1): " + strings.Join(parts, "; ")
}

func (e *HeaderError) Is(target error) bool {
	return target == ErrMalformedRow
}
