package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/multierr"

	"github.com/i474232898/tripweaver-seedgen/internal/destinations"
)

const utf8BOM = "\ufeff"

// Reader yields the data rows of a destination table one at a time.
// It cannot be rewound; open the file again for a second pass.
type Reader struct {
	csv     *csv.Reader
	closer  io.Closer
	header  []string
	columns map[string]int
	row     int
}

// Open opens path on fs and reads its header row.
func Open(fs afero.Fs, path string) (*Reader, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source table: %w", err)
	}
	r, err := NewReader(f)
	if err != nil {
		return nil, multierr.Append(err, f.Close())
	}
	r.closer = f
	return r, nil
}

// NewReader reads the header row from in and checks it carries every expected column.
// An input without even a header fails with destinations.ErrEmptySource.
func NewReader(in io.Reader) (*Reader, error) {
	cr := csv.NewReader(in)
	// Field counts are checked per row so the error can name the row.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, destinations.ErrEmptySource
	}
	if err != nil {
		return nil, &MalformedRowError{Row: 0, Line: 1, Reason: "header: " + err.Error()}
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	index := make(map[string]int, len(header))
	var dup []string
	for i, name := range header {
		if _, ok := index[name]; ok {
			if slices.Contains(destinations.Columns, name) {
				dup = append(dup, name)
			}
			continue
		}
		index[name] = i
	}

	columns := make(map[string]int, len(destinations.Columns))
	var missing []string
	for _, name := range destinations.Columns {
		i, ok := index[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		columns[name] = i
	}
	if len(missing) > 0 || len(dup) > 0 {
		return nil, &HeaderError{Missing: missing, Duplicate: dup}
	}

	return &Reader{
		csv:     cr,
		header:  header,
		columns: columns,
	}, nil
}

// Header returns the column names as they appear in the file.
func (r *Reader) Header() []string {
	return slices.Clone(r.header)
}

// Unknown returns header columns the normalizer does not use.
func (r *Reader) Unknown() []string {
	var out []string
	for _, name := range r.header {
		if !slices.Contains(destinations.Columns, name) {
			out = append(out, name)
		}
	}
	return out
}

// Next returns the next data row, or io.EOF once the table is exhausted.
func (r *Reader) Next() (destinations.RawRecord, error) {
	fields, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return destinations.RawRecord{}, io.EOF
	}
	r.row++
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return destinations.RawRecord{}, &MalformedRowError{Row: r.row, Line: perr.StartLine, Reason: perr.Err.Error()}
		}
		return destinations.RawRecord{}, fmt.Errorf("read row %d: %w", r.row, err)
	}

	line, _ := r.csv.FieldPos(0)
	if len(fields) != len(r.header) {
		return destinations.RawRecord{}, &MalformedRowError{
			Row:    r.row,
			Line:   line,
			Reason: fmt.Sprintf("has %d fields, header has %d", len(fields), len(r.header)),
		}
	}

	values := make(map[string]string, len(r.columns))
	for name, i := range r.columns {
		values[name] = fields[i]
	}
	return destinations.RawRecord{Row: r.row, Line: line, Fields: values}, nil
}

// Close releases the underlying file when the Reader was created by Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
