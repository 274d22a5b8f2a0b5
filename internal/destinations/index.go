package destinations

import (
	"fmt"
	"time"
)

// BuildIndex assembles the artifact from normalized records, keeping their order.
// generatedAt is converted to UTC.
func BuildIndex(records []Record, generatedAt time.Time) (Index, error) {
	if len(records) == 0 {
		return Index{}, ErrEmptySource
	}

	idx := Index{
		GeneratedAt:  generatedAt.UTC(),
		Count:        len(records),
		Destinations: records,
	}
	if err := idx.Validate(); err != nil {
		return Index{}, err
	}
	return idx, nil
}

// Validate checks the invariants an index must hold before it is written.
func (idx Index) Validate() error {
	if idx.Count != len(idx.Destinations) {
		return fmt.Errorf("%w: count %d, destinations %d", ErrCountMismatch, idx.Count, len(idx.Destinations))
	}
	if len(idx.Destinations) == 0 {
		return ErrEmptySource
	}
	if idx.GeneratedAt.IsZero() {
		return fmt.Errorf("index has no generated_at timestamp")
	}
	return nil
}
