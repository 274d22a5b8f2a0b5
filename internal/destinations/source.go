package destinations

import "context"

// RowSource yields raw rows in source order and io.EOF once exhausted.
type RowSource interface {
	Next() (RawRecord, error)
}

// Store persists a finished index.
type Store interface {
	Save(ctx context.Context, idx Index) error
}
