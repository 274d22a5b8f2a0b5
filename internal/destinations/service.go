package destinations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/i474232898/tripweaver-seedgen/pkg/logger"
)

// Service runs the read, normalize, build and write stages for one source.
type Service struct {
	store  Store
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates a new Service writing through store.
func NewService(store Store, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		logger: log.Named("destinations"),
		now:    time.Now,
	}
}

// Generate drains src, normalizing each row, and saves the resulting index.
// It stops at the first error; nothing is saved unless every row normalized.
func (s *Service) Generate(ctx context.Context, src RowSource) (Index, error) {
	var records []Record

	for {
		if err := ctx.Err(); err != nil {
			return Index{}, err
		}

		raw, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Index{}, err
		}

		rec, err := Normalize(raw)
		if err != nil {
			return Index{}, err
		}
		s.logger.Debug("normalized destination",
			logger.Int("row", raw.Row),
			logger.String("iata", rec.IATA),
		)
		records = append(records, rec)
	}

	idx, err := BuildIndex(records, s.now())
	if err != nil {
		return Index{}, err
	}
	s.logger.Info("built index", logger.Int("count", idx.Count))

	if err := s.store.Save(ctx, idx); err != nil {
		return Index{}, fmt.Errorf("save index: %w", err)
	}
	return idx, nil
}
