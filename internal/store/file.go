package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/multierr"

	"github.com/i474232898/tripweaver-seedgen/internal/destinations"
	"github.com/i474232898/tripweaver-seedgen/pkg/logger"
)

var (
	// ErrNotFound is returned when no artifact exists at the store path.
	ErrNotFound = errors.New("no index artifact at path")

	// ErrWrite is matched by every *WriteError.
	ErrWrite = errors.New("write index artifact")
)

// WriteError wraps a filesystem failure while persisting the artifact.
type WriteError struct {
	Op   string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write index artifact %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}

// FileStore keeps the index artifact as an indented JSON file.
type FileStore struct {
	fs     afero.Fs
	path   string
	logger *logger.Logger
}

// NewFileStore creates a FileStore writing to path on fs.
func NewFileStore(fs afero.Fs, path string, log *logger.Logger) *FileStore {
	return &FileStore{
		fs:     fs,
		path:   path,
		logger: log.Named("store"),
	}
}

// Path returns the artifact location.
func (s *FileStore) Path() string {
	return s.path
}

// Encode renders idx the way it is stored: two-space indentation, fields in
// declaration order, trailing newline.
func Encode(idx destinations.Index) ([]byte, error) {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Save replaces the artifact with idx. The content goes to a temporary file in
// the target directory first and is renamed into place, so readers see either
// the old artifact or the new one.
func (s *FileStore) Save(ctx context.Context, idx destinations.Index) (retErr error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := idx.Validate(); err != nil {
		return fmt.Errorf("refusing to write invalid index: %w", err)
	}

	data, err := Encode(idx)
	if err != nil {
		return s.writeErr("encode", err)
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return s.writeErr("create directory", err)
	}
	if info, err := s.fs.Stat(s.path); err == nil && info.IsDir() {
		return s.writeErr("replace", errors.New("target is a directory"))
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return s.writeErr("create temp file", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if retErr != nil {
			if rmErr := s.fs.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				retErr = multierr.Append(retErr, rmErr)
			}
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return multierr.Append(s.writeErr("write", err), tmp.Close())
	}
	if err := tmp.Sync(); err != nil {
		return multierr.Append(s.writeErr("sync", err), tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return s.writeErr("close", err)
	}
	if err := s.fs.Chmod(tmpName, 0o644); err != nil {
		return s.writeErr("chmod", err)
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		return s.writeErr("rename", err)
	}

	s.logger.Info("wrote index artifact",
		logger.String("path", s.path),
		logger.Int("count", idx.Count),
		logger.Int("bytes", len(data)),
	)
	return nil
}

// Load reads the artifact back and checks its invariants.
func (s *FileStore) Load(ctx context.Context) (destinations.Index, error) {
	if err := ctx.Err(); err != nil {
		return destinations.Index{}, err
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return destinations.Index{}, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return destinations.Index{}, fmt.Errorf("read index artifact: %w", err)
	}

	var idx destinations.Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return destinations.Index{}, fmt.Errorf("decode index artifact %s: %w", s.path, err)
	}
	if err := idx.Validate(); err != nil {
		return destinations.Index{}, fmt.Errorf("index artifact %s: %w", s.path, err)
	}
	return idx, nil
}

func (s *FileStore) writeErr(op string, err error) error {
	return &WriteError{Op: op, Path: s.path, Err: err}
}
