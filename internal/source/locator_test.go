package source

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/tripweaver-seedgen/pkg/logger"
)

func TestLocator(t *testing.T) {
	binCandidate := filepath.Join("/opt/seedgen", "data", FileName)
	dataCandidate := filepath.Join("data", FileName)
	defaults := DefaultCandidates("/opt/seedgen", "data")

	t.Run("Should build the default candidates in priority order", func(t *testing.T) {
		assert.Equal(t, []string{binCandidate, dataCandidate}, defaults)
		assert.Equal(t, []string{dataCandidate}, DefaultCandidates("", "data"))
	})

	t.Run("Should prefer the override when it exists", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/tmp/custom.csv", []byte(header), 0o644))
		require.NoError(t, afero.WriteFile(fs, binCandidate, []byte(header), 0o644))

		path, err := NewLocator(fs, logger.NewNop(), "/tmp/custom.csv", defaults...).Locate()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/custom.csv", path)
	})

	t.Run("Should fall back to the binary directory before the data directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, binCandidate, []byte(header), 0o644))
		require.NoError(t, afero.WriteFile(fs, dataCandidate, []byte(header), 0o644))

		path, err := NewLocator(fs, logger.NewNop(), "", defaults...).Locate()
		require.NoError(t, err)
		assert.Equal(t, binCandidate, path)
	})

	t.Run("Should skip a missing override and directories", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(binCandidate, 0o755))
		require.NoError(t, afero.WriteFile(fs, dataCandidate, []byte(header), 0o644))

		path, err := NewLocator(fs, logger.NewNop(), "/missing.csv", defaults...).Locate()
		require.NoError(t, err)
		assert.Equal(t, dataCandidate, path)
	})

	t.Run("Should list every default candidate when nothing exists", func(t *testing.T) {
		_, err := NewLocator(afero.NewMemMapFs(), logger.NewNop(), "", defaults...).Locate()
		require.ErrorIs(t, err, ErrSourceNotFound)

		var nf *SourceNotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, []string{binCandidate, dataCandidate}, nf.Tried)
		assert.Contains(t, err.Error(), binCandidate)
		assert.Contains(t, err.Error(), dataCandidate)
	})

	t.Run("Should drop blank and repeated candidates", func(t *testing.T) {
		l := NewLocator(afero.NewMemMapFs(), logger.NewNop(), "data/destinations.csv", "", "./data/destinations.csv")
		assert.Equal(t, []string{dataCandidate}, l.Candidates())
	})
}
