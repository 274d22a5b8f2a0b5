package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/tripweaver-seedgen/internal/config"
	"github.com/i474232898/tripweaver-seedgen/internal/store"
	"github.com/i474232898/tripweaver-seedgen/pkg/logger"
)

const header = "city,country,iata,avg_temp_c_feb,has_beach,has_old_town,flight_hours_from_LON\n"

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		DataDir:   "data",
		IndexPath: filepath.Join("data", "index.json"),
		BinaryDir: "/opt/seedgen",
	}
}

func writeSource(t *testing.T, fs afero.Fs, body string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, filepath.Join("data", "destinations.csv"), []byte(body), 0o644))
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("Should write the index and return its path", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeSource(t, fs, header+
			"X,Nowhere,XXX,10,yes,no,1.0\n"+
			"Valencia,Spain,vlc,17,Yes,YES,1.9\n")

		path, err := run(ctx, testConfig(), fs, logger.NewNop())
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("data", "index.json"), path)

		idx, err := store.NewFileStore(fs, path, logger.NewNop()).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, idx.Count)
		assert.Equal(t, "X", idx.Destinations[0].City)
		assert.Equal(t, "VLC", idx.Destinations[1].IATA)
		assert.True(t, idx.Destinations[1].HasOldTown)
	})

	t.Run("Should be idempotent apart from generated_at", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeSource(t, fs, header+"X,Nowhere,XXX,10,yes,no,1.0\nNice,France,NCE,12,yes,yes,2.1\n")
		s := store.NewFileStore(fs, testConfig().IndexPath, logger.NewNop())

		_, err := run(ctx, testConfig(), fs, logger.NewNop())
		require.NoError(t, err)
		first, err := s.Load(ctx)
		require.NoError(t, err)

		_, err = run(ctx, testConfig(), fs, logger.NewNop())
		require.NoError(t, err)
		second, err := s.Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, first.Count, second.Count)
		assert.Equal(t, first.Destinations, second.Destinations)
	})

	t.Run("Should prefer the configured source path", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeSource(t, fs, header+"X,Nowhere,XXX,10,yes,no,1.0\n")
		require.NoError(t, afero.WriteFile(fs, "/seed/override.csv", []byte(header+"A,B,AAA,1,no,no,2\nC,D,CCC,1,no,no,2\n"), 0o644))
		cfg := testConfig()
		cfg.SourcePath = "/seed/override.csv"

		path, err := run(ctx, cfg, fs, logger.NewNop())
		require.NoError(t, err)
		idx, err := store.NewFileStore(fs, path, logger.NewNop()).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, idx.Count)
	})

	t.Run("Should report every default candidate when the source is missing", func(t *testing.T) {
		_, err := run(ctx, testConfig(), afero.NewMemMapFs(), logger.NewNop())
		require.Error(t, err)
		assert.Equal(t, 2, exitCode(err))
		assert.Contains(t, err.Error(), filepath.Join("/opt/seedgen", "data", "destinations.csv"))
		assert.Contains(t, err.Error(), filepath.Join("data", "destinations.csv"))
	})

	failures := []struct {
		name string
		body string
		code int
		want string
	}{
		{"malformed row", header + "X,Nowhere,XXX,10,yes\n", 3, "row 1"},
		{"invalid iata", header + "X,Nowhere,XXX,10,yes,no,1.0\nY,Nowhere,ab1,10,yes,no,1.0\n", 4, "iata"},
		{"invalid has_beach", header + "X,Nowhere,XXX,10,maybe,no,1.0\n", 4, "has_beach"},
		{"negative flight hours", header + "X,Nowhere,XXX,10,yes,no,-1\n", 4, "flight_hours_from_LON"},
		{"header only", header, 5, "no data rows"},
	}
	for _, tc := range failures {
		t.Run("Should fail without writing on "+tc.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeSource(t, fs, tc.body)

			_, err := run(ctx, testConfig(), fs, logger.NewNop())
			require.Error(t, err)
			assert.Equal(t, tc.code, exitCode(err))
			assert.Contains(t, err.Error(), tc.want)

			exists, _ := afero.Exists(fs, testConfig().IndexPath)
			assert.False(t, exists)
		})
	}

	t.Run("Should map filesystem failures to the write exit code", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeSource(t, fs, header+"X,Nowhere,XXX,10,yes,no,1.0\n")
		require.NoError(t, fs.MkdirAll(testConfig().IndexPath, 0o755))

		_, err := run(ctx, testConfig(), fs, logger.NewNop())
		require.Error(t, err)
		assert.Equal(t, 6, exitCode(err))
	})
}
