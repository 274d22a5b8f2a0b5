package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/i474232898/tripweaver-seedgen/pkg/logger"
)

// AppConfig holds everything seedgen needs to locate its input and place its output.
type AppConfig struct {
	// SourcePath is an explicit CSV location tried before the conventional ones.
	SourcePath string `toml:"source_path"`

	// DataDir is the project data directory holding destinations.csv and index.json.
	DataDir string `toml:"data_dir"`

	// IndexPath is where the artifact is written; defaults to DataDir/index.json.
	IndexPath string `toml:"index_path"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// BinaryDir is the directory of the running executable. Not configurable.
	BinaryDir string `toml:"-"`
}

// IndexFileName is the artifact name inside the data directory.
const IndexFileName = "index.json"

// Load reads configuration from an optional TOML file named by SEEDGEN_CONFIG,
// then from the environment, which takes precedence.
func Load() (*AppConfig, error) {
	// DataDir defaults relative to the working directory; the locator covers
	// the binary-relative source candidate separately.
	cfg := &AppConfig{
		DataDir:   "data",
		LogLevel:  "info",
		LogFormat: "console",
	}

	if path := os.Getenv("SEEDGEN_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("invalid SEEDGEN_CONFIG %s: %w", path, err)
		}
	}

	cfg.SourcePath = getenvDefault("CSV_PATH", cfg.SourcePath)
	cfg.DataDir = getenvDefault("SEEDGEN_DATA_DIR", cfg.DataDir)
	cfg.IndexPath = getenvDefault("INDEX_PATH", cfg.IndexPath)
	cfg.LogLevel = getenvDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenvDefault("LOG_FORMAT", cfg.LogFormat)

	if cfg.IndexPath == "" {
		cfg.IndexPath = filepath.Join(cfg.DataDir, IndexFileName)
	}

	if _, err := logger.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want json or console", cfg.LogFormat)
	}

	// A missing executable path only drops one fallback candidate.
	if exe, err := os.Executable(); err == nil {
		cfg.BinaryDir = filepath.Dir(exe)
	}

	return cfg, nil
}

// LoggerConfig returns the logger settings.
func (c *AppConfig) LoggerConfig() logger.Config {
	return logger.Config{Level: c.LogLevel, Format: c.LogFormat}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
