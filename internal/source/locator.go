package source

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/i474232898/tripweaver-seedgen/pkg/logger"
)

// FileName is the conventional name of the destination table.
const FileName = "destinations.csv"

// DefaultCandidates returns the fallback locations: next to the installed
// binary first, then the project data directory.
func DefaultCandidates(binaryDir, dataDir string) []string {
	var paths []string
	if binaryDir != "" {
		paths = append(paths, filepath.Join(binaryDir, "data", FileName))
	}
	if dataDir != "" {
		paths = append(paths, filepath.Join(dataDir, FileName))
	}
	return paths
}

// Locator resolves the source table path.
type Locator struct {
	fs        afero.Fs
	override  string
	fallbacks []string
	logger    *logger.Logger
}

// NewLocator creates a Locator. override, when non-empty, is tried before the fallbacks.
func NewLocator(fs afero.Fs, log *logger.Logger, override string, fallbacks ...string) *Locator {
	return &Locator{
		fs:        fs,
		override:  override,
		fallbacks: fallbacks,
		logger:    log.Named("locator"),
	}
}

// Candidates returns the paths Locate checks, in order, without blanks or repeats.
func (l *Locator) Candidates() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range append([]string{l.override}, l.fallbacks...) {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Locate returns the first candidate that is an existing, readable file.
func (l *Locator) Locate() (string, error) {
	tried := l.Candidates()
	for _, p := range tried {
		if l.readable(p) {
			l.logger.Debug("found source table", logger.String("path", p))
			return p, nil
		}
		if l.override != "" && p == filepath.Clean(l.override) {
			l.logger.Warn("source override not usable, falling back", logger.String("path", p))
		}
	}
	return "", &SourceNotFoundError{Tried: tried}
}

func (l *Locator) readable(path string) bool {
	info, err := l.fs.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	f, err := l.fs.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}
