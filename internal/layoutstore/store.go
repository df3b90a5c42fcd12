// Package layoutstore persists the layout descriptor between sessions.
// The descriptor is derived state: it is written after layout mutations and
// read exactly once at startup. A missing or unreadable file is never an
// error; the application falls back to the default layout.
package layoutstore

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"notedeck/internal/dock"
)

const (
	// BaseDirEnv is the env var override for the ~/.notedeck base (for testing).
	BaseDirEnv = "NOTEDECK_DIR"
	// DefaultBase is the default app directory under the user home.
	DefaultBase = ".notedeck"
	// layoutFile is the descriptor file name inside the base dir.
	layoutFile = "layout.json"
)

// Store reads and writes the persisted layout descriptor.
type Store struct {
	baseDir string
	logger  *slog.Logger
}

// NewStore creates a store rooted at the user's home + DefaultBase, or at
// the path in NOTEDECK_DIR if set.
func NewStore(logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	base := os.Getenv(BaseDirEnv)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, DefaultBase)
	}
	return &Store{baseDir: base, logger: logger}, nil
}

// Path returns the descriptor file location.
func (s *Store) Path() string {
	return filepath.Join(s.baseDir, layoutFile)
}

// Load reads the saved descriptor. A missing file yields the zero
// descriptor; a corrupt file is logged and also yields the zero descriptor,
// because a broken layout file must never block startup.
func (s *Store) Load() dock.Descriptor {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return dock.Descriptor{}
	}
	d, err := dock.UnmarshalDescriptor(data)
	if err != nil {
		s.logger.Warn("discarding corrupt layout file", "path", s.Path(), "error", err)
		return dock.Descriptor{}
	}
	return d
}

// Save writes the descriptor, creating the base dir if needed.
func (s *Store) Save(d dock.Descriptor) error {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("create layout dir: %w", err)
	}
	data, err := dock.MarshalDescriptor(d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path(), data, 0o644); err != nil {
		return fmt.Errorf("write layout file: %w", err)
	}
	return nil
}
