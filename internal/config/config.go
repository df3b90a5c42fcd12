// Package config loads notedeck's TOML configuration. A missing config file
// is created with defaults; a broken one falls back to defaults with an
// error the caller may log, because configuration problems must never stop
// the application from starting.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// BaseDirEnv overrides the config directory (for testing).
const BaseDirEnv = "NOTEDECK_DIR"

// Config is the top-level TOML structure.
type Config struct {
	Vault   VaultConfig   `toml:"vault"`
	Layout  LayoutConfig  `toml:"layout"`
	Console ConsoleConfig `toml:"console"`
	Logging LoggingConfig `toml:"logging"`
}

// VaultConfig locates the markdown vault.
type VaultConfig struct {
	Path string `toml:"path"`
}

// LayoutConfig tunes layout persistence.
type LayoutConfig struct {
	AutosaveDelayMS int `toml:"autosave_delay_ms"`
}

// ConsoleConfig configures the embedded console panel.
type ConsoleConfig struct {
	Shell string `toml:"shell"` // empty means $SHELL
}

// LoggingConfig controls the app log file.
type LoggingConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

const defaultConfigTOML = `# notedeck configuration

[vault]
# Path to the markdown vault. Empty means the current directory.
path = ""

[layout]
autosave_delay_ms = 500

[console]
# Shell for the console panel. Empty means $SHELL.
shell = ""

[logging]
level = "info"
`

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout:  LayoutConfig{AutosaveDelayMS: 500},
		Logging: LoggingConfig{Level: "info"},
	}
}

// AutosaveDelay returns the layout autosave debounce as a duration.
func (c Config) AutosaveDelay() time.Duration {
	if c.Layout.AutosaveDelayMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.Layout.AutosaveDelayMS) * time.Millisecond
}

// Dir returns the notedeck app directory, honoring the env override.
func Dir() (string, error) {
	if base := os.Getenv(BaseDirEnv); base != "" {
		return base, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("user home dir: %w", err)
	}
	return filepath.Join(home, ".notedeck"), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file, creating it with defaults if missing.
// On any failure the returned Config is usable defaults.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}

	// Create config file with defaults if missing
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return Default(), fmt.Errorf("create config dir: %w", mkErr)
		}
		if wErr := os.WriteFile(path, []byte(defaultConfigTOML), 0o644); wErr != nil {
			return Default(), fmt.Errorf("write default config: %w", wErr)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML bytes into a Config, falling back to defaults on error.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
