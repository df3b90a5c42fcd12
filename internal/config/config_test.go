package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_CreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(BaseDirEnv, dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Layout.AutosaveDelayMS != 500 {
		t.Errorf("expected default autosave delay 500, got %d", cfg.Layout.AutosaveDelayMS)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("expected default config file to be written: %v", err)
	}
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse([]byte("[vault]\npath = \"/notes\"\n\n[layout]\nautosave_delay_ms = 100\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Vault.Path != "/notes" {
		t.Errorf("expected vault path /notes, got %q", cfg.Vault.Path)
	}
	if cfg.AutosaveDelay().Milliseconds() != 100 {
		t.Errorf("expected 100ms autosave delay, got %v", cfg.AutosaveDelay())
	}
}

func TestParse_BadTOMLFallsBack(t *testing.T) {
	cfg, err := Parse([]byte("not [valid toml"))
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.Layout.AutosaveDelayMS != 500 {
		t.Errorf("broken config must fall back to defaults, got %+v", cfg)
	}
}
