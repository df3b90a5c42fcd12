package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"notedeck/internal/config"
	"notedeck/internal/layoutstore"
	"notedeck/internal/telemetry"
	"notedeck/internal/ui"
	"notedeck/internal/vault"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	vaultFlag := flag.String("vault", "", "vault directory (defaults to the configured path, then the working directory)")
	flag.Parse()

	cfg, cfgErr := config.Load()
	if *vaultFlag != "" {
		cfg.Vault.Path = *vaultFlag
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	if cfgErr != nil {
		logger.Warn("using default config", "error", cfgErr)
	}

	vaultPath := cfg.Vault.Path
	if vaultPath == "" {
		vaultPath, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve vault path: %w", err)
		}
		cfg.Vault.Path = vaultPath
	}

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create app dir: %w", err)
	}
	index, err := vault.OpenIndex(filepath.Join(dir, "index.db"))
	if err != nil {
		return err
	}
	defer index.Close()

	syncer := vault.NewSyncer(index, logger)
	if _, err := syncer.SyncFull(vaultPath); err != nil {
		return fmt.Errorf("initial vault sync: %w", err)
	}

	watcher, err := vault.NewWatcher(vaultPath, logger)
	if err != nil {
		logger.Warn("file watching disabled", "error", err)
		watcher = nil
	}

	store, err := layoutstore.NewStore(logger)
	if err != nil {
		logger.Warn("layout persistence disabled", "error", err)
		store = nil
	}

	ctx := context.Background()
	exporter, err := telemetry.New(ctx)
	if err != nil {
		logger.Warn("telemetry disabled", "error", err)
	}
	if exporter != nil {
		defer exporter.Shutdown(ctx)
	}

	bench := ui.NewWorkbench(ui.Options{
		Config:  cfg,
		Index:   index,
		Syncer:  syncer,
		Watcher: watcher,
		Store:   store,
		Logger:  logger,
	})
	if exporter != nil {
		bench.Coordinator().SetTracer(exporter.Tracer())
	}

	p := tea.NewProgram(bench.AsTeaModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// openLogger writes structured logs to a file in the app dir; logging to
// stderr would fight the TUI for the terminal.
func openLogger(cfg config.Config) (*slog.Logger, func(), error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create app dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "notedeck.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, func() { f.Close() }, nil
}
