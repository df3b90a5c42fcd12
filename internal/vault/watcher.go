package vault

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow batches bursts of filesystem events. Editors typically
// write a note as several events within a few milliseconds.
const debounceWindow = 200 * time.Millisecond

// Watcher monitors a vault directory tree for markdown changes and delivers
// them as debounced batches of vault-relative paths.
type Watcher struct {
	vaultPath string
	fs        *fsnotify.Watcher
	events    chan []string
	done      chan struct{}
	logger    *slog.Logger
}

// NewWatcher starts watching vaultPath recursively.
func NewWatcher(vaultPath string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		vaultPath: vaultPath,
		fs:        fsw,
		events:    make(chan []string, 16),
		done:      make(chan struct{}),
		logger:    logger,
	}
	if err := w.addRecursive(vaultPath); err != nil {
		fsw.Close()
		return nil, err
	}
	go w.run()
	return w, nil
}

// Events delivers debounced batches of changed vault-relative .md paths.
// The channel closes when the watcher is closed.
func (w *Watcher) Events() <-chan []string {
	return w.events
}

// Close stops watching and closes the event channel.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

// addRecursive registers every directory under root. fsnotify watches are
// per-directory, not recursive.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); name != filepath.Base(root) && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

func (w *Watcher) run() {
	defer close(w.events)

	var pending map[string]bool
	var timer *time.Timer
	var fire <-chan time.Time

	flush := func() {
		if len(pending) == 0 {
			return
		}
		batch := make([]string, 0, len(pending))
		for p := range pending {
			batch = append(batch, p)
		}
		pending = nil
		select {
		case w.events <- batch:
		case <-w.done:
		}
	}

	for {
		select {
		case <-w.done:
			return
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		case ev, ok := <-w.fs.Events:
			if !ok {
				flush()
				return
			}
			// New subdirectories need their own watch.
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(ev.Name); err != nil {
						w.logger.Warn("watch new dir", "path", ev.Name, "error", err)
					}
					continue
				}
			}
			if !strings.HasSuffix(ev.Name, ".md") {
				continue
			}
			rel, err := filepath.Rel(w.vaultPath, ev.Name)
			if err != nil {
				continue
			}
			if pending == nil {
				pending = make(map[string]bool)
			}
			pending[filepath.ToSlash(rel)] = true
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceWindow)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			flush()
		}
	}
}
