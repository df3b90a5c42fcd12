package term

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
)

// maxScrollback bounds the retained output so a chatty shell cannot grow
// memory without limit.
const maxScrollback = 2000

// Session is one running shell attached to a PTY. Output is collected line
// by line into a bounded scrollback; OnOutput fires after each new line so
// the owning view can request a redraw.
type Session struct {
	mu       sync.Mutex
	runner   Runner
	pty      io.ReadWriteCloser
	lines    []string
	closed   bool
	logger   *slog.Logger
	onOutput func()
}

// NewSession spawns shell (or $SHELL, or /bin/sh) inside a PTY of the given
// size.
func NewSession(runner Runner, shell string, size Size, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.Command(shell)
	rwc, err := runner.Start(context.Background(), cmd, size)
	if err != nil {
		return nil, fmt.Errorf("start shell %s: %w", shell, err)
	}
	s := &Session{runner: runner, pty: rwc, logger: logger}
	go s.read()
	return s, nil
}

// OnOutput registers a callback invoked (on the reader goroutine) whenever
// new output arrives.
func (s *Session) OnOutput(fn func()) {
	s.mu.Lock()
	s.onOutput = fn
	s.mu.Unlock()
}

// Write sends input to the shell.
func (s *Session) Write(p []byte) (int, error) {
	s.mu.Lock()
	rwc := s.pty
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return 0, io.ErrClosedPipe
	}
	return rwc.Write(p)
}

// Lines returns up to n trailing lines of scrollback.
func (s *Session) Lines(n int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.lines
	if n > 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	out := make([]string, len(all))
	copy(out, all)
	return out
}

// Resize changes the PTY geometry.
func (s *Session) Resize(size Size) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.runner.Resize(s.pty, size)
}

// Close terminates the shell. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.pty.Close()
}

func (s *Session) read() {
	scanner := bufio.NewScanner(s.pty)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		s.append(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		// Read errors after Close are the normal shutdown path.
		if !closed {
			s.logger.Debug("console read ended", "error", err)
		}
	}
}

func (s *Session) append(line string) {
	s.mu.Lock()
	s.lines = append(s.lines, line)
	if len(s.lines) > maxScrollback {
		s.lines = s.lines[len(s.lines)-maxScrollback:]
	}
	fn := s.onOutput
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}
