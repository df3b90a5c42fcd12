package term

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"testing"
	"time"
)

// fakeRunner hands the session one end of an in-memory pipe instead of a
// real PTY.
type fakeRunner struct {
	mu      sync.Mutex
	writer  io.WriteCloser
	resizes []Size
	started string
}

type pipeEnd struct {
	io.Reader
	io.Writer
	io.Closer
}

func (f *fakeRunner) Start(_ context.Context, cmd *exec.Cmd, _ Size) (io.ReadWriteCloser, error) {
	r, w := io.Pipe()
	f.mu.Lock()
	f.writer = w
	f.started = cmd.Path
	f.mu.Unlock()
	return pipeEnd{Reader: r, Writer: io.Discard, Closer: r}, nil
}

func (f *fakeRunner) Resize(_ io.ReadWriteCloser, size Size) error {
	f.mu.Lock()
	f.resizes = append(f.resizes, size)
	f.mu.Unlock()
	return nil
}

func (f *fakeRunner) emit(s string) {
	f.mu.Lock()
	w := f.writer
	f.mu.Unlock()
	w.Write([]byte(s))
}

func newFakeSession(t *testing.T) (*Session, *fakeRunner) {
	t.Helper()
	runner := &fakeRunner{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session, err := NewSession(runner, "/bin/sh", Size{Rows: 24, Cols: 80}, logger)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session, runner
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached")
}

func TestSession_CollectsOutputLines(t *testing.T) {
	session, runner := newFakeSession(t)
	runner.emit("first\nsecond\n")
	waitFor(t, func() bool { return len(session.Lines(0)) == 2 })

	lines := session.Lines(0)
	if lines[0] != "first" || lines[1] != "second" {
		t.Errorf("unexpected lines: %v", lines)
	}
	runner.mu.Lock()
	defer runner.mu.Unlock()
	if runner.started != "/bin/sh" {
		t.Errorf("started %q, want /bin/sh", runner.started)
	}
}

func TestSession_LinesTailWindow(t *testing.T) {
	session, runner := newFakeSession(t)
	runner.emit("a\nb\nc\nd\n")
	waitFor(t, func() bool { return len(session.Lines(0)) == 4 })

	tail := session.Lines(2)
	if len(tail) != 2 || tail[0] != "c" || tail[1] != "d" {
		t.Errorf("unexpected tail: %v", tail)
	}
}

func TestSession_OnOutputFires(t *testing.T) {
	session, runner := newFakeSession(t)
	var mu sync.Mutex
	fired := 0
	session.OnOutput(func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})
	runner.emit("ping\n")
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fired > 0
	})
}

func TestSession_ResizeForwards(t *testing.T) {
	session, runner := newFakeSession(t)
	if err := session.Resize(Size{Rows: 10, Cols: 40}); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	runner.mu.Lock()
	defer runner.mu.Unlock()
	if len(runner.resizes) != 1 || runner.resizes[0].Cols != 40 {
		t.Errorf("unexpected resizes: %v", runner.resizes)
	}
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	session, _ := newFakeSession(t)
	if err := session.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := session.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := session.Write([]byte("x")); err == nil {
		t.Error("expected write to closed session to fail")
	}
}
