package providers

import (
	"fmt"
	"strings"

	"notedeck/internal/dock"
	"notedeck/internal/jsonutil"
	"notedeck/internal/term"
)

// Console hosts a shell inside a pty. The lifecycle maps directly onto the
// renderer contract: Init spawns, Layout resizes, Dispose terminates.
type Console struct {
	deps    Deps
	session *term.Session
	err     error
	width   int
	height  int
}

func newConsole(deps Deps) *Console {
	return &Console{deps: deps}
}

func (c *Console) Init(p dock.Params) {
	if c.session != nil {
		return
	}
	runner := c.deps.Runner
	if runner == nil {
		runner = &term.CreackPTY{}
	}
	size := term.Size{Rows: 24, Cols: 80}
	if c.width > 0 && c.height > 0 {
		size = term.Size{Rows: uint16(c.height), Cols: uint16(c.width)}
	}
	// A panel may carry its own shell in its param bag, e.g. a layout saved
	// with a dedicated REPL console.
	shell := jsonutil.GetStringOr(p, "shell", c.deps.Shell)
	session, err := term.NewSession(runner, shell, size, c.deps.Logger)
	if err != nil {
		c.err = err
		c.deps.logger().Warn("console shell failed to start", "error", err)
		return
	}
	c.session = session
	if c.deps.Invalidate != nil {
		session.OnOutput(c.deps.Invalidate)
	}
}

func (c *Console) Update(dock.Params) {}

func (c *Console) Layout(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
	if c.session != nil {
		if err := c.session.Resize(term.Size{Rows: uint16(height), Cols: uint16(width)}); err != nil {
			c.deps.logger().Debug("console resize failed", "error", err)
		}
	}
}

func (c *Console) Dispose() {
	if c.session != nil {
		c.session.Close()
		c.session = nil
	}
}

// Send forwards input to the shell, appending a newline.
func (c *Console) Send(input string) {
	if c.session == nil {
		return
	}
	if _, err := c.session.Write([]byte(input + "\n")); err != nil {
		c.deps.logger().Debug("console write failed", "error", err)
	}
}

// View renders the tail of the scrollback.
func (c *Console) View() string {
	if c.err != nil {
		return dimStyle.Render(fmt.Sprintf("console unavailable: %v", c.err))
	}
	if c.session == nil {
		return dimStyle.Render("console not started")
	}
	lines := c.session.Lines(max(c.height, 1))
	if len(lines) == 0 {
		return dimStyle.Render("waiting for shell output")
	}
	return strings.Join(lines, "\n")
}
