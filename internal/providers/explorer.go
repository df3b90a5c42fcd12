package providers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"notedeck/internal/dock"
	"notedeck/internal/vault"
)

var (
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type explorerRow struct {
	node  vault.FileNode
	depth int
}

// Explorer renders the vault's file tree and drives note selection.
type Explorer struct {
	deps      Deps
	tree      vault.FileNode
	rows      []explorerRow
	collapsed map[string]bool
	cursor    int
	offset    int
	width     int
	height    int
	err       error
}

func newExplorer(deps Deps) *Explorer {
	return &Explorer{deps: deps, collapsed: make(map[string]bool)}
}

func (e *Explorer) Init(dock.Params) { e.Refresh() }

// Update re-reads the tree; the workbench pushes this after watcher batches.
func (e *Explorer) Update(dock.Params) { e.Refresh() }

func (e *Explorer) Layout(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.width, e.height = width, height
	e.clampCursor()
}

func (e *Explorer) Dispose() {}

// Refresh rebuilds the tree from disk, keeping cursor and collapse state.
func (e *Explorer) Refresh() {
	tree, err := vault.BuildTree(e.deps.VaultPath)
	if err != nil {
		e.err = err
		e.deps.logger().Warn("explorer tree build failed", "error", err)
		return
	}
	e.err = nil
	e.tree = tree
	e.flatten()
	e.clampCursor()
}

func (e *Explorer) flatten() {
	e.rows = e.rows[:0]
	var walk func(n vault.FileNode, depth int)
	walk = func(n vault.FileNode, depth int) {
		e.rows = append(e.rows, explorerRow{node: n, depth: depth})
		if n.IsDir && e.collapsed[n.Path] {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, c := range e.tree.Children {
		walk(c, 0)
	}
}

// CursorMove moves the selection by delta rows, clamped to the list.
func (e *Explorer) CursorMove(delta int) {
	e.cursor += delta
	e.clampCursor()
}

// Select acts on the cursor row: directories toggle collapse, files become
// the active note. Rows whose note is not indexed yet are ignored.
func (e *Explorer) Select() {
	if e.cursor < 0 || e.cursor >= len(e.rows) {
		return
	}
	row := e.rows[e.cursor]
	if row.node.IsDir {
		e.collapsed[row.node.Path] = !e.collapsed[row.node.Path]
		e.flatten()
		e.clampCursor()
		return
	}
	node, err := e.deps.Index.NodeByPath(row.node.Path)
	if err != nil || node == nil {
		e.deps.logger().Debug("explorer selection not in index", "path", row.node.Path)
		return
	}
	e.deps.Active.Set(node)
}

// SelectedPath returns the vault-relative path under the cursor, and whether
// it is a file.
func (e *Explorer) SelectedPath() (string, bool) {
	if e.cursor < 0 || e.cursor >= len(e.rows) {
		return "", false
	}
	row := e.rows[e.cursor]
	return row.node.Path, !row.node.IsDir
}

func (e *Explorer) clampCursor() {
	if e.cursor >= len(e.rows) {
		e.cursor = len(e.rows) - 1
	}
	if e.cursor < 0 {
		e.cursor = 0
	}
	if e.height <= 0 {
		return
	}
	if e.cursor < e.offset {
		e.offset = e.cursor
	}
	if e.cursor >= e.offset+e.height {
		e.offset = e.cursor - e.height + 1
	}
}

// View renders the visible window of the tree.
func (e *Explorer) View() string {
	if e.err != nil {
		return dimStyle.Render(fmt.Sprintf("vault unreadable: %v", e.err))
	}
	if len(e.rows) == 0 {
		return dimStyle.Render("no notes yet")
	}
	var b strings.Builder
	end := min(len(e.rows), e.offset+max(e.height, 1))
	for i := e.offset; i < end; i++ {
		row := e.rows[i]
		label := strings.Repeat("  ", row.depth)
		if row.node.IsDir {
			if e.collapsed[row.node.Path] {
				label += "▸ "
			} else {
				label += "▾ "
			}
			label += row.node.Name
		} else {
			label += strings.TrimSuffix(row.node.Name, ".md")
		}
		if r := []rune(label); e.width > 0 && len(r) > e.width {
			label = string(r[:e.width])
		}
		if i == e.cursor {
			label = cursorStyle.Render(label)
		} else if row.node.IsDir {
			label = dimStyle.Render(label)
		}
		b.WriteString(label)
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
