package ui

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"notedeck/internal/config"
	"notedeck/internal/layoutstore"
	"notedeck/internal/providers"
	"notedeck/internal/term"
	"notedeck/internal/vault"
)

// inertRunner keeps console panels from spawning a real shell in tests.
type inertRunner struct{}

type inertPipe struct {
	r *io.PipeReader
}

func (p inertPipe) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p inertPipe) Write(b []byte) (int, error) { return len(b), nil }
func (p inertPipe) Close() error                { return p.r.Close() }

func (inertRunner) Start(_ context.Context, _ *exec.Cmd, _ term.Size) (io.ReadWriteCloser, error) {
	r, _ := io.Pipe()
	return inertPipe{r: r}, nil
}

func (inertRunner) Resize(_ io.ReadWriteCloser, _ term.Size) error { return nil }

func newTestWorkbench(t *testing.T) *Workbench {
	t.Helper()
	t.Setenv(layoutstore.BaseDirEnv, t.TempDir())

	vaultDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(vaultDir, "note.md"), []byte("# Note\n\nbody with [[other]]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	index, err := vault.OpenIndex(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { index.Close() })
	syncer := vault.NewSyncer(index, logger)
	if _, err := syncer.SyncFull(vaultDir); err != nil {
		t.Fatal(err)
	}
	store, err := layoutstore.NewStore(logger)
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Vault.Path = vaultDir

	w := NewWorkbench(Options{
		Config: cfg,
		Index:  index,
		Syncer: syncer,
		Store:  store,
		Runner: inertRunner{},
		Logger: logger,
	})
	w.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return w
}

func send(w *Workbench, msg tea.Msg) {
	w.Update(msg)
}

func TestWorkbench_DefaultLayout(t *testing.T) {
	w := newTestWorkbench(t)

	if w.left.Len() != 2 || w.right.Len() != 2 || w.center.Len() != 2 {
		t.Fatalf("default panel counts = %d/%d/%d", w.left.Len(), w.center.Len(), w.right.Len())
	}
	if p := w.left.GetPanel("explorer-main"); p == nil || p.Type != providers.TypeExplorer {
		t.Error("explorer missing from left sidebar")
	}
	if !w.center.Tabbed() {
		t.Error("center surface should be tabbed")
	}
	if w.focus.Current == "" {
		t.Error("focus should land on a panel")
	}
}

func TestWorkbench_ViewRendersChrome(t *testing.T) {
	w := newTestWorkbench(t)
	out := w.View()
	if !strings.Contains(out, "notedeck") {
		t.Error("header title missing")
	}
	if !strings.Contains(out, "Explorer") || !strings.Contains(out, "Outline") {
		t.Error("panel headers missing")
	}
	if !strings.Contains(out, "notes 1") {
		t.Error("status bar stats missing")
	}
}

func TestWorkbench_FocusCycleActivatesCenterTab(t *testing.T) {
	w := newTestWorkbench(t)
	w.focus.SetFocus("explorer-main")

	for range w.focus.Order {
		send(w, tea.KeyMsg{Type: tea.KeyTab})
		if w.center.IndexOf(w.focus.Current) >= 0 {
			if w.center.ActivePanel().ID != w.focus.Current {
				t.Errorf("center tab %s not activated on focus", w.focus.Current)
			}
		}
	}
}

func TestWorkbench_PanelOpsCloseAndCollapse(t *testing.T) {
	w := newTestWorkbench(t)
	w.focus.SetFocus("search-main")

	send(w, panelOpMsg{op: opCollapse})
	if w.left.GetPanel("search-main").Expanded {
		t.Error("collapse op left the panel expanded")
	}
	send(w, panelOpMsg{op: opClose})
	if w.left.GetPanel("search-main") != nil {
		t.Error("close op left the panel in place")
	}
	if w.focus.Current == "search-main" {
		t.Error("focus should leave a removed panel")
	}
}

func TestWorkbench_GrabReorderWithinSurface(t *testing.T) {
	w := newTestWorkbench(t)
	w.focus.SetFocus("explorer-main")

	send(w, panelOpMsg{op: opGrab})
	if w.mode != ModeGrab {
		t.Fatalf("mode = %v, want Grab", w.mode)
	}
	send(w, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if w.left.IndexOf("explorer-main") != 1 {
		t.Error("grabbed panel did not move down")
	}
	send(w, tea.KeyMsg{Type: tea.KeyEscape})
	if w.mode != ModeBrowse {
		t.Error("esc should end grab mode")
	}
}

func TestWorkbench_GrabMigratesAcrossSurfaces(t *testing.T) {
	w := newTestWorkbench(t)
	w.focus.SetFocus("outline-main")

	send(w, panelOpMsg{op: opGrab})
	// Right sidebar -> center: the center namespace has no outline factory,
	// so the moved panel degrades to a placeholder but keeps its identity.
	send(w, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	if w.right.GetPanel("outline-main") != nil {
		t.Fatal("panel still present on the source surface")
	}
	p := w.center.GetPanel("outline-main")
	if p == nil {
		t.Fatal("panel did not arrive on the center surface")
	}
	if !p.Placeholder() {
		t.Error("foreign-namespace migration should mount a placeholder")
	}

	// Center -> left sidebar: the sidebar namespace knows the type again.
	send(w, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	p = w.left.GetPanel("outline-main")
	if p == nil {
		t.Fatal("panel did not arrive on the left sidebar")
	}
	if p.Placeholder() {
		t.Error("home-namespace migration should mount the real renderer")
	}
	if w.center.GetPanel("outline-main") != nil {
		t.Error("panel duplicated during migration")
	}
	send(w, tea.KeyMsg{Type: tea.KeyEnter})
	if w.mode != ModeBrowse {
		t.Error("enter should drop and end grab mode")
	}
}

func TestWorkbench_ToggleSidebarHidesRegion(t *testing.T) {
	w := newTestWorkbench(t)

	send(w, toggleSidebarMsg{position: PositionLeft})
	if w.left.Visible() {
		t.Fatal("left sidebar still visible")
	}
	if w.regions.Left.Area() != 0 {
		t.Error("hidden sidebar still occupies area")
	}
	for _, id := range w.focus.Order {
		if w.left.IndexOf(id) >= 0 {
			t.Error("hidden surface panels should leave the focus order")
		}
	}
	send(w, toggleSidebarMsg{position: PositionLeft})
	if !w.left.Visible() {
		t.Error("second toggle should restore the sidebar")
	}
}

func TestWorkbench_SidebarResizeClamps(t *testing.T) {
	w := newTestWorkbench(t)
	w.focus.SetFocus("explorer-main")

	send(w, sidebarResizeMsg{delta: 4})
	if w.regions.Left.W != sidebarWidth+4 {
		t.Errorf("left width = %d, want %d", w.regions.Left.W, sidebarWidth+4)
	}
	send(w, sidebarResizeMsg{delta: 1000})
	if w.regions.Left.W != maxSidebarWidth {
		t.Errorf("left width = %d, want clamp at %d", w.regions.Left.W, maxSidebarWidth)
	}
	if w.regions.Left.W+w.regions.Center.W+w.regions.Right.W != 120 {
		t.Error("regions no longer tile the row")
	}

	// Focus in the center resizes nothing.
	w.focus.SetFocus("preview-main")
	before := w.regions
	send(w, sidebarResizeMsg{delta: -4})
	if w.regions != before {
		t.Error("center focus should not resize sidebars")
	}
}

func TestWorkbench_SearchModeTypesIntoQuery(t *testing.T) {
	w := newTestWorkbench(t)

	send(w, focusContentMsg{contentType: providers.TypeSearch, mode: ModeSearch})
	if w.mode != ModeSearch {
		t.Fatalf("mode = %v, want Search", w.mode)
	}
	send(w, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("note")})

	r := w.focusedRenderer()
	s, ok := r.(*providers.Search)
	if !ok {
		t.Fatalf("focused renderer is %T, want *providers.Search", r)
	}
	if s.Query() != "note" {
		t.Errorf("query = %q, want note", s.Query())
	}
	send(w, tea.KeyMsg{Type: tea.KeyEscape})
	if w.mode != ModeBrowse {
		t.Error("esc should leave search mode")
	}
}

func TestWorkbench_QuitSavesLayout(t *testing.T) {
	w := newTestWorkbench(t)
	w.left.RemovePanel("search-main")

	send(w, saveAndQuitMsg{})

	saved := w.store.Load()
	frag, ok := saved.Fragment(PositionLeft)
	if !ok {
		t.Fatal("saved layout missing the left sidebar")
	}
	if len(frag.Panels) != 1 || frag.Panels[0].ID != "explorer-main" {
		t.Errorf("saved left panels = %+v", frag.Panels)
	}
	if _, ok := saved.Fragment(PositionCenter); !ok {
		t.Error("saved layout missing the center surface")
	}
}

func TestWorkbench_AutosaveGeneration(t *testing.T) {
	w := newTestWorkbench(t)
	w.dirty = true
	cmd := w.scheduleSave()
	if cmd == nil {
		t.Fatal("dirty model should schedule a save")
	}
	staleGen := w.saveGen

	// Another mutation arms a newer save; the stale tick must not write.
	w.dirty = true
	if w.scheduleSave() == nil {
		t.Fatal("second schedule missing")
	}
	send(w, autosaveMsg{gen: staleGen})
	if !w.store.Load().Empty() {
		t.Error("stale autosave generation wrote the layout")
	}
	send(w, autosaveMsg{gen: w.saveGen})
	if w.store.Load().Empty() {
		t.Error("current autosave generation did not write the layout")
	}
}

// restartedWorkbench simulates quit and relaunch against the same store.
func TestWorkbench_LayoutRoundTripAcrossRestart(t *testing.T) {
	w := newTestWorkbench(t)
	w.focus.SetFocus("graph-main")
	send(w, panelOpMsg{op: opGrab})
	send(w, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	send(w, tea.KeyMsg{Type: tea.KeyEscape})
	send(w, saveAndQuitMsg{})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	index, err := vault.OpenIndex(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer index.Close()
	cfg := config.Default()
	cfg.Vault.Path = t.TempDir()
	w2 := NewWorkbench(Options{
		Config: cfg,
		Index:  index,
		Syncer: vault.NewSyncer(index, logger),
		Store:  w.store,
		Runner: inertRunner{},
		Logger: logger,
	})
	if got := w2.right.IndexOf("graph-main"); got != 0 {
		t.Errorf("restored graph panel index = %d, want 0", got)
	}
	if w2.right.Len() != 2 {
		t.Errorf("restored right panel count = %d", w2.right.Len())
	}
}
