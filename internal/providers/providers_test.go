package providers

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notedeck/internal/dock"
	"notedeck/internal/term"
	"notedeck/internal/vault"
)

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	vaultDir := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(vaultDir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("milk.md", "# Milk Run\n\nBuy [[pantry]] items.\n\n## Stores\n\n- corner shop\n")
	write("pantry.md", "# Pantry\n\nStaples live here. #food\n")
	write("trips/rome.md", "# Rome\n\nSee [[pantry]] before leaving.\n")

	ix, err := vault.OpenIndex(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err = vault.NewSyncer(ix, logger).SyncFull(vaultDir)
	require.NoError(t, err)

	return Deps{
		Index:     ix,
		VaultPath: vaultDir,
		Active:    NewActiveNote(),
		Logger:    logger,
	}
}

func TestRegisterSidebar_MountsKnownTypes(t *testing.T) {
	deps := newTestDeps(t)
	set := dock.NewFactorySet(deps.Logger)
	RegisterSidebar(set, deps)

	for _, key := range []string{TypeExplorer, TypeSearch, TypeOutline, TypeGraph} {
		r, _, known := set.Mount(key, nil)
		assert.True(t, known, key)
		require.NotNil(t, r, key)
	}
	_, _, known := set.Mount(TypePreview, nil)
	assert.False(t, known, "center types must not leak into the sidebar namespace")
}

func TestRegisterCenter_MountsKnownTypes(t *testing.T) {
	deps := newTestDeps(t)
	set := dock.NewFactorySet(deps.Logger)
	RegisterCenter(set, deps)

	_, provider, known := set.Mount(TypeConsole, nil)
	assert.True(t, known)
	assert.True(t, provider.Bare)
	_, _, known = set.Mount(TypeExplorer, nil)
	assert.False(t, known)
}

func TestExplorer_SelectSetsActiveNote(t *testing.T) {
	deps := newTestDeps(t)
	e := newExplorer(deps)
	e.Init(nil)
	e.Layout(40, 20)

	// Rows sort dirs first: trips/, then milk.md, pantry.md.
	path, isFile := e.SelectedPath()
	assert.Equal(t, "trips", path)
	assert.False(t, isFile)

	e.CursorMove(1)
	path, isFile = e.SelectedPath()
	assert.Equal(t, "trips/rome.md", path)
	assert.True(t, isFile)

	e.Select()
	active := deps.Active.Get()
	require.NotNil(t, active)
	assert.Equal(t, "Rome", active.Title)
}

func TestExplorer_CollapseHidesChildren(t *testing.T) {
	deps := newTestDeps(t)
	e := newExplorer(deps)
	e.Init(nil)
	e.Layout(40, 20)

	before := len(e.rows)
	e.Select() // cursor starts on trips/, toggles collapse
	assert.Equal(t, before-1, len(e.rows))
	e.Select()
	assert.Equal(t, before, len(e.rows))
}

func TestExplorer_ZeroAreaLayoutIgnored(t *testing.T) {
	deps := newTestDeps(t)
	e := newExplorer(deps)
	e.Init(nil)
	e.Layout(40, 20)
	e.Layout(0, 0)
	assert.Equal(t, 20, e.height)
}

func TestSearch_RanksByTitleDistance(t *testing.T) {
	deps := newTestDeps(t)
	s := newSearch(deps)
	s.Init(nil)
	s.Layout(40, 20)

	// Both notes contain "pantry"; the one titled Pantry ranks first.
	s.SetQuery("pantry")
	require.Len(t, s.results, 3)
	assert.Equal(t, "Pantry", s.results[0].Title)

	s.Select()
	active := deps.Active.Get()
	require.NotNil(t, active)
	assert.Equal(t, "Pantry", active.Title)
}

func TestSearch_AppendAndBackspace(t *testing.T) {
	deps := newTestDeps(t)
	s := newSearch(deps)
	s.Init(nil)

	s.AppendQuery("mi")
	s.AppendQuery("lk")
	assert.Equal(t, "milk", s.Query())
	require.NotEmpty(t, s.results)

	s.AppendQuery("\b")
	assert.Equal(t, "mil", s.Query())

	s.SetQuery("")
	assert.Empty(t, s.results)
}

func TestOutline_FollowsActiveNote(t *testing.T) {
	deps := newTestDeps(t)
	o := newOutline(deps)
	o.Init(nil)
	assert.Contains(t, o.View(), "no note selected")

	node, err := deps.Index.NodeByPath("milk.md")
	require.NoError(t, err)
	deps.Active.Set(node)

	view := o.View()
	assert.Contains(t, view, "Milk Run")
	assert.Contains(t, view, "Stores")

	o.Dispose()
	deps.Active.Set(nil)
	// Disposed outlines no longer track the slot.
	assert.Contains(t, o.View(), "Milk Run")
}

func TestGraph_CountsAndHubs(t *testing.T) {
	deps := newTestDeps(t)
	g := newGraph(deps)
	g.Init(nil)

	view := g.View()
	assert.Contains(t, view, "notes 3")
	assert.Contains(t, view, "tags 1")
	// pantry.md is linked from two notes.
	assert.Contains(t, view, "Pantry")
}

func TestPreview_ScrollClamps(t *testing.T) {
	deps := newTestDeps(t)
	p := newPreview(deps)
	p.Init(nil)
	p.Layout(40, 3)

	node, err := deps.Index.NodeByPath("milk.md")
	require.NoError(t, err)
	deps.Active.Set(node)

	p.ScrollBy(100)
	assert.LessOrEqual(t, p.scroll, len(p.lines))
	p.ScrollBy(-100)
	assert.Equal(t, 0, p.scroll)
	assert.Contains(t, p.View(), "Milk Run")
}

// nullRunner satisfies term.Runner with an inert pipe so console tests never
// spawn a real shell.
type nullRunner struct {
	resizes int
	started string
}

type nullPipe struct {
	r *io.PipeReader
}

func (n nullPipe) Read(p []byte) (int, error)  { return n.r.Read(p) }
func (n nullPipe) Write(p []byte) (int, error) { return len(p), nil }
func (n nullPipe) Close() error                { return n.r.Close() }

func (n *nullRunner) Start(_ context.Context, cmd *exec.Cmd, _ term.Size) (io.ReadWriteCloser, error) {
	n.started = cmd.Path
	r, _ := io.Pipe()
	return nullPipe{r: r}, nil
}

func (n *nullRunner) Resize(_ io.ReadWriteCloser, _ term.Size) error {
	n.resizes++
	return nil
}

func TestConsole_LifecycleMapsToSession(t *testing.T) {
	deps := newTestDeps(t)
	runner := &nullRunner{}
	deps.Runner = runner
	deps.Shell = "/bin/sh"

	c := newConsole(deps)
	c.Init(nil)
	require.NotNil(t, c.session)

	c.Layout(80, 24)
	assert.Equal(t, 1, runner.resizes)
	c.Layout(0, 0)
	assert.Equal(t, 1, runner.resizes, "zero area must not resize the pty")

	c.Dispose()
	assert.Nil(t, c.session)
	c.Dispose()
}

func TestConsole_ShellParamOverridesConfig(t *testing.T) {
	deps := newTestDeps(t)
	runner := &nullRunner{}
	deps.Runner = runner
	deps.Shell = "/bin/sh"

	c := newConsole(deps)
	c.Init(dock.Params{"shell": "/bin/fakesh"})
	require.NotNil(t, c.session)
	assert.Equal(t, "/bin/fakesh", runner.started)
	c.Dispose()

	// Without the param the configured shell wins.
	c2 := newConsole(deps)
	c2.Init(nil)
	assert.Equal(t, "/bin/sh", runner.started)
	c2.Dispose()
}

func TestPreview_FrontmatterHeaderAndScrollParam(t *testing.T) {
	deps := newTestDeps(t)
	p := newPreview(deps)
	deps.Active.Set(&vault.Node{
		Title:   "Trip",
		Content: "---\npriority: 3\ndraft: true\n---\n# Trip\n\nPack light.\n",
	})
	// Descriptor params arrive as float64 after a JSON round trip.
	p.Init(dock.Params{"scroll": float64(2)})

	assert.Equal(t, 2, p.scroll)
	p.ScrollBy(-100)
	view := p.View()
	assert.Contains(t, view, "priority: 3")
	assert.Contains(t, view, "draft: true")
	p.Dispose()
}

func TestGraph_CompactParamDropsHubList(t *testing.T) {
	deps := newTestDeps(t)
	g := newGraph(deps)
	g.Init(dock.Params{"compact": true})

	view := g.View()
	assert.Contains(t, view, "notes 3")
	assert.NotContains(t, view, "Pantry")
}
