package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"notedeck/internal/config"
	"notedeck/internal/dock"
	"notedeck/internal/layoutstore"
	"notedeck/internal/providers"
	"notedeck/internal/term"
	"notedeck/internal/vault"
)

// Stable region identifiers; they appear in saved layout descriptors.
const (
	PositionLeft   = "sidebar.left"
	PositionRight  = "sidebar.right"
	PositionCenter = "center"
)

// Optional content capabilities. The docking layer drives only the lifecycle
// contract; the workbench probes for these to route input.
type cursorMover interface{ CursorMove(int) }
type selecter interface{ Select() }
type scroller interface{ ScrollBy(int) }
type queryEditor interface{ AppendQuery(string) }

// Options wires a Workbench to the application's services. Watcher, Store and
// Runner may be nil (tests, read-only environments).
type Options struct {
	Config  config.Config
	Index   *vault.Index
	Syncer  *vault.Syncer
	Watcher *vault.Watcher
	Store   *layoutstore.Store
	Runner  term.Runner
	Logger  *slog.Logger
}

// Workbench is the root model: three docking surfaces around the center,
// a drag coordinator for cross-surface panel moves, and chrome.
type Workbench struct {
	cfg    config.Config
	logger *slog.Logger

	host     *dock.LayoutHost
	left     *dock.Surface
	center   *dock.Surface
	right    *dock.Surface
	coord    *dock.DragCoordinator
	focus    *FocusManager
	keys     *KeyHandler
	registry *KeybindRegistry

	index   *vault.Index
	syncer  *vault.Syncer
	watcher *vault.Watcher
	store   *layoutstore.Store
	active  *providers.ActiveNote

	mode       AppMode
	width      int
	height     int
	leftWidth  int
	rightWidth int
	regions    Regions
	stats      vault.Statistics

	events  chan tea.Msg
	dirty   bool
	saveGen int
}

// NewWorkbench builds the surface topology, registers the content factories
// and replays the saved layout (or the default one).
func NewWorkbench(opts Options) *Workbench {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	w := &Workbench{
		cfg:        opts.Config,
		logger:     logger,
		index:      opts.Index,
		syncer:     opts.Syncer,
		watcher:    opts.Watcher,
		store:      opts.Store,
		active:     providers.NewActiveNote(),
		focus:      &FocusManager{},
		events:     make(chan tea.Msg, 32),
		leftWidth:  sidebarWidth,
		rightWidth: sidebarWidth,
	}

	deps := providers.Deps{
		Index:      opts.Index,
		VaultPath:  opts.Config.Vault.Path,
		Shell:      opts.Config.Console.Shell,
		Runner:     opts.Runner,
		Active:     w.active,
		Invalidate: w.postInvalidate,
		Logger:     logger,
	}
	sidebarSet := dock.NewFactorySet(logger)
	providers.RegisterSidebar(sidebarSet, deps)
	centerSet := dock.NewFactorySet(logger)
	providers.RegisterCenter(centerSet, deps)

	w.host = dock.NewLayoutHost(logger)
	w.left = dock.NewSurface(PositionLeft, w.host, sidebarSet, logger)
	w.right = dock.NewSurface(PositionRight, w.host, sidebarSet, logger)
	w.center = dock.NewTabbedSurface(PositionCenter, w.host, centerSet, logger)
	w.coord = dock.NewDragCoordinator(w.host, logger)

	for _, s := range w.surfaces() {
		s.OnDidLayoutChange(func() {
			w.dirty = true
			w.rebuildFocus()
		})
	}

	desc := dock.Descriptor{}
	if w.store != nil {
		desc = w.store.Load()
	}
	if desc.Empty() {
		desc = defaultDescriptor()
	}
	for _, s := range w.surfaces() {
		if frag, ok := desc.Fragment(s.PositionID()); ok {
			s.Deserialize(frag)
		}
	}
	w.dirty = false
	w.rebuildFocus()
	w.refreshStats()

	w.registry = NewKeybindRegistry()
	w.keys = NewKeyHandler(w.registry)
	w.bindKeys()
	return w
}

// Coordinator exposes the drag coordinator, e.g. to attach a tracer.
func (w *Workbench) Coordinator() *dock.DragCoordinator {
	return w.coord
}

func defaultDescriptor() dock.Descriptor {
	return dock.Descriptor{Surfaces: []dock.SurfaceDescriptor{
		{
			PositionID: PositionLeft,
			Visible:    true,
			Panels: []dock.PanelDescriptor{
				{ID: "explorer-main", Type: providers.TypeExplorer, Expanded: true, Size: 16},
				{ID: "search-main", Type: providers.TypeSearch, Expanded: true, Size: 8},
			},
		},
		{
			PositionID: PositionCenter,
			Visible:    true,
			Panels: []dock.PanelDescriptor{
				{ID: "preview-main", Type: providers.TypePreview, Expanded: true},
				{ID: "console-main", Type: providers.TypeConsole, Expanded: true, After: "preview-main"},
			},
		},
		{
			PositionID: PositionRight,
			Visible:    true,
			Panels: []dock.PanelDescriptor{
				{ID: "outline-main", Type: providers.TypeOutline, Expanded: true, Size: 12},
				{ID: "graph-main", Type: providers.TypeGraph, Expanded: true, Size: 7},
			},
		},
	}}
}

func (w *Workbench) bindKeys() {
	quit := func() tea.Msg { return saveAndQuitMsg{} }
	w.registry.BindWithDesc("q", quit, "Quit")
	w.registry.BindWithDesc("ctrl+c", quit, "Quit")
	w.registry.BindWithDesc("SPC q", quit, "Quit")

	focusCmd := func(contentType string, mode AppMode) tea.Cmd {
		return func() tea.Msg { return focusContentMsg{contentType: contentType, mode: mode} }
	}
	w.registry.BindWithDesc("SPC e", focusCmd(providers.TypeExplorer, ModeBrowse), "Explorer")
	w.registry.BindWithDesc("SPC s", focusCmd(providers.TypeSearch, ModeSearch), "Search")
	w.registry.BindWithDesc("SPC o", focusCmd(providers.TypeOutline, ModeBrowse), "Outline")
	w.registry.BindWithDesc("SPC c", focusCmd(providers.TypeConsole, ModeBrowse), "Console")
	w.registry.BindWithDesc("SPC v", focusCmd(providers.TypePreview, ModeBrowse), "Preview")

	panelCmd := func(op panelOp) tea.Cmd {
		return func() tea.Msg { return panelOpMsg{op: op} }
	}
	w.registry.BindWithDesc("SPC p g", panelCmd(opGrab), "Grab (move)")
	w.registry.BindWithDesc("SPC p x", panelCmd(opClose), "Close")
	w.registry.BindWithDesc("SPC p z", panelCmd(opCollapse), "Collapse/expand")
	w.registry.BindWithDesc("SPC p j", panelCmd(opMoveDown), "Move down")
	w.registry.BindWithDesc("SPC p k", panelCmd(opMoveUp), "Move up")
	w.registry.BindWithDesc("SPC p +", panelCmd(opGrow), "Grow")
	w.registry.BindWithDesc("SPC p -", panelCmd(opShrink), "Shrink")

	toggleCmd := func(position string) tea.Cmd {
		return func() tea.Msg { return toggleSidebarMsg{position: position} }
	}
	w.registry.BindWithDesc("SPC t l", toggleCmd(PositionLeft), "Left sidebar")
	w.registry.BindWithDesc("SPC t r", toggleCmd(PositionRight), "Right sidebar")

	resizeCmd := func(delta int) tea.Cmd {
		return func() tea.Msg { return sidebarResizeMsg{delta: delta} }
	}
	w.registry.BindWithDesc("SPC t >", resizeCmd(4), "Widen sidebar")
	w.registry.BindWithDesc("SPC t <", resizeCmd(-4), "Narrow sidebar")
}

func (w *Workbench) surfaces() []*dock.Surface {
	return []*dock.Surface{w.left, w.center, w.right}
}

func (w *Workbench) postInvalidate() {
	select {
	case w.events <- invalidateMsg{}:
	default:
	}
}

func (w *Workbench) nextEvent() tea.Msg {
	return <-w.events
}

// Init starts the background event pumps.
func (w *Workbench) Init() tea.Cmd {
	if w.watcher != nil {
		go func() {
			for batch := range w.watcher.Events() {
				w.events <- vaultChangedMsg{paths: batch}
			}
		}()
	}
	return w.nextEvent
}

// Update implements View.
func (w *Workbench) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width, w.height = msg.Width, msg.Height
		w.applyBounds()
		return w, w.scheduleSave()

	case invalidateMsg:
		return w, w.nextEvent

	case vaultChangedMsg:
		for _, path := range msg.paths {
			if err := w.syncer.SyncFile(w.cfg.Vault.Path, path); err != nil {
				w.logger.Warn("note sync failed", "path", path, "error", err)
			}
		}
		w.refreshStats()
		w.refreshContent()
		return w, w.nextEvent

	case autosaveMsg:
		if msg.gen == w.saveGen {
			w.saveLayout()
		}
		return w, nil

	case saveAndQuitMsg:
		w.saveLayout()
		w.host.Teardown()
		if w.watcher != nil {
			w.watcher.Close()
		}
		return w, tea.Quit

	case focusContentMsg:
		w.focusContent(msg.contentType)
		w.mode = msg.mode
		return w, w.scheduleSave()

	case panelOpMsg:
		w.handlePanelOp(msg.op)
		return w, w.scheduleSave()

	case toggleSidebarMsg:
		if s := w.host.Surface(msg.position); s != nil {
			s.SetVisible(!s.Visible())
			w.applyBounds()
		}
		return w, w.scheduleSave()

	case sidebarResizeMsg:
		w.resizeSidebar(msg.delta)
		return w, nil

	case tea.KeyMsg:
		cmd := w.handleKey(msg)
		return w, tea.Batch(cmd, w.scheduleSave())
	}
	return w, nil
}

func (w *Workbench) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch w.mode {
	case ModeSearch:
		return w.handleSearchKey(msg)
	case ModeGrab:
		w.handleGrabKey(msg)
		return nil
	}

	if consumed, cmd := w.keys.Handle(msg); consumed {
		return cmd
	}

	switch msg.String() {
	case "tab":
		w.focusChanged(w.focus.Next())
	case "shift+tab":
		w.focusChanged(w.focus.Prev())
	case "j", "down":
		w.moveCursor(1)
	case "k", "up":
		w.moveCursor(-1)
	case "enter":
		if r, ok := w.focusedRenderer().(selecter); ok {
			r.Select()
		}
	case "z":
		if s := w.focusedSurface(); s != nil {
			s.TogglePanel(w.focus.Current)
		}
	case "]":
		w.cycleCenterTab(1)
	case "[":
		w.cycleCenterTab(-1)
	}
	return nil
}

func (w *Workbench) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	editor, _ := w.focusedRenderer().(queryEditor)
	switch msg.String() {
	case "ctrl+c":
		return func() tea.Msg { return saveAndQuitMsg{} }
	case "esc":
		w.mode = ModeBrowse
	case "enter":
		if r, ok := w.focusedRenderer().(selecter); ok {
			r.Select()
		}
		w.mode = ModeBrowse
	case "backspace":
		if editor != nil {
			editor.AppendQuery("\b")
		}
	case "down":
		w.moveCursor(1)
	case "up":
		w.moveCursor(-1)
	default:
		if editor != nil && msg.Type == tea.KeyRunes {
			editor.AppendQuery(string(msg.Runes))
		} else if editor != nil && msg.String() == " " {
			editor.AppendQuery(" ")
		}
	}
	return nil
}

// handleGrabKey moves the grabbed panel. Every step is a full gesture
// through the coordinator: drop, settle, and re-grab at the new location.
func (w *Workbench) handleGrabKey(msg tea.KeyMsg) {
	id := w.focus.Current
	surface := w.focusedSurface()
	if surface == nil {
		w.mode = ModeBrowse
		return
	}
	switch msg.String() {
	case "esc", "enter", " ":
		w.coord.EndDrag()
		w.mode = ModeBrowse
	case "j", "down":
		w.reorderGrabbed(surface, id, 1)
	case "k", "up":
		w.reorderGrabbed(surface, id, -1)
	case "h", "left":
		w.migrateGrabbed(surface, id, -1)
	case "l", "right":
		w.migrateGrabbed(surface, id, 1)
	}
}

func (w *Workbench) reorderGrabbed(surface *dock.Surface, id string, delta int) {
	idx := surface.IndexOf(id)
	if idx < 0 {
		return
	}
	// Same-surface drop: the coordinator declines and the surface reorders.
	if !w.coord.HandleDrop(surface.PositionID(), idx+delta) {
		surface.MovePanel(idx, idx+delta)
	}
	w.coord.EndDrag()
	w.coord.BeginDrag(id, surface.PositionID())
}

func (w *Workbench) migrateGrabbed(surface *dock.Surface, id string, dir int) {
	target := w.adjacentSurface(surface, dir)
	if target == nil {
		return
	}
	if !w.coord.HandleDrop(target.PositionID(), -1) {
		w.coord.EndDrag()
		w.coord.BeginDrag(id, surface.PositionID())
		return
	}
	w.coord.EndDrag()
	w.applyBounds()
	w.focus.SetFocus(id)
	if target.Tabbed() {
		target.Activate(id)
	}
	w.coord.BeginDrag(id, target.PositionID())
}

// adjacentSurface walks left/right through the visible surface order.
func (w *Workbench) adjacentSurface(from *dock.Surface, dir int) *dock.Surface {
	order := w.surfaces()
	idx := -1
	for i, s := range order {
		if s == from {
			idx = i
			break
		}
	}
	for i := idx + dir; i >= 0 && i < len(order); i += dir {
		if order[i].Visible() {
			return order[i]
		}
	}
	return nil
}

func (w *Workbench) handlePanelOp(op panelOp) {
	id := w.focus.Current
	surface := w.focusedSurface()
	if surface == nil {
		return
	}
	switch op {
	case opGrab:
		w.coord.BeginDrag(id, surface.PositionID())
		w.mode = ModeGrab
	case opClose:
		surface.RemovePanel(id)
	case opCollapse:
		surface.TogglePanel(id)
	case opMoveUp:
		if idx := surface.IndexOf(id); idx >= 0 {
			surface.MovePanel(idx, idx-1)
		}
	case opMoveDown:
		if idx := surface.IndexOf(id); idx >= 0 {
			surface.MovePanel(idx, idx+1)
		}
	case opGrow:
		if p := surface.GetPanel(id); p != nil {
			surface.ResizePanel(id, p.Size+2)
		}
	case opShrink:
		if p := surface.GetPanel(id); p != nil {
			surface.ResizePanel(id, p.Size-2)
		}
	}
}

// focusContent focuses the first panel of contentType anywhere in the
// layout, adding one to its home surface when missing.
func (w *Workbench) focusContent(contentType string) {
	for _, s := range w.surfaces() {
		for _, p := range s.Panels() {
			if p.Type == contentType {
				w.focus.SetFocus(p.ID)
				w.focusChanged(p.ID)
				return
			}
		}
	}
	home := w.left
	switch contentType {
	case providers.TypePreview, providers.TypeConsole:
		home = w.center
	case providers.TypeOutline, providers.TypeGraph:
		home = w.right
	}
	p := home.AddPanel(contentType, dock.PanelOptions{})
	w.focus.SetFocus(p.ID)
	w.focusChanged(p.ID)
}

func (w *Workbench) focusChanged(id string) {
	if w.center.IndexOf(id) >= 0 {
		w.center.Activate(id)
	}
}

func (w *Workbench) moveCursor(delta int) {
	switch r := w.focusedRenderer().(type) {
	case cursorMover:
		r.CursorMove(delta)
	case scroller:
		r.ScrollBy(delta)
	}
}

func (w *Workbench) cycleCenterTab(dir int) {
	panels := w.center.Panels()
	if len(panels) == 0 {
		return
	}
	active := w.center.ActivePanel()
	idx := 0
	if active != nil {
		idx = w.center.IndexOf(active.ID)
	}
	next := ((idx+dir)%len(panels) + len(panels)) % len(panels)
	w.center.Activate(panels[next].ID)
}

// resizeSidebar adjusts the width of the sidebar holding the focused panel.
// Focus in the center resizes nothing.
func (w *Workbench) resizeSidebar(delta int) {
	var width *int
	switch w.focusedSurface() {
	case w.left:
		width = &w.leftWidth
	case w.right:
		width = &w.rightWidth
	default:
		return
	}
	next := *width + delta
	if next < minSidebarWidth {
		next = minSidebarWidth
	}
	if next > maxSidebarWidth {
		next = maxSidebarWidth
	}
	*width = next
	w.applyBounds()
}

func (w *Workbench) focusedSurface() *dock.Surface {
	id := w.focus.Current
	for _, s := range w.surfaces() {
		if s.IndexOf(id) >= 0 {
			return s
		}
	}
	return nil
}

func (w *Workbench) focusedRenderer() dock.Renderer {
	if s := w.focusedSurface(); s != nil {
		if p := s.GetPanel(w.focus.Current); p != nil {
			return p.Renderer()
		}
	}
	return nil
}

func (w *Workbench) rebuildFocus() {
	var order []string
	for _, s := range w.surfaces() {
		if !s.Visible() {
			continue
		}
		for _, p := range s.Panels() {
			order = append(order, p.ID)
		}
	}
	w.focus.SetOrder(order)
}

func (w *Workbench) applyBounds() {
	leftW, rightW := 0, 0
	if w.left.Visible() {
		leftW = w.leftWidth
	}
	if w.right.Visible() {
		rightW = w.rightWidth
	}
	w.regions = ComputeRegionsWidths(w.width, w.height, leftW, rightW)
	w.left.SetBounds(w.regions.Left.W, w.regions.Left.H)
	w.center.SetBounds(w.regions.Center.W, w.regions.Center.H)
	w.right.SetBounds(w.regions.Right.W, w.regions.Right.H)
}

func (w *Workbench) refreshStats() {
	if w.index == nil {
		return
	}
	stats, err := w.index.Stats()
	if err != nil {
		w.logger.Warn("stats unavailable", "error", err)
		return
	}
	w.stats = stats
}

// refreshContent pushes remembered params back through every renderer so
// index-backed panels re-query after a sync.
func (w *Workbench) refreshContent() {
	for _, s := range w.surfaces() {
		for _, p := range s.Panels() {
			p.Renderer().Update(p.Params)
		}
	}
}

// scheduleSave arms the debounced autosave when a layout mutation marked the
// model dirty. The write happens on a later update turn, never inside the
// mutation that caused it.
func (w *Workbench) scheduleSave() tea.Cmd {
	if !w.dirty || w.store == nil {
		w.dirty = false
		return nil
	}
	w.dirty = false
	w.saveGen++
	gen := w.saveGen
	return tea.Tick(w.cfg.AutosaveDelay(), func(time.Time) tea.Msg {
		return autosaveMsg{gen: gen}
	})
}

func (w *Workbench) saveLayout() {
	if w.store == nil {
		return
	}
	if err := w.store.Save(w.host.Serialize()); err != nil {
		w.logger.Warn("layout save failed", "error", err)
	}
}

// View implements View.
func (w *Workbench) View() string {
	if w.width <= 0 || w.height <= 0 {
		return ""
	}
	grabID := ""
	if w.mode == ModeGrab {
		if sess, ok := w.coord.Session(); ok {
			grabID = sess.CardID
		}
	}
	columns := make([]string, 0, 3)
	for _, s := range w.surfaces() {
		if col := (SurfaceView{Surface: s}).Render(w.focus.Current, grabID); col != "" {
			columns = append(columns, col)
		}
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	screen := w.headerBar() + "\n" + body + "\n" + w.statusBar()
	if w.keys.LeaderWaiting {
		screen += "\n" + RenderKeybindHelp(w.keys, w.mode)
	}
	return screen
}

func (w *Workbench) headerBar() string {
	title := Styles.Title.Render(" notedeck ")
	activity := w.activityBar()
	path := Styles.Muted.Render(w.cfg.Vault.Path)
	gap := w.width - lipgloss.Width(title) - lipgloss.Width(activity) - lipgloss.Width(path) - 1
	if gap < 1 {
		return title + activity
	}
	return title + activity + lipgloss.NewStyle().Width(gap).Render("") + path + " "
}

// activityBar lists the content kinds with the focused panel's kind lit, so
// the header doubles as an orientation strip.
func (w *Workbench) activityBar() string {
	focusedType := ""
	if s := w.focusedSurface(); s != nil {
		if p := s.GetPanel(w.focus.Current); p != nil {
			focusedType = p.Type
		}
	}
	entries := []struct{ label, typ string }{
		{"exp", providers.TypeExplorer},
		{"fnd", providers.TypeSearch},
		{"out", providers.TypeOutline},
		{"gra", providers.TypeGraph},
		{"doc", providers.TypePreview},
		{"sh", providers.TypeConsole},
	}
	var b strings.Builder
	for _, e := range entries {
		style := Styles.Muted
		if e.typ == focusedType {
			style = Styles.Selected
		}
		b.WriteString(style.Render(" " + e.label))
	}
	return b.String()
}

func (w *Workbench) statusBar() string {
	left := Styles.StatusField.Render(" "+w.mode.String()+" ") +
		Styles.StatusBar.Render(fmt.Sprintf(" notes %d  links %d  tags %d",
			w.stats.NoteCount, w.stats.EdgeCount, w.stats.TagCount))
	right := ""
	if w.coord.State() != dock.DragIdle {
		right = Styles.StatusBar.Render(w.coord.State().String() + " ")
	}
	gap := w.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + Styles.StatusBar.Render(padSpaces(gap)) + right
}

func padSpaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// AsTeaModel returns a tea.Model adapter for tea.NewProgram.
func (w *Workbench) AsTeaModel() tea.Model {
	return &workbenchAdapter{Workbench: w}
}

type workbenchAdapter struct {
	*Workbench
}

var _ tea.Model = (*workbenchAdapter)(nil)

func (a *workbenchAdapter) Init() tea.Cmd {
	return a.Workbench.Init()
}

func (a *workbenchAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := a.Workbench.Update(msg)
	return a, cmd
}

func (a *workbenchAdapter) View() string {
	return a.Workbench.View()
}
