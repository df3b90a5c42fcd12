package dock

import (
	"log/slog"

	"github.com/google/uuid"
)

// defaultPanelSize is the content size assigned when a panel declares none.
const defaultPanelSize = 10

// collapsedHeight is the rows a collapsed panel occupies (header only).
const collapsedHeight = 1

// Surface owns an ordered collection of panels within one screen region.
// Construction registers the surface with its LayoutHost; constructing a
// surface for a position that already has a live instance reattaches to that
// instance instead of creating a second one, so a remount never loses state.
//
// All mutation methods trigger a synchronous relayout and fire their change
// events after the structural mutation completes, never before. None of them
// touch network or disk.
type Surface struct {
	positionID string
	host       *LayoutHost
	factories  *FactorySet
	logger     *slog.Logger

	panels   []*Panel
	visible  bool
	tabbed   bool
	activeID string

	width  int
	height int

	addListeners    []func(*Panel)
	removeListeners []func(*Panel)
	layoutListeners []func()
}

// NewSurface creates (or reattaches to) the surface for positionID.
// The host may be nil for standalone use in tests.
func NewSurface(positionID string, host *LayoutHost, factories *FactorySet, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}
	if host != nil {
		if existing := host.Surface(positionID); existing != nil {
			return existing
		}
	}
	s := &Surface{
		positionID: positionID,
		host:       host,
		factories:  factories,
		logger:     logger,
		visible:    true,
	}
	if host != nil {
		host.register(positionID, s)
	}
	return s
}

// NewTabbedSurface creates a surface whose panels behave as tabs: exactly one
// panel (the active one) fills the content area.
func NewTabbedSurface(positionID string, host *LayoutHost, factories *FactorySet, logger *slog.Logger) *Surface {
	s := NewSurface(positionID, host, factories, logger)
	s.tabbed = true
	return s
}

// PositionID returns the surface's stable region identifier.
func (s *Surface) PositionID() string { return s.positionID }

// Tabbed reports whether the surface renders panels as tabs.
func (s *Surface) Tabbed() bool { return s.tabbed }

// Visible reports whether the region is currently shown.
func (s *Surface) Visible() bool { return s.visible }

// SetVisible toggles the region. Hiding does not mutate the panel sequence.
func (s *Surface) SetVisible(v bool) {
	if s.visible == v {
		return
	}
	s.visible = v
	s.relayout()
	s.fireLayoutChange()
}

// OnDidAddPanel registers a listener fired synchronously after a panel is
// structurally added.
func (s *Surface) OnDidAddPanel(fn func(*Panel)) {
	s.addListeners = append(s.addListeners, fn)
}

// OnDidRemovePanel registers a listener fired synchronously after a panel is
// structurally removed.
func (s *Surface) OnDidRemovePanel(fn func(*Panel)) {
	s.removeListeners = append(s.removeListeners, fn)
}

// OnDidLayoutChange registers a listener fired synchronously after any
// structural mutation or relayout-affecting change completes.
func (s *Surface) OnDidLayoutChange(fn func()) {
	s.layoutListeners = append(s.layoutListeners, fn)
}

// AddPanel constructs a panel of the given content type and appends it.
// If opts.ID names an existing panel this is idempotent: the existing panel
// is marked active and returned with no structural change. An unknown type
// mounts a placeholder renderer instead of failing.
func (s *Surface) AddPanel(contentType string, opts PanelOptions) *Panel {
	return s.AddPanelAt(contentType, opts, len(s.panels))
}

// AddPanelAt is AddPanel with an explicit insertion index. Out-of-range
// indices clamp to the valid range.
func (s *Surface) AddPanelAt(contentType string, opts PanelOptions, index int) *Panel {
	if opts.ID != "" {
		if existing := s.GetPanel(opts.ID); existing != nil {
			s.activeID = existing.ID
			return existing
		}
	}

	id := opts.ID
	if id == "" {
		id = contentType + "-" + uuid.NewString()[:8]
	}

	var (
		r        Renderer
		provider Provider
		known    bool
	)
	if s.factories != nil {
		r, provider, known = s.factories.Mount(contentType, opts.Params)
	} else {
		r = &PlaceholderRenderer{ContentType: contentType}
	}

	title := opts.Title
	if title == "" {
		title = provider.Title
	}
	if title == "" {
		title = contentType
	}

	size := opts.Size
	if size <= 0 {
		size = defaultPanelSize
	}

	p := &Panel{
		ID:          id,
		Type:        contentType,
		Title:       title,
		Params:      opts.Params.Clone(),
		Expanded:    !opts.Collapsed,
		Size:        size,
		MinSize:     opts.MinSize,
		MaxSize:     opts.MaxSize,
		renderer:    r,
		bare:        provider.Bare,
		placeholder: !known,
	}
	p.Size = p.clampSize(p.Size)

	r.Init(p.Params)
	if s.host != nil {
		s.host.rememberParams(p.ID, p.Params)
	}

	if index < 0 {
		index = 0
	}
	if index > len(s.panels) {
		index = len(s.panels)
	}
	s.panels = append(s.panels, nil)
	copy(s.panels[index+1:], s.panels[index:])
	s.panels[index] = p
	s.activeID = p.ID

	s.relayout()
	for _, fn := range s.addListeners {
		fn(p)
	}
	s.fireLayoutChange()
	return p
}

// RemovePanel unmounts and removes the panel with the given id. A missing id
// is a silent no-op; races with concurrent removal are expected.
func (s *Surface) RemovePanel(id string) {
	idx := s.indexOf(id)
	if idx < 0 {
		s.logger.Debug("remove of absent panel ignored", "surface", s.positionID, "panel", id)
		return
	}
	p := s.panels[idx]
	p.renderer.Dispose()
	s.panels = append(s.panels[:idx], s.panels[idx+1:]...)
	if s.activeID == id {
		s.activeID = ""
		if len(s.panels) > 0 {
			if idx >= len(s.panels) {
				idx = len(s.panels) - 1
			}
			s.activeID = s.panels[idx].ID
		}
	}
	s.relayout()
	for _, fn := range s.removeListeners {
		fn(p)
	}
	s.fireLayoutChange()
}

// MovePanel reorders a panel within the surface. Out-of-range indices clamp
// to the valid range rather than failing.
func (s *Surface) MovePanel(from, to int) {
	n := len(s.panels)
	if n == 0 {
		return
	}
	from = clamp(from, 0, n-1)
	to = clamp(to, 0, n-1)
	if from == to {
		return
	}
	p := s.panels[from]
	s.panels = append(s.panels[:from], s.panels[from+1:]...)
	s.panels = append(s.panels, nil)
	copy(s.panels[to+1:], s.panels[to:])
	s.panels[to] = p
	s.relayout()
	s.fireLayoutChange()
}

// GetPanel returns the panel with the given id, or nil. Pure lookup.
func (s *Surface) GetPanel(id string) *Panel {
	if idx := s.indexOf(id); idx >= 0 {
		return s.panels[idx]
	}
	return nil
}

// Panels returns the panel sequence in order. The slice is a copy; the
// panels are the live instances.
func (s *Surface) Panels() []*Panel {
	out := make([]*Panel, len(s.panels))
	copy(out, s.panels)
	return out
}

// Len returns the number of panels.
func (s *Surface) Len() int { return len(s.panels) }

// IndexOf returns the position of a panel id, or -1.
func (s *Surface) IndexOf(id string) int { return s.indexOf(id) }

// ActivePanel returns the most recently added or activated panel, or nil.
func (s *Surface) ActivePanel() *Panel {
	return s.GetPanel(s.activeID)
}

// Activate marks the panel with the given id active. Missing ids are ignored.
func (s *Surface) Activate(id string) {
	if s.indexOf(id) < 0 {
		return
	}
	if s.activeID == id {
		return
	}
	s.activeID = id
	s.relayout()
	s.fireLayoutChange()
}

// TogglePanel flips a panel's expanded state. Missing ids are ignored.
func (s *Surface) TogglePanel(id string) {
	p := s.GetPanel(id)
	if p == nil {
		return
	}
	p.Expanded = !p.Expanded
	s.relayout()
	s.fireLayoutChange()
}

// ResizePanel sets a panel's preferred size, clamped to its bounds.
// Missing ids are ignored.
func (s *Surface) ResizePanel(id string, size int) {
	p := s.GetPanel(id)
	if p == nil {
		return
	}
	p.Size = p.clampSize(size)
	s.relayout()
	s.fireLayoutChange()
}

// SetBounds announces the surface's current content area and relayouts.
// A zero area (region temporarily hidden) is recorded but the relayout pass
// is a no-op for renderers, matching resize-observer semantics.
func (s *Surface) SetBounds(width, height int) {
	s.width = width
	s.height = height
	s.relayout()
}

// Bounds returns the last announced content area.
func (s *Surface) Bounds() (width, height int) {
	return s.width, s.height
}

// Serialize produces this surface's fragment of the layout descriptor.
// The descriptor is derived state; it is never the source of truth while the
// surface is live.
func (s *Surface) Serialize() SurfaceDescriptor {
	d := SurfaceDescriptor{
		PositionID: s.positionID,
		Visible:    s.visible,
		Panels:     make([]PanelDescriptor, 0, len(s.panels)),
	}
	prev := ""
	for _, p := range s.panels {
		pd := p.snapshot()
		if s.tabbed {
			pd.After = prev
			prev = pd.ID
		}
		d.Panels = append(d.Panels, pd)
	}
	return d
}

// Deserialize reconstructs panels from a descriptor fragment. Entries whose
// ids already exist are idempotent no-ops, so replaying a fragment is safe.
// The round trip reproduces an equivalent sequence, not object identity.
func (s *Surface) Deserialize(d SurfaceDescriptor) {
	for _, pd := range orderedPanels(d.Panels) {
		s.AddPanel(pd.Type, PanelOptions{
			ID:        pd.ID,
			Title:     pd.Title,
			Params:    pd.Params,
			Collapsed: !pd.Expanded,
			Size:      pd.Size,
		})
	}
	s.visible = d.Visible
	s.relayout()
}

// relayout recomputes panel heights for the current bounds and forwards the
// new content areas to renderers. Zero-area bounds are a no-op beyond
// clearing nothing: renderers are not notified of a hidden region.
func (s *Surface) relayout() {
	if s.width <= 0 || s.height <= 0 {
		return
	}
	if s.tabbed {
		for _, p := range s.panels {
			p.height = 0
		}
		if active := s.ActivePanel(); active != nil {
			// One row reserved for the tab strip.
			active.height = max(s.height-1, 0)
			active.renderer.Layout(s.width, active.height)
		}
		return
	}

	remaining := s.height
	var expanded []*Panel
	for _, p := range s.panels {
		if p.Expanded {
			expanded = append(expanded, p)
		} else {
			p.height = collapsedHeight
			remaining -= collapsedHeight
		}
	}
	// Each expanded panel asks for its preferred size plus a header row;
	// overflow shrinks panels from the bottom up.
	for _, p := range expanded {
		h := p.clampSize(p.Size)
		if !p.bare {
			h++ // header row
		}
		p.height = h
		remaining -= h
	}
	for i := len(expanded) - 1; i >= 0 && remaining < 0; i-- {
		p := expanded[i]
		floor := collapsedHeight
		if p.MinSize > 0 {
			floor = p.MinSize
		}
		give := p.height - floor
		if give > -remaining {
			give = -remaining
		}
		if give > 0 {
			p.height -= give
			remaining += give
		}
	}
	// Spare rows go to the last expanded panel.
	if remaining > 0 && len(expanded) > 0 {
		expanded[len(expanded)-1].height += remaining
	}
	for _, p := range expanded {
		content := p.height
		if !p.bare {
			content--
		}
		if content > 0 {
			p.renderer.Layout(s.width, content)
		}
	}
}

func (s *Surface) fireLayoutChange() {
	for _, fn := range s.layoutListeners {
		fn()
	}
}

func (s *Surface) indexOf(id string) int {
	for i, p := range s.panels {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
