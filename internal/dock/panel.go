package dock

// Panel is a unit of dockable content. Its ID is unique across the whole
// layout at any instant: a panel exists in at most one surface at a time.
// Position within a surface is the panel's index in the surface's sequence.
type Panel struct {
	ID       string
	Type     string
	Title    string
	Params   Params
	Expanded bool
	Size     int
	MinSize  int
	MaxSize  int

	renderer    Renderer
	bare        bool
	placeholder bool

	// height computed by the owning surface's last relayout.
	height int
}

// PanelOptions configures AddPanel. The zero value means: generated id,
// provider default title, nil params, expanded, default size, no bounds.
type PanelOptions struct {
	ID        string
	Title     string
	Params    Params
	Collapsed bool
	Size      int
	MinSize   int
	MaxSize   int
}

// Renderer returns the panel's mounted content renderer.
func (p *Panel) Renderer() Renderer {
	return p.renderer
}

// Bare reports whether standard header chrome is suppressed for this panel.
func (p *Panel) Bare() bool {
	return p.bare
}

// Placeholder reports whether the panel's content type had no registered
// factory at mount time.
func (p *Panel) Placeholder() bool {
	return p.placeholder
}

// Height returns the content height computed by the last relayout.
func (p *Panel) Height() int {
	return p.height
}

// snapshot captures the transferable state used by migration and
// serialization. Params are cloned so the snapshot does not alias live state.
func (p *Panel) snapshot() PanelDescriptor {
	return PanelDescriptor{
		ID:       p.ID,
		Type:     p.Type,
		Title:    p.Title,
		Params:   p.Params.Clone(),
		Expanded: p.Expanded,
		Size:     p.Size,
	}
}

// clampSize bounds sz to the panel's MinSize/MaxSize when set.
func (p *Panel) clampSize(sz int) int {
	if p.MinSize > 0 && sz < p.MinSize {
		sz = p.MinSize
	}
	if p.MaxSize > 0 && sz > p.MaxSize {
		sz = p.MaxSize
	}
	return sz
}
