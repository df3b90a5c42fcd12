package ui

// invalidateMsg asks for a repaint after a background event (console output,
// active-note change propagated off the update loop).
type invalidateMsg struct{}

// vaultChangedMsg carries a debounced batch of changed vault-relative paths.
type vaultChangedMsg struct {
	paths []string
}

// autosaveMsg fires after the autosave delay. Stale generations are ignored;
// every layout mutation bumps the generation.
type autosaveMsg struct {
	gen int
}

// saveAndQuitMsg persists the layout, tears the host down and quits.
type saveAndQuitMsg struct{}

// focusContentMsg moves focus to the first panel of the given content type,
// adding the panel when none exists.
type focusContentMsg struct {
	contentType string
	mode        AppMode
}

// panelOpMsg is a leader-key operation on the focused panel.
type panelOpMsg struct {
	op panelOp
}

type panelOp int

const (
	opGrab panelOp = iota
	opClose
	opCollapse
	opMoveUp
	opMoveDown
	opGrow
	opShrink
)

// toggleSidebarMsg flips a sidebar region's visibility.
type toggleSidebarMsg struct {
	position string
}

// sidebarResizeMsg widens or narrows the sidebar holding the focused panel.
type sidebarResizeMsg struct {
	delta int
}
