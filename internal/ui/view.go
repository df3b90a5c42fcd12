package ui

import tea "github.com/charmbracelet/bubbletea"

// View is the unit of composition: an Elm-style model with its own update
// loop and render. Update returns the replacement View so implementations can
// stay value-typed if they want.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}
