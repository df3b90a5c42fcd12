package ui

import "github.com/charmbracelet/lipgloss"

// Theme colors used throughout the workbench.
const (
	ColorAccent    = "86"  // cyan/green - titles, focus
	ColorHighlight = "205" // magenta - selected items, grab affordance
	ColorDanger    = "196" // red - placeholder diagnostics
	ColorMuted     = "241" // gray - dimmed text, hints
	ColorText      = "252" // light gray - normal text
	ColorChrome    = "236" // near-black - header/status backgrounds
)

// Styles contains shared style definitions used across the workbench chrome
// and surface rendering.
var Styles = struct {
	Title       lipgloss.Style // header bar title
	Header      lipgloss.Style // panel header row
	HeaderFocus lipgloss.Style // panel header row when focused
	HeaderGrab  lipgloss.Style // panel header row while grabbed
	Tab         lipgloss.Style // inactive center tab
	TabActive   lipgloss.Style // active center tab
	Selected    lipgloss.Style // highlighted items
	Muted       lipgloss.Style // dimmed text
	Normal      lipgloss.Style // normal text
	Danger      lipgloss.Style // placeholder/problem text
	StatusBar   lipgloss.Style // bottom status line
	StatusField lipgloss.Style // accented status segment
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Header: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)).
		Background(lipgloss.Color(ColorChrome)),
	HeaderFocus: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)).
		Background(lipgloss.Color(ColorChrome)),
	HeaderGrab: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorHighlight)).
		Background(lipgloss.Color(ColorChrome)),
	Tab: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Padding(0, 1),
	TabActive: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)).
		Padding(0, 1),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Danger: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	StatusBar: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Background(lipgloss.Color(ColorChrome)),
	StatusField: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)).
		Background(lipgloss.Color(ColorChrome)),
}
