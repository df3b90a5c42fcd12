package ui

// AppMode is the top-level input mode. Browse is the default; Search routes
// printable keys into the search query; Grab moves the focused panel.
type AppMode int

const (
	ModeBrowse AppMode = iota
	ModeSearch
	ModeGrab
)

func (m AppMode) String() string {
	switch m {
	case ModeBrowse:
		return "Browse"
	case ModeSearch:
		return "Search"
	case ModeGrab:
		return "Grab"
	default:
		return "Unknown"
	}
}
