package ui

import (
	"strings"

	"notedeck/internal/dock"
	"notedeck/internal/ui/textutil"
)

// contentViewer is the optional render half of a panel's content. The docking
// layer drives only the lifecycle contract; anything that wants to be drawn
// also exposes View.
type contentViewer interface {
	View() string
}

// SurfaceView renders one docking surface as a column of panels (or as tabs
// for a tabbed surface). It owns no state: everything it draws comes from the
// surface and the ids passed per frame.
type SurfaceView struct {
	Surface *dock.Surface
}

// Render draws the surface at its current bounds. focusID highlights that
// panel's header; grabID marks a panel being moved.
func (v SurfaceView) Render(focusID, grabID string) string {
	width, height := v.Surface.Bounds()
	if width <= 0 || height <= 0 || !v.Surface.Visible() {
		return ""
	}
	if v.Surface.Tabbed() {
		return v.renderTabbed(width, height, grabID)
	}
	return v.renderStacked(width, height, focusID, grabID)
}

func (v SurfaceView) renderStacked(width, height int, focusID, grabID string) string {
	var rows []string
	for _, p := range v.Surface.Panels() {
		rows = append(rows, v.renderPanel(p, width, focusID, grabID)...)
	}
	return clipColumn(rows, width, height)
}

func (v SurfaceView) renderPanel(p *dock.Panel, width int, focusID, grabID string) []string {
	var rows []string
	avail := p.Height()
	if avail <= 0 {
		return nil
	}
	if !p.Bare() {
		arrow := "▾"
		if !p.Expanded {
			arrow = "▸"
		}
		header := textutil.PadRightVisual(" "+arrow+" "+p.Title, width)
		style := Styles.Header
		switch p.ID {
		case grabID:
			style = Styles.HeaderGrab
		case focusID:
			style = Styles.HeaderFocus
		}
		rows = append(rows, style.Render(header))
		avail--
	}
	if !p.Expanded || avail <= 0 {
		return rows
	}
	body := contentOf(p)
	lines := strings.Split(body, "\n")
	for i := 0; i < avail; i++ {
		line := ""
		if i < len(lines) {
			line = textutil.PadRightVisual(lines[i], width)
		} else {
			line = textutil.PadRightVisual("", width)
		}
		rows = append(rows, line)
	}
	return rows
}

func (v SurfaceView) renderTabbed(width, height int, grabID string) string {
	panels := v.Surface.Panels()
	active := v.Surface.ActivePanel()

	var strip strings.Builder
	for _, p := range panels {
		style := Styles.Tab
		if active != nil && p.ID == active.ID {
			style = Styles.TabActive
		}
		if p.ID == grabID {
			style = Styles.HeaderGrab
		}
		strip.WriteString(style.Render(p.Title))
	}
	rows := []string{textutil.PadRightVisual(strip.String(), width)}

	if active != nil && active.Height() > 0 {
		lines := strings.Split(contentOf(active), "\n")
		for i := 0; i < active.Height(); i++ {
			line := ""
			if i < len(lines) {
				line = lines[i]
			}
			rows = append(rows, textutil.PadRightVisual(line, width))
		}
	}
	return clipColumn(rows, width, height)
}

// contentOf renders a panel's content. Placeholders carry their own
// diagnostic; content without a View renders empty.
func contentOf(p *dock.Panel) string {
	if viewer, ok := p.Renderer().(contentViewer); ok {
		if p.Placeholder() {
			return Styles.Danger.Render(viewer.View())
		}
		return viewer.View()
	}
	return ""
}

// clipColumn pads or truncates rows to exactly height lines of width cells.
func clipColumn(rows []string, width, height int) string {
	if len(rows) > height {
		rows = rows[:height]
	}
	for len(rows) < height {
		rows = append(rows, textutil.PadRightVisual("", width))
	}
	return strings.Join(rows, "\n")
}
