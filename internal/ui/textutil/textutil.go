// Package textutil provides width-aware text helpers for terminal rendering.
// Widths are measured in terminal columns, counting wide runes correctly and
// ignoring ANSI styling.
package textutil

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Width returns the visual width of a possibly styled string.
func Width(s string) int {
	return lipgloss.Width(s)
}

// Truncate cuts an unstyled string to at most maxWidth columns, appending the
// ellipsis when anything was cut. Styled strings must be truncated before
// styling.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	avail := maxWidth - runewidth.StringWidth(Ellipsis)
	if avail < 0 {
		return Ellipsis
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > avail {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + Ellipsis
}

// PadRightVisual pads (or truncates) a string to exactly targetWidth columns.
// Styling survives both paths; overlong text is cut without an ellipsis.
func PadRightVisual(s string, targetWidth int) string {
	if targetWidth <= 0 {
		return ""
	}
	s = clipStyled(s, targetWidth)
	if w := Width(s); w < targetWidth {
		return s + strings.Repeat(" ", targetWidth-w)
	}
	return s
}

// PadLeftVisual right-aligns a string in targetWidth columns.
func PadLeftVisual(s string, targetWidth int) string {
	if targetWidth <= 0 {
		return ""
	}
	s = clipStyled(s, targetWidth)
	if w := Width(s); w < targetWidth {
		return strings.Repeat(" ", targetWidth-w) + s
	}
	return s
}

// clipStyled cuts a possibly styled string to maxWidth columns without
// breaking escape sequences.
func clipStyled(s string, maxWidth int) string {
	if Width(s) <= maxWidth {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(maxWidth).Render(s)
}
