package providers

import (
	"strings"

	"notedeck/internal/dock"
	"notedeck/internal/vault"
)

// Outline shows the heading structure of the active note.
type Outline struct {
	deps     Deps
	headings []vault.Heading
	title    string
	width    int
	height   int
	cancel   func()
}

func newOutline(deps Deps) *Outline {
	return &Outline{deps: deps}
}

func (o *Outline) Init(dock.Params) {
	// Re-attachment calls Init again; drop the previous subscription first.
	if o.cancel != nil {
		o.cancel()
	}
	o.cancel = o.deps.Active.Subscribe(func() {
		o.refresh()
		if o.deps.Invalidate != nil {
			o.deps.Invalidate()
		}
	})
	o.refresh()
}

func (o *Outline) Update(dock.Params) { o.refresh() }

func (o *Outline) Layout(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	o.width, o.height = width, height
}

func (o *Outline) Dispose() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

func (o *Outline) refresh() {
	node := o.deps.Active.Get()
	if node == nil {
		o.title = ""
		o.headings = nil
		return
	}
	parsed := vault.Parse(node.Content)
	o.title = node.Title
	o.headings = parsed.Headings
}

// View renders one indented line per heading.
func (o *Outline) View() string {
	if o.title == "" {
		return dimStyle.Render("no note selected")
	}
	if len(o.headings) == 0 {
		return dimStyle.Render("no headings")
	}
	var b strings.Builder
	limit := len(o.headings)
	if o.height > 0 {
		limit = min(limit, o.height)
	}
	for i := 0; i < limit; i++ {
		h := o.headings[i]
		line := strings.Repeat("  ", h.Level-1) + h.Text
		if r := []rune(line); o.width > 0 && len(r) > o.width {
			line = string(r[:o.width])
		}
		b.WriteString(line)
		if i < limit-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
