package providers

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"notedeck/internal/dock"
	"notedeck/internal/jsonutil"
	"notedeck/internal/vault"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

// Preview shows the active note's markdown source with simple heading
// emphasis and a scroll window.
type Preview struct {
	deps   Deps
	title  string
	lines  []string
	scroll int
	width  int
	height int
	cancel func()
}

func newPreview(deps Deps) *Preview {
	return &Preview{deps: deps}
}

func (p *Preview) Init(prm dock.Params) {
	if p.cancel != nil {
		p.cancel()
	}
	p.cancel = p.deps.Active.Subscribe(func() {
		p.refresh()
		if p.deps.Invalidate != nil {
			p.deps.Invalidate()
		}
	})
	p.refresh()
	// Restored layouts carry the last scroll position in the param bag.
	p.scroll = jsonutil.GetInt(prm, "scroll")
	p.clampScroll()
}

func (p *Preview) Update(dock.Params) { p.refresh() }

func (p *Preview) Layout(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	p.width, p.height = width, height
	p.clampScroll()
}

func (p *Preview) Dispose() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// ScrollBy moves the view window by delta lines.
func (p *Preview) ScrollBy(delta int) {
	p.scroll += delta
	p.clampScroll()
}

func (p *Preview) refresh() {
	node := p.deps.Active.Get()
	if node == nil {
		p.title = ""
		p.lines = nil
		p.scroll = 0
		return
	}
	p.title = node.Title
	parsed := vault.Parse(node.Content)
	p.lines = propLines(parsed.Props)
	p.lines = append(p.lines, strings.Split(parsed.Content, "\n")...)
	p.scroll = 0
}

// propLines renders frontmatter as a key: value header block. Values are
// any-typed after YAML decoding, so formatting goes through ToString.
func propLines(props map[string]any) []string {
	if len(props) == 0 {
		return nil
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		lines = append(lines, k+": "+jsonutil.ToString(props[k]))
	}
	return append(lines, "")
}

func (p *Preview) clampScroll() {
	maxScroll := len(p.lines) - p.height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if p.scroll > maxScroll {
		p.scroll = maxScroll
	}
	if p.scroll < 0 {
		p.scroll = 0
	}
}

// View renders the scroll window.
func (p *Preview) View() string {
	if p.title == "" {
		return dimStyle.Render("select a note to preview")
	}
	var b strings.Builder
	end := len(p.lines)
	if p.height > 0 {
		end = min(end, p.scroll+p.height)
	}
	for i := p.scroll; i < end; i++ {
		line := p.lines[i]
		if r := []rune(line); p.width > 0 && len(r) > p.width {
			line = string(r[:p.width])
		}
		if strings.HasPrefix(line, "#") {
			line = headingStyle.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
