package providers

import (
	"fmt"
	"sort"
	"strings"

	"notedeck/internal/dock"
	"notedeck/internal/jsonutil"
	"notedeck/internal/vault"
)

// Graph summarizes the note graph: counts plus the most-linked notes.
// Spatial graph rendering is deliberately out of scope for a terminal.
type Graph struct {
	deps    Deps
	stats   vault.Statistics
	hubs    []hub
	compact bool
	err     error
	width   int
	height  int
}

type hub struct {
	title string
	links int
}

func newGraph(deps Deps) *Graph {
	return &Graph{deps: deps}
}

func (g *Graph) Init(p dock.Params) {
	// Small layouts save the panel with compact set to drop the hub list.
	g.compact = jsonutil.GetBool(p, "compact")
	g.Refresh()
}

func (g *Graph) Update(p dock.Params) {
	g.compact = jsonutil.GetBool(p, "compact")
	g.Refresh()
}

func (g *Graph) Layout(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	g.width, g.height = width, height
}

func (g *Graph) Dispose() {}

// Refresh recomputes counts and hub ranking from the index.
func (g *Graph) Refresh() {
	stats, err := g.deps.Index.Stats()
	if err != nil {
		g.err = err
		return
	}
	data, err := g.deps.Index.GraphData()
	if err != nil {
		g.err = err
		return
	}
	g.err = nil
	g.stats = stats

	degree := make(map[string]int)
	for _, e := range data.Edges {
		degree[e.SrcUUID]++
		degree[e.DstUUID]++
	}
	g.hubs = g.hubs[:0]
	for _, n := range data.Nodes {
		if d := degree[n.UUID]; d > 0 {
			g.hubs = append(g.hubs, hub{title: n.Title, links: d})
		}
	}
	sort.Slice(g.hubs, func(i, j int) bool {
		if g.hubs[i].links != g.hubs[j].links {
			return g.hubs[i].links > g.hubs[j].links
		}
		return g.hubs[i].title < g.hubs[j].title
	})
	if len(g.hubs) > 5 {
		g.hubs = g.hubs[:5]
	}
}

// View renders the summary block.
func (g *Graph) View() string {
	if g.err != nil {
		return dimStyle.Render(fmt.Sprintf("graph unavailable: %v", g.err))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "notes %d  links %d  tags %d", g.stats.NoteCount, g.stats.EdgeCount, g.stats.TagCount)
	if !g.compact && len(g.hubs) > 0 {
		b.WriteString("\n" + dimStyle.Render("most linked"))
		for _, h := range g.hubs {
			fmt.Fprintf(&b, "\n%3d  %s", h.links, h.title)
		}
	}
	return b.String()
}
