package providers

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"notedeck/internal/dock"
	"notedeck/internal/jsonutil"
	"notedeck/internal/vault"
)

// Search runs substring queries over the index and ranks hits by edit
// distance of their titles to the query.
type Search struct {
	deps    Deps
	query   string
	results []vault.Node
	cursor  int
	width   int
	height  int
}

func newSearch(deps Deps) *Search {
	return &Search{deps: deps}
}

func (s *Search) Init(p dock.Params) {
	if q := jsonutil.GetString(p, "query"); q != "" {
		s.SetQuery(q)
	}
}

func (s *Search) Update(p dock.Params) {
	if q := jsonutil.GetString(p, "query"); q != "" && q != s.query {
		s.SetQuery(q)
		return
	}
	// Same query against possibly changed index.
	s.run()
}

func (s *Search) Layout(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
}

func (s *Search) Dispose() {}

// Query returns the current query string.
func (s *Search) Query() string { return s.query }

// SetQuery replaces the query and re-runs the search.
func (s *Search) SetQuery(q string) {
	s.query = q
	s.cursor = 0
	s.run()
}

// AppendQuery extends the query by typed characters; backspace is "\b".
func (s *Search) AppendQuery(chunk string) {
	if chunk == "\b" {
		if s.query != "" {
			r := []rune(s.query)
			s.SetQuery(string(r[:len(r)-1]))
		}
		return
	}
	s.SetQuery(s.query + chunk)
}

func (s *Search) run() {
	if strings.TrimSpace(s.query) == "" {
		s.results = nil
		return
	}
	hits, err := s.deps.Index.SearchNodes(s.query)
	if err != nil {
		s.deps.logger().Warn("search failed", "query", s.query, "error", err)
		s.results = nil
		return
	}
	q := strings.ToLower(s.query)
	sort.SliceStable(hits, func(i, j int) bool {
		return levenshtein.ComputeDistance(q, strings.ToLower(hits[i].Title)) <
			levenshtein.ComputeDistance(q, strings.ToLower(hits[j].Title))
	})
	s.results = hits
	if s.cursor >= len(hits) {
		s.cursor = max(len(hits)-1, 0)
	}
}

// CursorMove moves the result selection.
func (s *Search) CursorMove(delta int) {
	s.cursor += delta
	if s.cursor >= len(s.results) {
		s.cursor = len(s.results) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// Select makes the cursor hit the active note.
func (s *Search) Select() {
	if s.cursor < 0 || s.cursor >= len(s.results) {
		return
	}
	n := s.results[s.cursor]
	s.deps.Active.Set(&n)
}

// View renders the query line and the ranked hits.
func (s *Search) View() string {
	var b strings.Builder
	b.WriteString("/ " + s.query)
	if len(s.results) == 0 {
		if strings.TrimSpace(s.query) != "" {
			b.WriteString("\n" + dimStyle.Render("no matches"))
		}
		return b.String()
	}
	limit := len(s.results)
	if s.height > 1 {
		limit = min(limit, s.height-1)
	}
	for i := 0; i < limit; i++ {
		line := s.results[i].Title
		if r := []rune(line); s.width > 0 && len(r) > s.width {
			line = string(r[:s.width])
		}
		if i == s.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString("\n" + line)
	}
	return b.String()
}
