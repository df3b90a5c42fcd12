package vault

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// ParsedNote holds everything extracted from one markdown file.
type ParsedNote struct {
	Title     string
	Content   string // body without frontmatter
	Wikilinks []string
	Tags      []string
	Aliases   []string
	Headings  []Heading
	Props     map[string]any // remaining frontmatter fields
}

// Heading is one outline entry.
type Heading struct {
	Level int
	Text  string
}

var (
	embedRe    = regexp.MustCompile(`!\[\[([^\]]+)\]\]`)
	wikilinkRe = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	tagRe      = regexp.MustCompile(`(?:^|[^\w#])#([\w\-_]+)`)
)

var markdown = goldmark.New()

// Parse extracts title, headings, wikilinks, tags and frontmatter from
// markdown content. The title is the first heading's text; without any
// heading it falls back to the first line.
func Parse(content string) ParsedNote {
	fm, body := splitFrontmatter(content)
	parsed := ParsedNote{Content: body}

	src := []byte(body)
	doc := markdown.Parser().Parse(gtext.NewReader(src))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		text := nodeText(h, src)
		parsed.Headings = append(parsed.Headings, Heading{Level: h.Level, Text: text})
		if parsed.Title == "" {
			parsed.Title = text
		}
		return ast.WalkSkipChildren, nil
	})

	links := map[string]bool{}
	// Embeds are their own link kind; strip them before matching wikilinks.
	stripped := embedRe.ReplaceAllString(body, "")
	for _, m := range wikilinkRe.FindAllStringSubmatch(stripped, -1) {
		target := strings.TrimSpace(strings.SplitN(m[1], "|", 2)[0])
		// [[note#heading]] links to the note, not the heading.
		target = strings.SplitN(target, "#", 2)[0]
		if target != "" {
			links[target] = true
		}
	}
	parsed.Wikilinks = sortedKeys(links)

	tags := map[string]bool{}
	for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
		tags[m[1]] = true
	}

	if fm != nil {
		for _, t := range stringList(fm["tags"]) {
			tags[strings.TrimPrefix(t, "#")] = true
		}
		parsed.Aliases = stringList(fm["aliases"])
		if t, ok := fm["title"].(string); ok && parsed.Title == "" {
			parsed.Title = t
		}
		delete(fm, "tags")
		delete(fm, "aliases")
		delete(fm, "title")
		if len(fm) > 0 {
			parsed.Props = fm
		}
	}
	parsed.Tags = sortedKeys(tags)

	if parsed.Title == "" {
		first := strings.TrimSpace(strings.SplitN(body, "\n", 2)[0])
		parsed.Title = strings.TrimSpace(strings.TrimLeft(first, "#"))
		if parsed.Title == "" {
			parsed.Title = "Untitled"
		}
	}
	return parsed
}

// splitFrontmatter separates a leading YAML frontmatter block from the body.
// Malformed frontmatter is treated as body content rather than an error.
func splitFrontmatter(content string) (map[string]any, string) {
	if !strings.HasPrefix(content, "---\n") && content != "---" {
		return nil, content
	}
	rest := strings.TrimPrefix(content, "---\n")
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, content
	}
	block := rest[:end]
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return nil, content
	}
	return fm, body
}

// stringList coerces a frontmatter value that may be a string or a list of
// strings into a []string.
func stringList(v any) []string {
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []any:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// nodeText collects the plain text of a node's inline children.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(nodeText(c, src))
		}
	}
	return b.String()
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
