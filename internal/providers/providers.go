package providers

import (
	"log/slog"
	"sync"

	"notedeck/internal/dock"
	"notedeck/internal/term"
	"notedeck/internal/vault"
)

// Content type keys, as they appear in layout descriptors.
const (
	TypeExplorer = "explorer"
	TypeSearch   = "search"
	TypeOutline  = "outline"
	TypeGraph    = "graph"
	TypePreview  = "preview"
	TypeConsole  = "console"
)

// Deps is everything the providers need from the application. Invalidate is
// called from background goroutines when content changed and the screen
// should repaint.
type Deps struct {
	Index      *vault.Index
	VaultPath  string
	Shell      string
	Runner     term.Runner
	Active     *ActiveNote
	Invalidate func()
	Logger     *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// RegisterSidebar installs the sidebar content types into a factory set.
func RegisterSidebar(set *dock.FactorySet, deps Deps) {
	set.Register(TypeExplorer, dock.Provider{
		Title: "Explorer",
		New:   func(p dock.Params) dock.Renderer { return newExplorer(deps) },
	})
	set.Register(TypeSearch, dock.Provider{
		Title: "Search",
		New:   func(p dock.Params) dock.Renderer { return newSearch(deps) },
	})
	set.Register(TypeOutline, dock.Provider{
		Title: "Outline",
		New:   func(p dock.Params) dock.Renderer { return newOutline(deps) },
	})
	set.Register(TypeGraph, dock.Provider{
		Title: "Graph",
		New:   func(p dock.Params) dock.Renderer { return newGraph(deps) },
	})
}

// RegisterCenter installs the center content types into a factory set. The
// center namespace is independent from the sidebar one; neither can mount the
// other's types.
func RegisterCenter(set *dock.FactorySet, deps Deps) {
	set.Register(TypePreview, dock.Provider{
		Title: "Preview",
		New:   func(p dock.Params) dock.Renderer { return newPreview(deps) },
	})
	set.Register(TypeConsole, dock.Provider{
		Title: "Console",
		Bare:  true,
		New:   func(p dock.Params) dock.Renderer { return newConsole(deps) },
	})
}

// ActiveNote is the shared "currently focused note" slot. Explorer and search
// write it; outline and preview follow it.
type ActiveNote struct {
	mu        sync.Mutex
	node      *vault.Node
	listeners map[int]func()
	nextID    int
}

// NewActiveNote creates an empty slot.
func NewActiveNote() *ActiveNote {
	return &ActiveNote{listeners: make(map[int]func())}
}

// Get returns the current note, or nil.
func (a *ActiveNote) Get() *vault.Node {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.node
}

// Set replaces the current note and notifies subscribers.
func (a *ActiveNote) Set(n *vault.Node) {
	a.mu.Lock()
	a.node = n
	fns := make([]func(), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Subscribe registers a change callback and returns its cancel func.
func (a *ActiveNote) Subscribe(fn func()) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.listeners, id)
	}
}
