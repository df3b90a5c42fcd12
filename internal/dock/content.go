package dock

import (
	"fmt"
	"log/slog"
)

// Params is the opaque key→value bag passed to content factories.
type Params map[string]any

// Clone returns a shallow copy so a panel's params can be remembered
// without aliasing the caller's map. Nil stays nil.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Renderer is the content-provider contract. A surface drives exactly these
// four lifecycle operations and knows nothing else about the content.
//
// Init mounts the content; it must tolerate being invoked more than once with
// the same params, because re-attachment after a remount re-invokes it.
// Update delivers fresh params to already-mounted content. Layout announces
// the panel's current content area; a zero area means the region is hidden
// and must be a no-op. Dispose unmounts and releases resources.
type Renderer interface {
	Init(params Params)
	Update(params Params)
	Layout(width, height int)
	Dispose()
}

// Factory constructs a Renderer for one content type.
type Factory func(params Params) Renderer

// Provider is one external collaborator's registration: a factory plus
// optional display metadata.
type Provider struct {
	New   Factory
	Title string // default panel title when the caller supplies none
	Bare  bool   // suppress standard header chrome (always-visible regions)
}

// FactorySet is one namespace of content factories. Sidebar surfaces and the
// center surface hold independent sets.
type FactorySet struct {
	providers map[string]Provider
	logger    *slog.Logger
}

// NewFactorySet creates an empty namespace. A nil logger falls back to
// slog.Default.
func NewFactorySet(logger *slog.Logger) *FactorySet {
	if logger == nil {
		logger = slog.Default()
	}
	return &FactorySet{
		providers: make(map[string]Provider),
		logger:    logger,
	}
}

// Register binds a content type key to a provider. Re-registering a key
// overwrites the previous provider.
func (s *FactorySet) Register(contentType string, p Provider) {
	s.providers[contentType] = p
}

// Lookup returns the provider for a content type.
func (s *FactorySet) Lookup(contentType string) (Provider, bool) {
	p, ok := s.providers[contentType]
	return p, ok
}

// Mount constructs a renderer for contentType. An unknown type downgrades to
// a placeholder renderer that shows a diagnostic message; a single
// misconfigured panel must never prevent the rest of the surface from
// rendering. The bool reports whether the type was recognized.
func (s *FactorySet) Mount(contentType string, params Params) (Renderer, Provider, bool) {
	p, ok := s.providers[contentType]
	if !ok || p.New == nil {
		s.logger.Warn("unknown content type, mounting placeholder", "type", contentType)
		return &PlaceholderRenderer{ContentType: contentType}, Provider{}, false
	}
	return p.New(params), p, true
}

// PlaceholderRenderer stands in for content whose type has no registered
// factory. It renders a diagnostic message instead of failing the surface.
type PlaceholderRenderer struct {
	ContentType string
}

func (r *PlaceholderRenderer) Init(Params)     {}
func (r *PlaceholderRenderer) Update(Params)   {}
func (r *PlaceholderRenderer) Layout(w, h int) {}
func (r *PlaceholderRenderer) Dispose()        {}

// View renders the diagnostic message.
func (r *PlaceholderRenderer) View() string {
	return fmt.Sprintf("no content provider registered for %q", r.ContentType)
}
