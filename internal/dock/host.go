package dock

import (
	"log/slog"
	"sort"
	"sync"
)

// LayoutHost maps position ids to live surface instances and card ids to
// their last-known construction params. It is the explicit replacement for
// ambient global registries: one instance is constructed by the composition
// root and passed by reference to every surface, so otherwise-independent
// surfaces can discover one another and a remounting surface can reattach to
// its live instance. Tests inject their own host.
//
// Entries are created lazily on first surface construction and removed only
// by an explicit Teardown, never because a UI component remounted.
type LayoutHost struct {
	mu       sync.Mutex
	surfaces map[string]*Surface
	params   map[string]Params
	logger   *slog.Logger
}

// NewLayoutHost creates an empty host. A nil logger falls back to
// slog.Default.
func NewLayoutHost(logger *slog.Logger) *LayoutHost {
	if logger == nil {
		logger = slog.Default()
	}
	return &LayoutHost{
		surfaces: make(map[string]*Surface),
		params:   make(map[string]Params),
		logger:   logger,
	}
}

// Surface returns the live surface for a position id, or nil. A missing
// entry is a normal condition (surface torn down or not yet constructed),
// never an error.
func (h *LayoutHost) Surface(positionID string) *Surface {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.surfaces[positionID]
}

// SurfaceIDs returns all registered position ids in sorted order.
func (h *LayoutHost) SurfaceIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.surfaces))
	for id := range h.surfaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LastParams returns the last construction params recorded for a card id.
func (h *LayoutHost) LastParams(cardID string) (Params, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.params[cardID]
	return p, ok
}

// Serialize snapshots every live surface into a full layout descriptor.
// The descriptor is derived, never the source of truth while surfaces live.
func (h *LayoutHost) Serialize() Descriptor {
	var d Descriptor
	for _, id := range h.SurfaceIDs() {
		s := h.Surface(id)
		if s == nil {
			continue
		}
		d.Surfaces = append(d.Surfaces, s.Serialize())
	}
	return d
}

// Teardown disposes every panel on every surface and clears all entries.
// This is the only path that removes registry entries; it is called on full
// application shutdown, never on a remount.
func (h *LayoutHost) Teardown() {
	h.mu.Lock()
	surfaces := make([]*Surface, 0, len(h.surfaces))
	for _, s := range h.surfaces {
		surfaces = append(surfaces, s)
	}
	h.surfaces = make(map[string]*Surface)
	h.params = make(map[string]Params)
	h.mu.Unlock()

	for _, s := range surfaces {
		for _, p := range s.Panels() {
			s.RemovePanel(p.ID)
		}
	}
	h.logger.Info("layout host torn down", "surfaces", len(surfaces))
}

func (h *LayoutHost) register(positionID string, s *Surface) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.surfaces[positionID] = s
}

func (h *LayoutHost) rememberParams(cardID string, p Params) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.params[cardID] = p.Clone()
}
