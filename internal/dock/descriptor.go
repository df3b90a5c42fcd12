package dock

import (
	"encoding/json"
	"fmt"

	"notedeck/internal/jsonutil"
)

// PanelDescriptor is the serialized form of one panel: everything needed to
// reconstruct an equivalent panel, nothing tied to object identity.
// After orders tabbed-surface entries relative to their left sibling; it is
// empty for sidebar surfaces and for the first tab.
type PanelDescriptor struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Params   Params `json:"params,omitempty"`
	Expanded bool   `json:"expanded"`
	Size     int    `json:"size,omitempty"`
	After    string `json:"after,omitempty"`
}

// SurfaceDescriptor is one surface's fragment of the layout descriptor.
type SurfaceDescriptor struct {
	PositionID string            `json:"positionId"`
	Visible    bool              `json:"visible"`
	Panels     []PanelDescriptor `json:"panels"`
}

// Descriptor is the full layout snapshot: produced by querying every live
// surface before shutdown, consumed once at startup. Private to this
// application; no external compatibility requirement.
type Descriptor struct {
	Surfaces []SurfaceDescriptor `json:"surfaces"`
}

// Fragment returns the fragment for a position id, or false.
func (d Descriptor) Fragment(positionID string) (SurfaceDescriptor, bool) {
	for _, s := range d.Surfaces {
		if s.PositionID == positionID {
			return s, true
		}
	}
	return SurfaceDescriptor{}, false
}

// Empty reports whether the descriptor carries no panels at all.
func (d Descriptor) Empty() bool {
	for _, s := range d.Surfaces {
		if len(s.Panels) > 0 {
			return false
		}
	}
	return true
}

// MarshalDescriptor encodes a descriptor as indented JSON.
func MarshalDescriptor(d Descriptor) ([]byte, error) {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal layout descriptor: %w", err)
	}
	return b, nil
}

// UnmarshalDescriptor decodes a descriptor from JSON.
func UnmarshalDescriptor(data []byte) (Descriptor, error) {
	var d Descriptor
	if err := jsonutil.UnmarshalWithContext(data, &d, "unmarshal layout descriptor"); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// orderedPanels resolves After sibling links into a linear order. Entries
// without links keep their positional order; a dangling After falls back to
// positional order rather than dropping the entry.
func orderedPanels(panels []PanelDescriptor) []PanelDescriptor {
	linked := false
	for _, p := range panels {
		if p.After != "" {
			linked = true
			break
		}
	}
	if !linked {
		return panels
	}

	byAfter := make(map[string][]PanelDescriptor)
	seen := make(map[string]bool, len(panels))
	for _, p := range panels {
		byAfter[p.After] = append(byAfter[p.After], p)
	}

	var out []PanelDescriptor
	var walk func(after string)
	walk = func(after string) {
		for _, p := range byAfter[after] {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			out = append(out, p)
			walk(p.ID)
		}
	}
	walk("")
	// Entries whose After never resolved (dangling sibling) append in
	// positional order instead of being lost.
	for _, p := range panels {
		if !seen[p.ID] {
			out = append(out, p)
		}
	}
	return out
}
