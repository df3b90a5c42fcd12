package dock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptor_JSONRoundTrip(t *testing.T) {
	d := Descriptor{
		Surfaces: []SurfaceDescriptor{
			{
				PositionID: "left",
				Visible:    true,
				Panels: []PanelDescriptor{
					{ID: "explorer-1", Type: "explorer", Title: "Explorer", Expanded: true, Size: 300,
						Params: Params{"root": "/vault"}},
					{ID: "search-1", Type: "search", Title: "Search", Size: 150},
				},
			},
			{
				PositionID: "center",
				Visible:    true,
				Panels: []PanelDescriptor{
					{ID: "doc-1", Type: "preview", Title: "daily.md", Expanded: true},
					{ID: "doc-2", Type: "preview", Title: "ideas.md", Expanded: true, After: "doc-1"},
				},
			},
		},
	}

	data, err := MarshalDescriptor(d)
	require.NoError(t, err)

	got, err := UnmarshalDescriptor(data)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestDescriptor_Fragment(t *testing.T) {
	d := Descriptor{Surfaces: []SurfaceDescriptor{{PositionID: "left"}, {PositionID: "right"}}}

	frag, ok := d.Fragment("right")
	require.True(t, ok)
	assert.Equal(t, "right", frag.PositionID)

	_, ok = d.Fragment("missing")
	assert.False(t, ok)
}

func TestDescriptor_Empty(t *testing.T) {
	assert.True(t, Descriptor{}.Empty())
	assert.True(t, Descriptor{Surfaces: []SurfaceDescriptor{{PositionID: "left"}}}.Empty())
	assert.False(t, Descriptor{Surfaces: []SurfaceDescriptor{
		{PositionID: "left", Panels: []PanelDescriptor{{ID: "a"}}},
	}}.Empty())
}

func TestOrderedPanels_DanglingSiblingKept(t *testing.T) {
	panels := []PanelDescriptor{
		{ID: "b", After: "a"},
		{ID: "a"},
		{ID: "orphan", After: "never-existed"},
	}
	got := orderedPanels(panels)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "orphan", got[2].ID)
}

func TestUnmarshalDescriptor_BadInput(t *testing.T) {
	_, err := UnmarshalDescriptor([]byte("{not json"))
	assert.Error(t, err)
}
