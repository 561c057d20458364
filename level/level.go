// Package level holds the in-memory representation of a grid-based map:
// layers of packed tile ids, tileset definitions with their terrain rule
// tables, and the map-level collections (entities, markers, colliders).
package level

import (
	"fmt"

	"github.com/Long-Lost-AS/LostEditor/tile"
)

// LayerID identifies a layer across reorderings. Render caches key on it,
// so it must stay stable for the life of the layer.
type LayerID string

// LayerKind distinguishes tile grids from entity layers.
type LayerKind string

const (
	KindTile   LayerKind = "tile"
	KindEntity LayerKind = "entity"
)

// Layer is a single map layer. For KindTile, Tiles is a dense row-major
// array of packed ids with index = y*width + x and length exactly
// width*height.
type Layer struct {
	ID       LayerID   `json:"id"`
	Name     string    `json:"name"`
	Kind     LayerKind `json:"kind"`
	Visible  bool      `json:"visible"`
	Autotile bool      `json:"autotile,omitempty"`
	Terrain  string    `json:"terrain,omitempty"`
	Tiles    []tile.ID `json:"tiles,omitempty"`

	width  int
	height int
}

// NewTileLayer allocates an empty tile layer of the given dimensions.
func NewTileLayer(id LayerID, name string, w, h int) *Layer {
	return &Layer{
		ID:      id,
		Name:    name,
		Kind:    KindTile,
		Visible: true,
		Tiles:   make([]tile.ID, w*h),
		width:   w,
		height:  h,
	}
}

// Bind records the owning map's dimensions. Loaders call it after
// unmarshaling; every accessor assumes it has been called.
func (l *Layer) Bind(w, h int) error {
	if l.Kind == KindTile && len(l.Tiles) != w*h {
		return fmt.Errorf("level: layer %q tile array length %d, want %d", l.ID, len(l.Tiles), w*h)
	}
	l.width = w
	l.height = h
	return nil
}

// InBounds reports whether the cell lies inside the layer grid.
func (l *Layer) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < l.width && y < l.height
}

// Index returns the row-major array index for (x, y).
func (l *Layer) Index(x, y int) int { return y*l.width + x }

// At returns the packed id at (x, y), or the empty sentinel when the
// coordinates are off-grid. Interactive painting routinely produces
// off-grid coordinates near edges, so this is not an error.
func (l *Layer) At(x, y int) tile.ID {
	if !l.InBounds(x, y) || l.Tiles == nil {
		return tile.Empty
	}
	return l.Tiles[l.Index(x, y)]
}

// Set writes the packed id at (x, y). Off-grid writes are silently
// dropped.
func (l *Layer) Set(x, y int, id tile.ID) {
	if !l.InBounds(x, y) || l.Tiles == nil {
		return
	}
	l.Tiles[l.Index(x, y)] = id
}

// Size returns the bound grid dimensions.
func (l *Layer) Size() (w, h int) { return l.width, l.height }

// Clone returns a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	cp := *l
	if l.Tiles != nil {
		cp.Tiles = make([]tile.ID, len(l.Tiles))
		copy(cp.Tiles, l.Tiles)
	}
	return &cp
}

// Map is one authored level: grid dimensions, cell pixel size, ordered
// layers, plus the map-level pixel-space collections.
type Map struct {
	Width    int `json:"width"`
	Height   int `json:"height"`
	CellSize int `json:"cell_size"`

	Layers    []*Layer   `json:"layers,omitempty"`
	Entities  []Entity   `json:"entities,omitempty"`
	Markers   []Marker   `json:"markers,omitempty"`
	Colliders []Collider `json:"colliders,omitempty"`
}

// NewMap allocates a map with a single default tile layer.
func NewMap(w, h, cellSize int) *Map {
	m := &Map{Width: w, Height: h, CellSize: cellSize}
	m.Layers = append(m.Layers, NewTileLayer("layer-0", "Layer 0", w, h))
	return m
}

// Bind re-binds every layer to the map dimensions. Call after
// unmarshaling a saved map.
func (m *Map) Bind() error {
	for _, l := range m.Layers {
		if err := l.Bind(m.Width, m.Height); err != nil {
			return err
		}
	}
	return nil
}

// Layer returns the layer with the given id, or nil.
func (m *Map) Layer(id LayerID) *Layer {
	for _, l := range m.Layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// AddLayer appends a new empty tile layer and returns it.
func (m *Map) AddLayer(id LayerID, name string) *Layer {
	l := NewTileLayer(id, name, m.Width, m.Height)
	m.Layers = append(m.Layers, l)
	return l
}

// RemoveLayer deletes the layer with the given id. Returns false when no
// such layer exists.
func (m *Map) RemoveLayer(id LayerID) bool {
	for i, l := range m.Layers {
		if l.ID == id {
			m.Layers = append(m.Layers[:i], m.Layers[i+1:]...)
			return true
		}
	}
	return false
}

// MoveLayer shifts the layer at index i by delta in the draw order,
// sliding the layers in between.
func (m *Map) MoveLayer(i, delta int) bool {
	j := i + delta
	if i < 0 || i >= len(m.Layers) || j < 0 || j >= len(m.Layers) {
		return false
	}
	l := m.Layers[i]
	m.Layers = append(m.Layers[:i], m.Layers[i+1:]...)
	m.Layers = append(m.Layers[:j], append([]*Layer{l}, m.Layers[j:]...)...)
	return true
}

// Resize changes the grid dimensions, preserving the overlapping region
// of every tile layer. Cells outside the new bounds are discarded; new
// cells start empty.
func (m *Map) Resize(w, h int) {
	for _, l := range m.Layers {
		if l.Kind != KindTile {
			l.width, l.height = w, h
			continue
		}
		tiles := make([]tile.ID, w*h)
		for y := 0; y < h && y < l.height; y++ {
			for x := 0; x < w && x < l.width; x++ {
				tiles[y*w+x] = l.Tiles[l.Index(x, y)]
			}
		}
		l.Tiles = tiles
		l.width, l.height = w, h
	}
	m.Width, m.Height = w, h
}

// Clone returns a deep copy of the map. History snapshots are clones so
// that live edits never alias stored states.
func (m *Map) Clone() *Map {
	out := &Map{Width: m.Width, Height: m.Height, CellSize: m.CellSize}
	out.Layers = make([]*Layer, len(m.Layers))
	for i, l := range m.Layers {
		out.Layers[i] = l.Clone()
	}
	if m.Entities != nil {
		out.Entities = cloneEntities(m.Entities)
	}
	if m.Markers != nil {
		out.Markers = make([]Marker, len(m.Markers))
		copy(out.Markers, m.Markers)
	}
	if m.Colliders != nil {
		out.Colliders = make([]Collider, len(m.Colliders))
		for i, c := range m.Colliders {
			out.Colliders[i] = c.Clone()
		}
	}
	return out
}
