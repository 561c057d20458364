package level

import (
	"fmt"
	"os"

	"github.com/Long-Lost-AS/LostEditor/tile"
	"gopkg.in/yaml.v3"
)

// Tileset describes one tileset image: the pixel geometry of a grid
// cell, the tiles it contains, and zero or more named terrain rule
// tables. Loaded from a YAML spec file; the image itself is opaque to
// the core and resolved by the shell.
type Tileset struct {
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
	TileW int    `yaml:"tile_w"`
	TileH int    `yaml:"tile_h"`

	Tiles    []TileDef    `yaml:"tiles,omitempty"`
	Terrains []TerrainDef `yaml:"terrains,omitempty"`
}

// TileDef is one tile inside the tileset. Col/Row locate its source
// rectangle; W/H describe an optional compound footprint in cells
// (defaulting to 1x1).
type TileDef struct {
	Col int `yaml:"col"`
	Row int `yaml:"row"`
	W   int `yaml:"w,omitempty"`
	H   int `yaml:"h,omitempty"`
}

// TerrainDef is a named autotiling rule table: an ordered list of
// bitmask-to-tile mappings. Tile values are local indices into the
// tileset (row-major over the image grid), the same addressing the
// editor's tile picker uses.
type TerrainDef struct {
	Name  string     `yaml:"name"`
	Rules []MaskRule `yaml:"rules"`
}

// MaskRule maps an 8-neighbor bitmask to a local tile index.
type MaskRule struct {
	Mask int `yaml:"mask"`
	Tile int `yaml:"tile"`
}

// Cols returns the number of tile columns the image grid has for the
// given image width in pixels.
func (t *Tileset) Cols(imageW int) int {
	if t.TileW <= 0 {
		return 0
	}
	return imageW / t.TileW
}

// LoadSpec reads and unmarshals a YAML spec file into T.
func LoadSpec[T any](path string) (T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("level: load %s: %w", path, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("level: unmarshal %s: %w", path, err)
	}
	return spec, nil
}

// LoadTileset loads a tileset spec from a YAML file and validates its
// geometry.
func LoadTileset(path string) (*Tileset, error) {
	ts, err := LoadSpec[Tileset](path)
	if err != nil {
		return nil, err
	}
	if ts.Name == "" {
		return nil, fmt.Errorf("level: tileset %s: missing name", path)
	}
	if ts.TileW <= 0 || ts.TileH <= 0 {
		return nil, fmt.Errorf("level: tileset %q: invalid tile size %dx%d", ts.Name, ts.TileW, ts.TileH)
	}
	return &ts, nil
}

// Registry resolves packed tileset references to loaded tilesets. Both
// reference schemes resolve here: the session index is assigned by
// registration order, the hash is derived from the tileset name. A
// missing reference is not an error; callers skip the affected cell.
type Registry struct {
	tilesets []*Tileset
	byHash   map[uint32]*Tileset
	byName   map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byHash: make(map[uint32]*Tileset),
		byName: make(map[string]int),
	}
}

// Register adds a tileset and returns its session index. Re-registering
// the same name replaces the previous definition in place, keeping the
// index stable (hot reload depends on this).
func (r *Registry) Register(ts *Tileset) int {
	if idx, ok := r.byName[ts.Name]; ok {
		r.tilesets[idx] = ts
		r.byHash[tile.HashName(ts.Name)] = ts
		return idx
	}
	idx := len(r.tilesets)
	r.tilesets = append(r.tilesets, ts)
	r.byName[ts.Name] = idx
	r.byHash[tile.HashName(ts.Name)] = ts
	return idx
}

// Resolve looks up a tileset by packed reference.
func (r *Registry) Resolve(ref tile.Ref) (*Tileset, bool) {
	switch ref.Scheme {
	case tile.RefIndex:
		if int(ref.Value) < len(r.tilesets) {
			return r.tilesets[ref.Value], true
		}
	case tile.RefHash:
		if ts, ok := r.byHash[ref.Value]; ok {
			return ts, true
		}
	}
	return nil, false
}

// IndexOf returns the session index for a registered tileset name.
func (r *Registry) IndexOf(name string) (int, bool) {
	idx, ok := r.byName[name]
	return idx, ok
}

// Tilesets returns the registered tilesets in session order.
func (r *Registry) Tilesets() []*Tileset { return r.tilesets }
