// Package terrain selects tile variants so painted regions stay
// visually seamless. Each terrain owns an ordered bitmask-to-tile
// table; the engine recomputes neighbor masks whenever a cell joins or
// leaves the terrain.
package terrain

import (
	"fmt"
	"math/bits"

	"github.com/Long-Lost-AS/LostEditor/level"
	"github.com/Long-Lost-AS/LostEditor/tile"
)

// Neighbor direction bits. The encoding is persisted in saved rule
// tables and must not change.
const (
	MaskN uint8 = 1 << iota
	MaskNE
	MaskE
	MaskSE
	MaskS
	MaskSW
	MaskW
	MaskNW
)

const maskCardinals = MaskN | MaskE | MaskS | MaskW

// Rule maps one neighbor bitmask to the tile drawn for it.
type Rule struct {
	Mask uint8
	Tile tile.ID
}

// RuleSet is one terrain: a name, the tileset it draws from, and an
// ordered rule table. Every tile a rule can emit is a member of the
// terrain; membership is what neighbor masks are computed against.
type RuleSet struct {
	Name string
	Ref  tile.Ref

	rules   []Rule
	exact   map[uint8]tile.ID
	members map[tile.ID]struct{}
}

// NewRuleSet builds a rule set from an ordered rule table. For
// duplicate masks the first rule wins.
func NewRuleSet(name string, ref tile.Ref, rules []Rule) *RuleSet {
	rs := &RuleSet{
		Name:    name,
		Ref:     ref,
		rules:   append([]Rule(nil), rules...),
		exact:   make(map[uint8]tile.ID, len(rules)),
		members: make(map[tile.ID]struct{}, len(rules)),
	}
	for _, r := range rs.rules {
		if _, ok := rs.exact[r.Mask]; !ok {
			rs.exact[r.Mask] = r.Tile
		}
		if !r.Tile.IsEmpty() {
			rs.members[r.Tile] = struct{}{}
		}
	}
	return rs
}

// Empty reports whether the rule set has no rules.
func (rs *RuleSet) Empty() bool { return rs == nil || len(rs.rules) == 0 }

// Contains reports whether id is one of the terrain's tiles.
func (rs *RuleSet) Contains(id tile.ID) bool {
	if rs == nil || id.IsEmpty() {
		return false
	}
	_, ok := rs.members[id]
	return ok
}

// Rules returns the rule table in order.
func (rs *RuleSet) Rules() []Rule { return rs.rules }

// TileFor resolves a neighbor mask to a tile. Lookup is exact match
// first, then exact match with corner bits cleared, then the rule
// whose mask is the largest subset of the wanted mask (first rule wins
// a tie). ok is false only when no rule is compatible at all; callers
// leave the cell unchanged in that case.
func (rs *RuleSet) TileFor(mask uint8) (tile.ID, bool) {
	if rs.Empty() {
		return tile.Empty, false
	}
	if id, ok := rs.exact[mask]; ok {
		return id, true
	}
	if id, ok := rs.exact[mask&maskCardinals]; ok {
		return id, true
	}
	best := -1
	var bestID tile.ID
	for _, r := range rs.rules {
		if r.Mask&mask != r.Mask {
			continue
		}
		if c := bits.OnesCount8(r.Mask); c > best {
			best = c
			bestID = r.Tile
		}
	}
	if best < 0 {
		return tile.Empty, false
	}
	return bestID, true
}

// BlobMaskOrder is the canonical mask ordering for a 47-tile blob
// tileset: every valid mask under the corner constraint, in the order
// blob sheets lay their variants out.
var BlobMaskOrder = []uint8{
	28, 124, 112, 16, 247, 223, 125, 31, 255, 241, 17, 253, 127, 95, 7, 199,
	193, 1, 117, 87, 245, 4, 68, 64, 0, 213, 93, 215, 23, 209, 116, 92, 20,
	84, 80, 29, 113, 197, 71, 21, 85, 81, 221, 119, 5, 69, 65,
}

// BlobRuleSet builds a rule set for a 47-tile blob layout: tiles[i]
// serves BlobMaskOrder[i].
func BlobRuleSet(name string, ref tile.Ref, tiles []tile.ID) (*RuleSet, error) {
	if len(tiles) != len(BlobMaskOrder) {
		return nil, fmt.Errorf("terrain: blob %q needs %d tiles, got %d", name, len(BlobMaskOrder), len(tiles))
	}
	rules := make([]Rule, len(tiles))
	for i, id := range tiles {
		rules[i] = Rule{Mask: BlobMaskOrder[i], Tile: id}
	}
	return NewRuleSet(name, ref, rules), nil
}

// FromDef builds a rule set from a tileset's terrain definition. Rule
// tiles in the spec are local indices into the tileset grid; cols is
// the tileset's column count, used to split an index into a cell.
func FromDef(def level.TerrainDef, ref tile.Ref, cols int) (*RuleSet, error) {
	if cols <= 0 {
		return nil, fmt.Errorf("terrain: %q: invalid column count %d", def.Name, cols)
	}
	rules := make([]Rule, 0, len(def.Rules))
	for _, r := range def.Rules {
		if r.Mask < 0 || r.Mask > 255 {
			return nil, fmt.Errorf("terrain: %q: mask %d out of range", def.Name, r.Mask)
		}
		if r.Tile < 0 {
			return nil, fmt.Errorf("terrain: %q: negative tile index %d", def.Name, r.Tile)
		}
		id, err := tile.Pack(r.Tile%cols, r.Tile/cols, ref, false, false)
		if err != nil {
			return nil, fmt.Errorf("terrain: %q: tile %d: %w", def.Name, r.Tile, err)
		}
		rules = append(rules, Rule{Mask: uint8(r.Mask), Tile: id})
	}
	return NewRuleSet(def.Name, ref, rules), nil
}
