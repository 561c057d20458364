package terrain

import (
	"github.com/Long-Lost-AS/LostEditor/level"
	"github.com/Long-Lost-AS/LostEditor/tile"
)

// Write is one cell assignment produced by an engine operation. The
// engine never mutates the layer itself; callers apply the writes so a
// whole operation can land as one history entry.
type Write struct {
	X, Y int
	ID   tile.ID
}

// Engine runs terrain operations against a layer using one rule set.
type Engine struct {
	rules *RuleSet
}

func NewEngine(rules *RuleSet) *Engine {
	return &Engine{rules: rules}
}

// member reports whether the cell at x,y belongs to the terrain.
// forced overrides the layer content for cells the current operation
// is about to change.
func (e *Engine) member(l *level.Layer, forced map[int]bool, x, y int) bool {
	if !l.InBounds(x, y) {
		return false
	}
	if v, ok := forced[l.Index(x, y)]; ok {
		return v
	}
	return e.rules.Contains(l.At(x, y))
}

// mask computes the 8-neighbor bitmask for a cell. A corner counts
// only when both adjacent cardinals count; preview and commit both go
// through here so they cannot disagree.
func (e *Engine) mask(l *level.Layer, forced map[int]bool, x, y int) uint8 {
	var mask uint8
	n := e.member(l, forced, x, y-1)
	ee := e.member(l, forced, x+1, y)
	s := e.member(l, forced, x, y+1)
	w := e.member(l, forced, x-1, y)
	if n {
		mask |= MaskN
	}
	if ee {
		mask |= MaskE
	}
	if s {
		mask |= MaskS
	}
	if w {
		mask |= MaskW
	}
	if n && ee && e.member(l, forced, x+1, y-1) {
		mask |= MaskNE
	}
	if s && ee && e.member(l, forced, x+1, y+1) {
		mask |= MaskSE
	}
	if s && w && e.member(l, forced, x-1, y+1) {
		mask |= MaskSW
	}
	if n && w && e.member(l, forced, x-1, y-1) {
		mask |= MaskNW
	}
	return mask
}

// rewriteNeighbors recomputes every terrain neighbor of x,y and
// appends a write for each. skip holds indices the operation already
// wrote; seen dedupes neighbors shared between boundary cells.
func (e *Engine) rewriteNeighbors(l *level.Layer, forced map[int]bool, x, y int, skip, seen map[int]bool, writes []Write) []Write {
	for yy := y - 1; yy <= y+1; yy++ {
		for xx := x - 1; xx <= x+1; xx++ {
			if xx == x && yy == y {
				continue
			}
			if !l.InBounds(xx, yy) {
				continue
			}
			idx := l.Index(xx, yy)
			if skip[idx] || seen[idx] {
				continue
			}
			seen[idx] = true
			if !e.member(l, forced, xx, yy) {
				continue
			}
			if id, ok := e.rules.TileFor(e.mask(l, forced, xx, yy)); ok {
				writes = append(writes, Write{X: xx, Y: yy, ID: id})
			}
		}
	}
	return writes
}

// Place paints the terrain at x,y: the target cell gets the tile for
// its neighbor mask and all 8 neighbors already in the terrain are
// rewritten to match their new neighborhoods.
func (e *Engine) Place(l *level.Layer, x, y int) []Write {
	if e.rules.Empty() || !l.InBounds(x, y) {
		return nil
	}
	idx := l.Index(x, y)
	forced := map[int]bool{idx: true}

	var writes []Write
	if id, ok := e.rules.TileFor(e.mask(l, forced, x, y)); ok {
		writes = append(writes, Write{X: x, Y: y, ID: id})
	}
	skip := map[int]bool{idx: true}
	return e.rewriteNeighbors(l, forced, x, y, skip, map[int]bool{}, writes)
}

// Erase clears the cell at x,y and rewrites the surviving terrain
// neighbors around it.
func (e *Engine) Erase(l *level.Layer, x, y int) []Write {
	if !l.InBounds(x, y) {
		return nil
	}
	idx := l.Index(x, y)
	forced := map[int]bool{idx: false}

	writes := []Write{{X: x, Y: y, ID: tile.Empty}}
	if e.rules.Empty() {
		return writes
	}
	skip := map[int]bool{idx: true}
	return e.rewriteNeighbors(l, forced, x, y, skip, map[int]bool{}, writes)
}

// region collects the 4-connected set of cells matching the predicate,
// breadth first from the start cell. Returned indices are in visit
// order; the start cell is always first.
func region(l *level.Layer, x, y int, match func(tile.ID) bool) []int {
	w, h := l.Size()

	start := l.Index(x, y)
	visited := map[int]bool{start: true}
	queue := []int{start}
	var out []int
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		out = append(out, idx)

		cx, cy := idx%w, idx/w
		for _, d := range [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			nidx := ny*w + nx
			if visited[nidx] || !match(l.Tiles[nidx]) {
				continue
			}
			visited[nidx] = true
			queue = append(queue, nidx)
		}
	}
	return out
}

// sameID matches cells holding exactly the given packed id.
func sameID(target tile.ID) func(tile.ID) bool {
	return func(id tile.ID) bool { return id == target }
}

// FillTile flood-fills the start cell's connected region with a plain
// packed id. Filling a region with its own value is a no-op.
func (e *Engine) FillTile(l *level.Layer, x, y int, id tile.ID) []Write {
	return FloodFill(l, x, y, id)
}

// FloodFill is the rule-free tile-mode fill; it needs no engine
// because membership plays no part in it.
func FloodFill(l *level.Layer, x, y int, id tile.ID) []Write {
	if !l.InBounds(x, y) || l.At(x, y) == id {
		return nil
	}
	cells := region(l, x, y, sameID(l.At(x, y)))
	if len(cells) <= 1 {
		return nil
	}
	w, _ := l.Size()
	writes := make([]Write, len(cells))
	for i, idx := range cells {
		writes[i] = Write{X: idx % w, Y: idx / w, ID: id}
	}
	return writes
}

// Fill flood-fills the start cell's connected region with the terrain.
// When the start cell already belongs to the terrain the region spans
// every connected member regardless of which variant each cell carries;
// otherwise cells group by exact packed id. Every filled cell gets the
// tile for its post-fill mask; neighbor rewrites are limited to terrain
// cells bordering the region boundary, since interior neighborhoods
// cannot change under a uniform fill.
func (e *Engine) Fill(l *level.Layer, x, y int) []Write {
	if e.rules.Empty() || !l.InBounds(x, y) {
		return nil
	}
	w, _ := l.Size()
	match := sameID(l.At(x, y))
	if e.rules.Contains(l.At(x, y)) {
		match = e.rules.Contains
	}
	cells := region(l, x, y, match)
	if len(cells) <= 1 {
		return nil
	}

	forced := make(map[int]bool, len(cells))
	for _, idx := range cells {
		forced[idx] = true
	}

	var writes []Write
	for _, idx := range cells {
		cx, cy := idx%w, idx/w
		if id, ok := e.rules.TileFor(e.mask(l, forced, cx, cy)); ok {
			writes = append(writes, Write{X: cx, Y: cy, ID: id})
		}
	}

	seen := map[int]bool{}
	for _, idx := range cells {
		cx, cy := idx%w, idx/w
		if !onBoundary(l, forced, cx, cy) {
			continue
		}
		writes = e.rewriteNeighbors(l, forced, cx, cy, forced, seen, writes)
	}
	return writes
}

// onBoundary reports whether a filled cell has at least one 4-neighbor
// outside the fill region (or outside the grid).
func onBoundary(l *level.Layer, forced map[int]bool, x, y int) bool {
	for _, d := range [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
		nx, ny := x+d[0], y+d[1]
		if !l.InBounds(nx, ny) {
			return true
		}
		if !forced[l.Index(nx, ny)] {
			return true
		}
	}
	return false
}
