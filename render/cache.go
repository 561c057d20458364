// Package render caches per-chunk rendered output so edits only redraw
// the chunks they touch, and culls drawing to the visible viewport.
package render

import "github.com/Long-Lost-AS/LostEditor/level"

// ChunkSize is the chunk edge length in cells.
const ChunkSize = 64

// Cell is a grid coordinate.
type Cell struct {
	X, Y int
}

// chunkKey is the one canonical cache key. Every read, invalidate and
// drop path goes through it so call sites cannot disagree on identity.
type chunkKey struct {
	layer  level.LayerID
	cx, cy int
}

// ChunkCoord maps a cell coordinate to its owning chunk.
func ChunkCoord(x, y int) (cx, cy int) {
	return floorDiv(x, ChunkSize), floorDiv(y, ChunkSize)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Stats counts cache traffic since construction.
type Stats struct {
	Hits    int
	Misses  int
	Renders int
	Size    int
}

type chunk[S any] struct {
	surface S
	dirty   bool
}

// Cache holds one rendered surface per (layer, chunk). It is generic
// over the surface type; the shell instantiates it with ebiten images
// while logic tests use plain values. Single-writer, like the rest of
// the editing core.
type Cache[S any] struct {
	newSurface func(w, h int) S
	chunks     map[chunkKey]*chunk[S]
	stats      Stats
}

// NewCache returns an empty cache allocating surfaces via newSurface.
func NewCache[S any](newSurface func(w, h int) S) *Cache[S] {
	return &Cache[S]{
		newSurface: newSurface,
		chunks:     make(map[chunkKey]*chunk[S]),
	}
}

// ChunkImage returns the surface for a chunk, calling render to
// (re)populate it only when the chunk is missing or dirty. A clean
// chunk comes back untouched, identity included.
func (c *Cache[S]) ChunkImage(layerID level.LayerID, cx, cy, w, h int, render func(S)) S {
	key := chunkKey{layer: layerID, cx: cx, cy: cy}
	ch, ok := c.chunks[key]
	if ok && !ch.dirty {
		c.stats.Hits++
		return ch.surface
	}
	c.stats.Misses++
	if !ok {
		ch = &chunk[S]{surface: c.newSurface(w, h)}
		c.chunks[key] = ch
	}
	render(ch.surface)
	ch.dirty = false
	c.stats.Renders++
	return ch.surface
}

// InvalidateTiles marks dirty every chunk of the layer owning at least
// one of the given cells. Chunks not yet cached need nothing.
func (c *Cache[S]) InvalidateTiles(layerID level.LayerID, cells []Cell) {
	for _, cell := range cells {
		cx, cy := ChunkCoord(cell.X, cell.Y)
		if ch, ok := c.chunks[chunkKey{layer: layerID, cx: cx, cy: cy}]; ok {
			ch.dirty = true
		}
	}
}

// InvalidateLayer marks every cached chunk of one layer dirty.
func (c *Cache[S]) InvalidateLayer(layerID level.LayerID) {
	for key, ch := range c.chunks {
		if key.layer == layerID {
			ch.dirty = true
		}
	}
}

// InvalidateAll marks every cached chunk dirty. Used on structural
// changes: layer add/remove/reorder, grid resize.
func (c *Cache[S]) InvalidateAll() {
	for _, ch := range c.chunks {
		ch.dirty = true
	}
}

// DropLayer discards all cached surfaces of one layer.
func (c *Cache[S]) DropLayer(layerID level.LayerID) {
	for key := range c.chunks {
		if key.layer == layerID {
			delete(c.chunks, key)
		}
	}
}

// Drop discards every cached surface.
func (c *Cache[S]) Drop() {
	c.chunks = make(map[chunkKey]*chunk[S])
}

// Stats returns traffic counters plus the current chunk count.
func (c *Cache[S]) Stats() Stats {
	s := c.stats
	s.Size = len(c.chunks)
	return s
}
