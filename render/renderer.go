package render

import (
	"image"
	"log"

	"github.com/Long-Lost-AS/LostEditor/level"
	"github.com/hajimehoshi/ebiten/v2"
)

// DrawCommand is one screen-space draw the presentation layer issues.
type DrawCommand struct {
	Image   *ebiten.Image
	Options ebiten.DrawImageOptions
}

// Renderer turns map layers into chunk surfaces and per-frame draw
// commands. Tileset images are registered by tileset name; a cell
// whose tileset or image is missing is skipped, never fatal.
type Renderer struct {
	cache    *Cache[*ebiten.Image]
	registry *level.Registry
	images   map[string]*ebiten.Image
}

func NewRenderer(registry *level.Registry) *Renderer {
	return &Renderer{
		cache:    NewCache(func(w, h int) *ebiten.Image { return ebiten.NewImage(w, h) }),
		registry: registry,
		images:   make(map[string]*ebiten.Image),
	}
}

// SetImage registers the pixel source for a tileset name.
func (r *Renderer) SetImage(name string, img *ebiten.Image) {
	r.images[name] = img
}

// Cache exposes the chunk cache for invalidation hooks.
func (r *Renderer) Cache() *Cache[*ebiten.Image] { return r.cache }

// Frame returns the draw commands for every visible chunk of every
// visible tile layer, in layer order.
func (r *Renderer) Frame(m *level.Map, vp Viewport) []DrawCommand {
	minCX, minCY, maxCX, maxCY := vp.ChunkRange(m.CellSize)
	maxChunkX, maxChunkY := ChunkCoord(m.Width-1, m.Height-1)
	if minCX < 0 {
		minCX = 0
	}
	if minCY < 0 {
		minCY = 0
	}
	if maxCX > maxChunkX {
		maxCX = maxChunkX
	}
	if maxCY > maxChunkY {
		maxCY = maxChunkY
	}

	zoom := vp.zoom()
	chunkPx := ChunkSize * m.CellSize
	var cmds []DrawCommand
	for _, l := range m.Layers {
		if l.Kind != level.KindTile || !l.Visible {
			continue
		}
		for cy := minCY; cy <= maxCY; cy++ {
			for cx := minCX; cx <= maxCX; cx++ {
				surface := r.cache.ChunkImage(l.ID, cx, cy, chunkPx, chunkPx, func(img *ebiten.Image) {
					r.drawChunk(img, m, l, cx, cy)
				})

				var op ebiten.DrawImageOptions
				op.GeoM.Scale(zoom, zoom)
				op.GeoM.Translate(
					(float64(cx*chunkPx)-vp.X)*zoom,
					(float64(cy*chunkPx)-vp.Y)*zoom,
				)
				cmds = append(cmds, DrawCommand{Image: surface, Options: op})
			}
		}
	}
	return cmds
}

// drawChunk repaints one chunk surface from the layer's cells.
func (r *Renderer) drawChunk(dst *ebiten.Image, m *level.Map, l *level.Layer, cx, cy int) {
	dst.Clear()
	x0, y0 := cx*ChunkSize, cy*ChunkSize
	for y := y0; y < y0+ChunkSize && y < m.Height; y++ {
		for x := x0; x < x0+ChunkSize && x < m.Width; x++ {
			id := l.At(x, y)
			if id.IsEmpty() {
				continue
			}

			ts, ok := r.registry.Resolve(id.Ref())
			if !ok {
				log.Printf("render: unresolved tileset ref for cell (%d,%d) on layer %s", x, y, l.ID)
				continue
			}
			img, ok := r.images[ts.Name]
			if ok {
				ok = img != nil
			}
			if !ok {
				log.Printf("render: no image for tileset %q", ts.Name)
				continue
			}

			localX, localY := id.Local()
			sx, sy := localX*ts.TileW, localY*ts.TileH
			if sx+ts.TileW > img.Bounds().Dx() || sy+ts.TileH > img.Bounds().Dy() {
				log.Printf("render: tile (%d,%d) outside tileset %q", localX, localY, ts.Name)
				continue
			}
			sub, ok := img.SubImage(image.Rect(sx, sy, sx+ts.TileW, sy+ts.TileH)).(*ebiten.Image)
			if !ok {
				continue
			}

			flipX, flipY := id.Flipped()
			var op ebiten.DrawImageOptions
			if flipX {
				op.GeoM.Scale(-1, 1)
				op.GeoM.Translate(float64(ts.TileW), 0)
			}
			if flipY {
				op.GeoM.Scale(1, -1)
				op.GeoM.Translate(0, float64(ts.TileH))
			}
			op.GeoM.Scale(float64(m.CellSize)/float64(ts.TileW), float64(m.CellSize)/float64(ts.TileH))
			op.GeoM.Translate(float64((x-x0)*m.CellSize), float64((y-y0)*m.CellSize))
			dst.DrawImage(sub, &op)
		}
	}
}
