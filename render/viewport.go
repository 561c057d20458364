package render

import "math"

// Viewport is the camera state the draw pass culls against. X, Y are
// the canvas-space coordinates of the screen's top-left corner; Zoom
// scales canvas pixels to screen pixels.
type Viewport struct {
	X, Y    float64
	Zoom    float64
	ScreenW int
	ScreenH int
}

// ScreenToCanvas converts a screen position to canvas pixels.
func (v Viewport) ScreenToCanvas(sx, sy float64) (float64, float64) {
	zoom := v.zoom()
	return sx/zoom + v.X, sy/zoom + v.Y
}

// CanvasToScreen converts a canvas position to screen pixels.
func (v Viewport) CanvasToScreen(cx, cy float64) (float64, float64) {
	zoom := v.zoom()
	return (cx - v.X) * zoom, (cy - v.Y) * zoom
}

// Cell returns the grid cell under a screen position.
func (v Viewport) Cell(sx, sy float64, cellSize int) (int, int) {
	cx, cy := v.ScreenToCanvas(sx, sy)
	return int(math.Floor(cx / float64(cellSize))), int(math.Floor(cy / float64(cellSize)))
}

// CellRange returns the inclusive cell range intersecting the screen.
// The range is not clamped to any grid; callers skip out-of-bounds
// cells.
func (v Viewport) CellRange(cellSize int) (minX, minY, maxX, maxY int) {
	zoom := v.zoom()
	cs := float64(cellSize)
	minX = int(math.Floor(v.X / cs))
	minY = int(math.Floor(v.Y / cs))
	maxX = int(math.Floor((v.X + float64(v.ScreenW)/zoom) / cs))
	maxY = int(math.Floor((v.Y + float64(v.ScreenH)/zoom) / cs))
	return minX, minY, maxX, maxY
}

// ChunkRange returns the inclusive chunk range intersecting the
// screen, derived from CellRange so the two can never disagree.
func (v Viewport) ChunkRange(cellSize int) (minCX, minCY, maxCX, maxCY int) {
	minX, minY, maxX, maxY := v.CellRange(cellSize)
	minCX, minCY = ChunkCoord(minX, minY)
	maxCX, maxCY = ChunkCoord(maxX, maxY)
	return minCX, minCY, maxCX, maxCY
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}
