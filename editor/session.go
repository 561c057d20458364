// Package editor ties the editing core together: one Session owns the
// committed map state, routes edits through the undoable store, and
// keeps the chunk cache honest about what changed.
package editor

import (
	"log"

	"github.com/Long-Lost-AS/LostEditor/history"
	"github.com/Long-Lost-AS/LostEditor/level"
	"github.com/Long-Lost-AS/LostEditor/render"
	"github.com/Long-Lost-AS/LostEditor/terrain"
	"github.com/Long-Lost-AS/LostEditor/tile"
)

// CacheHooks is the invalidation surface the session drives. The chunk
// cache satisfies it; tests pass a recorder.
type CacheHooks interface {
	InvalidateTiles(layerID level.LayerID, cells []render.Cell)
	InvalidateLayer(layerID level.LayerID)
	InvalidateAll()
	DropLayer(layerID level.LayerID)
}

// Camera is the view state: canvas-space top-left plus zoom. It never
// enters undo history.
type Camera struct {
	X, Y float64
	Zoom float64
}

// Session is the single writer over the map, the history store and the
// cache. Committed state flows through the store as whole-map
// snapshots; transient state (open stroke, camera gesture) lives here
// and merges in at gesture end.
type Session struct {
	store    *history.Store[*level.Map]
	registry *level.Registry
	terrains map[string]*terrain.RuleSet
	cache    CacheHooks

	active     level.LayerID
	brush      tile.ID
	strokeBase *level.Map

	camera        Camera
	gesture       bool
	gestureCamera Camera

	redrawPending bool
}

// NewSession wraps a bound map. cache may be nil when no presentation
// layer is attached.
func NewSession(m *level.Map, registry *level.Registry, cache CacheHooks) *Session {
	s := &Session{
		store: history.New(m,
			history.WithClone(func(v *level.Map) *level.Map { return v.Clone() })),
		registry: registry,
		terrains: make(map[string]*terrain.RuleSet),
		cache:    cache,
		camera:   Camera{Zoom: 1},
	}
	if len(m.Layers) > 0 {
		s.active = m.Layers[0].ID
	}
	return s
}

// Map returns the committed map. Callers must treat it as read-only;
// edits go through session operations.
func (s *Session) Map() *level.Map { return s.store.Present() }

// Registry returns the tileset registry the session resolves against.
func (s *Session) Registry() *level.Registry { return s.registry }

// RegisterTerrain makes a rule set available by name.
func (s *Session) RegisterTerrain(rs *terrain.RuleSet) {
	s.terrains[rs.Name] = rs
}

// Terrain returns a registered rule set.
func (s *Session) Terrain(name string) (*terrain.RuleSet, bool) {
	rs, ok := s.terrains[name]
	return rs, ok
}

// SetActiveLayer selects the layer edits apply to.
func (s *Session) SetActiveLayer(id level.LayerID) bool {
	if s.Map().Layer(id) == nil {
		log.Printf("editor: no layer %q", id)
		return false
	}
	s.active = id
	return true
}

// ActiveLayer returns the id of the layer edits apply to.
func (s *Session) ActiveLayer() level.LayerID { return s.active }

// SetBrush selects the packed tile painted by plain operations.
func (s *Session) SetBrush(id tile.ID) { s.brush = id }

// Brush returns the current paint tile.
func (s *Session) Brush() tile.ID { return s.brush }

func (s *Session) activeLayer() *level.Layer {
	l := s.Map().Layer(s.active)
	if l == nil {
		log.Printf("editor: active layer %q missing", s.active)
	}
	return l
}

// engineFor returns a terrain engine when the layer is in autotile
// mode and its terrain is registered.
func (s *Session) engineFor(l *level.Layer) *terrain.Engine {
	if !l.Autotile || l.Terrain == "" {
		return nil
	}
	rs, ok := s.terrains[l.Terrain]
	if !ok {
		log.Printf("editor: layer %q references unknown terrain %q", l.ID, l.Terrain)
		return nil
	}
	return terrain.NewEngine(rs)
}

// applyWrites clones the committed map, lands the writes on the active
// layer and commits the clone, invalidating exactly the touched cells.
func (s *Session) applyWrites(writes []terrain.Write) {
	if len(writes) == 0 {
		return
	}
	m := s.Map().Clone()
	l := m.Layer(s.active)
	if l == nil {
		return
	}
	cells := make([]render.Cell, 0, len(writes))
	for _, w := range writes {
		l.Set(w.X, w.Y, w.ID)
		cells = append(cells, render.Cell{X: w.X, Y: w.Y})
	}
	// A rejected set means nothing changed on screen either.
	if !s.store.Set(m) {
		return
	}
	if s.cache != nil {
		s.cache.InvalidateTiles(s.active, cells)
	}
	s.RequestRedraw()
}

// Place writes one packed tile at x,y on the active layer.
func (s *Session) Place(x, y int, id tile.ID) {
	l := s.activeLayer()
	if l == nil || !l.InBounds(x, y) {
		return
	}
	s.applyWrites([]terrain.Write{{X: x, Y: y, ID: id}})
}

// PlaceTerrain paints the named terrain at x,y, rippling neighbor
// variants.
func (s *Session) PlaceTerrain(x, y int, name string) {
	l := s.activeLayer()
	if l == nil {
		return
	}
	rs, ok := s.terrains[name]
	if !ok {
		log.Printf("editor: unknown terrain %q", name)
		return
	}
	s.applyWrites(terrain.NewEngine(rs).Place(l, x, y))
}

// Paint applies the layer's preferred payload at x,y: terrain when the
// layer autotiles, the brush tile otherwise. Drag strokes and macros
// both funnel through here.
func (s *Session) Paint(x, y int) {
	l := s.activeLayer()
	if l == nil {
		return
	}
	if eng := s.engineFor(l); eng != nil {
		s.applyWrites(eng.Place(l, x, y))
		return
	}
	s.Place(x, y, s.brush)
}

// Erase clears the cell at x,y, rippling terrain neighbors when the
// layer autotiles.
func (s *Session) Erase(x, y int) {
	l := s.activeLayer()
	if l == nil || !l.InBounds(x, y) {
		return
	}
	if eng := s.engineFor(l); eng != nil {
		s.applyWrites(eng.Erase(l, x, y))
		return
	}
	s.applyWrites([]terrain.Write{{X: x, Y: y, ID: tile.Empty}})
}

// EraseBatch clears many cells in one commit. Out-of-bounds cells are
// skipped.
func (s *Session) EraseBatch(cells []render.Cell) {
	l := s.activeLayer()
	if l == nil {
		return
	}
	writes := make([]terrain.Write, 0, len(cells))
	for _, c := range cells {
		if !l.InBounds(c.X, c.Y) {
			continue
		}
		writes = append(writes, terrain.Write{X: c.X, Y: c.Y, ID: tile.Empty})
	}
	s.applyWrites(writes)
}

// Fill flood-fills from x,y: terrain mode when the layer autotiles,
// otherwise the brush tile over the connected region.
func (s *Session) Fill(x, y int) {
	l := s.activeLayer()
	if l == nil {
		return
	}
	if eng := s.engineFor(l); eng != nil {
		s.applyWrites(eng.Fill(l, x, y))
		return
	}
	s.applyWrites(terrain.FloodFill(l, x, y, s.brush))
}

// StartStroke opens a gesture batch: every edit until EndStroke
// undoes as one step.
func (s *Session) StartStroke() {
	if s.store.Batching() {
		log.Printf("editor: stroke already open")
		return
	}
	s.strokeBase = s.Map().Clone()
	s.store.StartBatch()
}

// EndStroke commits the open gesture batch.
func (s *Session) EndStroke() {
	s.store.EndBatch()
	s.strokeBase = nil
}

// CancelStroke rolls the map back to the stroke's starting state and
// closes the batch, so an aborted drag leaves no history entry.
func (s *Session) CancelStroke() {
	if !s.store.Batching() || s.strokeBase == nil {
		log.Printf("editor: no stroke to cancel")
		return
	}
	changed := s.store.Set(s.strokeBase)
	s.strokeBase = nil
	s.store.EndBatch()
	if !changed {
		return
	}
	if s.cache != nil {
		s.cache.InvalidateLayer(s.active)
	}
	s.RequestRedraw()
}

// Stroking reports whether a gesture batch is open.
func (s *Session) Stroking() bool { return s.store.Batching() }

// Undo steps history back one entry.
func (s *Session) Undo() bool {
	if !s.store.Undo() {
		return false
	}
	if s.cache != nil {
		s.cache.InvalidateAll()
	}
	s.RequestRedraw()
	return true
}

// Redo steps history forward one entry.
func (s *Session) Redo() bool {
	if !s.store.Redo() {
		return false
	}
	if s.cache != nil {
		s.cache.InvalidateAll()
	}
	s.RequestRedraw()
	return true
}

// CanUndo reports whether an undo step exists.
func (s *Session) CanUndo() bool { return s.store.CanUndo() }

// CanRedo reports whether a redo step exists.
func (s *Session) CanRedo() bool { return s.store.CanRedo() }

// structural commits a whole-map mutation and invalidates everything.
func (s *Session) structural(mutate func(m *level.Map)) {
	m := s.Map().Clone()
	mutate(m)
	if !s.store.Set(m) {
		return
	}
	if s.cache != nil {
		s.cache.InvalidateAll()
	}
	s.RequestRedraw()
}

// AddLayer appends a tile layer and makes it active.
func (s *Session) AddLayer(id level.LayerID, name string) {
	s.structural(func(m *level.Map) { m.AddLayer(id, name) })
	s.active = id
}

// RemoveLayer deletes a layer and drops its cached chunks.
func (s *Session) RemoveLayer(id level.LayerID) {
	s.structural(func(m *level.Map) { m.RemoveLayer(id) })
	if s.cache != nil {
		s.cache.DropLayer(id)
	}
	if s.active == id {
		s.active = ""
		if m := s.Map(); len(m.Layers) > 0 {
			s.active = m.Layers[0].ID
		}
	}
}

// MoveLayer shifts a layer within the draw order.
func (s *Session) MoveLayer(i, delta int) {
	s.structural(func(m *level.Map) { m.MoveLayer(i, delta) })
}

// Resize changes the grid size, preserving overlapping cells.
func (s *Session) Resize(w, h int) {
	s.structural(func(m *level.Map) { m.Resize(w, h) })
}

// RequestRedraw schedules one re-render. Repeat requests before the
// next ConsumeRedraw collapse.
func (s *Session) RequestRedraw() { s.redrawPending = true }

// ConsumeRedraw reports and clears the pending redraw request. The
// frame loop calls it once per frame.
func (s *Session) ConsumeRedraw() bool {
	pending := s.redrawPending
	s.redrawPending = false
	return pending
}

// Camera returns the effective camera: the transient gesture value
// while a gesture is active, the committed value otherwise.
func (s *Session) Camera() Camera {
	if s.gesture {
		return s.gestureCamera
	}
	return s.camera
}

// SetCamera updates the camera. During a gesture only the transient
// value moves; the committed value changes at EndCameraGesture.
func (s *Session) SetCamera(c Camera) {
	if c.Zoom <= 0 {
		c.Zoom = 1
	}
	if s.gesture {
		s.gestureCamera = c
	} else {
		s.camera = c
	}
	s.RequestRedraw()
}

// BeginCameraGesture starts pan/zoom tracking at input rate.
func (s *Session) BeginCameraGesture() {
	if s.gesture {
		return
	}
	s.gesture = true
	s.gestureCamera = s.camera
}

// EndCameraGesture commits the gesture's final camera as one value.
func (s *Session) EndCameraGesture() {
	if !s.gesture {
		return
	}
	s.gesture = false
	s.camera = s.gestureCamera
	s.RequestRedraw()
}

// CancelCameraGesture discards the transient camera.
func (s *Session) CancelCameraGesture() {
	if !s.gesture {
		return
	}
	s.gesture = false
	s.RequestRedraw()
}

// Viewport builds the culling viewport for the current camera.
func (s *Session) Viewport(screenW, screenH int) render.Viewport {
	c := s.Camera()
	return render.Viewport{X: c.X, Y: c.Y, Zoom: c.Zoom, ScreenW: screenW, ScreenH: screenH}
}

// Render is the pull-based draw query: the presentation layer calls it
// each frame to get the visible chunks' draw commands.
func (s *Session) Render(r *render.Renderer, screenW, screenH int) []render.DrawCommand {
	return r.Frame(s.Map(), s.Viewport(screenW, screenH))
}
