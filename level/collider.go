package level

import "github.com/jakecoffman/cp"

// Collider is a polygon collider in map pixel space. The editing core
// only stores and hit-tests it; game-side semantics are the consumer's
// business.
type Collider struct {
	Name   string      `json:"name,omitempty"`
	Points []cp.Vector `json:"points"`
}

// Clone returns a deep copy of the collider.
func (c Collider) Clone() Collider {
	out := Collider{Name: c.Name}
	if c.Points != nil {
		out.Points = make([]cp.Vector, len(c.Points))
		copy(out.Points, c.Points)
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the polygon.
func (c Collider) Bounds() cp.BB {
	if len(c.Points) == 0 {
		return cp.BB{}
	}
	bb := cp.BB{L: c.Points[0].X, B: c.Points[0].Y, R: c.Points[0].X, T: c.Points[0].Y}
	for _, p := range c.Points[1:] {
		bb = bb.Expand(p)
	}
	return bb
}

// BuildSpace constructs a static chipmunk space holding one poly shape
// per map collider. The shell uses it for pointer hit tests on collider
// outlines; exporters hand it straight to the game runtime. Colliders
// with fewer than three points are skipped.
func BuildSpace(m *Map) *cp.Space {
	space := cp.NewSpace()
	for i := range m.Colliders {
		c := &m.Colliders[i]
		if len(c.Points) < 3 {
			continue
		}
		shape := cp.NewPolyShapeRaw(space.StaticBody, len(c.Points), c.Points, 0)
		shape.SetSensor(true)
		space.AddShape(shape)
	}
	return space
}

// ColliderAt returns the index of the first collider whose polygon
// contains the given pixel point, or -1.
func ColliderAt(m *Map, x, y float64) int {
	pt := cp.Vector{X: x, Y: y}
	for i := range m.Colliders {
		c := &m.Colliders[i]
		if len(c.Points) < 3 {
			continue
		}
		if !c.Bounds().ContainsVect(pt) {
			continue
		}
		if polyContains(c.Points, pt) {
			return i
		}
	}
	return -1
}

// polyContains is a ray-cast point-in-polygon test.
func polyContains(pts []cp.Vector, p cp.Vector) bool {
	inside := false
	j := len(pts) - 1
	for i := 0; i < len(pts); i++ {
		pi, pj := pts[i], pts[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}
