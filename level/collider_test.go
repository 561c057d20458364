package level

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func TestColliderAt(t *testing.T) {
	m := NewMap(4, 4, 16)
	m.Colliders = []Collider{
		{Name: "degenerate", Points: []cp.Vector{{X: 0, Y: 0}, {X: 10, Y: 10}}},
		{Name: "box", Points: []cp.Vector{
			{X: 10, Y: 10}, {X: 30, Y: 10}, {X: 30, Y: 30}, {X: 10, Y: 30},
		}},
		{Name: "tri", Points: []cp.Vector{
			{X: 40, Y: 0}, {X: 60, Y: 0}, {X: 50, Y: 20},
		}},
	}

	tests := []struct {
		name string
		x, y float64
		want int
	}{
		{"inside box", 20, 20, 1},
		{"inside triangle", 50, 5, 2},
		{"triangle bb but outside poly", 41, 19, -1},
		{"outside all", 100, 100, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColliderAt(m, tt.x, tt.y); got != tt.want {
				t.Fatalf("ColliderAt(%v, %v) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestBuildSpaceSkipsDegenerate(t *testing.T) {
	m := NewMap(4, 4, 16)
	m.Colliders = []Collider{
		{Points: []cp.Vector{{X: 0, Y: 0}, {X: 1, Y: 1}}},
		{Points: []cp.Vector{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 8, Y: 8}}},
	}

	space := BuildSpace(m)

	count := 0
	space.EachShape(func(*cp.Shape) { count++ })
	if count != 1 {
		t.Fatalf("space has %d shapes, want 1", count)
	}
}

func TestColliderCloneIsDeep(t *testing.T) {
	c := Collider{Name: "a", Points: []cp.Vector{{X: 1, Y: 2}}}
	d := c.Clone()
	d.Points[0].X = 99
	if c.Points[0].X != 1 {
		t.Fatal("clone shares points")
	}
}
