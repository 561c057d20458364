package level

// Entity is a placed entity instance. Positions are in pixel space,
// independent of the tile grid. Children are positioned relative to
// their parent.
type Entity struct {
	Type     string         `json:"type"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Props    map[string]any `json:"props,omitempty"`
	Children []Entity       `json:"children,omitempty"`
}

// Marker is a named point in pixel space.
type Marker struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func cloneEntities(src []Entity) []Entity {
	res := make([]Entity, len(src))
	for i, e := range src {
		res[i] = Entity{Type: e.Type, X: e.X, Y: e.Y}
		if e.Props != nil {
			props := make(map[string]any, len(e.Props))
			for k, v := range e.Props {
				props[k] = v
			}
			res[i].Props = props
		}
		if e.Children != nil {
			res[i].Children = cloneEntities(e.Children)
		}
	}
	return res
}

// Walk visits every entity in the hierarchy, parents before children,
// passing each entity's absolute pixel position (its own offset summed
// with all ancestor offsets). Traversal uses an explicit worklist so
// depth is bounded by heap, not stack, and visiting order is
// deterministic: document order, depth first.
func Walk(ents []Entity, fn func(e *Entity, absX, absY float64)) {
	type item struct {
		e    *Entity
		offX float64
		offY float64
	}

	stack := make([]item, 0, len(ents))
	for i := len(ents) - 1; i >= 0; i-- {
		stack = append(stack, item{e: &ents[i]})
	}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		absX := it.offX + it.e.X
		absY := it.offY + it.e.Y
		fn(it.e, absX, absY)

		for i := len(it.e.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{e: &it.e.Children[i], offX: absX, offY: absY})
		}
	}
}
