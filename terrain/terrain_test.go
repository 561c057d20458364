package terrain

import (
	"testing"

	"github.com/Long-Lost-AS/LostEditor/level"
	"github.com/Long-Lost-AS/LostEditor/tile"
)

// blobTiles returns 47 distinct packed ids, one per blob mask slot.
func blobTiles(t *testing.T) []tile.ID {
	t.Helper()
	tiles := make([]tile.ID, len(BlobMaskOrder))
	for i := range tiles {
		tiles[i] = tile.MustPack(i%8, i/8, tile.IndexRef(0), false, false)
	}
	return tiles
}

func blobSet(t *testing.T) (*RuleSet, []tile.ID) {
	t.Helper()
	tiles := blobTiles(t)
	rs, err := BlobRuleSet("grass", tile.IndexRef(0), tiles)
	if err != nil {
		t.Fatalf("BlobRuleSet: %v", err)
	}
	return rs, tiles
}

// blobIndex finds a mask's slot in the canonical order.
func blobIndex(t *testing.T, mask uint8) int {
	t.Helper()
	for i, m := range BlobMaskOrder {
		if m == mask {
			return i
		}
	}
	t.Fatalf("mask %d not in blob order", mask)
	return -1
}

func TestTileForFallbackChain(t *testing.T) {
	t0 := tile.MustPack(0, 0, tile.IndexRef(0), false, false)
	t1 := tile.MustPack(1, 0, tile.IndexRef(0), false, false)
	t2 := tile.MustPack(2, 0, tile.IndexRef(0), false, false)
	rs := NewRuleSet("t", tile.IndexRef(0), []Rule{
		{Mask: 0, Tile: t0},
		{Mask: MaskN, Tile: t1},
		{Mask: MaskN | MaskE, Tile: t2},
	})

	tests := []struct {
		name string
		mask uint8
		want tile.ID
	}{
		{"exact", MaskN, t1},
		{"corners cleared", MaskN | MaskE | MaskNE, t2},
		{"maximal subset", MaskN | MaskS, t1},
		{"falls to mask zero", MaskS, t0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := rs.TileFor(tt.mask)
			if !ok || got != tt.want {
				t.Fatalf("TileFor(%d) = %v, %v; want %v", tt.mask, got, ok, tt.want)
			}
		})
	}

	noZero := NewRuleSet("t", tile.IndexRef(0), []Rule{{Mask: MaskN, Tile: t1}})
	if _, ok := noZero.TileFor(MaskS); ok {
		t.Fatal("TileFor matched with no compatible rule")
	}
}

func TestPlacePropagatesToNeighbors(t *testing.T) {
	rs, tiles := blobSet(t)
	eng := NewEngine(rs)

	l := level.NewTileLayer("ground", "Ground", 3, 3)
	member := tiles[blobIndex(t, 0)]
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if x != 1 || y != 1 {
				l.Set(x, y, member)
			}
		}
	}

	writes := eng.Place(l, 1, 1)
	if len(writes) != 9 {
		t.Fatalf("got %d writes, want 9", len(writes))
	}

	byCell := map[[2]int]tile.ID{}
	for _, w := range writes {
		byCell[[2]int{w.X, w.Y}] = w.ID
	}
	if got := byCell[[2]int{1, 1}]; got != tiles[blobIndex(t, 255)] {
		t.Fatalf("center = %v, want fully surrounded variant", got)
	}
	if got := byCell[[2]int{0, 0}]; got != tiles[blobIndex(t, MaskE|MaskS|MaskSE)] {
		t.Fatalf("corner = %v, want E|S|SE variant", got)
	}
	if got := byCell[[2]int{1, 0}]; got != tiles[blobIndex(t, MaskE|MaskS|MaskW|MaskSE|MaskSW)] {
		t.Fatalf("top edge = %v, want E|S|W|SE|SW variant", got)
	}
}

func TestEraseRewritesSurvivors(t *testing.T) {
	rs, tiles := blobSet(t)
	eng := NewEngine(rs)

	l := level.NewTileLayer("ground", "Ground", 3, 3)
	member := tiles[0]
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			l.Set(x, y, member)
		}
	}

	writes := eng.Erase(l, 1, 1)
	if len(writes) != 9 {
		t.Fatalf("got %d writes, want 9", len(writes))
	}
	if writes[0].X != 1 || writes[0].Y != 1 || writes[0].ID != tile.Empty {
		t.Fatalf("first write = %+v, want center cleared", writes[0])
	}

	byCell := map[[2]int]tile.ID{}
	for _, w := range writes {
		byCell[[2]int{w.X, w.Y}] = w.ID
	}
	// The hole removes S from the top edge's mask and the SE corner
	// support from the top-left.
	if got := byCell[[2]int{1, 0}]; got != tiles[blobIndex(t, MaskE|MaskW)] {
		t.Fatalf("top edge = %v, want E|W variant", got)
	}
	if got := byCell[[2]int{0, 0}]; got != tiles[blobIndex(t, MaskE|MaskS)] {
		t.Fatalf("corner = %v, want E|S variant", got)
	}
}

func TestPlaceOutOfBoundsAndEmptyRules(t *testing.T) {
	rs, _ := blobSet(t)
	l := level.NewTileLayer("ground", "Ground", 3, 3)

	if w := NewEngine(rs).Place(l, -1, 0); w != nil {
		t.Fatalf("out-of-bounds place produced %d writes", len(w))
	}
	empty := NewRuleSet("none", tile.IndexRef(0), nil)
	if w := NewEngine(empty).Place(l, 1, 1); w != nil {
		t.Fatalf("empty rule set produced %d writes", len(w))
	}
}

func TestFillTerrainRegion(t *testing.T) {
	rs, tiles := blobSet(t)
	eng := NewEngine(rs)

	l := level.NewTileLayer("ground", "Ground", 3, 3)
	writes := eng.Fill(l, 1, 1)
	if len(writes) != 9 {
		t.Fatalf("got %d writes, want 9", len(writes))
	}

	byCell := map[[2]int]tile.ID{}
	for _, w := range writes {
		byCell[[2]int{w.X, w.Y}] = w.ID
	}
	if got := byCell[[2]int{1, 1}]; got != tiles[blobIndex(t, 255)] {
		t.Fatalf("center = %v, want fully surrounded variant", got)
	}
	if got := byCell[[2]int{0, 0}]; got != tiles[blobIndex(t, MaskE|MaskS|MaskSE)] {
		t.Fatalf("corner = %v, want E|S|SE variant", got)
	}
}

func TestFillSpansTerrainVariants(t *testing.T) {
	rs, tiles := blobSet(t)
	eng := NewEngine(rs)

	// A painted area never holds one uniform variant; the fill region
	// is the connected terrain membership, not a single packed id.
	l := level.NewTileLayer("ground", "Ground", 2, 1)
	l.Set(0, 0, tiles[blobIndex(t, MaskE)])
	l.Set(1, 0, tiles[blobIndex(t, MaskW)])

	writes := eng.Fill(l, 0, 0)
	if len(writes) != 2 {
		t.Fatalf("got %d writes, want 2", len(writes))
	}
	byCell := map[[2]int]tile.ID{}
	for _, w := range writes {
		byCell[[2]int{w.X, w.Y}] = w.ID
	}
	if got := byCell[[2]int{0, 0}]; got != tiles[blobIndex(t, MaskE)] {
		t.Fatalf("left = %v, want E variant", got)
	}
	if got := byCell[[2]int{1, 0}]; got != tiles[blobIndex(t, MaskW)] {
		t.Fatalf("right = %v, want W variant", got)
	}
}

func TestFillTileConnectivity(t *testing.T) {
	rs, _ := blobSet(t)
	eng := NewEngine(rs)

	a := tile.MustPack(0, 1, tile.IndexRef(1), false, false)
	b := tile.MustPack(1, 1, tile.IndexRef(1), false, false)
	c := tile.MustPack(2, 1, tile.IndexRef(1), false, false)

	l := level.NewTileLayer("ground", "Ground", 5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			l.Set(x, y, a)
		}
	}
	l.Set(2, 2, b)
	l.Set(4, 4, b)

	writes := eng.FillTile(l, 0, 0, c)
	if len(writes) != 23 {
		t.Fatalf("got %d writes, want 23", len(writes))
	}
	for _, w := range writes {
		if w.ID != c {
			t.Fatalf("write %+v carries wrong id", w)
		}
		if (w.X == 2 && w.Y == 2) || (w.X == 4 && w.Y == 4) {
			t.Fatalf("fill crossed boundary into (%d,%d)", w.X, w.Y)
		}
	}
}

func TestFillNoOps(t *testing.T) {
	rs, _ := blobSet(t)
	eng := NewEngine(rs)

	a := tile.MustPack(0, 1, tile.IndexRef(1), false, false)
	b := tile.MustPack(1, 1, tile.IndexRef(1), false, false)

	l := level.NewTileLayer("ground", "Ground", 3, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			l.Set(x, y, a)
		}
	}
	l.Set(1, 1, b)

	if w := eng.FillTile(l, 0, 0, a); w != nil {
		t.Fatalf("same-value fill produced %d writes", len(w))
	}
	if w := eng.FillTile(l, 1, 1, a); w != nil {
		t.Fatalf("single-cell region fill produced %d writes", len(w))
	}
	if w := eng.Fill(l, 1, 1); w != nil {
		t.Fatalf("single-cell terrain fill produced %d writes", len(w))
	}
}

func TestFromDef(t *testing.T) {
	def := level.TerrainDef{
		Name: "walls",
		Rules: []level.MaskRule{
			{Mask: 0, Tile: 9},
			{Mask: 255, Tile: 0},
		},
	}
	rs, err := FromDef(def, tile.HashRef("dungeon"), 8)
	if err != nil {
		t.Fatalf("FromDef: %v", err)
	}

	want := tile.MustPack(1, 1, tile.HashRef("dungeon"), false, false)
	if got, ok := rs.TileFor(0); !ok || got != want {
		t.Fatalf("TileFor(0) = %v, %v; want %v", got, ok, want)
	}
	if !rs.Contains(want) {
		t.Fatal("rule tile not a member")
	}

	if _, err := FromDef(def, tile.HashRef("dungeon"), 0); err == nil {
		t.Fatal("FromDef accepted zero columns")
	}
}

func TestBlobRuleSetLength(t *testing.T) {
	if _, err := BlobRuleSet("grass", tile.IndexRef(0), make([]tile.ID, 3)); err == nil {
		t.Fatal("BlobRuleSet accepted short tile list")
	}
}
