package history

import "testing"

func TestUndoRedoInverse(t *testing.T) {
	s := New(0)
	for i := 1; i <= 4; i++ {
		s.Set(i)
	}

	for i := 3; i >= 0; i-- {
		if !s.Undo() {
			t.Fatalf("Undo failed at expected state %d", i)
		}
		if got := s.Present(); got != i {
			t.Fatalf("Present = %d, want %d", got, i)
		}
	}
	if s.CanUndo() {
		t.Fatal("CanUndo true at exhausted end")
	}
	if s.Undo() {
		t.Fatal("Undo succeeded with empty past")
	}

	for i := 1; i <= 4; i++ {
		if !s.Redo() {
			t.Fatalf("Redo failed at expected state %d", i)
		}
		if got := s.Present(); got != i {
			t.Fatalf("Present = %d, want %d", got, i)
		}
	}
	if s.CanRedo() {
		t.Fatal("CanRedo true at exhausted end")
	}
	if s.Redo() {
		t.Fatal("Redo succeeded with empty future")
	}
}

func TestSetClearsFuture(t *testing.T) {
	s := New(0)
	s.Set(1)
	s.Set(2)
	s.Undo()
	s.Set(9)

	if s.CanRedo() {
		t.Fatal("future survived a fresh set")
	}
	s.Undo()
	if got := s.Present(); got != 1 {
		t.Fatalf("Present = %d, want 1", got)
	}
}

func TestBatchCollapsesToOneEntry(t *testing.T) {
	s := New(0)
	s.StartBatch()
	if !s.Batching() {
		t.Fatal("Batching false inside batch")
	}
	s.Set(1)
	s.Set(2)
	s.Set(3)
	s.EndBatch()

	if got := s.Present(); got != 3 {
		t.Fatalf("Present = %d, want 3", got)
	}
	if !s.Undo() {
		t.Fatal("Undo failed after batch")
	}
	if got := s.Present(); got != 0 {
		t.Fatalf("one undo landed on %d, want pre-batch 0", got)
	}
	if !s.Redo() {
		t.Fatal("Redo failed after batch undo")
	}
	if got := s.Present(); got != 3 {
		t.Fatalf("redo landed on %d, want 3", got)
	}
}

func TestEmptyBatchLeavesHistoryUntouched(t *testing.T) {
	s := New(5)
	s.Set(6)
	s.StartBatch()
	s.Set(7)
	s.Set(6)
	s.EndBatch()

	if s.CanRedo() {
		t.Fatal("collapsed batch left a future")
	}
	s.Undo()
	if got := s.Present(); got != 5 {
		t.Fatalf("undo after empty batch landed on %d, want 5", got)
	}
}

func TestDeepEqualNoOp(t *testing.T) {
	type state struct{ Tiles []int }
	s := New(state{Tiles: []int{1, 2}})

	calls := 0
	s.OnChange = func(state) { calls++ }

	if s.Set(state{Tiles: []int{1, 2}}) {
		t.Fatal("equal-by-value set reported acceptance")
	}
	if s.CanUndo() {
		t.Fatal("equal-by-value set created a history entry")
	}
	if calls != 0 {
		t.Fatalf("equal-by-value set notified %d times", calls)
	}

	if !s.Set(state{Tiles: []int{1, 3}}) {
		t.Fatal("real set reported rejection")
	}
	if !s.CanUndo() || calls != 1 {
		t.Fatalf("real set: CanUndo=%v calls=%d", s.CanUndo(), calls)
	}
}

func TestLimitEvictsOldest(t *testing.T) {
	s := New(0, WithLimit[int](3))
	for i := 1; i <= 10; i++ {
		s.Set(i)
	}

	steps := 0
	for s.Undo() {
		steps++
	}
	if steps != 3 {
		t.Fatalf("undo depth = %d, want 3", steps)
	}
	if got := s.Present(); got != 7 {
		t.Fatalf("oldest reachable state = %d, want 7", got)
	}
}

func TestMisuseIsNoOp(t *testing.T) {
	s := New(0)
	s.EndBatch()
	if s.CanUndo() || s.Batching() {
		t.Fatal("stray EndBatch changed state")
	}

	s.StartBatch()
	s.StartBatch()
	s.Set(1)
	if s.Undo() {
		t.Fatal("Undo succeeded mid-batch")
	}
	if s.Redo() {
		t.Fatal("Redo succeeded mid-batch")
	}
	if got := s.Present(); got != 1 {
		t.Fatalf("misuse disturbed present: %d", got)
	}
	s.EndBatch()
	if s.Batching() {
		t.Fatal("still batching after EndBatch")
	}
	if !s.Undo() || s.Present() != 0 {
		t.Fatal("batch did not commit one entry")
	}
}

func TestWithClone(t *testing.T) {
	type state struct{ Tiles []int }
	cloned := 0
	s := New(state{Tiles: []int{1}}, WithClone(func(v state) state {
		cloned++
		out := state{Tiles: append([]int(nil), v.Tiles...)}
		return out
	}))

	s.StartBatch()
	if cloned != 1 {
		t.Fatalf("clone called %d times, want 1", cloned)
	}
	s.Set(state{Tiles: []int{2}})
	s.EndBatch()
	s.Undo()
	if got := s.Present().Tiles[0]; got != 1 {
		t.Fatalf("undo landed on %v, want pre-batch snapshot", s.Present())
	}
}
