// Package history wraps a state value with bounded undo/redo and
// batched edits that collapse into one history entry.
package history

import (
	"log"
	"reflect"
)

const defaultLimit = 50

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithLimit bounds how many past states are retained; the oldest entry
// is evicted once the bound is exceeded.
func WithLimit[T any](n int) Option[T] {
	return func(s *Store[T]) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithEqual replaces the deep-equality check used to drop no-op sets.
func WithEqual[T any](eq func(a, b T) bool) Option[T] {
	return func(s *Store[T]) { s.equal = eq }
}

// WithClone sets how batch-start snapshots are copied. The default is
// identity, which is correct when callers pass value snapshots rather
// than shared mutable state.
func WithClone[T any](clone func(T) T) Option[T] {
	return func(s *Store[T]) { s.clone = clone }
}

// Store holds a present state plus bounded past and future stacks. It
// is single-writer, matching the editing session's threading model.
type Store[T any] struct {
	past    []T
	present T
	future  []T

	limit     int
	equal     func(a, b T) bool
	clone     func(T) T
	batching  bool
	batchBase T

	// OnChange, when set, fires after every accepted state change,
	// including undo and redo.
	OnChange func(T)
}

// New returns a store whose present state is initial.
func New[T any](initial T, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		present: initial,
		limit:   defaultLimit,
		equal:   func(a, b T) bool { return reflect.DeepEqual(a, b) },
		clone:   func(v T) T { return v },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Present returns the current state.
func (s *Store[T]) Present() T { return s.present }

// CanUndo reports whether an undo step exists.
func (s *Store[T]) CanUndo() bool { return len(s.past) > 0 }

// CanRedo reports whether a redo step exists.
func (s *Store[T]) CanRedo() bool { return len(s.future) > 0 }

// Batching reports whether a batch is open.
func (s *Store[T]) Batching() bool { return s.batching }

// Set installs v as the present state and reports whether it was
// accepted. Setting a value deep-equal to the present is a rejected
// no-op. During a batch only the present is replaced; otherwise the
// old present is pushed onto the past and the future is cleared.
func (s *Store[T]) Set(v T) bool {
	if s.equal(s.present, v) {
		return false
	}
	if s.batching {
		s.present = v
		s.notify()
		return true
	}
	s.pushPast(s.present)
	s.present = v
	s.future = nil
	s.notify()
	return true
}

// StartBatch snapshots the present; sets issued until EndBatch
// undo/redo as one unit. Starting a batch inside a batch is a logged
// no-op.
func (s *Store[T]) StartBatch() {
	if s.batching {
		log.Printf("history: StartBatch while batching, ignoring")
		return
	}
	s.batchBase = s.clone(s.present)
	s.batching = true
}

// EndBatch closes the batch, pushing its starting snapshot onto the
// past. A batch whose net change is nothing leaves history untouched.
// Ending without an open batch is a logged no-op.
func (s *Store[T]) EndBatch() {
	if !s.batching {
		log.Printf("history: EndBatch without a batch, ignoring")
		return
	}
	s.batching = false
	base := s.batchBase
	var zero T
	s.batchBase = zero
	if s.equal(base, s.present) {
		return
	}
	s.pushPast(base)
	s.future = nil
}

// Undo steps back one entry. It reports false with no state change
// when the past is empty or a batch is open.
func (s *Store[T]) Undo() bool {
	if s.batching {
		log.Printf("history: Undo while batching, ignoring")
		return false
	}
	if len(s.past) == 0 {
		return false
	}
	prev := s.past[len(s.past)-1]
	s.past = s.past[:len(s.past)-1]
	s.future = append([]T{s.present}, s.future...)
	s.present = prev
	s.notify()
	return true
}

// Redo steps forward one entry. It reports false with no state change
// when the future is empty or a batch is open.
func (s *Store[T]) Redo() bool {
	if s.batching {
		log.Printf("history: Redo while batching, ignoring")
		return false
	}
	if len(s.future) == 0 {
		return false
	}
	next := s.future[0]
	s.future = s.future[1:]
	s.past = append(s.past, s.present)
	s.present = next
	s.notify()
	return true
}

func (s *Store[T]) pushPast(v T) {
	s.past = append(s.past, v)
	if len(s.past) > s.limit {
		s.past = s.past[1:]
	}
}

func (s *Store[T]) notify() {
	if s.OnChange != nil {
		s.OnChange(s.present)
	}
}
