// Package editor holds the in-memory composition model: the scene timeline,
// subtitle track, audio tracks, the image overlay and its pointer gestures,
// and the playback clock. All mutation goes through Store.Dispatch, which is
// driven from a single event loop.
package editor

import (
	"github.com/google/uuid"
)

// Identified is implemented by every element held in a Sequence.
type Identified interface {
	Key() string
}

// NewID returns a fresh identifier for a scene, subtitle block or audio track.
func NewID() string {
	return uuid.NewString()
}

// Sequence is an ordered list addressed by identity for removal and by
// position for reordering. Positions shift on every reorder or removal, so
// callers that hold an id should go through MoveID rather than caching an
// index.
type Sequence[T Identified] struct {
	items []T
}

// NewSequence seeds a sequence with items in the given order.
func NewSequence[T Identified](items ...T) *Sequence[T] {
	return &Sequence[T]{items: append([]T(nil), items...)}
}

// Len reports the number of elements.
func (s *Sequence[T]) Len() int {
	return len(s.items)
}

// Items returns a copy of the elements in display order.
func (s *Sequence[T]) Items() []T {
	return append([]T(nil), s.items...)
}

// At returns the element at index i.
func (s *Sequence[T]) At(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(s.items) {
		return zero, false
	}
	return s.items[i], true
}

// Last returns the tail element.
func (s *Sequence[T]) Last() (T, bool) {
	return s.At(len(s.items) - 1)
}

// Append inserts at the tail.
func (s *Sequence[T]) Append(item T) {
	s.items = append(s.items, item)
}

// IndexOf returns the position of id, or -1.
func (s *Sequence[T]) IndexOf(id string) int {
	for i, item := range s.items {
		if item.Key() == id {
			return i
		}
	}
	return -1
}

// RemoveByID drops the element with the given id. A missing id is a no-op.
func (s *Sequence[T]) RemoveByID(id string) bool {
	idx := s.IndexOf(id)
	if idx < 0 {
		return false
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return true
}

// Reorder moves the element at from to position to of the sequence that
// remains after the removal (splice semantics). from == to and out-of-range
// indices leave the sequence untouched.
func (s *Sequence[T]) Reorder(from, to int) bool {
	n := len(s.items)
	if from == to || from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	moved := s.items[from]
	s.items = append(s.items[:from], s.items[from+1:]...)
	s.items = append(s.items, moved)
	copy(s.items[to+1:], s.items[to:n-1])
	s.items[to] = moved
	return true
}

// MoveID resolves the current index of id and reorders it to position to.
func (s *Sequence[T]) MoveID(id string, to int) bool {
	from := s.IndexOf(id)
	if from < 0 {
		return false
	}
	return s.Reorder(from, to)
}

// Update applies fn to the element with the given id in place.
func (s *Sequence[T]) Update(id string, fn func(*T)) bool {
	idx := s.IndexOf(id)
	if idx < 0 {
		return false
	}
	fn(&s.items[idx])
	return true
}

// Replace swaps in item for the element sharing its id.
func (s *Sequence[T]) Replace(item T) bool {
	return s.Update(item.Key(), func(existing *T) { *existing = item })
}
