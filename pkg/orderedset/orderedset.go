package orderedset

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Set is an insertion-ordered set. Membership is answered by a hash index and
// order is kept by a doubly linked list, so every operation is O(1) on average.
// Under pathological hash collisions the index degrades to O(n) per lookup.
//
// Set is not safe for concurrent use; callers must synchronize access.
type Set[T comparable] struct {
	m *orderedmap.OrderedMap[T, struct{}]
}

// New creates an empty Set.
func New[T comparable]() *Set[T] {
	return &Set[T]{
		m: orderedmap.New[T, struct{}](),
	}
}

// Insert appends v at the tail if it is not present.
// Returns false, leaving the set untouched, if v is already present.
func (s *Set[T]) Insert(v T) bool {
	// Set keeps the original position of an existing key.
	_, present := s.m.Set(v, struct{}{})
	return !present
}

// RemoveHead removes and returns the oldest element.
// The second result is false when the set is empty.
func (s *Set[T]) RemoveHead() (T, bool) {
	head := s.m.Oldest()
	if head == nil {
		var zero T
		return zero, false
	}
	v := head.Key
	s.m.Delete(v)
	return v, true
}

// PeekHead returns the oldest element without removing it.
func (s *Set[T]) PeekHead() (T, bool) {
	head := s.m.Oldest()
	if head == nil {
		var zero T
		return zero, false
	}
	return head.Key, true
}

// Remove deletes v wherever it sits in the order. Returns true if v was present.
func (s *Set[T]) Remove(v T) bool {
	_, present := s.m.Delete(v)
	return present
}

// Contains reports whether v is present.
func (s *Set[T]) Contains(v T) bool {
	_, present := s.m.Get(v)
	return present
}

// Len returns the number of elements.
func (s *Set[T]) Len() int {
	return s.m.Len()
}

// Values returns a copy of the elements in insertion order.
func (s *Set[T]) Values() []T {
	out := make([]T, 0, s.m.Len())
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Clear removes all elements.
func (s *Set[T]) Clear() {
	s.m = orderedmap.New[T, struct{}]()
}
