// Package setutil provides generic set utilities for common ID collection patterns.
package setutil

import "sort"

// Int64Set is a set of int64 values (chat and user identifiers).
// It uses map[int64]struct{} internally for memory efficiency.
type Int64Set struct {
	items map[int64]struct{}
}

// NewInt64Set creates a new empty Int64Set.
func NewInt64Set() *Int64Set {
	return &Int64Set{
		items: make(map[int64]struct{}),
	}
}

// Add adds an id to the set. Zero ids are ignored since no platform
// identifier is ever zero.
func (s *Int64Set) Add(id int64) {
	if id == 0 {
		return
	}
	s.items[id] = struct{}{}
}

// AddAll adds all ids to the set.
func (s *Int64Set) AddAll(ids []int64) {
	for _, id := range ids {
		s.Add(id)
	}
}

// Has returns true if the id exists in the set.
func (s *Int64Set) Has(id int64) bool {
	_, ok := s.items[id]
	return ok
}

// Sorted returns all ids as a slice in ascending order. Callers iterating
// over the set get a deterministic order regardless of insertion history.
func (s *Int64Set) Sorted() []int64 {
	result := make([]int64, 0, len(s.items))
	for id := range s.items {
		result = append(result, id)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Len returns the number of elements in the set.
func (s *Int64Set) Len() int {
	return len(s.items)
}
