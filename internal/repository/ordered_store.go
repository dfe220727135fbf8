package repository

import (
	appErrors "github.com/noah-isme/college-registry/pkg/errors"
)

// OrderedStore keeps entities in registration order with an id index.
// It is not safe for concurrent use; the owner serialises access.
type OrderedStore[T any] struct {
	kind  string
	key   func(T) string
	items []T
	index map[string]int
}

// NewOrderedStore builds an empty store for entities of the given kind.
func NewOrderedStore[T any](kind string, key func(T) string) *OrderedStore[T] {
	return &OrderedStore[T]{kind: kind, key: key, index: make(map[string]int)}
}

// Add appends item, failing with DUPLICATE_ID when its id is taken.
func (s *OrderedStore[T]) Add(item T) error {
	id := s.key(item)
	if _, ok := s.index[id]; ok {
		return appErrors.Clonef(appErrors.ErrDuplicateID, "%s %s already registered", s.kind, id)
	}
	s.index[id] = len(s.items)
	s.items = append(s.items, item)
	return nil
}

// Get resolves id, failing with NOT_FOUND.
func (s *OrderedStore[T]) Get(id string) (T, error) {
	i, ok := s.index[id]
	if !ok {
		var zero T
		return zero, appErrors.Clonef(appErrors.ErrNotFound, "%s %s not found", s.kind, id)
	}
	return s.items[i], nil
}

// Contains reports whether id is registered.
func (s *OrderedStore[T]) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// All returns a copy of the items in registration order.
func (s *OrderedStore[T]) All() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items.
func (s *OrderedStore[T]) Len() int {
	return len(s.items)
}
