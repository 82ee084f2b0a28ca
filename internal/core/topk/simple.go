package topk

import (
	"TopSpectra/internal/core/container"
	"TopSpectra/internal/core/multiset"
	"fmt"
)

// SimpleState tracks a single multiset with no notion of time. It backs
// tumbling windows, where every value enters and leaves with the window
// itself, so timestamps are accepted but ignored. Snapshot returns the full
// multiset; selecting the best K entries from it is the caller's job.
type SimpleState[T any] struct {
	items *multiset.OrderedMultiset[T]
}

// NewSimpleState creates an empty time-agnostic state backed by factory.
func NewSimpleState[T any](factory container.Factory[T]) *SimpleState[T] {
	return &SimpleState[T]{items: multiset.New(factory)}
}

// Add records one unit of value. The timestamp is ignored.
func (s *SimpleState[T]) Add(value T, _ int64) error {
	s.items.Add(value)
	return nil
}

// Remove retracts one unit of value. The timestamp is ignored.
func (s *SimpleState[T]) Remove(value T, _ int64) error {
	return s.items.Remove(value)
}

// AddAll merges another SimpleState into this one.
func (s *SimpleState[T]) AddAll(other State[T]) error {
	o, ok := other.(*SimpleState[T])
	if !ok {
		return fmt.Errorf("%w: merging %T into %T", ErrIncompatibleStateVariant, other, s)
	}
	s.items.AddAll(o.items)
	return nil
}

// RemoveAll subtracts another SimpleState from this one.
func (s *SimpleState[T]) RemoveAll(other State[T]) error {
	o, ok := other.(*SimpleState[T])
	if !ok {
		return fmt.Errorf("%w: retracting %T from %T", ErrIncompatibleStateVariant, other, s)
	}
	return s.items.RemoveAll(o.items)
}

// Snapshot returns the owned multiset.
func (s *SimpleState[T]) Snapshot() *multiset.OrderedMultiset[T] {
	return s.items
}

// Count returns the total number of retained units.
func (s *SimpleState[T]) Count() int {
	return s.items.TotalCount()
}
