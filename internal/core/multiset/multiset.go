package multiset

import (
	"TopSpectra/internal/core/container"
	"errors"
	"fmt"
	"iter"
)

// ErrInvariantViolation reports that a multiset was asked to do something
// that would corrupt its bookkeeping, such as driving a multiplicity below
// zero. It signals a caller bug, not a recoverable condition.
var ErrInvariantViolation = errors.New("multiset invariant violation")

// Item is a value paired with its current multiplicity.
type Item[T any] struct {
	Value T
	Count int
}

// OrderedMultiset is an ordered mapping from value to positive multiplicity.
// Every stored multiplicity is >= 1; an absent value has multiplicity 0.
// It is not safe for concurrent use.
type OrderedMultiset[T any] struct {
	entries container.OrderedMap[T]
	total   int
}

// New creates an empty multiset backed by a fresh ordered map from factory.
func New[T any](factory container.Factory[T]) *OrderedMultiset[T] {
	return &OrderedMultiset[T]{entries: factory()}
}

// Add increases the multiplicity of value by one.
func (s *OrderedMultiset[T]) Add(value T) {
	s.AddN(value, 1)
}

// AddN increases the multiplicity of value by n, creating the entry if
// absent. n must be positive.
func (s *OrderedMultiset[T]) AddN(value T, n int) {
	if n <= 0 {
		panic(fmt.Sprintf("multiset: AddN called with non-positive count %d", n))
	}
	count, _ := s.entries.Get(value)
	s.entries.Set(value, count+n)
	s.total += n
}

// Remove decreases the multiplicity of value by one.
func (s *OrderedMultiset[T]) Remove(value T) error {
	return s.RemoveN(value, 1)
}

// RemoveN decreases the multiplicity of value by n, deleting the entry when
// it reaches zero. Removing more units than are present is an invariant
// violation.
func (s *OrderedMultiset[T]) RemoveN(value T, n int) error {
	if n <= 0 {
		panic(fmt.Sprintf("multiset: RemoveN called with non-positive count %d", n))
	}
	count, ok := s.entries.Get(value)
	if !ok {
		return fmt.Errorf("%w: removing absent value %v", ErrInvariantViolation, value)
	}
	if n > count {
		return fmt.Errorf("%w: removing %d units of %v, only %d present", ErrInvariantViolation, n, value, count)
	}
	if n == count {
		s.entries.Delete(value)
	} else {
		s.entries.Set(value, count-n)
	}
	s.total -= n
	return nil
}

// AddAll merges every entry of other into s. The argument is not mutated.
// Cost is proportional to other's unique-key count, so when either side
// could be the receiver, call this on the larger one.
func (s *OrderedMultiset[T]) AddAll(other *OrderedMultiset[T]) {
	other.entries.Ascend(func(value T, count int) bool {
		s.AddN(value, count)
		return true
	})
}

// RemoveAll subtracts every entry of other from s. The argument is not
// mutated. Any resulting negative multiplicity is an invariant violation;
// entries already subtracted before the failing one keep their new counts.
func (s *OrderedMultiset[T]) RemoveAll(other *OrderedMultiset[T]) error {
	var err error
	other.entries.Ascend(func(value T, count int) bool {
		err = s.RemoveN(value, count)
		return err == nil
	})
	return err
}

// MinItem returns the lowest-ranked value and its multiplicity.
func (s *OrderedMultiset[T]) MinItem() (Item[T], bool) {
	value, count, ok := s.entries.Min()
	if !ok {
		return Item[T]{}, false
	}
	return Item[T]{Value: value, Count: count}, true
}

// First returns just the lowest-ranked value.
func (s *OrderedMultiset[T]) First() (T, bool) {
	value, _, ok := s.entries.Min()
	return value, ok
}

// TotalCount returns the sum of all multiplicities.
func (s *OrderedMultiset[T]) TotalCount() int {
	return s.total
}

// UniqueCount returns the number of distinct values.
func (s *OrderedMultiset[T]) UniqueCount() int {
	return s.entries.Len()
}

// IsEmpty reports whether the multiset holds no values.
func (s *OrderedMultiset[T]) IsEmpty() bool {
	return s.total == 0
}

// Clear removes all entries.
func (s *OrderedMultiset[T]) Clear() {
	s.entries.Clear()
	s.total = 0
}

// All returns an ascending-rank sequence of (value, multiplicity) pairs.
// The sequence is finite and restartable, and reflects the contents at the
// time of the call; later mutation of the multiset does not affect it.
func (s *OrderedMultiset[T]) All() iter.Seq2[T, int] {
	items := s.Items()
	return func(yield func(T, int) bool) {
		for _, item := range items {
			if !yield(item.Value, item.Count) {
				return
			}
		}
	}
}

// Items returns the contents in ascending rank order.
func (s *OrderedMultiset[T]) Items() []Item[T] {
	items := make([]Item[T], 0, s.entries.Len())
	s.entries.Ascend(func(value T, count int) bool {
		items = append(items, Item[T]{Value: value, Count: count})
		return true
	})
	return items
}
