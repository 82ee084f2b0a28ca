package container

import "github.com/google/btree"

// OrderedMap is the contract an ordered multiset needs from its backing
// store: a mapping from value to multiplicity, iterable in ascending
// comparator order. Implementations are not safe for concurrent use.
type OrderedMap[T any] interface {
	// Get returns the stored count for key, or (0, false) if absent.
	Get(key T) (int, bool)
	// Set stores count for key, replacing any existing entry.
	Set(key T, count int)
	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key T)
	// Min returns the smallest key and its count, or false if empty.
	Min() (T, int, bool)
	// Len returns the number of distinct keys.
	Len() int
	// Clear removes all entries.
	Clear()
	// Ascend calls fn for each entry in ascending key order until fn
	// returns false.
	Ascend(fn func(key T, count int) bool)
}

// Factory supplies a fresh, empty OrderedMap per call. Instances returned by
// separate calls must not share storage.
type Factory[T any] func() OrderedMap[T]

const btreeDegree = 16

type btreeEntry[T any] struct {
	key   T
	count int
}

// btreeMap adapts a google/btree B-Tree to the OrderedMap contract.
type btreeMap[T any] struct {
	tree *btree.BTreeG[btreeEntry[T]]
}

// NewBTreeFactory returns a Factory producing B-Tree backed ordered maps
// sorted by less.
func NewBTreeFactory[T any](less func(a, b T) bool) Factory[T] {
	return func() OrderedMap[T] {
		return &btreeMap[T]{
			tree: btree.NewG(btreeDegree, func(a, b btreeEntry[T]) bool {
				return less(a.key, b.key)
			}),
		}
	}
}

func (m *btreeMap[T]) Get(key T) (int, bool) {
	entry, ok := m.tree.Get(btreeEntry[T]{key: key})
	if !ok {
		return 0, false
	}
	return entry.count, true
}

func (m *btreeMap[T]) Set(key T, count int) {
	m.tree.ReplaceOrInsert(btreeEntry[T]{key: key, count: count})
}

func (m *btreeMap[T]) Delete(key T) {
	m.tree.Delete(btreeEntry[T]{key: key})
}

func (m *btreeMap[T]) Min() (T, int, bool) {
	entry, ok := m.tree.Min()
	if !ok {
		var zero T
		return zero, 0, false
	}
	return entry.key, entry.count, true
}

func (m *btreeMap[T]) Len() int {
	return m.tree.Len()
}

func (m *btreeMap[T]) Clear() {
	m.tree.Clear(false)
}

func (m *btreeMap[T]) Ascend(fn func(key T, count int) bool) {
	m.tree.Ascend(func(entry btreeEntry[T]) bool {
		return fn(entry.key, entry.count)
	})
}
