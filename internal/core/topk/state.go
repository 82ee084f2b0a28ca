// Package topk maintains bounded top-K multisets over logical-time event
// streams. Two variants implement the State contract: SimpleState for
// tumbling windows, where no retraction bookkeeping is needed, and
// HoppingState for hopping windows, which buckets values into generations so
// that whole generations can later be retracted exactly.
//
// Instances are single-writer: the caller must serialize all mutation of a
// given instance. All errors returned here indicate caller contract
// violations and leave the state unfit for further use.
package topk

import "TopSpectra/internal/core/multiset"

// State is the capability set shared by the top-K variants. Timestamps are
// abstract logical times; per instance they must be non-decreasing across
// Add/Remove calls. AddAll and RemoveAll accept only the receiver's own
// concrete variant and never mutate their argument.
type State[T any] interface {
	// Add records one unit of value at the given logical time.
	Add(value T, ts int64) error
	// Remove retracts one previously added unit of value.
	Remove(value T, ts int64) error
	// AddAll combines another state of the same variant into this one.
	AddAll(other State[T]) error
	// RemoveAll retracts another state's entire content from this one.
	RemoveAll(other State[T]) error
	// Snapshot materializes the retained content in ascending rank order.
	Snapshot() *multiset.OrderedMultiset[T]
	// Count returns the total number of retained units.
	Count() int
}
