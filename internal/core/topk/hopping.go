package topk

import (
	"TopSpectra/internal/core/container"
	"TopSpectra/internal/core/multiset"
	"fmt"
	"math"
)

// HoppingState maintains a bounded top-K multiset for hopping windows using
// two generation buffers. The current buffer holds the newest, still-open
// generation and is capacity-limited to k total units; values ranked below
// the bound are evicted as they overflow. The previous buffer holds the
// merged aggregate of all strictly older generations and is never trimmed:
// its exact contents must later be subtracted by matching retraction calls,
// and rank-based trimming would break that accounting.
type HoppingState[T any] struct {
	k            int
	newContainer container.Factory[T]

	current          *multiset.OrderedMultiset[T]
	previous         *multiset.OrderedMultiset[T]
	currentTimestamp int64
}

// NewHoppingState creates an empty generation-bucketed state with result
// bound k. The factory supplies the ordered-map backing for both buffers.
// k must be positive.
func NewHoppingState[T any](k int, factory container.Factory[T]) *HoppingState[T] {
	if k <= 0 {
		panic(fmt.Sprintf("topk: non-positive bound %d", k))
	}
	return &HoppingState[T]{
		k:                k,
		newContainer:     factory,
		current:          multiset.New(factory),
		previous:         multiset.New(factory),
		currentTimestamp: math.MinInt64,
	}
}

// Add records one unit of value in the generation identified by ts. A
// timestamp newer than the current generation closes it: the current buffer
// is folded into previous and a fresh generation opens at ts. A timestamp
// older than the current generation is a monotonicity violation.
func (h *HoppingState[T]) Add(value T, ts int64) error {
	if ts > h.currentTimestamp {
		h.mergeCurrentToPrevious()
		h.currentTimestamp = ts
	} else if ts < h.currentTimestamp {
		return fmt.Errorf("%w: add at %d behind generation %d", ErrOutOfOrderTimestamp, ts, h.currentTimestamp)
	}

	h.current.Add(value)

	overflow := h.current.TotalCount() - h.k
	if overflow <= 0 {
		return nil
	}
	min, _ := h.current.MinItem()
	if overflow > min.Count {
		// Each Add contributes exactly one unit, so overflow can never
		// exceed the full multiplicity of the single worst-ranked value.
		return fmt.Errorf("%w: overflow %d exceeds evictable multiplicity %d", ErrInvariantViolation, overflow, min.Count)
	}
	return h.current.RemoveN(min.Value, overflow)
}

// Remove retracts one unit of value. Timestamps older than the current
// generation retract from previous; the current generation's timestamp
// retracts from current. A future timestamp cannot retract an unobserved
// event.
func (h *HoppingState[T]) Remove(value T, ts int64) error {
	switch {
	case ts < h.currentTimestamp:
		return h.previous.Remove(value)
	case ts == h.currentTimestamp:
		return h.current.Remove(value)
	default:
		return fmt.Errorf("%w: remove at %d ahead of generation %d", ErrOutOfOrderTimestamp, ts, h.currentTimestamp)
	}
}

// AddAll combines another HoppingState into this one. The effect depends on
// the relative generation of the two states:
//
//   - same generation: other's current merges into current, then the bound
//     is restored by evicting the worst-ranked value one unit at a time;
//   - other older: other's entire content is subtracted from previous, the
//     same reconciliation RemoveAll performs for late-arriving retractions;
//   - other newer: the current generation folds into previous, other's
//     current becomes the new current generation, and other's previous is
//     discarded since only its newest generation carries forward.
//
// other is never mutated.
func (h *HoppingState[T]) AddAll(other State[T]) error {
	o, ok := other.(*HoppingState[T])
	if !ok {
		return fmt.Errorf("%w: merging %T into %T", ErrIncompatibleStateVariant, other, h)
	}

	switch {
	case o.currentTimestamp == h.currentTimestamp:
		h.current.AddAll(o.current)
		for h.current.TotalCount() > h.k {
			min, _ := h.current.MinItem()
			if err := h.current.Remove(min.Value); err != nil {
				return err
			}
		}
	case o.currentTimestamp < h.currentTimestamp:
		if err := h.previous.RemoveAll(o.current); err != nil {
			return err
		}
		if err := h.previous.RemoveAll(o.previous); err != nil {
			return err
		}
	default:
		h.mergeCurrentToPrevious()
		h.current.AddAll(o.current)
		h.currentTimestamp = o.currentTimestamp
	}
	return nil
}

// RemoveAll retracts another HoppingState's entire content from this one.
// The retracted state must belong to a strictly older generation; its whole
// content is, by definition, already folded into (or destined for) previous,
// so both of its buffers are subtracted from previous only.
func (h *HoppingState[T]) RemoveAll(other State[T]) error {
	o, ok := other.(*HoppingState[T])
	if !ok {
		return fmt.Errorf("%w: retracting %T from %T", ErrIncompatibleStateVariant, other, h)
	}
	if o.Count() == 0 {
		return nil
	}
	if o.currentTimestamp >= h.currentTimestamp {
		return fmt.Errorf("%w: retracting generation %d, current is %d", ErrOutOfOrderTimestamp, o.currentTimestamp, h.currentTimestamp)
	}
	if err := h.previous.RemoveAll(o.current); err != nil {
		return err
	}
	return h.previous.RemoveAll(o.previous)
}

// Snapshot materializes the retained content. Although it reads as an
// accessor, it folds the current generation into previous when previous is
// non-empty; repeated calls are idempotent, but only the first call after
// new insertions pays the fold cost.
func (h *HoppingState[T]) Snapshot() *multiset.OrderedMultiset[T] {
	if h.previous.IsEmpty() {
		return h.current
	}
	h.mergeCurrentToPrevious()
	return h.previous
}

// Count returns the total number of retained units across both buffers.
func (h *HoppingState[T]) Count() int {
	return h.current.TotalCount() + h.previous.TotalCount()
}

// mergeCurrentToPrevious folds the open generation into the aggregate of
// closed ones. The buffer identities are swapped first when previous is the
// structurally smaller side, so the merge always folds the multiset with
// fewer unique keys into the larger one.
func (h *HoppingState[T]) mergeCurrentToPrevious() {
	if h.current.IsEmpty() {
		return
	}
	if h.previous.UniqueCount() < h.current.UniqueCount() {
		h.current, h.previous = h.previous, h.current
	}
	h.previous.AddAll(h.current)
	h.current.Clear()
}
