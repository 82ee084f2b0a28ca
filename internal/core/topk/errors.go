package topk

import (
	"TopSpectra/internal/core/multiset"
	"errors"
)

var (
	// ErrOutOfOrderTimestamp reports a timestamp that violates the
	// per-instance monotonicity contract, or a bulk retraction against a
	// generation that is not strictly older than the receiver's.
	ErrOutOfOrderTimestamp = errors.New("topk: out-of-order timestamp")

	// ErrIncompatibleStateVariant reports an AddAll/RemoveAll argument of a
	// different concrete state kind than the receiver.
	ErrIncompatibleStateVariant = errors.New("topk: incompatible state variant")

	// ErrInvariantViolation reports a failed internal bookkeeping assumption.
	// None of these errors are recoverable: the state may already be
	// inconsistent and the affected computation should be aborted.
	ErrInvariantViolation = multiset.ErrInvariantViolation
)
