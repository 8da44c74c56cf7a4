package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can react without matching messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidInput
	KindInsufficientInventory
	KindAlreadyExists
	KindNoUpdates
	KindDependencyUnavailable
	KindPartiallyApplied
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindInsufficientInventory:
		return "insufficient_inventory"
	case KindAlreadyExists:
		return "already_exists"
	case KindNoUpdates:
		return "no_updates"
	case KindDependencyUnavailable:
		return "dependency_unavailable"
	case KindPartiallyApplied:
		return "partially_applied"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a domain failure with a kind and a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

var (
	ErrNotFound          = newError(KindNotFound, "not found")
	ErrOrderNotFound     = newError(KindNotFound, "order not found")
	ErrOrderLineNotFound = newError(KindNotFound, "order line not found")
	ErrInventoryNotFound = newError(KindNotFound, "inventory item not found")
	ErrProductNotFound   = newError(KindNotFound, "product not found")
	ErrSupplierNotFound  = newError(KindNotFound, "supplier not found")
	ErrRetailerNotFound  = newError(KindNotFound, "retailer not found")

	ErrInvalidQuantity = newError(KindInvalidInput, "quantity must be a positive integer")
	ErrInvalidInput    = newError(KindInvalidInput, "invalid input")

	// ErrInsufficientQuantity is returned by the ledger when a debit exceeds
	// the quantity on hand.
	ErrInsufficientQuantity = newError(KindInsufficientInventory, "insufficient quantity")
	// ErrInsufficientInventory is returned to order-line callers when the
	// product has no inventory or not enough of it.
	ErrInsufficientInventory = newError(KindInsufficientInventory, "not enough inventory or product does not exist")

	ErrAlreadyExists = newError(KindAlreadyExists, "already exists")
	ErrNoUpdates     = newError(KindNoUpdates, "no updates provided")

	// ErrLineChanged is returned when an order line was modified between
	// being read and being written. The caller may retry.
	ErrLineChanged = newError(KindConflict, "order line changed concurrently, retry")
)

// Unavailable marks err as a failure to reach a backing store.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindDependencyUnavailable, Message: op, Err: err}
}

// PartiallyAppliedError reports a multi-step operation where an earlier write
// committed and a later write (and its compensation, if any) did not.
type PartiallyAppliedError struct {
	Op        string
	Committed string
	Failed    string
	Err       error
}

func (e *PartiallyAppliedError) Error() string {
	return fmt.Sprintf("%s partially applied: %s committed, %s failed: %v", e.Op, e.Committed, e.Failed, e.Err)
}

func (e *PartiallyAppliedError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the outermost classified error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var pe *PartiallyAppliedError
	if errors.As(err, &pe) {
		return KindPartiallyApplied
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
