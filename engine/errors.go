package engine

import "errors"

var (
	// ErrInvalidQuantity reports a quantity outside the allowed range, e.g.
	// opening more units than the item holds or evaluating a zero-quantity
	// item.
	ErrInvalidQuantity = errors.New("engine: quantity out of range")

	// ErrInconsistentPortionState reports an item with openedQuantity > 0
	// but no opened date. Callers must establish the opened state through
	// Open before asking for a classification.
	ErrInconsistentPortionState = errors.New("engine: opened quantity set without opened date")

	// ErrMissingExpiration reports a non-fresh item whose closed portion has
	// no expiration date to resolve against.
	ErrMissingExpiration = errors.New("engine: item has no base expiration date")
)
