package engine

import (
	"fmt"
	"time"
)

// Open marks count units of the item as opened at the given instant. The
// whole opened portion shares one opening date: re-opening replaces any
// previous split. Returns ErrInvalidQuantity when count is outside
// [1, quantity].
func Open(it Item, count int, at time.Time) (Item, error) {
	if count < 1 || count > it.Quantity {
		return it, fmt.Errorf("%w: open %d of %d", ErrInvalidQuantity, count, it.Quantity)
	}
	it.OpenedQuantity = count
	opened := at
	it.OpenedDate = &opened
	return it, nil
}

// RevertToUnopened clears the opened portion, restoring the closed-portion
// expiry as the item's only clock. This is the inverse of Open and always
// succeeds.
func RevertToUnopened(it Item) Item {
	it.OpenedQuantity = 0
	it.OpenedDate = nil
	return it
}

// ReduceQuantity removes `by` units on partial consumption, clamping the
// opened portion to the new total. Consuming the final unit is the caller's
// job: mark the item consumed instead of reducing to zero.
func ReduceQuantity(it Item, by int) (Item, error) {
	if by < 1 || by >= it.Quantity {
		return it, fmt.Errorf("%w: reduce %d of %d", ErrInvalidQuantity, by, it.Quantity)
	}
	it.Quantity -= by
	if it.OpenedQuantity > it.Quantity {
		it.OpenedQuantity = it.Quantity
	}
	return it, nil
}
