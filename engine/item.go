package engine

import "time"

// Shelf-life windows, in calendar days.
const (
	// FreshShelfLifeDays is the fixed window for fresh products, counted
	// from creation. Fresh items ignore their stored expiration date.
	FreshShelfLifeDays = 3

	// OpenedShelfLifeDays is the fixed window for an opened portion,
	// counted from the opening date. Opening always resets the clock to
	// this window regardless of category or freshness.
	OpenedShelfLifeDays = 3

	// DefaultAdvancedExpiryDays is the sealed shelf life assumed for
	// long-life categories when the catalog supplies no constant of its
	// own. Applies only while the item is fully unopened.
	DefaultAdvancedExpiryDays = 120

	// DefaultSoonWindowDays is the default look-ahead window for the
	// "soon" status, inclusive of the last day.
	DefaultSoonWindowDays = 3
)

// Item is the read-only snapshot the engine evaluates. The engine mutates
// nothing: portion operations return a new Item value and persistence is the
// caller's concern.
type Item struct {
	ID                 string
	Quantity           int
	IsFresh            bool
	CreatedAt          time.Time
	BaseExpirationDate time.Time
	OpenedQuantity     int
	OpenedDate         *time.Time
	IsConsumed         bool
	UseAdvancedExpiry  bool
	AdvancedExpiryDays int
	Category           string
}

// Validate checks the portion invariants before any classification.
func (it Item) Validate() error {
	if it.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if it.OpenedQuantity < 0 || it.OpenedQuantity > it.Quantity {
		return ErrInvalidQuantity
	}
	if it.OpenedQuantity > 0 && it.OpenedDate == nil {
		return ErrInconsistentPortionState
	}
	return nil
}

// advancedDays returns the sealed shelf life for advanced-expiry items,
// falling back to the default when the catalog constant is absent.
func (it Item) advancedDays() int {
	if it.AdvancedExpiryDays > 0 {
		return it.AdvancedExpiryDays
	}
	return DefaultAdvancedExpiryDays
}
