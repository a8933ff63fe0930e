package engine

import "time"

// Resolution carries the per-portion expiry dates of one item plus the
// single effective date every status and bucket decision is made from.
type Resolution struct {
	// ClosedExpiry is the expiry of the not-yet-opened portion.
	ClosedExpiry time.Time

	// OpenedExpiry is the expiry of the opened portion; nil while nothing
	// is opened.
	OpenedExpiry *time.Time

	// EffectiveExpiry is the earliest deadline among portions that still
	// hold quantity.
	EffectiveExpiry time.Time

	// DaysRemaining counts calendar days from "now" to the effective
	// expiry. 0 means it expires today; negative means already expired.
	DaysRemaining int
}

// Resolve computes the closed-portion, opened-portion and effective expiry
// dates for an item at the given instant. It is a pure projection: the same
// item and now always produce the same resolution.
//
// The closed portion expires at createdAt+3d for fresh products, at
// createdAt+advancedDays while a long-life item is still sealed, and at the
// stored base expiration date otherwise. The opened portion, when present,
// always expires 3 days after opening. A partially opened item takes the
// earlier of the two dates, since either portion going bad must alert.
func Resolve(it Item, now time.Time) (Resolution, error) {
	if err := it.Validate(); err != nil {
		return Resolution{}, err
	}

	var closed time.Time
	switch {
	case it.IsFresh:
		closed = it.CreatedAt.AddDate(0, 0, FreshShelfLifeDays)
	case it.UseAdvancedExpiry && it.OpenedQuantity == 0:
		closed = it.CreatedAt.AddDate(0, 0, it.advancedDays())
	default:
		if it.BaseExpirationDate.IsZero() {
			return Resolution{}, ErrMissingExpiration
		}
		closed = it.BaseExpirationDate
	}

	res := Resolution{ClosedExpiry: closed, EffectiveExpiry: closed}

	if it.OpenedQuantity > 0 {
		opened := it.OpenedDate.AddDate(0, 0, OpenedShelfLifeDays)
		res.OpenedExpiry = &opened
		if it.OpenedQuantity == it.Quantity {
			// Fully opened: the closed portion holds no quantity, so only
			// the opened clock counts.
			res.EffectiveExpiry = opened
		} else if opened.Before(closed) {
			res.EffectiveExpiry = opened
		}
	}

	res.DaysRemaining = DaysBetween(now, res.EffectiveExpiry)
	return res, nil
}
