package engine

import "time"

// Status is the derived freshness state of an item. It is recomputed on
// every evaluation, never persisted.
type Status string

const (
	StatusExpired Status = "expired"
	StatusToday   Status = "today"
	StatusSoon    Status = "soon"
	StatusSafe    Status = "safe"
)

// ClassifyDays maps a days-remaining count to a status. Precedence is
// strict — expired > today > soon > safe — so exactly one status applies.
// The soon window is inclusive of its last day; soonWindowDays < 1 falls
// back to the default.
func ClassifyDays(daysRemaining, soonWindowDays int) Status {
	if soonWindowDays < 1 {
		soonWindowDays = DefaultSoonWindowDays
	}
	switch {
	case daysRemaining < 0:
		return StatusExpired
	case daysRemaining == 0:
		return StatusToday
	case daysRemaining <= soonWindowDays:
		return StatusSoon
	default:
		return StatusSafe
	}
}

// Evaluation is the full engine output for one item: the resolved dates,
// the status, and the dashboard bucket.
type Evaluation struct {
	Item       Item
	Resolution Resolution
	Status     Status
	Bucket     Bucket
}

// Evaluate resolves an item and classifies it in one step.
func Evaluate(it Item, now time.Time, soonWindowDays int) (Evaluation, error) {
	res, err := Resolve(it, now)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{
		Item:       it,
		Resolution: res,
		Status:     ClassifyDays(res.DaysRemaining, soonWindowDays),
		Bucket:     AssignOne(res.EffectiveExpiry, now),
	}, nil
}
