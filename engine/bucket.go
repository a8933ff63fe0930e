package engine

import "time"

// Bucket is one of the mutually exclusive urgency groups the dashboard
// partitions active items into. Consumed items belong to none of them.
type Bucket string

const (
	BucketExpiringToday Bucket = "expiring_today"
	BucketToConsume     Bucket = "to_consume"
	BucketIncoming      Bucket = "incoming"
	BucketAllOk         Bucket = "all_ok"
)

// AssignOne places a single effective expiry date into its bucket relative
// to now, using start-of-day boundaries.
//
// With D0 = startOfDay(now) and D1..D3 the following midnights:
//
//	expiringToday  E < D1          (already expired included)
//	toConsume      D1 <= E < D2
//	incoming       D2 < E <= D3
//	allOk          everything else
//
// The exact instant E == D2 matches neither toConsume (half-open on the
// right) nor incoming (open on the left) and lands in allOk. That gap is
// kept deliberately; see the boundary tests before changing it.
func AssignOne(effective, now time.Time) Bucket {
	d0 := StartOfDay(now)
	d1 := d0.AddDate(0, 0, 1)
	d2 := d0.AddDate(0, 0, 2)
	d3 := d0.AddDate(0, 0, 3)

	switch {
	case effective.Before(d1):
		return BucketExpiringToday
	case effective.Before(d2):
		return BucketToConsume
	case effective.After(d2) && !effective.After(d3):
		return BucketIncoming
	default:
		return BucketAllOk
	}
}

// Counts holds per-bucket totals.
type Counts struct {
	ExpiringToday int `json:"expiringToday"`
	ToConsume     int `json:"toConsume"`
	Incoming      int `json:"incoming"`
	AllOk         int `json:"allOk"`
}

func (c *Counts) add(b Bucket) {
	switch b {
	case BucketExpiringToday:
		c.ExpiringToday++
	case BucketToConsume:
		c.ToConsume++
	case BucketIncoming:
		c.Incoming++
	case BucketAllOk:
		c.AllOk++
	}
}

// Summary is the bucketed view of an item set at one instant.
type Summary struct {
	ExpiringToday []Evaluation
	ToConsume     []Evaluation
	Incoming      []Evaluation
	AllOk         []Evaluation

	Counts      Counts
	ByCategory  map[string]Counts
	TotalActive int

	// SafeRatio is allOk over totalActive, defined as 1.0 for an empty
	// set so summary displays never divide by zero.
	SafeRatio float64
}

// Assign partitions the active items into the four urgency buckets.
// Consumed items are excluded before bucketing; each remaining item is
// classified independently, so the buckets always partition the active set
// exactly. An item that fails to resolve aborts the whole assignment — a
// caller must repair its state rather than receive a silently shifted
// summary.
func Assign(items []Item, now time.Time, soonWindowDays int) (Summary, error) {
	sum := Summary{
		ByCategory: make(map[string]Counts),
		SafeRatio:  1.0,
	}

	for _, it := range items {
		if it.IsConsumed {
			continue
		}
		ev, err := Evaluate(it, now, soonWindowDays)
		if err != nil {
			return Summary{}, err
		}
		sum.TotalActive++
		sum.Counts.add(ev.Bucket)
		if it.Category != "" {
			byCat := sum.ByCategory[it.Category]
			byCat.add(ev.Bucket)
			sum.ByCategory[it.Category] = byCat
		}
		switch ev.Bucket {
		case BucketExpiringToday:
			sum.ExpiringToday = append(sum.ExpiringToday, ev)
		case BucketToConsume:
			sum.ToConsume = append(sum.ToConsume, ev)
		case BucketIncoming:
			sum.Incoming = append(sum.Incoming, ev)
		case BucketAllOk:
			sum.AllOk = append(sum.AllOk, ev)
		}
	}

	if sum.TotalActive > 0 {
		sum.SafeRatio = float64(sum.Counts.AllOk) / float64(sum.TotalActive)
	}
	return sum, nil
}
