package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignOneBoundaries(t *testing.T) {
	now := time.Date(2025, 10, 7, 14, 0, 0, 0, time.UTC)
	d0 := StartOfDay(now)

	cases := []struct {
		name      string
		effective time.Time
		want      Bucket
	}{
		{"long expired", d0.AddDate(0, 0, -30), BucketExpiringToday},
		{"yesterday", d0.AddDate(0, 0, -1), BucketExpiringToday},
		{"earlier today", now.Add(-2 * time.Hour), BucketExpiringToday},
		{"later today", now.Add(4 * time.Hour), BucketExpiringToday},
		{"exactly tomorrow midnight", d0.AddDate(0, 0, 1), BucketToConsume},
		{"tomorrow afternoon", d0.AddDate(0, 0, 1).Add(15 * time.Hour), BucketToConsume},
		{"just before D2", d0.AddDate(0, 0, 2).Add(-time.Minute), BucketToConsume},
		{"just after D2", d0.AddDate(0, 0, 2).Add(time.Minute), BucketIncoming},
		{"exactly D3", d0.AddDate(0, 0, 3), BucketIncoming},
		{"just after D3", d0.AddDate(0, 0, 3).Add(time.Minute), BucketAllOk},
		{"far future", d0.AddDate(0, 0, 90), BucketAllOk},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, AssignOne(c.effective, now))
		})
	}
}

// The instant exactly two midnights out satisfies neither the toConsume
// half-open range nor the incoming open-left range, so it drops through to
// allOk. This mirrors the historical boundary arithmetic on purpose; if it
// ever changes, this test is the place that documents the old behavior.
func TestAssignOneD2GapFallsToAllOk(t *testing.T) {
	now := time.Date(2025, 10, 7, 9, 0, 0, 0, time.UTC)
	d2 := StartOfDay(now).AddDate(0, 0, 2)

	assert.Equal(t, BucketAllOk, AssignOne(d2, now))
	// A minute either side lands in the neighboring buckets.
	assert.Equal(t, BucketToConsume, AssignOne(d2.Add(-time.Minute), now))
	assert.Equal(t, BucketIncoming, AssignOne(d2.Add(time.Minute), now))
}

func expiringItem(id string, quantity int, expiry time.Time, category string) Item {
	return Item{
		ID:                 id,
		Quantity:           quantity,
		CreatedAt:          expiry.AddDate(0, 0, -30),
		BaseExpirationDate: expiry,
		Category:           category,
	}
}

func TestAssignPartitionsActiveSetExactly(t *testing.T) {
	now := time.Date(2025, 10, 7, 10, 0, 0, 0, time.UTC)
	d0 := StartOfDay(now)

	items := []Item{
		expiringItem("a", 1, d0.AddDate(0, 0, -2), "dairy"),
		expiringItem("b", 1, now.Add(time.Hour), "dairy"),
		expiringItem("c", 2, d0.AddDate(0, 0, 1).Add(8*time.Hour), "produce"),
		expiringItem("d", 1, d0.AddDate(0, 0, 3), "produce"),
		expiringItem("e", 1, d0.AddDate(0, 0, 14), "pantry"),
		expiringItem("f", 1, d0.AddDate(0, 0, 60), "pantry"),
	}
	consumed := expiringItem("ghost", 1, d0, "dairy")
	consumed.IsConsumed = true
	items = append(items, consumed)

	sum, err := Assign(items, now, DefaultSoonWindowDays)
	require.NoError(t, err)

	assert.Equal(t, 6, sum.TotalActive, "consumed item must not count")
	assert.Len(t, sum.ExpiringToday, 2)
	assert.Len(t, sum.ToConsume, 1)
	assert.Len(t, sum.Incoming, 1)
	assert.Len(t, sum.AllOk, 2)

	total := len(sum.ExpiringToday) + len(sum.ToConsume) + len(sum.Incoming) + len(sum.AllOk)
	assert.Equal(t, sum.TotalActive, total, "buckets must partition the active set")

	seen := map[string]int{}
	for _, group := range [][]Evaluation{sum.ExpiringToday, sum.ToConsume, sum.Incoming, sum.AllOk} {
		for _, ev := range group {
			seen[ev.Item.ID]++
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "item %s must land in exactly one bucket", id)
	}
	assert.NotContains(t, seen, "ghost")

	assert.InDelta(t, 2.0/6.0, sum.SafeRatio, 1e-9)
	assert.Equal(t, Counts{ExpiringToday: 2, ToConsume: 1, Incoming: 1, AllOk: 2}, sum.Counts)
}

func TestAssignPerCategoryCounts(t *testing.T) {
	now := time.Date(2025, 10, 7, 10, 0, 0, 0, time.UTC)
	d0 := StartOfDay(now)

	items := []Item{
		expiringItem("a", 1, d0.AddDate(0, 0, -1), "dairy"),
		expiringItem("b", 1, d0.AddDate(0, 0, 1), "dairy"),
		expiringItem("c", 1, d0.AddDate(0, 0, 30), "pantry"),
		expiringItem("d", 1, d0.AddDate(0, 0, 30), ""), // uncategorized
	}

	sum, err := Assign(items, now, DefaultSoonWindowDays)
	require.NoError(t, err)

	assert.Equal(t, Counts{ExpiringToday: 1, ToConsume: 1}, sum.ByCategory["dairy"])
	assert.Equal(t, Counts{AllOk: 1}, sum.ByCategory["pantry"])
	_, ok := sum.ByCategory[""]
	assert.False(t, ok, "empty category must not get its own row")
}

func TestAssignEmptySet(t *testing.T) {
	sum, err := Assign(nil, time.Date(2025, 10, 7, 10, 0, 0, 0, time.UTC), DefaultSoonWindowDays)
	require.NoError(t, err)

	assert.Zero(t, sum.TotalActive)
	assert.Empty(t, sum.ExpiringToday)
	assert.Empty(t, sum.ToConsume)
	assert.Empty(t, sum.Incoming)
	assert.Empty(t, sum.AllOk)
	assert.Equal(t, 1.0, sum.SafeRatio)
}

func TestAssignAllConsumedBehavesLikeEmpty(t *testing.T) {
	now := time.Date(2025, 10, 7, 10, 0, 0, 0, time.UTC)
	it := expiringItem("gone", 1, now, "dairy")
	it.IsConsumed = true

	sum, err := Assign([]Item{it}, now, DefaultSoonWindowDays)
	require.NoError(t, err)
	assert.Zero(t, sum.TotalActive)
	assert.Equal(t, 1.0, sum.SafeRatio)
}

func TestAssignPropagatesBrokenItem(t *testing.T) {
	now := time.Date(2025, 10, 7, 10, 0, 0, 0, time.UTC)
	broken := Item{ID: "broken", Quantity: 2, OpenedQuantity: 1, BaseExpirationDate: now}

	_, err := Assign([]Item{expiringItem("fine", 1, now, ""), broken}, now, DefaultSoonWindowDays)
	assert.ErrorIs(t, err, ErrInconsistentPortionState)
}
