package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utc(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestResolveClosedOnlyUsesBaseDate(t *testing.T) {
	now := utc(2025, 5, 10)
	it := Item{
		ID:                 "milk",
		Quantity:           1,
		CreatedAt:          utc(2025, 5, 1),
		BaseExpirationDate: utc(2025, 5, 20),
	}

	res, err := Resolve(it, now)
	require.NoError(t, err)
	assert.Equal(t, utc(2025, 5, 20), res.ClosedExpiry)
	assert.Nil(t, res.OpenedExpiry)
	assert.Equal(t, utc(2025, 5, 20), res.EffectiveExpiry)
	assert.Equal(t, 10, res.DaysRemaining)
}

func TestResolveFreshIgnoresBaseDate(t *testing.T) {
	it := Item{
		ID:                 "salad",
		Quantity:           1,
		IsFresh:            true,
		CreatedAt:          utc(2025, 1, 1),
		BaseExpirationDate: utc(2025, 12, 31), // must be ignored
	}

	res, err := Resolve(it, utc(2025, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, utc(2025, 1, 4), res.ClosedExpiry)
	assert.Equal(t, utc(2025, 1, 4), res.EffectiveExpiry)
}

func TestResolveAdvancedExpiryWhileSealed(t *testing.T) {
	created := utc(2025, 2, 1)
	it := Item{
		ID:                "rice",
		Quantity:          2,
		CreatedAt:         created,
		UseAdvancedExpiry: true,
	}

	res, err := Resolve(it, utc(2025, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, created.AddDate(0, 0, 120), res.ClosedExpiry)

	// A catalog constant overrides the fixed window.
	it.AdvancedExpiryDays = 365
	res, err = Resolve(it, utc(2025, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, created.AddDate(0, 0, 365), res.ClosedExpiry)
}

func TestResolveAdvancedExpiryStopsOnceOpened(t *testing.T) {
	opened := utc(2025, 3, 1)
	it := Item{
		ID:                 "sauce",
		Quantity:           2,
		CreatedAt:          utc(2025, 2, 1),
		BaseExpirationDate: utc(2025, 9, 1),
		UseAdvancedExpiry:  true,
		OpenedQuantity:     1,
		OpenedDate:         &opened,
	}

	res, err := Resolve(it, opened)
	require.NoError(t, err)
	// The sealed 120-day window no longer applies: the closed portion falls
	// back to the stored date and the opened portion runs its 3-day clock.
	assert.Equal(t, utc(2025, 9, 1), res.ClosedExpiry)
	require.NotNil(t, res.OpenedExpiry)
	assert.Equal(t, opened.AddDate(0, 0, 3), *res.OpenedExpiry)
	assert.Equal(t, opened.AddDate(0, 0, 3), res.EffectiveExpiry)
}

func TestResolveMixedPortionsTakesEarliestDeadline(t *testing.T) {
	// quantity 4, 2 opened at t, base date t+10d: effective must be t+3d.
	tt := utc(2025, 4, 1)
	it := Item{
		ID:                 "yogurt-pack",
		Quantity:           4,
		CreatedAt:          tt.AddDate(0, 0, -1),
		BaseExpirationDate: tt.AddDate(0, 0, 10),
		OpenedQuantity:     2,
		OpenedDate:         &tt,
	}

	res, err := Resolve(it, tt)
	require.NoError(t, err)
	assert.Equal(t, tt.AddDate(0, 0, 3), res.EffectiveExpiry)
	assert.Equal(t, tt.AddDate(0, 0, 10), res.ClosedExpiry)
	assert.Equal(t, 3, res.DaysRemaining)
}

func TestResolveMixedPortionsClosedCanBeEarlier(t *testing.T) {
	opened := utc(2025, 4, 10)
	it := Item{
		ID:                 "cheese",
		Quantity:           3,
		CreatedAt:          utc(2025, 4, 1),
		BaseExpirationDate: utc(2025, 4, 11), // closed goes first
		OpenedQuantity:     1,
		OpenedDate:         &opened,
	}

	res, err := Resolve(it, opened)
	require.NoError(t, err)
	assert.Equal(t, utc(2025, 4, 11), res.EffectiveExpiry)
}

func TestResolveFullyOpenedIgnoresClosedDate(t *testing.T) {
	opened := utc(2025, 4, 10)
	it := Item{
		ID:                 "juice",
		Quantity:           1,
		CreatedAt:          utc(2025, 4, 1),
		BaseExpirationDate: utc(2025, 4, 5), // earlier, but holds no quantity
		OpenedQuantity:     1,
		OpenedDate:         &opened,
	}

	res, err := Resolve(it, opened)
	require.NoError(t, err)
	assert.Equal(t, opened.AddDate(0, 0, 3), res.EffectiveExpiry)
	assert.Equal(t, 3, res.DaysRemaining)
}

func TestResolveRejectsInvalidInput(t *testing.T) {
	now := utc(2025, 1, 1)

	_, err := Resolve(Item{ID: "zero", Quantity: 0, BaseExpirationDate: now}, now)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = Resolve(Item{ID: "over-opened", Quantity: 1, OpenedQuantity: 2, BaseExpirationDate: now}, now)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = Resolve(Item{ID: "no-date", Quantity: 1, OpenedQuantity: 1, BaseExpirationDate: now}, now)
	assert.ErrorIs(t, err, ErrInconsistentPortionState)

	_, err = Resolve(Item{ID: "no-expiry", Quantity: 1, CreatedAt: now}, now)
	assert.ErrorIs(t, err, ErrMissingExpiration)
}

func TestResolveIsIdempotent(t *testing.T) {
	opened := utc(2025, 6, 1)
	it := Item{
		ID:                 "ham",
		Quantity:           2,
		CreatedAt:          utc(2025, 5, 28),
		BaseExpirationDate: utc(2025, 6, 10),
		OpenedQuantity:     1,
		OpenedDate:         &opened,
	}
	now := utc(2025, 6, 2)

	first, err := Resolve(it, now)
	require.NoError(t, err)
	second, err := Resolve(it, now)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDaysRemainingNeverIncreasesAsTimeAdvances(t *testing.T) {
	it := Item{
		ID:                 "butter",
		Quantity:           1,
		CreatedAt:          utc(2025, 7, 1),
		BaseExpirationDate: utc(2025, 7, 9),
	}

	prev := int(^uint(0) >> 1) // max int
	for d := 0; d < 15; d++ {
		res, err := Resolve(it, utc(2025, 7, 1).AddDate(0, 0, d))
		require.NoError(t, err)
		assert.LessOrEqual(t, res.DaysRemaining, prev, "day offset %d", d)
		prev = res.DaysRemaining
	}
	// Well past the date the count keeps going negative.
	res, err := Resolve(it, utc(2025, 7, 20))
	require.NoError(t, err)
	assert.Equal(t, -11, res.DaysRemaining)
}
