package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	at := time.Date(2025, 6, 15, 23, 59, 59, 0, loc)
	got := StartOfDay(at)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestDaysBetween(t *testing.T) {
	day := func(d int, hour int) time.Time {
		return time.Date(2025, 3, d, hour, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same instant", day(10, 12), day(10, 12), 0},
		{"same day different hours", day(10, 23), day(10, 1), 0},
		{"next day just after midnight", day(10, 23), day(11, 0), 1},
		{"previous day", day(10, 1), day(9, 23), -1},
		{"ten days out", day(1, 8), day(11, 8), 10},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, DaysBetween(c.from, c.to))
		})
	}
}

func TestDaysBetweenAcrossDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// The clocks spring forward on 2025-03-30: that day is 23 hours long.
	// Counting by civil dates must still report exactly 2 days.
	from := time.Date(2025, 3, 29, 10, 0, 0, 0, loc)
	to := time.Date(2025, 3, 31, 10, 0, 0, 0, loc)
	assert.Equal(t, 2, DaysBetween(from, to))
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC)
	clk := FixedClock{At: at}
	assert.Equal(t, at, clk.Now())
	assert.Equal(t, at, clk.Now()) // stays pinned
}
