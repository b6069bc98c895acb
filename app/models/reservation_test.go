package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func d(day int) time.Time {
	return time.Date(2026, 9, day, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	r := Reservation{StartDate: d(5), EndDate: d(10)}

	// Both windows are inclusive on both ends.
	assert.True(t, r.Overlaps(d(10), d(12)), "shared end day")
	assert.True(t, r.Overlaps(d(1), d(5)), "shared start day")
	assert.True(t, r.Overlaps(d(6), d(6)), "single day inside")
	assert.True(t, r.Overlaps(d(1), d(20)), "query covers reservation")
	assert.True(t, r.Overlaps(d(7), d(8)), "reservation covers query")

	assert.False(t, r.Overlaps(d(1), d(4)), "ends day before start")
	assert.False(t, r.Overlaps(d(11), d(20)), "starts day after end")
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusInProgress, false},
		{StatusPending, StatusCompleted, false},

		{StatusApproved, StatusInProgress, true},
		{StatusApproved, StatusCompleted, true},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusApproved, false},

		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusApproved, false},

		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusApproved, false},
		{StatusRejected, StatusPending, false},
	}
	for _, tc := range cases {
		r := Reservation{Status: tc.from}
		assert.Equalf(t, tc.ok, r.CanTransition(tc.to), "%s → %s", tc.from, tc.to)
	}
}

func TestActiveAndTerminal(t *testing.T) {
	for _, s := range ActiveStatuses {
		r := Reservation{Status: s}
		assert.True(t, r.IsActive(), s)
		assert.False(t, r.IsTerminal(), s)
	}
	for _, s := range []string{StatusCompleted, StatusCancelled, StatusRejected} {
		r := Reservation{Status: s}
		assert.False(t, r.IsActive(), s)
		assert.True(t, r.IsTerminal(), s)
	}
}

func TestMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2026, 9, 3, 23, 59, 59, 0, loc)
	assert.Equal(t, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), Midnight(in))
}
