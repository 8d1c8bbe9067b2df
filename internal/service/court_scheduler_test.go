package service

import (
	"testing"
	"time"

	"github.com/AdamBeresnev/racquet-draw/internal/bracket"
	"github.com/AdamBeresnev/racquet-draw/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMatches(n int) []*bracket.Match {
	matches := make([]*bracket.Match, n)
	for i := range matches {
		matches[i] = &bracket.Match{ID: uuid.New(), Seq: i}
	}
	return matches
}

func TestAssignCourts(t *testing.T) {
	court1 := bracket.Court{ID: uuid.New(), Name: "Court 1", Position: 1}
	court2 := bracket.Court{ID: uuid.New(), Name: "Court 2", Position: 2}
	// Deliberately out of chronological order.
	slots := []bracket.TimeSlot{
		{Date: "2026-05-02", StartTime: "23:15", EndTime: "23:59"},
		{Date: "2026-05-01", StartTime: "18:00", EndTime: "19:30"},
		{Date: "2026-05-01", StartTime: "19:30", EndTime: "21:00"},
	}

	matches := newMatches(5)
	assigned := AssignCourts(matches, []bracket.Court{court1, court2}, slots, 90*time.Minute)
	require.Equal(t, 5, assigned)

	expected := []struct {
		court uuid.UUID
		date  string
		start string
		end   string
	}{
		{court1.ID, "2026-05-01", "18:00", "19:30"},
		{court2.ID, "2026-05-01", "18:00", "19:30"},
		{court1.ID, "2026-05-01", "19:30", "21:00"},
		{court2.ID, "2026-05-01", "19:30", "21:00"},
		{court1.ID, "2026-05-02", "23:15", "00:45"},
	}
	for i, want := range expected {
		m := matches[i]
		require.True(t, m.Scheduled(), "m%d", i+1)
		assert.Equal(t, want.court, *m.CourtID, "m%d court", i+1)
		assert.Equal(t, want.date, *m.ScheduledDate, "m%d date", i+1)
		assert.Equal(t, want.start, *m.StartTime, "m%d start", i+1)
		assert.Equal(t, want.end, *m.EndTime, "m%d end", i+1)
	}
}

func TestAssignCourtsSkipsUnreadableSlotWithoutSkippingMatches(t *testing.T) {
	court := bracket.Court{ID: uuid.New()}
	slots := []bracket.TimeSlot{
		{Date: "2026-05-01", StartTime: "09:00"},
		{Date: "2026-05-01", StartTime: "10:xx"},
		{Date: "2026-05-01", StartTime: "12:00"},
	}

	matches := newMatches(3)
	assigned := AssignCourts(matches, []bracket.Court{court}, slots, 90*time.Minute)
	assert.Equal(t, 2, assigned)

	require.True(t, matches[0].Scheduled())
	assert.Equal(t, "09:00", *matches[0].StartTime)
	require.True(t, matches[1].Scheduled(), "the second match takes the next readable slot")
	assert.Equal(t, "12:00", *matches[1].StartTime)
	assert.Equal(t, "13:30", *matches[1].EndTime)
	assert.False(t, matches[2].Scheduled())
}

func TestAssignCourtsLeavesOverflowUnscheduled(t *testing.T) {
	courts := []bracket.Court{{ID: uuid.New()}, {ID: uuid.New()}}
	slots := []bracket.TimeSlot{{Date: "2026-05-01", StartTime: "10:00"}}

	matches := newMatches(3)
	assert.Equal(t, 2, AssignCourts(matches, courts, slots, time.Hour))
	assert.True(t, matches[0].Scheduled())
	assert.True(t, matches[1].Scheduled())
	assert.False(t, matches[2].Scheduled())
	assert.Nil(t, matches[2].StartTime)
}

func TestAssignCourtsWithoutVenue(t *testing.T) {
	testCases := []struct {
		name   string
		courts []bracket.Court
		slots  []bracket.TimeSlot
	}{
		{name: "no courts", slots: []bracket.TimeSlot{{Date: "2026-05-01", StartTime: "10:00"}}},
		{name: "no slots", courts: []bracket.Court{{ID: uuid.New()}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			matches := newMatches(2)
			assert.Zero(t, AssignCourts(matches, tc.courts, tc.slots, time.Hour))
			for _, m := range matches {
				assert.False(t, m.Scheduled())
			}
		})
	}
}

func TestCourtTimeSlotsStableForEqualStarts(t *testing.T) {
	court := bracket.Court{ID: uuid.New()}
	slots := []bracket.TimeSlot{
		{ID: uuid.New(), Date: "2026-05-01", StartTime: "10:00", EndTime: "11:00"},
		{ID: uuid.New(), Date: "2026-05-01", StartTime: "10:00", EndTime: "11:30"},
	}

	ordered := CourtTimeSlots([]bracket.Court{court}, slots)
	require.Len(t, ordered, 2)
	assert.Equal(t, "11:00", ordered[0].EndTime)
	assert.Equal(t, "11:30", ordered[1].EndTime)
}

func TestCourtTimeSlots(t *testing.T) {
	c1, c2 := bracket.Court{ID: uuid.New()}, bracket.Court{ID: uuid.New()}
	slots := []bracket.TimeSlot{
		{Date: "2026-05-02", StartTime: "09:00"},
		{Date: "2026-05-01", StartTime: "09:00"},
	}

	combos := CourtTimeSlots([]bracket.Court{c1, c2}, slots)
	require.Len(t, combos, 4)
	assert.Equal(t, bracket.CourtTimeSlot{CourtID: c1.ID, Date: "2026-05-01", StartTime: "09:00"}, combos[0])
	assert.Equal(t, bracket.CourtTimeSlot{CourtID: c2.ID, Date: "2026-05-01", StartTime: "09:00"}, combos[1])
	assert.Equal(t, bracket.CourtTimeSlot{CourtID: c1.ID, Date: "2026-05-02", StartTime: "09:00"}, combos[2])
	assert.Equal(t, bracket.CourtTimeSlot{CourtID: c2.ID, Date: "2026-05-02", StartTime: "09:00"}, combos[3])
}

func TestAddMinutes(t *testing.T) {
	testCases := []struct {
		clock    string
		minutes  int
		expected string
		wantErr  bool
	}{
		{clock: "10:00", minutes: 90, expected: "11:30"},
		{clock: "23:15", minutes: 90, expected: "00:45"},
		{clock: "22:59", minutes: 61, expected: "00:00"},
		{clock: "09:30", minutes: 24 * 60, expected: "09:30"},
		{clock: "00:00", minutes: 0, expected: "00:00"},
		{clock: "07:05", minutes: 5, expected: "07:10"},
		{clock: "24:00", minutes: 10, wantErr: true},
		{clock: "noon", minutes: 10, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.clock, func(t *testing.T) {
			got, err := addMinutes(tc.clock, tc.minutes)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestAssignCourtsUsesStartTimePlusDuration(t *testing.T) {
	matches := newMatches(1)
	AssignCourts(matches,
		[]bracket.Court{{ID: uuid.New()}},
		[]bracket.TimeSlot{{Date: "2026-05-01", StartTime: "16:45", EndTime: "17:00"}},
		45*time.Minute)

	assert.Equal(t, utils.Ptr("17:30"), matches[0].EndTime)
}
