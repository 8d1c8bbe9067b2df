package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/AdamBeresnev/racquet-draw/internal/bracket"
	"github.com/AdamBeresnev/racquet-draw/internal/utils"
)

const minutesPerDay = 24 * 60

// AssignCourts gives matches, in order, one (court, slot) each. Every court of a time slot
// is used before moving to the next slot. Matches left over once slots run out stay
// unscheduled. It returns how many matches were assigned.
func AssignCourts(matches []*bracket.Match, courts []bracket.Court, slots []bracket.TimeSlot, duration time.Duration) int {
	if len(courts) == 0 || len(slots) == 0 {
		return 0
	}

	// Windows with an unparseable start are dropped up front so no match loses its turn.
	minutes := int(duration / time.Minute)
	type window struct {
		slot bracket.TimeSlot
		end  string
	}
	var windows []window
	for _, slot := range chronological(slots) {
		end, err := addMinutes(slot.StartTime, minutes)
		if err != nil {
			continue
		}
		windows = append(windows, window{slot: slot, end: end})
	}

	slotIdx, courtIdx := 0, 0
	assigned := 0
	for _, m := range matches {
		if slotIdx >= len(windows) {
			break
		}
		w := windows[slotIdx]
		court := courts[courtIdx]

		m.CourtID = utils.Ptr(court.ID)
		m.ScheduledDate = utils.Ptr(w.slot.Date)
		m.StartTime = utils.Ptr(w.slot.StartTime)
		m.EndTime = utils.Ptr(w.end)
		assigned++

		courtIdx++
		if courtIdx == len(courts) {
			courtIdx = 0
			slotIdx++
		}
	}
	return assigned
}

// CourtTimeSlots expands courts and windows into every schedulable combination,
// ordered as AssignCourts consumes them.
func CourtTimeSlots(courts []bracket.Court, slots []bracket.TimeSlot) []bracket.CourtTimeSlot {
	ordered := chronological(slots)

	out := make([]bracket.CourtTimeSlot, 0, len(courts)*len(ordered))
	for _, s := range ordered {
		for _, c := range courts {
			out = append(out, bracket.CourtTimeSlot{CourtID: c.ID, Date: s.Date, StartTime: s.StartTime, EndTime: s.EndTime})
		}
	}
	return out
}

func chronological(slots []bracket.TimeSlot) []bracket.TimeSlot {
	ordered := make([]bracket.TimeSlot, len(slots))
	copy(ordered, slots)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Date != ordered[j].Date {
			return ordered[i].Date < ordered[j].Date
		}
		return ordered[i].StartTime < ordered[j].StartTime
	})
	return ordered
}

// addMinutes adds to an HH:MM clock time, wrapping past midnight.
func addMinutes(clock string, minutes int) (string, error) {
	var h, m int
	if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err != nil {
		return "", fmt.Errorf("parse time %q: %w", clock, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return "", fmt.Errorf("time %q out of range", clock)
	}

	total := (h*60 + m + minutes) % minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}
