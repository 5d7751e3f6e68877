package scheduling

import (
	"sort"
	"time"
)

// FullyBlockedThreshold is the blocked-minutes ratio above which the month
// view paints a day as fully blocked. Display heuristic only; it does not
// prevent bookings.
const FullyBlockedThreshold = 0.9

// DayEvents is one calendar day's events, partitioned by type.
type DayEvents struct {
	Bookings []BookingEvent
	Blocks   []BlockEvent
}

// SameLocalDay compares the calendar date of two instants in loc.
func SameLocalDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// EventsForDay filters events to those starting on the given calendar day
// (local date, not UTC-truncated) and partitions them by type.
func EventsForDay(events []Event, day time.Time, loc *time.Location) DayEvents {
	var out DayEvents
	for _, ev := range events {
		if !SameLocalDay(ev.Interval().Start, day, loc) {
			continue
		}
		switch e := ev.(type) {
		case BookingEvent:
			out.Bookings = append(out.Bookings, e)
		case BlockEvent:
			out.Blocks = append(out.Blocks, e)
		}
	}
	return out
}

// BlockedMinutes sums the non-overlapping coverage of the active blocks
// clamped to the work window.
func BlockedMinutes(blocks []BlockEvent, window Interval) float64 {
	clamped := make([]Interval, 0, len(blocks))
	for _, b := range blocks {
		if !b.Occupies() {
			continue
		}
		iv := b.Interval().Clamp(window)
		if iv.Duration() > 0 {
			clamped = append(clamped, iv)
		}
	}
	if len(clamped) == 0 {
		return 0
	}

	sort.Slice(clamped, func(i, j int) bool { return clamped[i].Start.Before(clamped[j].Start) })

	var total time.Duration
	cur := clamped[0]
	for _, iv := range clamped[1:] {
		if iv.Start.After(cur.End) {
			total += cur.Duration()
			cur = iv
			continue
		}
		if iv.End.After(cur.End) {
			cur.End = iv.End
		}
	}
	total += cur.Duration()

	return total.Minutes()
}

// IsFullyBlocked reports whether the day's active blocks cover at least
// FullyBlockedThreshold of the work window.
func IsFullyBlocked(blocks []BlockEvent, window Interval) bool {
	workMinutes := window.Duration().Minutes()
	if workMinutes <= 0 {
		return false
	}
	return BlockedMinutes(blocks, window)/workMinutes >= FullyBlockedThreshold
}
