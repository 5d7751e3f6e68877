package scheduling

import (
	"time"

	"dermoagenda/internal/schedule"
)

// AvailableSlots computes the free "HH:MM" start times for a service of the
// given duration on a date. Slots step every 30 minutes from the day's open
// time; a slot is offered when the full duration fits before close and does
// not overlap any occupying booking or active block. Returns nil on closed
// days. Mirrors the server-side resolver so manual-booking forms can
// pre-check without a round trip.
func AvailableSlots(sched schedule.Weekly, date time.Time, duration time.Duration, events []Event, loc *time.Location) []string {
	hours, ok := sched.DayHours(date)
	if !ok {
		return nil
	}

	openMin, err := schedule.ClockMinutes(hours.StartTime)
	if err != nil {
		return nil
	}
	closeMin, err := schedule.ClockMinutes(hours.EndTime)
	if err != nil {
		return nil
	}

	// Round odd service durations up to the slot granularity.
	durMin := int(duration.Minutes())
	if durMin <= 0 {
		return nil
	}
	if durMin%SlotMinutes != 0 {
		durMin = ((durMin + SlotMinutes - 1) / SlotMinutes) * SlotMinutes
	}

	day := EventsForDay(events, date, loc)
	occupying := make([]Event, 0, len(day.Bookings)+len(day.Blocks))
	for _, b := range day.Bookings {
		if b.Occupies() {
			occupying = append(occupying, b)
		}
	}
	for _, bl := range day.Blocks {
		if bl.Occupies() {
			occupying = append(occupying, bl)
		}
	}

	window := dayWindow(date, openMin, closeMin, loc)
	if IsFullyBlocked(day.Blocks, window) {
		return nil
	}

	var out []string
	for startMin := openMin; startMin+durMin <= closeMin; startMin += SlotMinutes {
		slotStart := atMinutes(date, startMin, loc)
		if !HasCollision(slotStart, time.Duration(durMin)*time.Minute, occupying, 0) {
			out = append(out, schedule.FormatClock(startMin))
		}
	}
	return out
}

// SlotTimes lists the form-selectable "HH:MM" start times for a date,
// stepped every 30 minutes within the day's configured hours. Nil when the
// day is disabled.
func SlotTimes(sched schedule.Weekly, date time.Time) []string {
	hours, ok := sched.DayHours(date)
	if !ok {
		return nil
	}
	openMin, err := schedule.ClockMinutes(hours.StartTime)
	if err != nil {
		return nil
	}
	closeMin, err := schedule.ClockMinutes(hours.EndTime)
	if err != nil {
		return nil
	}

	var out []string
	for m := openMin; m < closeMin; m += SlotMinutes {
		out = append(out, schedule.FormatClock(m))
	}
	return out
}

// BlockDuration is one selectable duration for the block-creation form.
type BlockDuration struct {
	Label   string
	Minutes int
	FullDay bool
}

// BlockDurationOptions returns the fixed duration choices plus a "Todo el
// dia" option sized to the day's configured hours. Nil when the day is
// disabled.
func BlockDurationOptions(sched schedule.Weekly, date time.Time) []BlockDuration {
	full := FullDayMinutes(sched, date)
	if full <= 0 {
		return nil
	}
	return []BlockDuration{
		{Label: "30 min", Minutes: 30},
		{Label: "1 hora", Minutes: 60},
		{Label: "2 horas", Minutes: 120},
		{Label: "4 horas", Minutes: 240},
		{Label: "Todo el dia", Minutes: full, FullDay: true},
	}
}

// FullDayMinutes computes closeMinutes - openMinutes for the date's weekday,
// or 0 when the day is disabled.
func FullDayMinutes(sched schedule.Weekly, date time.Time) int {
	hours, ok := sched.DayHours(date)
	if !ok {
		return 0
	}
	openMin, err := schedule.ClockMinutes(hours.StartTime)
	if err != nil {
		return 0
	}
	closeMin, err := schedule.ClockMinutes(hours.EndTime)
	if err != nil {
		return 0
	}
	return closeMin - openMin
}

func dayWindow(date time.Time, openMin, closeMin int, loc *time.Location) Interval {
	return Interval{
		Start: atMinutes(date, openMin, loc),
		End:   atMinutes(date, closeMin, loc),
	}
}

// AtClock combines a calendar date with an "HH:MM" clock in loc.
func AtClock(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	minutes, err := schedule.ClockMinutes(clock)
	if err != nil {
		return time.Time{}, err
	}
	return atMinutes(date, minutes, loc), nil
}

func atMinutes(date time.Time, minutes int, loc *time.Location) time.Time {
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), minutes/60, minutes%60, 0, 0, loc)
}
