// Package calendarview builds pure view models for the admin agenda. Nothing
// here touches the network or owns state; callers feed it the visible events
// and the weekly schedule and render the result.
package calendarview

import (
	"fmt"
	"time"

	"dermoagenda/internal/scheduling"
)

// CardState is the visual state of a booking card on the day grid.
type CardState string

const (
	CardConfirmed CardState = "confirmed"
	CardPending   CardState = "pending"
	CardCancelled CardState = "cancelled"
	CardCompleted CardState = "completed"
	CardDefault   CardState = "default"
)

// BookingCardState maps a booking's status pair to its card state. Priority:
// confirmed or paid, then pending, then cancelled, then completed.
func BookingCardState(status scheduling.BookingStatus, payment scheduling.PaymentStatus) CardState {
	switch {
	case status == scheduling.BookingConfirmed || payment == scheduling.PaymentPaid:
		return CardConfirmed
	case status == scheduling.BookingPending || payment == scheduling.PaymentPending:
		return CardPending
	case status == scheduling.BookingCancelled:
		return CardCancelled
	case status == scheduling.BookingCompleted:
		return CardCompleted
	default:
		return CardDefault
	}
}

// HourRow is one labeled hour line on the day grid.
type HourRow struct {
	Hour  int
	Label string
	TopPx float64
}

// BookingCard is a positioned booking on the day grid.
type BookingCard struct {
	Event    scheduling.BookingEvent
	TopPx    float64
	HeightPx float64
	State    CardState
}

// BlockCard is a positioned block on the day grid.
type BlockCard struct {
	Event    scheduling.BlockEvent
	TopPx    float64
	HeightPx float64
}

// NowIndicator marks the current time on the grid when viewing today.
type NowIndicator struct {
	Visible bool
	TopPx   float64
}

// DayGrid is the fully positioned day view.
type DayGrid struct {
	Date     time.Time
	Hours    []HourRow
	Bookings []BookingCard
	Blocks   []BlockCard
	Now      NowIndicator
}

// BuildDayGrid lays out one day's timeline. Cancelled events are dropped;
// the fetch layer decides whether they were loaded at all. The now indicator
// appears only when date is today in loc and the current hour falls inside
// the visible range.
func BuildDayGrid(date time.Time, events []scheduling.Event, now time.Time, loc *time.Location) DayGrid {
	grid := DayGrid{Date: date}

	for h := scheduling.StartHour; h <= scheduling.EndHour; h++ {
		grid.Hours = append(grid.Hours, HourRow{
			Hour:  h,
			Label: fmt.Sprintf("%02d:00", h),
			TopPx: float64((h - scheduling.StartHour) * scheduling.HourHeightPx),
		})
	}

	day := scheduling.EventsForDay(events, date, loc)
	for _, b := range day.Bookings {
		if b.Cancelled() {
			continue
		}
		start := b.StartAt.In(loc)
		grid.Bookings = append(grid.Bookings, BookingCard{
			Event:    b,
			TopPx:    scheduling.TimeToPosition(start, scheduling.StartHour, scheduling.HourHeightPx),
			HeightPx: scheduling.HeightForSpan(b.StartAt, b.EndAt, scheduling.HourHeightPx),
			State:    BookingCardState(b.Status, b.PaymentStatus),
		})
	}
	for _, bl := range day.Blocks {
		if bl.Cancelled() {
			continue
		}
		start := bl.StartAt.In(loc)
		grid.Blocks = append(grid.Blocks, BlockCard{
			Event:    bl,
			TopPx:    scheduling.TimeToPosition(start, scheduling.StartHour, scheduling.HourHeightPx),
			HeightPx: scheduling.HeightForSpan(bl.StartAt, bl.EndAt, scheduling.HourHeightPx),
		})
	}

	localNow := now.In(loc)
	if scheduling.SameLocalDay(localNow, date, loc) &&
		localNow.Hour() >= scheduling.StartHour && localNow.Hour() < scheduling.EndHour {
		grid.Now = NowIndicator{
			Visible: true,
			TopPx:   scheduling.TimeToPosition(localNow, scheduling.StartHour, scheduling.HourHeightPx),
		}
	}

	return grid
}

// DropTime derives the "HH:MM" reschedule target from a drop's vertical
// offset on the grid.
func DropTime(yPx float64) string {
	return scheduling.PositionToTime(yPx, scheduling.StartHour, scheduling.HourHeightPx)
}
