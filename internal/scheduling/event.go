package scheduling

import (
	"sort"
	"time"
)

// EventType discriminates the calendar event union.
type EventType string

const (
	TypeBooking EventType = "BOOKING"
	TypeBlock   EventType = "BLOCK"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

type PaymentStatus string

const (
	PaymentPending     PaymentStatus = "PENDING"
	PaymentPaid        PaymentStatus = "PAID"
	PaymentFailed      PaymentStatus = "FAILED"
	PaymentRefunded    PaymentStatus = "REFUNDED"
	PaymentNotRequired PaymentStatus = "NOT_REQUIRED"
)

type BlockStatus string

const (
	BlockActive    BlockStatus = "ACTIVE"
	BlockCancelled BlockStatus = "CANCELLED"
)

// Event is the calendar event sum type: a BookingEvent or a BlockEvent.
// Renderers and the collision checker switch exhaustively on the concrete type.
type Event interface {
	EventID() int64
	Kind() EventType
	Interval() Interval
	// Occupies reports whether the event blocks time for availability purposes.
	Occupies() bool
	// Cancelled events never participate in collision checks and are hidden
	// from default rendering.
	Cancelled() bool
}

// BookingEvent is an appointment on the calendar. Immutable snapshot; any
// change goes through a command and a full reload.
type BookingEvent struct {
	ID            int64
	StartAt       time.Time
	EndAt         time.Time
	CustomerName  string
	ServiceName   string
	Status        BookingStatus
	PaymentStatus PaymentStatus
}

func (e BookingEvent) EventID() int64     { return e.ID }
func (e BookingEvent) Kind() EventType    { return TypeBooking }
func (e BookingEvent) Interval() Interval { return Interval{Start: e.StartAt, End: e.EndAt} }

func (e BookingEvent) Occupies() bool {
	return e.Status == BookingPending || e.Status == BookingConfirmed
}

func (e BookingEvent) Cancelled() bool { return e.Status == BookingCancelled }

// Duration is the booked span.
func (e BookingEvent) Duration() time.Duration { return e.EndAt.Sub(e.StartAt) }

// BlockEvent is an admin-created hold on the agenda (holiday, personal day).
type BlockEvent struct {
	ID      int64
	StartAt time.Time
	EndAt   time.Time
	Reason  string
	Status  BlockStatus
}

func (e BlockEvent) EventID() int64     { return e.ID }
func (e BlockEvent) Kind() EventType    { return TypeBlock }
func (e BlockEvent) Interval() Interval { return Interval{Start: e.StartAt, End: e.EndAt} }
func (e BlockEvent) Occupies() bool     { return e.Status == BlockActive }
func (e BlockEvent) Cancelled() bool    { return e.Status == BlockCancelled }

// SortEvents orders events by start time, in place.
func SortEvents(events []Event) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].Interval().Start.Before(events[j].Interval().Start)
	})
}
