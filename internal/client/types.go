package client

import (
	"fmt"
	"time"

	"dermoagenda/internal/scheduling"
)

// CalendarEventDTO is the wire shape of one calendar event as served by
// GET /api/admin/calendar. Bookings and blocks share it; Type discriminates.
type CalendarEventDTO struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type"`
	StartAt       time.Time `json:"startAt"`
	EndAt         time.Time `json:"endAt"`
	Status        string    `json:"status"`
	CustomerName  string    `json:"customerName,omitempty"`
	ServiceName   string    `json:"serviceName,omitempty"`
	PaymentStatus string    `json:"paymentStatus,omitempty"`
	Reason        string    `json:"reason,omitempty"`
}

// Event converts the DTO into the engine's event union.
func (d CalendarEventDTO) Event() (scheduling.Event, error) {
	switch scheduling.EventType(d.Type) {
	case scheduling.TypeBooking:
		return scheduling.BookingEvent{
			ID:            d.ID,
			StartAt:       d.StartAt,
			EndAt:         d.EndAt,
			CustomerName:  d.CustomerName,
			ServiceName:   d.ServiceName,
			Status:        scheduling.BookingStatus(d.Status),
			PaymentStatus: scheduling.PaymentStatus(d.PaymentStatus),
		}, nil
	case scheduling.TypeBlock:
		return scheduling.BlockEvent{
			ID:      d.ID,
			StartAt: d.StartAt,
			EndAt:   d.EndAt,
			Reason:  d.Reason,
			Status:  scheduling.BlockStatus(d.Status),
		}, nil
	default:
		return nil, fmt.Errorf("unknown calendar event type %q", d.Type)
	}
}

// CreateBlockRequest is the body of POST /api/admin/blocks.
type CreateBlockRequest struct {
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
	Reason  string    `json:"reason"`
}

// CustomerUpdate is the body of PATCH /api/admin/bookings/{id}/customer.
type CustomerUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Whatsapp string `json:"whatsapp"`
	Comments string `json:"comments"`
}

// HistoryEntry is one audit record for a booking.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	EventType string    `json:"eventType"`
	Actor     string    `json:"actor"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateBookingRequest is the body of POST /api/public/bookings.
type CreateBookingRequest struct {
	ServiceID        int64   `json:"serviceId"`
	CustomerName     string  `json:"customerName"`
	CustomerEmail    string  `json:"customerEmail"`
	CustomerWhatsapp string  `json:"customerWhatsapp"`
	CustomerComments string  `json:"customerComments,omitempty"`
	BookingDate      string  `json:"bookingDate"`
	BookingTime      string  `json:"bookingTime"`
	DurationMinutes  int     `json:"durationMinutes"`
	Amount           float64 `json:"amount"`
}

// BookingDTO is the wire shape of a booking outside the calendar feed.
type BookingDTO struct {
	ID            int64     `json:"id"`
	Number        string    `json:"number"`
	StartAt       time.Time `json:"startAt"`
	EndAt         time.Time `json:"endAt"`
	CustomerName  string    `json:"customerName"`
	ServiceName   string    `json:"serviceName"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
}

// BlockDTO is the wire shape of a block outside the calendar feed.
type BlockDTO struct {
	ID      int64     `json:"id"`
	Number  string    `json:"number"`
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
	Reason  string    `json:"reason"`
	Status  string    `json:"status"`
}
