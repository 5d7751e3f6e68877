package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Booking audit event types.
const (
	HistoryCreated         = "CREATED"
	HistoryStatusChanged   = "STATUS_CHANGED"
	HistoryRescheduled     = "RESCHEDULED"
	HistoryCustomerUpdated = "CUSTOMER_UPDATED"
	HistoryPaymentUpdated  = "PAYMENT_UPDATED"
)

// Audit actors.
const (
	ActorAdmin    = "ADMIN"
	ActorSystem   = "SYSTEM"
	ActorCustomer = "CUSTOMER"
)

// HistoryEntry is one append-only audit record for a booking.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"bookingId"`
	EventType string    `json:"eventType"`
	Actor     string    `json:"actor"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type HistoryStore struct {
	db *pgxpool.Pool
}

func (s *HistoryStore) Append(ctx context.Context, entry *HistoryEntry) error {
	query := `
        INSERT INTO booking_history (booking_id, event_type, actor, detail)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		entry.BookingID,
		entry.EventType,
		entry.Actor,
		entry.Detail,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (s *HistoryStore) ListByBooking(ctx context.Context, bookingID int64) ([]HistoryEntry, error) {
	query := `
        SELECT id, booking_id, event_type, actor, detail, created_at
        FROM booking_history
        WHERE booking_id = $1
        ORDER BY created_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.BookingID, &e.EventType, &e.Actor, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
