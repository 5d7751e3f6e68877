package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dermoagenda/internal/scheduling"
)

// Booking is an appointment record.
type Booking struct {
	ID               int64     `json:"id"`
	Number           string    `json:"number"`
	ServiceID        int64     `json:"serviceId"`
	ServiceName      string    `json:"serviceName"`
	CustomerName     string    `json:"customerName"`
	CustomerEmail    string    `json:"customerEmail"`
	CustomerWhatsapp string    `json:"customerWhatsapp"`
	CustomerComments string    `json:"customerComments,omitempty"`
	StartAt          time.Time `json:"startAt"`
	EndAt            time.Time `json:"endAt"`
	Amount           float64   `json:"amount"`
	Status           string    `json:"status"`
	PaymentStatus    string    `json:"paymentStatus"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// NewBookingNumber generates a public booking identifier, BOOK- plus the
// first 8 hex characters of a UUID, uppercased.
func NewBookingNumber() string {
	return "BOOK-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// Event converts the record into the scheduling engine's event union.
func (b *Booking) Event() scheduling.BookingEvent {
	return scheduling.BookingEvent{
		ID:            b.ID,
		StartAt:       b.StartAt,
		EndAt:         b.EndAt,
		CustomerName:  b.CustomerName,
		ServiceName:   b.ServiceName,
		Status:        scheduling.BookingStatus(b.Status),
		PaymentStatus: scheduling.PaymentStatus(b.PaymentStatus),
	}
}

// Cancel marks the booking cancelled. Cancelled and completed bookings stay
// as they are.
func (b *Booking) Cancel() error {
	switch scheduling.BookingStatus(b.Status) {
	case scheduling.BookingCancelled:
		return errors.New("el turno ya esta cancelado")
	case scheduling.BookingCompleted:
		return errors.New("no se puede cancelar un turno completado")
	}
	b.Status = string(scheduling.BookingCancelled)
	return nil
}

// Complete marks the booking completed. Only confirmed bookings complete.
func (b *Booking) Complete() error {
	if scheduling.BookingStatus(b.Status) != scheduling.BookingConfirmed {
		return errors.New("solo se puede completar un turno confirmado")
	}
	b.Status = string(scheduling.BookingCompleted)
	return nil
}

// Confirm marks a pending booking confirmed.
func (b *Booking) Confirm() error {
	if scheduling.BookingStatus(b.Status) != scheduling.BookingPending {
		return errors.New("solo se puede confirmar un turno pendiente")
	}
	b.Status = string(scheduling.BookingConfirmed)
	return nil
}

// ConfirmPayment records a successful payment exactly once and confirms the
// booking. Cancelled bookings do not accept payments.
func (b *Booking) ConfirmPayment() error {
	if scheduling.BookingStatus(b.Status) == scheduling.BookingCancelled {
		return errors.New("el turno esta cancelado")
	}
	if scheduling.PaymentStatus(b.PaymentStatus) == scheduling.PaymentPaid {
		return errors.New("el pago ya fue registrado")
	}
	b.PaymentStatus = string(scheduling.PaymentPaid)
	if scheduling.BookingStatus(b.Status) == scheduling.BookingPending {
		b.Status = string(scheduling.BookingConfirmed)
	}
	return nil
}

// Reschedule moves the booking to newStart, keeping its duration. Cancelled
// and completed bookings cannot move.
func (b *Booking) Reschedule(newStart time.Time) error {
	switch scheduling.BookingStatus(b.Status) {
	case scheduling.BookingCancelled:
		return errors.New("no se puede reagendar un turno cancelado")
	case scheduling.BookingCompleted:
		return errors.New("no se puede reagendar un turno completado")
	}
	duration := b.EndAt.Sub(b.StartAt)
	b.StartAt = newStart
	b.EndAt = newStart.Add(duration)
	return nil
}

type BookingsStore struct {
	db *pgxpool.Pool
}

func (s *BookingsStore) Create(ctx context.Context, booking *Booking) error {
	query := `
        INSERT INTO bookings
            (number, service_id, service_name, customer_name, customer_email,
             customer_whatsapp, customer_comments, start_at, end_at, amount,
             status, payment_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		booking.Number,
		booking.ServiceID,
		booking.ServiceName,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.CustomerWhatsapp,
		booking.CustomerComments,
		booking.StartAt,
		booking.EndAt,
		booking.Amount,
		booking.Status,
		booking.PaymentStatus,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (s *BookingsStore) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query := `
        SELECT id, number, service_id, service_name, customer_name,
               customer_email, customer_whatsapp, customer_comments,
               start_at, end_at, amount, status, payment_status,
               created_at, updated_at
        FROM bookings
        WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var b Booking
	err := s.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Number, &b.ServiceID, &b.ServiceName, &b.CustomerName,
		&b.CustomerEmail, &b.CustomerWhatsapp, &b.CustomerComments,
		&b.StartAt, &b.EndAt, &b.Amount, &b.Status, &b.PaymentStatus,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetByNumber looks a booking up by its public number. Payment webhooks
// carry the number as external reference, not the internal id.
func (s *BookingsStore) GetByNumber(ctx context.Context, number string) (*Booking, error) {
	query := `
        SELECT id, number, service_id, service_name, customer_name,
               customer_email, customer_whatsapp, customer_comments,
               start_at, end_at, amount, status, payment_status,
               created_at, updated_at
        FROM bookings
        WHERE number = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var b Booking
	err := s.db.QueryRow(ctx, query, number).Scan(
		&b.ID, &b.Number, &b.ServiceID, &b.ServiceName, &b.CustomerName,
		&b.CustomerEmail, &b.CustomerWhatsapp, &b.CustomerComments,
		&b.StartAt, &b.EndAt, &b.Amount, &b.Status, &b.PaymentStatus,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetRange returns bookings whose start falls in [from, to]. Cancelled
// bookings are omitted unless includeCancelled is set.
func (s *BookingsStore) GetRange(ctx context.Context, from, to time.Time, includeCancelled bool) ([]Booking, error) {
	query := `
        SELECT id, number, service_id, service_name, customer_name,
               customer_email, customer_whatsapp, customer_comments,
               start_at, end_at, amount, status, payment_status,
               created_at, updated_at
        FROM bookings
        WHERE start_at >= $1 AND start_at <= $2`
	if !includeCancelled {
		query += ` AND status <> 'CANCELLED'`
	}
	query += ` ORDER BY start_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetOccupyingForDay returns the pending and confirmed bookings overlapping
// [dayStart, dayEnd). Used by the availability resolver and conflict checks.
func (s *BookingsStore) GetOccupyingForDay(ctx context.Context, dayStart, dayEnd time.Time) ([]Booking, error) {
	query := `
        SELECT id, number, service_id, service_name, customer_name,
               customer_email, customer_whatsapp, customer_comments,
               start_at, end_at, amount, status, payment_status,
               created_at, updated_at
        FROM bookings
        WHERE start_at < $1 AND end_at > $2
          AND status IN ('PENDING', 'CONFIRMED')
        ORDER BY start_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, dayEnd, dayStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (s *BookingsStore) UpdateStatus(ctx context.Context, booking *Booking) error {
	query := `
        UPDATE bookings
        SET status = $1, payment_status = $2, updated_at = now()
        WHERE id = $3
        RETURNING updated_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, query, booking.Status, booking.PaymentStatus, booking.ID).
		Scan(&booking.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *BookingsStore) UpdateTimes(ctx context.Context, booking *Booking) error {
	query := `
        UPDATE bookings
        SET start_at = $1, end_at = $2, updated_at = now()
        WHERE id = $3
        RETURNING updated_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, query, booking.StartAt, booking.EndAt, booking.ID).
		Scan(&booking.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *BookingsStore) UpdateCustomer(ctx context.Context, booking *Booking) error {
	query := `
        UPDATE bookings
        SET customer_name = $1, customer_email = $2, customer_whatsapp = $3,
            customer_comments = $4, updated_at = now()
        WHERE id = $5
        RETURNING updated_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, query,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.CustomerWhatsapp,
		booking.CustomerComments,
		booking.ID,
	).Scan(&booking.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func scanBookings(rows pgx.Rows) ([]Booking, error) {
	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.Number, &b.ServiceID, &b.ServiceName, &b.CustomerName,
			&b.CustomerEmail, &b.CustomerWhatsapp, &b.CustomerComments,
			&b.StartAt, &b.EndAt, &b.Amount, &b.Status, &b.PaymentStatus,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
