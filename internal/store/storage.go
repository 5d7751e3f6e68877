package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("horario ocupado")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Bookings interface {
		Create(context.Context, *Booking) error
		GetByID(context.Context, int64) (*Booking, error)
		GetByNumber(context.Context, string) (*Booking, error)
		GetRange(ctx context.Context, from, to time.Time, includeCancelled bool) ([]Booking, error)
		GetOccupyingForDay(ctx context.Context, dayStart, dayEnd time.Time) ([]Booking, error)
		UpdateStatus(context.Context, *Booking) error
		UpdateTimes(context.Context, *Booking) error
		UpdateCustomer(context.Context, *Booking) error
	}
	Blocks interface {
		Create(context.Context, *Block) error
		GetByID(context.Context, int64) (*Block, error)
		GetRange(ctx context.Context, from, to time.Time, includeCancelled bool) ([]Block, error)
		GetActiveForDay(ctx context.Context, dayStart, dayEnd time.Time) ([]Block, error)
		Cancel(context.Context, int64) error
	}
	Services interface {
		GetByID(context.Context, int64) (*Service, error)
		List(context.Context) ([]Service, error)
	}
	Config interface {
		Get(context.Context, string) (string, error)
		Set(ctx context.Context, key, value string) error
	}
	History interface {
		Append(context.Context, *HistoryEntry) error
		ListByBooking(context.Context, int64) ([]HistoryEntry, error)
	}
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Bookings: &BookingsStore{db},
		Blocks:   &BlocksStore{db},
		Services: &ServicesStore{db},
		Config:   &ConfigStore{db},
		History:  &HistoryStore{db},
	}
}
