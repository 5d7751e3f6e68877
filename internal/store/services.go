package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service is a bookable clinic service. Duration and price derive from it
// whenever a booking is created.
type Service struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	Active          bool    `json:"active"`
}

type ServicesStore struct {
	db *pgxpool.Pool
}

func (s *ServicesStore) GetByID(ctx context.Context, id int64) (*Service, error) {
	query := `
        SELECT id, name, duration_minutes, price, active
        FROM services
        WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var svc Service
	err := s.db.QueryRow(ctx, query, id).Scan(
		&svc.ID, &svc.Name, &svc.DurationMinutes, &svc.Price, &svc.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &svc, nil
}

func (s *ServicesStore) List(ctx context.Context) ([]Service, error) {
	query := `
        SELECT id, name, duration_minutes, price, active
        FROM services
        WHERE active = true
        ORDER BY name`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Service
	for rows.Next() {
		var svc Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.DurationMinutes, &svc.Price, &svc.Active); err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}
