package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScheduleConfigKey holds the weekly schedule as a JSON string.
const ScheduleConfigKey = "schedule.weekly"

type ConfigStore struct {
	db *pgxpool.Pool
}

func (s *ConfigStore) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM app_config WHERE key = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var value string
	err := s.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *ConfigStore) Set(ctx context.Context, key, value string) error {
	query := `
        INSERT INTO app_config (key, value)
        VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx, query, key, value)
	return err
}
