package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dermoagenda/internal/scheduling"
)

// Block is an admin-created hold on the agenda.
type Block struct {
	ID        int64     `json:"id"`
	Number    string    `json:"number"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBlockNumber generates the public block identifier, BLOCK- plus the
// first 8 hex characters of a UUID, uppercased.
func NewBlockNumber() string {
	return "BLOCK-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// Event converts the record into the scheduling engine's event union.
func (b *Block) Event() scheduling.BlockEvent {
	return scheduling.BlockEvent{
		ID:      b.ID,
		StartAt: b.StartAt,
		EndAt:   b.EndAt,
		Reason:  b.Reason,
		Status:  scheduling.BlockStatus(b.Status),
	}
}

type BlocksStore struct {
	db *pgxpool.Pool
}

func (s *BlocksStore) Create(ctx context.Context, block *Block) error {
	query := `
        INSERT INTO blocks (number, start_at, end_at, reason, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		block.Number,
		block.StartAt,
		block.EndAt,
		block.Reason,
		block.Status,
	).Scan(&block.ID, &block.CreatedAt, &block.UpdatedAt)
}

func (s *BlocksStore) GetByID(ctx context.Context, id int64) (*Block, error) {
	query := `
        SELECT id, number, start_at, end_at, reason, status, created_at, updated_at
        FROM blocks
        WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var b Block
	err := s.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Number, &b.StartAt, &b.EndAt, &b.Reason, &b.Status,
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

// GetRange returns blocks whose start falls in [from, to]. Cancelled blocks
// are omitted unless includeCancelled is set.
func (s *BlocksStore) GetRange(ctx context.Context, from, to time.Time, includeCancelled bool) ([]Block, error) {
	query := `
        SELECT id, number, start_at, end_at, reason, status, created_at, updated_at
        FROM blocks
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

	return scanBlocks(rows)
}

// GetActiveForDay returns the active blocks overlapping [dayStart, dayEnd).
func (s *BlocksStore) GetActiveForDay(ctx context.Context, dayStart, dayEnd time.Time) ([]Block, error) {
	query := `
        SELECT id, number, start_at, end_at, reason, status, created_at, updated_at
        FROM blocks
        WHERE start_at < $1 AND end_at > $2 AND status = 'ACTIVE'
        ORDER BY start_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, dayEnd, dayStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBlocks(rows)
}

// Cancel marks an active block cancelled.
func (s *BlocksStore) Cancel(ctx context.Context, id int64) error {
	query := `
        UPDATE blocks
        SET status = 'CANCELLED', updated_at = now()
        WHERE id = $1 AND status = 'ACTIVE'`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBlocks(rows pgx.Rows) ([]Block, error) {
	var out []Block
	for rows.Next() {
		var b Block
		if err := rows.Scan(
			&b.ID, &b.Number, &b.StartAt, &b.EndAt, &b.Reason, &b.Status,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
