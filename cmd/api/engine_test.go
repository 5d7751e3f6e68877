package main

import (
	"context"
	"testing"
	"time"

	"dermoagenda/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBookings struct {
	occupying []store.Booking
	created   []store.Booking
}

func (f *fakeBookings) Create(_ context.Context, b *store.Booking) error {
	b.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *b)
	return nil
}
func (f *fakeBookings) GetByID(context.Context, int64) (*store.Booking, error) {
	return nil, store.ErrNotFound
}
func (f *fakeBookings) GetByNumber(context.Context, string) (*store.Booking, error) {
	return nil, store.ErrNotFound
}
func (f *fakeBookings) GetRange(context.Context, time.Time, time.Time, bool) ([]store.Booking, error) {
	return nil, nil
}
func (f *fakeBookings) GetOccupyingForDay(context.Context, time.Time, time.Time) ([]store.Booking, error) {
	return f.occupying, nil
}
func (f *fakeBookings) UpdateStatus(context.Context, *store.Booking) error   { return nil }
func (f *fakeBookings) UpdateTimes(context.Context, *store.Booking) error    { return nil }
func (f *fakeBookings) UpdateCustomer(context.Context, *store.Booking) error { return nil }

type fakeBlocks struct {
	active []store.Block
}

func (f *fakeBlocks) Create(context.Context, *store.Block) error { return nil }
func (f *fakeBlocks) GetByID(context.Context, int64) (*store.Block, error) {
	return nil, store.ErrNotFound
}
func (f *fakeBlocks) GetRange(context.Context, time.Time, time.Time, bool) ([]store.Block, error) {
	return nil, nil
}
func (f *fakeBlocks) GetActiveForDay(context.Context, time.Time, time.Time) ([]store.Block, error) {
	return f.active, nil
}
func (f *fakeBlocks) Cancel(context.Context, int64) error { return nil }

type fakeConfig struct {
	values map[string]string
}

func (f *fakeConfig) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return v, nil
}

func (f *fakeConfig) Set(_ context.Context, key, value string) error {
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value
	return nil
}

func newTestApp(bookings *fakeBookings, blocks *fakeBlocks, cfg *fakeConfig) *application {
	if cfg == nil {
		cfg = &fakeConfig{}
	}
	return &application{
		logger: zap.NewNop().Sugar(),
		loc:    time.FixedZone("clinic", -3*60*60),
		store: store.Storage{
			Bookings: bookings,
			Blocks:   blocks,
			Config:   cfg,
		},
	}
}

func TestCheckIntervalRejectsMisaligned(t *testing.T) {
	app := newTestApp(&fakeBookings{}, &fakeBlocks{}, nil)

	start := time.Date(2025, 6, 2, 10, 15, 0, 0, app.loc)
	err := app.checkInterval(context.Background(), start, 30*time.Minute, 0)

	assert.ErrorIs(t, err, errInvalidAlignment)
}

func TestCheckIntervalConflict(t *testing.T) {
	loc := time.FixedZone("clinic", -3*60*60)
	existing := store.Booking{
		ID:      7,
		StartAt: time.Date(2025, 6, 2, 10, 0, 0, 0, loc),
		EndAt:   time.Date(2025, 6, 2, 11, 0, 0, 0, loc),
		Status:  "CONFIRMED",
	}
	app := newTestApp(&fakeBookings{occupying: []store.Booking{existing}}, &fakeBlocks{}, nil)

	overlap := time.Date(2025, 6, 2, 10, 30, 0, 0, loc)
	assert.ErrorIs(t, app.checkInterval(context.Background(), overlap, 30*time.Minute, 0), store.ErrConflict)

	// Touching end-to-start is not a collision.
	adjacent := time.Date(2025, 6, 2, 11, 0, 0, 0, loc)
	assert.NoError(t, app.checkInterval(context.Background(), adjacent, 30*time.Minute, 0))

	// An event never collides with itself while being moved.
	assert.NoError(t, app.checkInterval(context.Background(), overlap, 30*time.Minute, existing.ID))
}

func TestCheckIntervalCountsBlocks(t *testing.T) {
	loc := time.FixedZone("clinic", -3*60*60)
	block := store.Block{
		ID:      3,
		StartAt: time.Date(2025, 6, 2, 14, 0, 0, 0, loc),
		EndAt:   time.Date(2025, 6, 2, 16, 0, 0, 0, loc),
		Status:  "ACTIVE",
	}
	app := newTestApp(&fakeBookings{}, &fakeBlocks{active: []store.Block{block}}, nil)

	inside := time.Date(2025, 6, 2, 15, 0, 0, 0, loc)
	assert.ErrorIs(t, app.checkInterval(context.Background(), inside, 30*time.Minute, 0), store.ErrConflict)
}

func TestLoadScheduleFallsBackToDefault(t *testing.T) {
	app := newTestApp(&fakeBookings{}, &fakeBlocks{}, &fakeConfig{})

	weekly, err := app.loadSchedule(context.Background())
	require.NoError(t, err)

	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, app.loc)
	assert.True(t, weekly.IsDayEnabled(monday))

	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, app.loc)
	assert.False(t, weekly.IsDayEnabled(saturday))
}

func TestLoadScheduleIgnoresCorruptValue(t *testing.T) {
	cfg := &fakeConfig{values: map[string]string{store.ScheduleConfigKey: "{not json"}}
	app := newTestApp(&fakeBookings{}, &fakeBlocks{}, cfg)

	weekly, err := app.loadSchedule(context.Background())
	require.NoError(t, err)
	assert.Len(t, weekly, 7)
}
