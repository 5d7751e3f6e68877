package main

import (
	"context"
	"errors"
	"time"

	"dermoagenda/internal/schedule"
	"dermoagenda/internal/scheduling"
	"dermoagenda/internal/store"
)

// Conflict message shown whenever a requested interval is already taken.
const msgSlotTaken = "El horario seleccionado ya esta ocupado"

// loadSchedule reads the weekly schedule from the config store. A missing or
// unparseable value falls back to the default hours so the calendar never
// renders empty.
func (app *application) loadSchedule(ctx context.Context) (schedule.Weekly, error) {
	raw, err := app.store.Config.Get(ctx, store.ScheduleConfigKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return schedule.Default(), nil
		}
		return nil, err
	}

	weekly, err := schedule.Parse(raw)
	if err != nil {
		app.logger.Warnw("stored schedule is invalid, using defaults", "error", err.Error())
		return schedule.Default(), nil
	}
	return weekly, nil
}

// dayEvents loads the occupying events (pending and confirmed bookings,
// active blocks) for the calendar day containing date, in the clinic's
// timezone.
func (app *application) dayEvents(ctx context.Context, date time.Time) ([]scheduling.Event, error) {
	local := date.In(app.loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, app.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	bookings, err := app.store.Bookings.GetOccupyingForDay(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	blocks, err := app.store.Blocks.GetActiveForDay(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	events := make([]scheduling.Event, 0, len(bookings)+len(blocks))
	for i := range bookings {
		events = append(events, bookings[i].Event())
	}
	for i := range blocks {
		events = append(events, blocks[i].Event())
	}
	return events, nil
}

// checkInterval verifies that [start, start+duration) is aligned to the slot
// grid and free of collisions. excludeID skips the event being moved.
func (app *application) checkInterval(ctx context.Context, start time.Time, duration time.Duration, excludeID int64) error {
	if !scheduling.Aligned(start.In(app.loc)) {
		return errInvalidAlignment
	}

	events, err := app.dayEvents(ctx, start)
	if err != nil {
		return err
	}
	if scheduling.HasCollision(start, duration, events, excludeID) {
		return store.ErrConflict
	}
	return nil
}

var errInvalidAlignment = errors.New("el horario debe comenzar en :00 o :30")
