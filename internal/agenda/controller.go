// Package agenda is the scheduling orchestrator behind the admin calendar.
// A Controller owns the event list for the visible range, runs the drag
// lifecycle, issues mutation commands through the API and reloads the full
// range after every mutation attempt so the view always reflects a fresh
// server read.
package agenda

import (
	"context"
	"errors"
	"sync"
	"time"

	"dermoagenda/internal/client"
	"dermoagenda/internal/scheduling"
)

// User-facing toast messages.
const (
	MsgRescheduled      = "Turno reagendado exitosamente"
	MsgRescheduleFailed = "Error al reagendar el turno"
	MsgSlotTaken        = "El horario seleccionado ya esta ocupado"
	MsgBlockCreated     = "Bloqueo creado exitosamente"
	MsgBlockCreateFail  = "Error al crear el bloqueo"
	MsgBlockCancelled   = "Bloqueo cancelado exitosamente"
	MsgBlockCancelFail  = "Error al cancelar el bloqueo"
)

// API is the slice of the REST client the controller drives.
type API interface {
	GetCalendar(ctx context.Context, from, to time.Time, includeCancelled bool) ([]client.CalendarEventDTO, error)
	Reschedule(ctx context.Context, bookingID int64, newStartAt time.Time) error
	CancelBlock(ctx context.Context, id int64) error
}

// Notifier surfaces feedback toasts to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Controller owns the visible event list and the drag state machine.
type Controller struct {
	api    API
	notify Notifier
	loc    *time.Location

	mu               sync.Mutex
	events           []scheduling.Event
	generation       uint64
	from, to         time.Time
	includeCancelled bool
	dragging         *scheduling.BookingEvent
}

// NewController builds a controller over the given API. loc is the clinic's
// configured timezone; all drop and form times are interpreted in it.
func NewController(api API, notify Notifier, loc *time.Location) *Controller {
	return &Controller{api: api, notify: notify, loc: loc}
}

// LoadEvents fetches the events for [from, to] and replaces the visible
// list. A generation counter guards against stale responses: when the range
// changes while a fetch is in flight, the late result is dropped instead of
// overwriting the newer one.
func (c *Controller) LoadEvents(ctx context.Context, from, to time.Time, includeCancelled bool) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.from, c.to, c.includeCancelled = from, to, includeCancelled
	c.mu.Unlock()

	dtos, err := c.api.GetCalendar(ctx, from, to, includeCancelled)
	if err != nil {
		return err
	}

	events := make([]scheduling.Event, 0, len(dtos))
	for _, d := range dtos {
		ev, err := d.Event()
		if err != nil {
			return err
		}
		events = append(events, ev)
	}
	scheduling.SortEvents(events)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil
	}
	c.events = events
	return nil
}

// Reload refetches the current range.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	from, to, inc := c.from, c.to, c.includeCancelled
	c.mu.Unlock()
	return c.LoadEvents(ctx, from, to, inc)
}

// Events returns a snapshot of the visible event list.
func (c *Controller) Events() []scheduling.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]scheduling.Event, len(c.events))
	copy(out, c.events)
	return out
}

// DragStart enters the dragging state for a booking. Cancelled and completed
// bookings are not draggable.
func (c *Controller) DragStart(ev scheduling.BookingEvent) {
	if !ev.Occupies() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = &ev
}

// Dragging reports the booking currently being dragged, if any.
func (c *Controller) Dragging() (scheduling.BookingEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dragging == nil {
		return scheduling.BookingEvent{}, false
	}
	return *c.dragging, true
}

// DragEnd aborts the drag without issuing any command.
func (c *Controller) DragEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = nil
}

// Drop finishes a drag at newStart. The candidate interval keeps the dragged
// booking's duration. A client-side collision rejects the drop silently; the
// grid already refused it visually. Otherwise one reschedule command is
// issued, the outcome is surfaced as a toast and the range is reloaded so
// the list reflects authoritative state.
func (c *Controller) Drop(ctx context.Context, newStart time.Time) error {
	c.mu.Lock()
	if c.dragging == nil {
		c.mu.Unlock()
		return nil
	}
	ev := *c.dragging
	c.dragging = nil
	events := make([]scheduling.Event, len(c.events))
	copy(events, c.events)
	c.mu.Unlock()

	if scheduling.HasCollision(newStart, ev.Duration(), events, ev.ID) {
		return nil
	}

	err := c.api.Reschedule(ctx, ev.ID, newStart.In(c.loc))
	switch {
	case err == nil:
		c.notify.Success(MsgRescheduled)
	case errors.Is(err, client.ErrConflict):
		c.notify.Error(MsgSlotTaken)
	default:
		c.notify.Error(MsgRescheduleFailed)
	}

	if rerr := c.Reload(ctx); rerr != nil && err == nil {
		err = rerr
	}
	return err
}

// CancelBlock cancels a block after an explicit user confirmation. When the
// confirmation callback declines, nothing is issued.
func (c *Controller) CancelBlock(ctx context.Context, id int64, confirm func() bool) error {
	if confirm != nil && !confirm() {
		return nil
	}

	err := c.api.CancelBlock(ctx, id)
	if err != nil {
		c.notify.Error(MsgBlockCancelFail)
	} else {
		c.notify.Success(MsgBlockCancelled)
	}

	if rerr := c.Reload(ctx); rerr != nil && err == nil {
		err = rerr
	}
	return err
}
