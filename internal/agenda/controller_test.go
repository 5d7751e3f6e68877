package agenda

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dermoagenda/internal/client"
	"dermoagenda/internal/scheduling"
)

var tz = time.FixedZone("-03:00", -3*60*60)

func at(hour, min int) time.Time {
	return time.Date(2025, 6, 2, hour, min, 0, 0, tz)
}

type fakeAPI struct {
	mu sync.Mutex

	calendar       []client.CalendarEventDTO
	calendarErr    error
	calendarCalls  int
	onGetCalendar  func() // runs before returning, lets tests interleave
	rescheduleErr  error
	reschedules    []int64
	cancelledIDs   []int64
	cancelBlockErr error
	createdBlocks  []client.CreateBlockRequest
	createBlockErr error
	createdBooking *client.CreateBookingRequest
	createErr      error
}

func (f *fakeAPI) GetCalendar(_ context.Context, _, _ time.Time, _ bool) ([]client.CalendarEventDTO, error) {
	f.mu.Lock()
	f.calendarCalls++
	hook := f.onGetCalendar
	snapshot, err := f.calendar, f.calendarErr
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return snapshot, err
}

func (f *fakeAPI) Reschedule(_ context.Context, id int64, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reschedules = append(f.reschedules, id)
	return f.rescheduleErr
}

func (f *fakeAPI) CancelBlock(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelledIDs = append(f.cancelledIDs, id)
	return f.cancelBlockErr
}

func (f *fakeAPI) CreateBlock(_ context.Context, req client.CreateBlockRequest) (*client.BlockDTO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdBlocks = append(f.createdBlocks, req)
	if f.createBlockErr != nil {
		return nil, f.createBlockErr
	}
	return &client.BlockDTO{ID: 1}, nil
}

func (f *fakeAPI) CreateBooking(_ context.Context, req client.CreateBookingRequest) (*client.BookingDTO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdBooking = &req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &client.BookingDTO{ID: 9, Number: "BOOK-AAAA1111"}, nil
}

type fakeNotifier struct {
	successes []string
	errs      []string
}

func (n *fakeNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *fakeNotifier) Error(msg string)   { n.errs = append(n.errs, msg) }

func bookingDTO(id int64, start, end time.Time, status string) client.CalendarEventDTO {
	return client.CalendarEventDTO{
		ID: id, Type: "BOOKING", StartAt: start, EndAt: end,
		Status: status, PaymentStatus: "PENDING",
	}
}

func newController(api *fakeAPI) (*Controller, *fakeNotifier) {
	notify := &fakeNotifier{}
	return NewController(api, notify, tz), notify
}

func TestLoadEventsSortsAndConverts(t *testing.T) {
	api := &fakeAPI{calendar: []client.CalendarEventDTO{
		bookingDTO(2, at(11, 0), at(12, 0), "CONFIRMED"),
		bookingDTO(1, at(9, 0), at(10, 0), "CONFIRMED"),
	}}
	c, _ := newController(api)

	require.NoError(t, c.LoadEvents(context.Background(), at(0, 0), at(23, 59), false))

	events := c.Events()
	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].EventID(), "events sorted by start")
}

// A fetch that was superseded by a newer one must not overwrite the newer
// result, even when it completes later.
func TestLoadEventsDropsStaleResponse(t *testing.T) {
	api := &fakeAPI{calendar: []client.CalendarEventDTO{
		bookingDTO(1, at(9, 0), at(10, 0), "CONFIRMED"),
	}}
	c, _ := newController(api)

	var once sync.Once
	api.onGetCalendar = func() {
		// While the first fetch is in flight, a second range load starts
		// and finishes.
		once.Do(func() {
			api.mu.Lock()
			api.onGetCalendar = nil
			api.calendar = []client.CalendarEventDTO{
				bookingDTO(2, at(11, 0), at(12, 0), "CONFIRMED"),
			}
			api.mu.Unlock()
			require.NoError(t, c.LoadEvents(context.Background(), at(0, 0), at(23, 59), false))
		})
	}

	require.NoError(t, c.LoadEvents(context.Background(), at(0, 0), at(23, 59), false))

	events := c.Events()
	require.Len(t, events, 1)
	assert.Equal(t, int64(2), events[0].EventID(), "stale first response was dropped")
}

func TestDragLifecycle(t *testing.T) {
	c, _ := newController(&fakeAPI{})
	b := scheduling.BookingEvent{ID: 1, StartAt: at(9, 0), EndAt: at(10, 0), Status: scheduling.BookingConfirmed}

	_, dragging := c.Dragging()
	assert.False(t, dragging)

	c.DragStart(b)
	got, dragging := c.Dragging()
	assert.True(t, dragging)
	assert.Equal(t, int64(1), got.ID)

	c.DragEnd()
	_, dragging = c.Dragging()
	assert.False(t, dragging)
}

func TestDragStartIgnoresCancelled(t *testing.T) {
	c, _ := newController(&fakeAPI{})
	c.DragStart(scheduling.BookingEvent{ID: 1, Status: scheduling.BookingCancelled})
	_, dragging := c.Dragging()
	assert.False(t, dragging)
}

func TestDropRejectsCollisionSilently(t *testing.T) {
	api := &fakeAPI{calendar: []client.CalendarEventDTO{
		bookingDTO(1, at(9, 0), at(10, 0), "CONFIRMED"),
		bookingDTO(2, at(11, 0), at(12, 0), "CONFIRMED"),
	}}
	c, notify := newController(api)
	require.NoError(t, c.LoadEvents(context.Background(), at(0, 0), at(23, 59), false))

	events := c.Events()
	moved := events[0].(scheduling.BookingEvent)

	c.DragStart(moved)
	require.NoError(t, c.Drop(context.Background(), at(11, 30)))

	assert.Empty(t, api.reschedules, "no command issued on client-side collision")
	assert.Empty(t, notify.successes)
	assert.Empty(t, notify.errs, "rejection is silent")

	_, dragging := c.Dragging()
	assert.False(t, dragging, "drop always returns to idle")
}

func TestDropIssuesRescheduleAndReloads(t *testing.T) {
	api := &fakeAPI{calendar: []client.CalendarEventDTO{
		bookingDTO(1, at(9, 0), at(10, 0), "CONFIRMED"),
	}}
	c, notify := newController(api)
	require.NoError(t, c.LoadEvents(context.Background(), at(0, 0), at(23, 59), false))
	loadsBefore := api.calendarCalls

	moved := c.Events()[0].(scheduling.BookingEvent)
	c.DragStart(moved)
	require.NoError(t, c.Drop(context.Background(), at(14, 0)))

	assert.Equal(t, []int64{1}, api.reschedules)
	assert.Equal(t, []string{MsgRescheduled}, notify.successes)
	assert.Equal(t, loadsBefore+1, api.calendarCalls, "range reloaded after mutation")
}

func TestDropExcludesMovedEventFromCollision(t *testing.T) {
	api := &fakeAPI{calendar: []client.CalendarEventDTO{
		bookingDTO(1, at(9, 0), at(10, 0), "CONFIRMED"),
	}}
	c, _ := newController(api)
	require.NoError(t, c.LoadEvents(context.Background(), at(0, 0), at(23, 59), false))

	moved := c.Events()[0].(scheduling.BookingEvent)
	c.DragStart(moved)
	// Moving half an hour later overlaps only the booking's own old slot.
	require.NoError(t, c.Drop(context.Background(), at(9, 30)))

	assert.Equal(t, []int64{1}, api.reschedules)
}

func TestDropConflictAndGenericFailureAreDistinct(t *testing.T) {
	mk := func(rescheduleErr error) (*fakeAPI, *Controller, *fakeNotifier) {
		api := &fakeAPI{
			calendar: []client.CalendarEventDTO{
				bookingDTO(1, at(9, 0), at(10, 0), "CONFIRMED"),
			},
			rescheduleErr: rescheduleErr,
		}
		c, notify := newController(api)
		require.NoError(t, c.LoadEvents(context.Background(), at(0, 0), at(23, 59), false))
		c.DragStart(c.Events()[0].(scheduling.BookingEvent))
		return api, c, notify
	}

	t.Run("server conflict", func(t *testing.T) {
		_, c, notify := mk(client.ErrConflict)
		err := c.Drop(context.Background(), at(14, 0))
		assert.ErrorIs(t, err, client.ErrConflict)
		assert.Equal(t, []string{MsgSlotTaken}, notify.errs)
	})

	t.Run("generic failure", func(t *testing.T) {
		_, c, notify := mk(errors.New("boom"))
		err := c.Drop(context.Background(), at(14, 0))
		assert.Error(t, err)
		assert.Equal(t, []string{MsgRescheduleFailed}, notify.errs)
	})
}

func TestCancelBlockRequiresConfirmation(t *testing.T) {
	api := &fakeAPI{}
	c, notify := newController(api)

	require.NoError(t, c.CancelBlock(context.Background(), 5, func() bool { return false }))
	assert.Empty(t, api.cancelledIDs)
	assert.Empty(t, notify.successes)

	require.NoError(t, c.CancelBlock(context.Background(), 5, func() bool { return true }))
	assert.Equal(t, []int64{5}, api.cancelledIDs)
	assert.Equal(t, []string{MsgBlockCancelled}, notify.successes)
}
