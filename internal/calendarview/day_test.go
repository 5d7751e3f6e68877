package calendarview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dermoagenda/internal/scheduling"
)

var tz = time.FixedZone("-03:00", -3*60*60)

func at(day, hour, min int) time.Time {
	return time.Date(2025, 6, day, hour, min, 0, 0, tz)
}

func TestBookingCardState(t *testing.T) {
	tests := []struct {
		name    string
		status  scheduling.BookingStatus
		payment scheduling.PaymentStatus
		want    CardState
	}{
		{"confirmed", scheduling.BookingConfirmed, scheduling.PaymentPending, CardConfirmed},
		{"paid wins over pending status", scheduling.BookingPending, scheduling.PaymentPaid, CardConfirmed},
		{"pending", scheduling.BookingPending, scheduling.PaymentNotRequired, CardPending},
		{"cancelled", scheduling.BookingCancelled, scheduling.PaymentRefunded, CardCancelled},
		{"completed", scheduling.BookingCompleted, scheduling.PaymentNotRequired, CardCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BookingCardState(tt.status, tt.payment))
		})
	}
}

func TestBuildDayGrid(t *testing.T) {
	date := at(2, 0, 0)
	events := []scheduling.Event{
		scheduling.BookingEvent{
			ID: 1, StartAt: at(2, 9, 0), EndAt: at(2, 10, 0),
			CustomerName: "Ana", Status: scheduling.BookingConfirmed,
			PaymentStatus: scheduling.PaymentPaid,
		},
		scheduling.BookingEvent{
			ID: 2, StartAt: at(2, 11, 0), EndAt: at(2, 11, 30),
			Status: scheduling.BookingCancelled,
		},
		scheduling.BlockEvent{
			ID: 3, StartAt: at(2, 13, 0), EndAt: at(2, 14, 0),
			Reason: "Almuerzo", Status: scheduling.BlockActive,
		},
		scheduling.BookingEvent{
			ID: 4, StartAt: at(3, 9, 0), EndAt: at(3, 10, 0),
			Status: scheduling.BookingConfirmed,
		},
	}

	grid := BuildDayGrid(date, events, at(2, 10, 30), tz)

	assert.Len(t, grid.Hours, scheduling.EndHour-scheduling.StartHour+1)
	assert.Equal(t, "09:00", grid.Hours[0].Label)
	assert.Equal(t, float64(0), grid.Hours[0].TopPx)
	assert.Equal(t, float64(scheduling.HourHeightPx), grid.Hours[1].TopPx)

	// Cancelled booking and other-day booking are dropped.
	assert.Len(t, grid.Bookings, 1)
	card := grid.Bookings[0]
	assert.Equal(t, int64(1), card.Event.ID)
	assert.InDelta(t, 0, card.TopPx, 0.001)
	assert.InDelta(t, 66, card.HeightPx, 0.001)
	assert.Equal(t, CardConfirmed, card.State)

	assert.Len(t, grid.Blocks, 1)
	assert.InDelta(t, 4*66, grid.Blocks[0].TopPx, 0.001)

	assert.True(t, grid.Now.Visible)
	assert.InDelta(t, 99, grid.Now.TopPx, 0.001)
}

func TestBuildDayGridNowIndicator(t *testing.T) {
	date := at(2, 0, 0)

	t.Run("hidden on other days", func(t *testing.T) {
		grid := BuildDayGrid(date, nil, at(3, 10, 0), tz)
		assert.False(t, grid.Now.Visible)
	})

	t.Run("hidden outside visible hours", func(t *testing.T) {
		grid := BuildDayGrid(date, nil, at(2, 8, 59), tz)
		assert.False(t, grid.Now.Visible)

		grid = BuildDayGrid(date, nil, at(2, 20, 0), tz)
		assert.False(t, grid.Now.Visible)
	})
}

func TestDropTime(t *testing.T) {
	assert.Equal(t, "09:00", DropTime(0))
	assert.Equal(t, "10:30", DropTime(99))
	assert.Equal(t, "10:30", DropTime(95))
}
