package calendarview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dermoagenda/internal/schedule"
	"dermoagenda/internal/scheduling"
)

func monthSchedule() schedule.Weekly {
	return schedule.Weekly{
		"monday": {Enabled: true, StartTime: "09:00", EndTime: "13:00"},
	}
}

func TestBuildMonthGridShape(t *testing.T) {
	// June 2025 starts on a Sunday and ends on a Monday: 5 weeks.
	grid := BuildMonthGrid(2025, time.June, nil, monthSchedule(), tz)

	assert.Equal(t, 2025, grid.Year)
	assert.Equal(t, time.June, grid.Month)
	assert.Len(t, grid.Weeks, 5)

	assert.True(t, grid.Weeks[0][0].InMonth)
	assert.Equal(t, 1, grid.Weeks[0][0].Date.Day())
	// Trailing July cells square off the last week.
	assert.False(t, grid.Weeks[4][6].InMonth)
	assert.Equal(t, time.July, grid.Weeks[4][6].Date.Month())
}

func TestBuildMonthGridDisabledDays(t *testing.T) {
	grid := BuildMonthGrid(2025, time.June, nil, monthSchedule(), tz)

	sunday := grid.Weeks[0][0]
	monday := grid.Weeks[0][1]
	assert.True(t, sunday.Disabled)
	assert.False(t, monday.Disabled)
}

func TestBuildMonthGridBucketsAndOverflow(t *testing.T) {
	mon := at(2, 0, 0) // Monday June 2
	events := []scheduling.Event{
		scheduling.BookingEvent{ID: 1, StartAt: at(2, 9, 0), EndAt: at(2, 9, 30), CustomerName: "Ana", Status: scheduling.BookingConfirmed},
		scheduling.BookingEvent{ID: 2, StartAt: at(2, 9, 30), EndAt: at(2, 10, 0), CustomerName: "Luz", Status: scheduling.BookingPending},
		scheduling.BookingEvent{ID: 3, StartAt: at(2, 10, 0), EndAt: at(2, 10, 30), CustomerName: "Mia", Status: scheduling.BookingCancelled},
		scheduling.BlockEvent{ID: 4, StartAt: at(2, 11, 0), EndAt: at(2, 12, 0), Reason: "Curso", Status: scheduling.BlockActive},
		scheduling.BlockEvent{ID: 5, StartAt: at(2, 12, 0), EndAt: at(2, 12, 30), Reason: "Tramite", Status: scheduling.BlockActive},
	}

	grid := BuildMonthGrid(2025, time.June, events, monthSchedule(), tz)
	cell := grid.Weeks[0][1]
	assert.Equal(t, mon.Day(), cell.Date.Day())

	// Cancelled booking is excluded from counts and entries.
	assert.Equal(t, 2, cell.BookingCount)
	assert.Equal(t, 2, cell.BlockCount)
	assert.Len(t, cell.Entries, MaxMonthEntries)
	assert.Equal(t, 1, cell.Overflow)
	assert.Equal(t, "09:00 Ana", cell.Entries[0])
}

func TestBuildMonthGridFullyBlocked(t *testing.T) {
	events := []scheduling.Event{
		scheduling.BlockEvent{ID: 1, StartAt: at(2, 9, 0), EndAt: at(2, 13, 0), Status: scheduling.BlockActive},
	}

	grid := BuildMonthGrid(2025, time.June, events, monthSchedule(), tz)
	assert.True(t, grid.Weeks[0][1].FullyBlocked)
	assert.False(t, grid.Weeks[1][1].FullyBlocked)
}

func TestBuildYearGrid(t *testing.T) {
	grid := BuildYearGrid(2025)
	assert.Equal(t, 2025, grid.Year)
	assert.Equal(t, "Enero", grid.Months[0].Label)
	assert.Equal(t, time.December, grid.Months[11].Month)
}
