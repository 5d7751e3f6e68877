package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func block(id int64, start, end time.Time, status BlockStatus) BlockEvent {
	return BlockEvent{ID: id, StartAt: start, EndAt: end, Status: status}
}

func TestEventsForDay(t *testing.T) {
	monday := at(0, 0)
	tuesday := monday.AddDate(0, 0, 1)

	events := []Event{
		booking(1, at(9, 0), at(10, 0), BookingConfirmed),
		block(2, at(12, 0), at(13, 0), BlockActive),
		booking(3, tuesday.Add(9*time.Hour), tuesday.Add(10*time.Hour), BookingConfirmed),
	}

	day := EventsForDay(events, monday, tz)
	assert.Len(t, day.Bookings, 1)
	assert.Len(t, day.Blocks, 1)
	assert.Equal(t, int64(1), day.Bookings[0].ID)
	assert.Equal(t, int64(2), day.Blocks[0].ID)
}

func TestSameLocalDay(t *testing.T) {
	// 23:30 local on Monday is 02:30 UTC Tuesday; the comparison must use
	// the local calendar date.
	lateMonday := time.Date(2025, 6, 2, 23, 30, 0, 0, tz)
	assert.True(t, SameLocalDay(lateMonday, at(9, 0), tz))
	assert.False(t, SameLocalDay(lateMonday.Add(time.Hour), at(9, 0), tz))
}

func TestBlockedMinutes(t *testing.T) {
	window := Interval{at(9, 0), at(13, 0)}

	t.Run("merges overlapping blocks", func(t *testing.T) {
		blocks := []BlockEvent{
			block(1, at(9, 0), at(11, 0), BlockActive),
			block(2, at(10, 0), at(12, 0), BlockActive),
		}
		assert.InDelta(t, 180, BlockedMinutes(blocks, window), 0.001)
	})

	t.Run("clamps to work window", func(t *testing.T) {
		blocks := []BlockEvent{block(1, at(8, 0), at(14, 0), BlockActive)}
		assert.InDelta(t, 240, BlockedMinutes(blocks, window), 0.001)
	})

	t.Run("ignores cancelled blocks", func(t *testing.T) {
		blocks := []BlockEvent{block(1, at(9, 0), at(13, 0), BlockCancelled)}
		assert.Zero(t, BlockedMinutes(blocks, window))
	})

	t.Run("disjoint blocks sum", func(t *testing.T) {
		blocks := []BlockEvent{
			block(1, at(9, 0), at(10, 0), BlockActive),
			block(2, at(11, 0), at(12, 0), BlockActive),
		}
		assert.InDelta(t, 120, BlockedMinutes(blocks, window), 0.001)
	})
}

func TestIsFullyBlocked(t *testing.T) {
	window := Interval{at(9, 0), at(13, 0)}

	t.Run("full coverage", func(t *testing.T) {
		blocks := []BlockEvent{block(1, at(9, 0), at(13, 0), BlockActive)}
		assert.True(t, IsFullyBlocked(blocks, window))
	})

	t.Run("just above threshold", func(t *testing.T) {
		// 220 of 240 minutes is ~92%.
		blocks := []BlockEvent{block(1, at(9, 0), at(12, 40), BlockActive)}
		assert.True(t, IsFullyBlocked(blocks, window))
	})

	t.Run("below threshold", func(t *testing.T) {
		// 180 of 240 minutes is 75%.
		blocks := []BlockEvent{block(1, at(9, 0), at(12, 0), BlockActive)}
		assert.False(t, IsFullyBlocked(blocks, window))
	})

	t.Run("empty window", func(t *testing.T) {
		assert.False(t, IsFullyBlocked(nil, Interval{at(9, 0), at(9, 0)}))
	})
}
