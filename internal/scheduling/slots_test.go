package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dermoagenda/internal/schedule"
)

func weeklyFixture() schedule.Weekly {
	w := schedule.Default()
	w["monday"] = schedule.DaySchedule{Enabled: true, StartTime: "09:00", EndTime: "12:00"}
	return w
}

func TestAvailableSlots(t *testing.T) {
	sched := weeklyFixture()
	monday := at(0, 0)

	t.Run("empty day offers every stepped start", func(t *testing.T) {
		got := AvailableSlots(sched, monday, 30*time.Minute, nil, tz)
		assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, got)
	})

	t.Run("longer service drops starts that overrun close", func(t *testing.T) {
		got := AvailableSlots(sched, monday, time.Hour, nil, tz)
		assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, got)
	})

	t.Run("occupied slots are skipped", func(t *testing.T) {
		events := []Event{booking(1, at(9, 30), at(10, 30), BookingConfirmed)}
		got := AvailableSlots(sched, monday, 30*time.Minute, events, tz)
		assert.Equal(t, []string{"09:00", "10:30", "11:00", "11:30"}, got)
	})

	t.Run("pending bookings occupy time", func(t *testing.T) {
		events := []Event{booking(1, at(9, 0), at(10, 0), BookingPending)}
		got := AvailableSlots(sched, monday, 30*time.Minute, events, tz)
		assert.NotContains(t, got, "09:00")
		assert.NotContains(t, got, "09:30")
		assert.Contains(t, got, "10:00")
	})

	t.Run("cancelled bookings free their slot", func(t *testing.T) {
		events := []Event{booking(1, at(9, 0), at(12, 0), BookingCancelled)}
		got := AvailableSlots(sched, monday, 30*time.Minute, events, tz)
		assert.Len(t, got, 6)
	})

	t.Run("fully blocked day short-circuits to nil", func(t *testing.T) {
		events := []Event{block(1, at(9, 0), at(12, 0), BlockActive)}
		got := AvailableSlots(sched, monday, 30*time.Minute, events, tz)
		assert.Nil(t, got)
	})

	t.Run("odd durations round up to the slot size", func(t *testing.T) {
		got := AvailableSlots(sched, monday, 45*time.Minute, nil, tz)
		// 45 rounds up to 60, so the last start is 11:00.
		assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, got)
	})

	t.Run("disabled day returns nil", func(t *testing.T) {
		saturday := monday.AddDate(0, 0, 5)
		got := AvailableSlots(sched, saturday, 30*time.Minute, nil, tz)
		assert.Nil(t, got)
	})
}

func TestSlotTimes(t *testing.T) {
	sched := weeklyFixture()
	monday := at(0, 0)

	got := SlotTimes(sched, monday)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, got)

	saturday := monday.AddDate(0, 0, 5)
	assert.Nil(t, SlotTimes(sched, saturday))
}

func TestBlockDurationOptions(t *testing.T) {
	sched := schedule.Default()
	monday := at(0, 0)

	opts := BlockDurationOptions(sched, monday)
	assert.Len(t, opts, 5)
	assert.Equal(t, "30 min", opts[0].Label)
	assert.Equal(t, 30, opts[0].Minutes)

	full := opts[len(opts)-1]
	assert.Equal(t, "Todo el dia", full.Label)
	assert.True(t, full.FullDay)
	// Default weekday hours are 09:00 to 19:00.
	assert.Equal(t, 600, full.Minutes)

	saturday := monday.AddDate(0, 0, 5)
	assert.Nil(t, BlockDurationOptions(sched, saturday))
}

func TestFullDayMinutes(t *testing.T) {
	w := schedule.Weekly{
		"monday": {Enabled: true, StartTime: "09:00", EndTime: "18:00"},
	}
	assert.Equal(t, 540, FullDayMinutes(w, at(0, 0)))
	assert.Equal(t, 0, FullDayMinutes(w, at(0, 0).AddDate(0, 0, 1)))
}

func TestAtClock(t *testing.T) {
	got, err := AtClock(at(0, 0), "14:30", tz)
	assert.NoError(t, err)
	assert.Equal(t, at(14, 30), got)

	_, err = AtClock(at(0, 0), "25:00", tz)
	assert.Error(t, err)
}
