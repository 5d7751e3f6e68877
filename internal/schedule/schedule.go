package schedule

import (
	"encoding/json"
	"fmt"
	"time"
)

// DaySchedule holds the open/close window for a single weekday.
type DaySchedule struct {
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Weekly maps weekday keys (monday..sunday) to their schedule.
// A missing key behaves as a disabled day.
type Weekly map[string]DaySchedule

// DayKeys lists all weekday keys indexed by time.Weekday (Sunday = 0).
var DayKeys = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// Default returns the fallback schedule used when the configured one
// is missing or unparseable: weekdays 09:00-19:00, weekends closed.
func Default() Weekly {
	w := Weekly{}
	for _, key := range DayKeys {
		switch key {
		case "saturday", "sunday":
			w[key] = DaySchedule{Enabled: false, StartTime: "09:00", EndTime: "13:00"}
		default:
			w[key] = DaySchedule{Enabled: true, StartTime: "09:00", EndTime: "19:00"}
		}
	}
	return w
}

// Parse decodes the weekly schedule from its stored JSON string and
// normalizes it so all 7 weekday keys are present.
func Parse(raw string) (Weekly, error) {
	var w Weekly
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, fmt.Errorf("parsing weekly schedule: %w", err)
	}
	if w == nil {
		w = Weekly{}
	}
	for _, key := range DayKeys {
		day, ok := w[key]
		if !ok {
			w[key] = DaySchedule{}
			continue
		}
		if day.Enabled {
			start, err := ClockMinutes(day.StartTime)
			if err != nil {
				return nil, fmt.Errorf("day %s: %w", key, err)
			}
			end, err := ClockMinutes(day.EndTime)
			if err != nil {
				return nil, fmt.Errorf("day %s: %w", key, err)
			}
			if start >= end {
				return nil, fmt.Errorf("day %s: startTime %s must be before endTime %s", key, day.StartTime, day.EndTime)
			}
		}
	}
	return w, nil
}

// DayKey returns the weekday key for a date.
func DayKey(date time.Time) string {
	return DayKeys[int(date.Weekday())]
}

// IsDayEnabled reports whether the date's weekday is open for booking.
func (w Weekly) IsDayEnabled(date time.Time) bool {
	return w[DayKey(date)].Enabled
}

// DayHours returns the open/close window for the date's weekday.
// The second return value is false when the day is disabled or absent.
func (w Weekly) DayHours(date time.Time) (DaySchedule, bool) {
	day, ok := w[DayKey(date)]
	if !ok || !day.Enabled {
		return DaySchedule{}, false
	}
	return day, true
}

// ClockMinutes converts an "HH:MM" clock string to minutes since midnight.
// Both fields must be zero-padded; nothing may follow the minutes.
func ClockMinutes(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil || len(clock) != 5 {
		return 0, fmt.Errorf("invalid time %q, use HH:MM", clock)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
