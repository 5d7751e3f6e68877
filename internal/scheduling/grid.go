package scheduling

import (
	"fmt"
	"math"
	"time"
)

// Day-view grid constants matching the admin calendar layout.
const (
	HourHeightPx = 66
	StartHour    = 9
	EndHour      = 20

	// SlotMinutes is the scheduling granularity; all starts and ends are
	// aligned to it.
	SlotMinutes = 30
)

// TimeToPosition maps a wall-clock time to a vertical pixel offset on the
// day grid.
func TimeToPosition(t time.Time, startHour, pxPerHour int) float64 {
	return float64(t.Hour()-startHour)*float64(pxPerHour) +
		float64(t.Minute())/60*float64(pxPerHour)
}

// PositionToTime maps a vertical pixel offset back to an "HH:MM" clock
// string, snapping minutes to the nearest 30-minute boundary.
func PositionToTime(y float64, startHour, pxPerHour int) string {
	totalMinutes := y / float64(pxPerHour) * 60
	hours := int(math.Floor(totalMinutes/60)) + startHour
	minutes := int(math.Round(math.Mod(totalMinutes, 60)/SlotMinutes)) * SlotMinutes
	if minutes == 60 {
		minutes = 0
		hours++
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// HeightForSpan converts an event's duration into grid pixels.
func HeightForSpan(start, end time.Time, pxPerHour int) float64 {
	return end.Sub(start).Minutes() / 60 * float64(pxPerHour)
}

// Aligned reports whether a time sits on a 30-minute boundary (:00 or :30).
func Aligned(t time.Time) bool {
	return t.Minute()%SlotMinutes == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
