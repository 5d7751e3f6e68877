package scheduling

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect. Touching
// boundaries do not overlap, so back-to-back bookings are allowed.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Duration returns the span of the interval.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Clamp restricts the interval to the given bounds. The result may be
// empty (End not after Start) when there is no intersection.
func (i Interval) Clamp(bounds Interval) Interval {
	out := i
	if out.Start.Before(bounds.Start) {
		out.Start = bounds.Start
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	if out.End.Before(out.Start) {
		out.End = out.Start
	}
	return out
}

// HasCollision reports whether the candidate interval [start, start+duration)
// overlaps any existing event. Cancelled events and the event matching
// excludeID (the one being moved; 0 means none) are ignored.
func HasCollision(start time.Time, duration time.Duration, events []Event, excludeID int64) bool {
	candidate := Interval{Start: start, End: start.Add(duration)}
	for _, ev := range events {
		if excludeID != 0 && ev.EventID() == excludeID {
			continue
		}
		if ev.Cancelled() {
			continue
		}
		if candidate.Overlaps(ev.Interval()) {
			return true
		}
	}
	return false
}
