package calendarview

import (
	"time"

	"dermoagenda/internal/schedule"
	"dermoagenda/internal/scheduling"
)

// MaxMonthEntries caps how many event labels a month cell shows before
// collapsing the rest into an overflow count.
const MaxMonthEntries = 3

// MonthCell is one day cell of the month grid.
type MonthCell struct {
	Date         time.Time
	InMonth      bool
	Disabled     bool
	FullyBlocked bool
	BookingCount int
	BlockCount   int
	Entries      []string
	Overflow     int
}

// MonthGrid is a month laid out in Sunday-first weeks.
type MonthGrid struct {
	Year  int
	Month time.Month
	Weeks [][7]MonthCell
}

// BuildMonthGrid buckets events per calendar day for one month. Days outside
// the weekly schedule render disabled; days whose active blocks cover the
// work window render fully blocked. Leading and trailing cells from adjacent
// months are included to square off the weeks.
func BuildMonthGrid(year int, month time.Month, events []scheduling.Event, sched schedule.Weekly, loc *time.Location) MonthGrid {
	grid := MonthGrid{Year: year, Month: month}

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	last := first.AddDate(0, 1, -1)
	end := last.AddDate(0, 0, 6-int(last.Weekday()))

	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 7) {
		var week [7]MonthCell
		for i := 0; i < 7; i++ {
			week[i] = buildMonthCell(cur.AddDate(0, 0, i), month, events, sched, loc)
		}
		grid.Weeks = append(grid.Weeks, week)
	}

	return grid
}

func buildMonthCell(date time.Time, month time.Month, events []scheduling.Event, sched schedule.Weekly, loc *time.Location) MonthCell {
	cell := MonthCell{
		Date:     date,
		InMonth:  date.Month() == month,
		Disabled: !sched.IsDayEnabled(date),
	}

	day := scheduling.EventsForDay(events, date, loc)
	for _, b := range day.Bookings {
		if b.Cancelled() {
			continue
		}
		cell.BookingCount++
		cell.Entries = append(cell.Entries, b.StartAt.In(loc).Format("15:04")+" "+b.CustomerName)
	}
	for _, bl := range day.Blocks {
		if bl.Cancelled() {
			continue
		}
		cell.BlockCount++
		cell.Entries = append(cell.Entries, bl.StartAt.In(loc).Format("15:04")+" "+bl.Reason)
	}
	if len(cell.Entries) > MaxMonthEntries {
		cell.Overflow = len(cell.Entries) - MaxMonthEntries
		cell.Entries = cell.Entries[:MaxMonthEntries]
	}

	if window, ok := dayWindow(sched, date, loc); ok {
		cell.FullyBlocked = scheduling.IsFullyBlocked(day.Blocks, window)
	}

	return cell
}

func dayWindow(sched schedule.Weekly, date time.Time, loc *time.Location) (scheduling.Interval, bool) {
	hours, ok := sched.DayHours(date)
	if !ok {
		return scheduling.Interval{}, false
	}
	start, err := scheduling.AtClock(date, hours.StartTime, loc)
	if err != nil {
		return scheduling.Interval{}, false
	}
	end, err := scheduling.AtClock(date, hours.EndTime, loc)
	if err != nil {
		return scheduling.Interval{}, false
	}
	return scheduling.Interval{Start: start, End: end}, true
}
