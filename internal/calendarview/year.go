package calendarview

import "time"

// monthLabels matches the labels the admin UI shows.
var monthLabels = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthShell is a navigation-only month tile on the year view.
type MonthShell struct {
	Month time.Month
	Label string
}

// YearGrid is the year view: twelve month shells, no event data. Clicking a
// shell drills into that month.
type YearGrid struct {
	Year   int
	Months [12]MonthShell
}

// BuildYearGrid returns the twelve month shells for a year.
func BuildYearGrid(year int) YearGrid {
	grid := YearGrid{Year: year}
	for i := 0; i < 12; i++ {
		grid.Months[i] = MonthShell{Month: time.Month(i + 1), Label: monthLabels[i]}
	}
	return grid
}
