// Package timeline computes the day-of-year geometry of a reading chart.
package timeline

import "time"

// Window is one calendar year expressed in day-of-year units.
type Window struct {
	Year int
	// Days is 365, or 366 for leap years.
	Days int
	// MonthStarts holds the day-of-year of the first day of each month.
	MonthStarts [12]int
}

// NewWindow returns the Window for year.
func NewWindow(year int) Window {
	w := Window{Year: year}
	first := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	w.Days = first.AddDate(1, 0, -1).YearDay()
	for m := time.January; m <= time.December; m++ {
		w.MonthStarts[m-1] = time.Date(year, m, 1, 0, 0, 0, 0, time.UTC).YearDay()
	}
	return w
}

// MonthNames returns the English month names in calendar order.
func MonthNames() [12]string {
	var names [12]string
	for m := time.January; m <= time.December; m++ {
		names[m-1] = m.String()
	}
	return names
}
