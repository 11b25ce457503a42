package timeline

import (
	"time"

	"github.com/starford/readlog/internal/models"
)

// Bar is the laid-out interval of one reading record.
type Bar struct {
	Reading models.Reading `json:"reading"`
	// Lane is the 1-based vertical slot, in selection order.
	Lane     int `json:"lane"`
	StartDay int `json:"start_day"`
	EndDay   int `json:"end_day"`
	Duration int `json:"duration"`
}

// Layout assigns lanes and day intervals to records. Dates outside the
// window are clamped to its first or last day.
func Layout(records []models.Reading, w Window) []Bar {
	bars := make([]Bar, 0, len(records))
	for i, r := range records {
		start := w.clampStart(r.Started)
		end := w.clampEnd(r.Finished)
		if end < start {
			// Only reachable for records outside the window entirely.
			end = start
		}
		bars = append(bars, Bar{
			Reading:  r,
			Lane:     i + 1,
			StartDay: start,
			EndDay:   end,
			Duration: end - start,
		})
	}
	return bars
}

func (w Window) clampStart(t time.Time) int {
	if t.Year() < w.Year {
		return 1
	}
	if t.Year() > w.Year {
		return w.Days
	}
	return t.YearDay()
}

func (w Window) clampEnd(t time.Time) int {
	if t.Year() > w.Year {
		return w.Days
	}
	if t.Year() < w.Year {
		return 1
	}
	return t.YearDay()
}
