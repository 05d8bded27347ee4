package usecase

import (
	"time"

	"github.com/eslsoft/lessonplan/internal/core"
)

// GenerateLessonDates expands a recurrence into ascending calendar dates.
// Only the first core.RecurrenceHorizonDays days starting at the first date
// are considered, and at most core.MaxLessonsPerSeries dates are returned.
func GenerateLessonDates(r core.Recurrence) []time.Time {
	first := calendarDate(r.FirstDate)

	days := make(map[time.Weekday]struct{}, len(r.Days))
	for _, d := range r.Days {
		days[d] = struct{}{}
	}

	limit := core.MaxLessonsPerSeries
	var until time.Time
	switch end := r.End.(type) {
	case core.EndAfter:
		limit = min(limit, end.Count)
	case core.EndDate:
		until = calendarDate(end.Date)
	}
	if limit <= 0 {
		return []time.Time{}
	}

	dates := make([]time.Time, 0, min(limit, core.RecurrenceHorizonDays))
	for i := 0; i < core.RecurrenceHorizonDays && len(dates) < limit; i++ {
		day := first.AddDate(0, 0, i)
		if !until.IsZero() && day.After(until) {
			break
		}
		if _, ok := days[day.Weekday()]; ok {
			dates = append(dates, day)
		}
	}

	return dates
}

// calendarDate drops the clock part of t, keeping its calendar day in UTC.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
