package transport

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eslsoft/lessonplan/internal/core"
)

const (
	paramDate           = "date"
	paramStatus         = "status"
	paramTeacherIDs     = "teacherIds"
	paramLessonsPerPage = "lessonsPerPage"
	paramPage           = "page"
	paramStudentsCount  = "studentsCount"

	defaultLessonsPerPage = 5
	defaultPage           = 1
)

var filterParams = map[string]struct{}{
	paramDate:           {},
	paramStatus:         {},
	paramTeacherIDs:     {},
	paramLessonsPerPage: {},
	paramPage:           {},
	paramStudentsCount:  {},
}

const rangeOrderMessage = "first should be less or equal second."

// parseLessonFilter validates the lesson listing query string.
func parseLessonFilter(values url.Values) (core.LessonFilter, error) {
	filter := core.LessonFilter{
		LessonsPerPage: defaultLessonsPerPage,
		Page:           defaultPage,
	}

	for key, vals := range values {
		if _, ok := filterParams[key]; !ok {
			return filter, invalidf("%q is not allowed", key)
		}
		if len(vals) > 1 {
			return filter, invalidf("%q must be a single value", key)
		}
	}

	if raw, ok := lookup(values, paramDate); ok {
		r, err := parseDateRange(paramDate, raw)
		if err != nil {
			return filter, err
		}
		filter.Date = &r
	}

	if raw, ok := lookup(values, paramStatus); ok {
		n, err := parseInt(paramStatus, raw)
		if err != nil {
			return filter, err
		}
		status := core.LessonStatus(n)
		switch {
		case n < int(core.LessonStatusScheduled):
			return filter, invalidf("%q must be greater than or equal to %d", paramStatus, core.LessonStatusScheduled)
		case !status.Valid():
			return filter, invalidf("%q must be less than or equal to %d", paramStatus, core.LessonStatusOther)
		}
		filter.Status = &status
	}

	if raw, ok := lookup(values, paramTeacherIDs); ok {
		ids, err := parsePositiveList(paramTeacherIDs, raw)
		if err != nil {
			return filter, err
		}
		filter.TeacherIDs = ids
	}

	if raw, ok := lookup(values, paramLessonsPerPage); ok {
		n, err := parsePositive(paramLessonsPerPage, raw)
		if err != nil {
			return filter, err
		}
		filter.LessonsPerPage = n
	}

	if raw, ok := lookup(values, paramPage); ok {
		n, err := parsePositive(paramPage, raw)
		if err != nil {
			return filter, err
		}
		filter.Page = n
	}

	if raw, ok := lookup(values, paramStudentsCount); ok {
		r, err := parseCountRange(paramStudentsCount, raw)
		if err != nil {
			return filter, err
		}
		filter.StudentsCount = &r
	}

	return filter, nil
}

func lookup(values url.Values, key string) (string, bool) {
	vals, ok := values[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func splitRange(name, raw string) ([]string, error) {
	items := strings.Split(raw, ",")
	if len(items) > 2 {
		return nil, invalidf("%q must contain less than or equal to 2 items", name)
	}
	return items, nil
}

func parseDateRange(name, raw string) (core.DateRange, error) {
	items, err := splitRange(name, raw)
	if err != nil {
		return core.DateRange{}, err
	}

	dates := make([]time.Time, 0, len(items))
	for i, item := range items {
		d, err := parseDate(fmt.Sprintf("%s[%d]", name, i), item)
		if err != nil {
			return core.DateRange{}, err
		}
		dates = append(dates, d)
	}

	if len(dates) == 1 {
		return core.DateRange{From: dates[0], To: dates[0], Single: true}, nil
	}
	if dates[0].After(dates[1]) {
		return core.DateRange{}, core.NewValidationError(rangeOrderMessage)
	}
	return core.DateRange{From: dates[0], To: dates[1]}, nil
}

func parseCountRange(name, raw string) (core.CountRange, error) {
	items, err := splitRange(name, raw)
	if err != nil {
		return core.CountRange{}, err
	}

	counts := make([]int, 0, len(items))
	for i, item := range items {
		n, err := parsePositive(fmt.Sprintf("%s[%d]", name, i), item)
		if err != nil {
			return core.CountRange{}, err
		}
		counts = append(counts, n)
	}

	if len(counts) == 1 {
		return core.CountRange{Min: counts[0], Max: counts[0], Single: true}, nil
	}
	if counts[0] > counts[1] {
		return core.CountRange{}, core.NewValidationError(rangeOrderMessage)
	}
	return core.CountRange{Min: counts[0], Max: counts[1]}, nil
}

func parsePositiveList(name, raw string) ([]int, error) {
	items := strings.Split(raw, ",")
	ids := make([]int, 0, len(items))
	for i, item := range items {
		n, err := parsePositive(fmt.Sprintf("%s[%d]", name, i), item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, n)
	}
	return ids, nil
}

func parsePositive(name, raw string) (int, error) {
	n, err := parseInt(name, raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, invalidf("%q must be a positive number", name)
	}
	return n, nil
}

func parseInt(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err == nil {
		return n, nil
	}
	if f, ferr := strconv.ParseFloat(raw, 64); ferr == nil {
		if f == float64(int(f)) {
			return int(f), nil
		}
		return 0, invalidf("%q must be an integer", name)
	}
	return 0, invalidf("%q must be a number", name)
}

// parseDate accepts a calendar date or an RFC 3339 timestamp and returns the
// calendar date in UTC.
func parseDate(name, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if d, err := time.Parse(core.DateLayout, raw); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		y, m, d := ts.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, invalidf("%q must be a valid date", name)
}

func invalidf(format string, args ...any) error {
	return core.NewValidationError(fmt.Sprintf(format, args...))
}
