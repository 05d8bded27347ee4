package usecase

import (
	"github.com/samber/lo"

	"github.com/eslsoft/lessonplan/internal/core"
)

const (
	defaultLessonsPerPage = 5
	defaultPage           = 1
)

// BuildLessonQuery composes the lesson lookup described by filter. Every
// present filter contributes one independent predicate; the lookup is ordered
// by date and paginated with offset and limit.
func BuildLessonQuery(filter core.LessonFilter) core.LessonQuery {
	perPage := lo.Ternary(filter.LessonsPerPage > 0, filter.LessonsPerPage, defaultLessonsPerPage)
	page := lo.Ternary(filter.Page > 0, filter.Page, defaultPage)

	q := core.LessonQuery{
		Order: []core.LessonOrder{
			{Field: core.SortByDate},
			{Field: core.SortByID},
		},
		Offset: (page - 1) * perPage,
		Limit:  perPage,
	}

	if filter.Status != nil {
		q.Where = append(q.Where, core.StatusIs{Status: *filter.Status})
	}

	if d := filter.Date; d != nil {
		if d.Single {
			q.Where = append(q.Where, core.DateOn{Date: d.From})
		} else {
			q.Where = append(q.Where, core.DateBetween{From: d.From, To: d.To})
		}
	}

	if len(filter.TeacherIDs) > 0 {
		q.Where = append(q.Where, core.TaughtByAny{TeacherIDs: lo.Uniq(filter.TeacherIDs)})
	}

	if c := filter.StudentsCount; c != nil {
		if c.Single {
			q.Where = append(q.Where, core.VisitCountIs{Count: c.Min})
		} else {
			q.Where = append(q.Where, core.VisitCountBetween{Min: c.Min, Max: c.Max})
		}
	}

	return q
}
