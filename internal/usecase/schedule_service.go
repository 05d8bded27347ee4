package usecase

import (
	"context"

	"github.com/samber/lo"

	"github.com/eslsoft/lessonplan/internal/core"
)

// ScheduleService coordinates lesson listing and recurring lesson creation.
type ScheduleService struct {
	repo core.LessonRepository
}

// NewScheduleService constructs a ScheduleService backed by the provided repository.
func NewScheduleService(repo core.LessonRepository) *ScheduleService {
	return &ScheduleService{repo: repo}
}

var _ core.ScheduleService = (*ScheduleService)(nil)

// ListLessons returns one page of lessons matching the filter.
func (s *ScheduleService) ListLessons(ctx context.Context, filter core.LessonFilter) ([]core.LessonView, error) {
	return s.repo.FindLessons(ctx, BuildLessonQuery(filter))
}

// ScheduleLessons expands the recurrence into lessons, stores them together
// with their teachers and returns the new lesson ids in date order.
func (s *ScheduleService) ScheduleLessons(ctx context.Context, cmd core.ScheduleLessonsCommand) ([]int, error) {
	if len(cmd.TeacherIDs) == 0 {
		return nil, core.NewValidationError(`"teacherIds" must contain at least 1 items`)
	}
	if cmd.Title == "" {
		return nil, core.NewValidationError(`"title" is required`)
	}
	if cmd.Recurrence.End == nil {
		return nil, core.NewValidationError(`"value" must contain exactly one of [lastDate, lessonsCount]`)
	}

	dates := GenerateLessonDates(cmd.Recurrence)
	if len(dates) == 0 {
		return []int{}, nil
	}

	drafts := make([]core.LessonDraft, 0, len(dates))
	for _, date := range dates {
		drafts = append(drafts, core.LessonDraft{
			Date:   date,
			Title:  cmd.Title,
			Status: core.LessonStatusScheduled,
		})
	}

	return s.repo.CreateLessons(ctx, drafts, lo.Uniq(cmd.TeacherIDs))
}
