package core

import (
	"context"
	"time"
)

// LessonStatus is the lifecycle state stored on a lesson.
type LessonStatus int

const (
	LessonStatusScheduled LessonStatus = iota
	LessonStatusOther
)

// Valid reports whether the status is one of the known values.
func (s LessonStatus) Valid() bool {
	return s == LessonStatusScheduled || s == LessonStatusOther
}

// DateLayout is the calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

const (
	// RecurrenceHorizonDays bounds how far past the first date a series may reach.
	RecurrenceHorizonDays = 365
	// MaxLessonsPerSeries caps the number of lessons a single series may produce.
	MaxLessonsPerSeries = 300
)

// Lesson represents a single scheduled class session.
type Lesson struct {
	ID     int
	Date   time.Time
	Title  string
	Status LessonStatus
}

// Teacher is a pre-existing person who can be attached to lessons.
type Teacher struct {
	ID   int
	Name string
}

// Student is a pre-existing person who can attend lessons.
type Student struct {
	ID   int
	Name string
}

// StudentVisit is a student as seen from one lesson, with attendance.
// Visit is nil when attendance has not been recorded.
type StudentVisit struct {
	Student
	Visit *bool
}

// LessonView is a lesson together with its associations and the number of
// students marked present.
type LessonView struct {
	Lesson
	VisitCount int
	Teachers   []Teacher
	Students   []StudentVisit
}

// LessonDraft holds the attributes of a lesson that is about to be created.
type LessonDraft struct {
	Date   time.Time
	Title  string
	Status LessonStatus
}

// DateRange is an inclusive range of calendar dates. A single date is
// represented with From equal to To and Single set.
type DateRange struct {
	From   time.Time
	To     time.Time
	Single bool
}

// CountRange is an inclusive range of counts. A single value is represented
// with Min equal to Max and Single set.
type CountRange struct {
	Min    int
	Max    int
	Single bool
}

// LessonFilter is the validated form of the lesson listing parameters.
type LessonFilter struct {
	Status         *LessonStatus
	Date           *DateRange
	TeacherIDs     []int
	StudentsCount  *CountRange
	LessonsPerPage int
	Page           int
}

// Recurrence describes a repeating lesson series.
type Recurrence struct {
	FirstDate time.Time
	Days      []time.Weekday
	End       RecurrenceEnd
}

// RecurrenceEnd terminates a recurrence. It is either EndDate or EndAfter.
type RecurrenceEnd interface {
	isRecurrenceEnd()
}

// EndDate stops a recurrence after the given date (inclusive).
type EndDate struct {
	Date time.Time
}

// EndAfter stops a recurrence once Count lessons were produced.
type EndAfter struct {
	Count int
}

func (EndDate) isRecurrenceEnd()  {}
func (EndAfter) isRecurrenceEnd() {}

// ScheduleLessonsCommand is the validated input for creating a lesson series.
type ScheduleLessonsCommand struct {
	TeacherIDs []int
	Title      string
	Recurrence Recurrence
}

// LessonRepository defines the persistence operations required by the lesson domain.
type LessonRepository interface {
	// FindLessons executes a composed lesson query.
	FindLessons(ctx context.Context, query LessonQuery) ([]LessonView, error)
	// CreateLessons inserts the drafts and attaches every teacher to each of
	// them in a single transaction, returning the new ids in draft order.
	CreateLessons(ctx context.Context, drafts []LessonDraft, teacherIDs []int) ([]int, error)
}

// ScheduleService exposes the lesson use cases to the transport layer.
type ScheduleService interface {
	ListLessons(ctx context.Context, filter LessonFilter) ([]LessonView, error)
	ScheduleLessons(ctx context.Context, cmd ScheduleLessonsCommand) ([]int, error)
}
