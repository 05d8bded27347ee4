package core

import "time"

// LessonQuery is a storage independent description of a lesson lookup.
// Predicates are combined with AND in the order they appear.
type LessonQuery struct {
	Where  []LessonPredicate
	Order  []LessonOrder
	Offset int
	Limit  int
}

// LessonPredicate is one conjunct of a LessonQuery.
type LessonPredicate interface {
	isLessonPredicate()
}

// StatusIs keeps lessons with the given status.
type StatusIs struct {
	Status LessonStatus
}

// DateOn keeps lessons scheduled on Date.
type DateOn struct {
	Date time.Time
}

// DateBetween keeps lessons scheduled within [From, To].
type DateBetween struct {
	From time.Time
	To   time.Time
}

// TaughtByAny keeps lessons that have at least one of the teachers attached.
type TaughtByAny struct {
	TeacherIDs []int
}

// VisitCountIs keeps lessons whose number of present students equals Count.
type VisitCountIs struct {
	Count int
}

// VisitCountBetween keeps lessons whose number of present students is within [Min, Max].
type VisitCountBetween struct {
	Min int
	Max int
}

func (StatusIs) isLessonPredicate()          {}
func (DateOn) isLessonPredicate()            {}
func (DateBetween) isLessonPredicate()       {}
func (TaughtByAny) isLessonPredicate()       {}
func (VisitCountIs) isLessonPredicate()      {}
func (VisitCountBetween) isLessonPredicate() {}

// LessonSortField names a sortable lesson attribute.
type LessonSortField int

const (
	SortByDate LessonSortField = iota
	SortByID
)

// LessonOrder is one ordering term of a LessonQuery.
type LessonOrder struct {
	Field LessonSortField
	Desc  bool
}
