package db

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/samber/lo"

	"github.com/eslsoft/lessonplan/internal/core"
)

// associationBatchSize bounds the rows written by one association INSERT.
const associationBatchSize = 500

// LessonRepository persists lessons using the ent SQL driver.
type LessonRepository struct {
	drv *sql.Driver
}

// NewLessonRepository constructs an ent-backed lesson repository.
func NewLessonRepository(drv *sql.Driver) *LessonRepository {
	return &LessonRepository{drv: drv}
}

var _ core.LessonRepository = (*LessonRepository)(nil)

// FindLessons runs the composed query and loads teachers and students of the
// returned lessons.
func (r *LessonRepository) FindLessons(ctx context.Context, query core.LessonQuery) ([]core.LessonView, error) {
	sel, err := newLessonCompiler(r.drv.Dialect()).compile(query)
	if err != nil {
		return nil, err
	}

	lessons, err := r.queryLessons(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("db: query lessons: %w", err)
	}
	if len(lessons) == 0 {
		return lessons, nil
	}

	ids := lo.Map(lessons, func(l core.LessonView, _ int) int { return l.ID })

	teachers, err := r.queryTeachers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("db: query lesson teachers: %w", err)
	}
	students, err := r.queryStudents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("db: query lesson students: %w", err)
	}

	for i := range lessons {
		lessons[i].Teachers = lo.Ternary(teachers[lessons[i].ID] != nil, teachers[lessons[i].ID], []core.Teacher{})
		lessons[i].Students = lo.Ternary(students[lessons[i].ID] != nil, students[lessons[i].ID], []core.StudentVisit{})
	}

	return lessons, nil
}

func (r *LessonRepository) queryLessons(ctx context.Context, sel *sql.Selector) ([]core.LessonView, error) {
	query, args := sel.Query()
	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	lessons := make([]core.LessonView, 0)
	for rows.Next() {
		var (
			lesson     core.LessonView
			day        dateValue
			status     int
			visitCount int64
		)
		if err := rows.Scan(&lesson.ID, &day, &lesson.Title, &status, &visitCount); err != nil {
			return nil, err
		}
		lesson.Date = day.Time
		lesson.Title = strings.TrimRight(lesson.Title, " ")
		lesson.Status = core.LessonStatus(status)
		lesson.VisitCount = int(visitCount)
		lessons = append(lessons, lesson)
	}

	return lessons, rows.Err()
}

func (r *LessonRepository) queryTeachers(ctx context.Context, lessonIDs []int) (map[int][]core.Teacher, error) {
	b := sql.Dialect(r.drv.Dialect())
	t := b.Table(teachersTable).As("t")
	lt := b.Table(lessonTeachersTable).As("lt")

	query, args := b.Select(lt.C(colLessonID), t.C(colID), t.C(colName)).
		From(lt).
		Join(t).
		On(lt.C(colTeacherID), t.C(colID)).
		Where(sql.InInts(lt.C(colLessonID), lessonIDs...)).
		OrderBy(sql.Asc(lt.C(colLessonID)), sql.Asc(t.C(colID))).
		Query()

	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	byLesson := make(map[int][]core.Teacher, len(lessonIDs))
	for rows.Next() {
		var (
			lessonID int
			teacher  core.Teacher
			name     stdsql.NullString
		)
		if err := rows.Scan(&lessonID, &teacher.ID, &name); err != nil {
			return nil, err
		}
		teacher.Name = strings.TrimRight(name.String, " ")
		byLesson[lessonID] = append(byLesson[lessonID], teacher)
	}

	return byLesson, rows.Err()
}

func (r *LessonRepository) queryStudents(ctx context.Context, lessonIDs []int) (map[int][]core.StudentVisit, error) {
	b := sql.Dialect(r.drv.Dialect())
	s := b.Table(studentsTable).As("s")
	ls := b.Table(lessonStudentsTable).As("ls")

	query, args := b.Select(ls.C(colLessonID), s.C(colID), s.C(colName), ls.C(colVisit)).
		From(ls).
		Join(s).
		On(ls.C(colStudentID), s.C(colID)).
		Where(sql.InInts(ls.C(colLessonID), lessonIDs...)).
		OrderBy(sql.Asc(ls.C(colLessonID)), sql.Asc(s.C(colID))).
		Query()

	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	byLesson := make(map[int][]core.StudentVisit, len(lessonIDs))
	for rows.Next() {
		var (
			lessonID int
			student  core.StudentVisit
			name     stdsql.NullString
			visit    stdsql.NullBool
		)
		if err := rows.Scan(&lessonID, &student.ID, &name, &visit); err != nil {
			return nil, err
		}
		student.Name = strings.TrimRight(name.String, " ")
		if visit.Valid {
			student.Visit = lo.ToPtr(visit.Bool)
		}
		byLesson[lessonID] = append(byLesson[lessonID], student)
	}

	return byLesson, rows.Err()
}

// CreateLessons inserts all drafts and their teacher associations in one
// transaction. Nothing is persisted if any statement fails.
func (r *LessonRepository) CreateLessons(ctx context.Context, drafts []core.LessonDraft, teacherIDs []int) ([]int, error) {
	if len(drafts) == 0 {
		return []int{}, nil
	}

	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return nil, persistenceError(err)
	}

	ids, err := r.insertLessons(ctx, tx, drafts)
	if err != nil {
		_ = tx.Rollback()
		return nil, persistenceError(err)
	}

	if err := r.attachTeachers(ctx, tx, ids, teacherIDs); err != nil {
		_ = tx.Rollback()
		return nil, persistenceError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, persistenceError(err)
	}

	return ids, nil
}

func (r *LessonRepository) insertLessons(ctx context.Context, tx dialect.Tx, drafts []core.LessonDraft) ([]int, error) {
	ins := sql.Dialect(r.drv.Dialect()).
		Insert(lessonsTable).
		Columns(colDate, colTitle, colStatus)
	for _, d := range drafts {
		ins.Values(formatDate(d.Date), d.Title, int(d.Status))
	}

	if r.drv.Dialect() == dialect.Postgres {
		ins.Returning(colID)
		query, args := ins.Query()
		rows := &sql.Rows{}
		if err := tx.Query(ctx, query, args, rows); err != nil {
			return nil, err
		}
		defer rows.Close()

		ids := make([]int, 0, len(drafts))
		for rows.Next() {
			var id int
			if err := rows.Scan(&id); err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		if len(ids) != len(drafts) {
			return nil, fmt.Errorf("db: inserted %d lessons, got %d ids", len(drafts), len(ids))
		}
		// Serial ids grow in insertion order, which is the draft order.
		slices.Sort(ids)
		return ids, nil
	}

	// Rows of a single INSERT receive consecutive rowids inside the write
	// transaction; LastInsertId reports the last of them.
	query, args := ins.Query()
	var res stdsql.Result
	if err := tx.Exec(ctx, query, args, &res); err != nil {
		return nil, err
	}
	last, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	first := int(last) - len(drafts) + 1
	return lo.RangeFrom(first, len(drafts)), nil
}

func (r *LessonRepository) attachTeachers(ctx context.Context, tx dialect.Tx, lessonIDs, teacherIDs []int) error {
	type pair struct{ lessonID, teacherID int }

	pairs := make([]pair, 0, len(lessonIDs)*len(teacherIDs))
	for _, lessonID := range lessonIDs {
		for _, teacherID := range teacherIDs {
			pairs = append(pairs, pair{lessonID: lessonID, teacherID: teacherID})
		}
	}

	for _, batch := range lo.Chunk(pairs, associationBatchSize) {
		ins := sql.Dialect(r.drv.Dialect()).
			Insert(lessonTeachersTable).
			Columns(colLessonID, colTeacherID)
		for _, p := range batch {
			ins.Values(p.lessonID, p.teacherID)
		}
		query, args := ins.Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			return err
		}
	}

	return nil
}

func formatDate(t time.Time) string {
	return t.Format(core.DateLayout)
}

// dateValue scans a calendar date returned either as a time value or as text.
type dateValue struct {
	time.Time
}

func (d *dateValue) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		y, m, day := v.Date()
		d.Time = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("db: cannot scan %T into date", src)
	}
}

func (d *dateValue) parse(s string) error {
	if len(s) > len(core.DateLayout) {
		s = s[:len(core.DateLayout)]
	}
	t, err := time.Parse(core.DateLayout, s)
	if err != nil {
		return fmt.Errorf("db: parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}
