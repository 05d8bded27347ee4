package db

import (
	"fmt"

	"entgo.io/ent/dialect/sql"

	"github.com/eslsoft/lessonplan/internal/core"
)

const visitCountAlias = "visit_count"

// lessonCompiler translates core lesson queries into SQL for one dialect.
type lessonCompiler struct {
	b *sql.DialectBuilder
	l *sql.SelectTable
}

func newLessonCompiler(dialect string) *lessonCompiler {
	b := sql.Dialect(dialect)
	return &lessonCompiler{
		b: b,
		l: b.Table(lessonsTable).As("l"),
	}
}

// compile builds a single SELECT over lessons projecting the lesson columns
// and the number of present students.
func (c *lessonCompiler) compile(q core.LessonQuery) (*sql.Selector, error) {
	sel := c.b.Select(c.l.C(colID), c.l.C(colDate), c.l.C(colTitle), c.l.C(colStatus)).
		AppendSelectExprAs(sql.ExprFunc(func(b *sql.Builder) {
			b.Wrap(func(b *sql.Builder) { b.Join(c.visitCount()) })
		}), visitCountAlias).
		From(c.l)

	preds := make([]*sql.Predicate, 0, len(q.Where))
	for _, p := range q.Where {
		pred, err := c.predicate(p)
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}
	if len(preds) > 0 {
		sel.Where(sql.And(preds...))
	}

	for _, o := range q.Order {
		col, err := c.sortColumn(o.Field)
		if err != nil {
			return nil, err
		}
		if o.Desc {
			sel.OrderBy(sql.Desc(col))
		} else {
			sel.OrderBy(sql.Asc(col))
		}
	}

	if q.Limit > 0 {
		sel.Limit(q.Limit)
	}
	if q.Offset > 0 {
		sel.Offset(q.Offset)
	}

	return sel, nil
}

func (c *lessonCompiler) predicate(p core.LessonPredicate) (*sql.Predicate, error) {
	switch p := p.(type) {
	case core.StatusIs:
		return sql.EQ(c.l.C(colStatus), int(p.Status)), nil
	case core.DateOn:
		return sql.EQ(c.l.C(colDate), formatDate(p.Date)), nil
	case core.DateBetween:
		return sql.And(
			sql.GTE(c.l.C(colDate), formatDate(p.From)),
			sql.LTE(c.l.C(colDate), formatDate(p.To)),
		), nil
	case core.TaughtByAny:
		return sql.Exists(c.taughtBy(p.TeacherIDs)), nil
	case core.VisitCountIs:
		return c.visitCountP(sql.OpEQ, p.Count), nil
	case core.VisitCountBetween:
		return sql.And(
			c.visitCountP(sql.OpGTE, p.Min),
			c.visitCountP(sql.OpLTE, p.Max),
		), nil
	default:
		return nil, fmt.Errorf("db: unsupported lesson predicate %T", p)
	}
}

func (c *lessonCompiler) sortColumn(f core.LessonSortField) (string, error) {
	switch f {
	case core.SortByDate:
		return c.l.C(colDate), nil
	case core.SortByID:
		return c.l.C(colID), nil
	default:
		return "", fmt.Errorf("db: unsupported sort field %d", f)
	}
}

// visitCount counts the students marked present on the outer lesson.
func (c *lessonCompiler) visitCount() *sql.Selector {
	ls := c.b.Table(lessonStudentsTable).As("ls")
	return c.b.Select(sql.Count("*")).
		From(ls).
		Where(sql.And(
			sql.ColumnsEQ(ls.C(colLessonID), c.l.C(colID)),
			sql.EQ(ls.C(colVisit), true),
		))
}

func (c *lessonCompiler) visitCountP(op sql.Op, v int) *sql.Predicate {
	return sql.P(func(b *sql.Builder) {
		b.Wrap(func(b *sql.Builder) { b.Join(c.visitCount()) })
		b.WriteOp(op)
		b.Arg(v)
	})
}

// taughtBy selects the association rows linking the outer lesson to any of
// the teachers. Used under EXISTS so lessons are never repeated.
func (c *lessonCompiler) taughtBy(teacherIDs []int) *sql.Selector {
	lt := c.b.Table(lessonTeachersTable).As("lt")
	return c.b.Select(lt.C(colLessonID)).
		From(lt).
		Where(sql.And(
			sql.ColumnsEQ(lt.C(colLessonID), c.l.C(colID)),
			sql.InInts(lt.C(colTeacherID), teacherIDs...),
		))
}
