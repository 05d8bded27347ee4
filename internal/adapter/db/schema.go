package db

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	lessonsTable        = "lessons"
	teachersTable       = "teachers"
	studentsTable       = "students"
	lessonTeachersTable = "lesson_teachers"
	lessonStudentsTable = "lesson_students"

	colID        = "id"
	colDate      = "date"
	colTitle     = "title"
	colStatus    = "status"
	colName      = "name"
	colLessonID  = "lesson_id"
	colTeacherID = "teacher_id"
	colStudentID = "student_id"
	colVisit     = "visit"
)

var dateSchemaType = map[string]string{
	dialect.Postgres: "date",
	dialect.SQLite:   "date",
}

var (
	// LessonsColumns holds the columns for the "lessons" table.
	LessonsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colDate, Type: field.TypeTime, SchemaType: dateSchemaType},
		{Name: colTitle, Type: field.TypeString, Size: 100},
		{Name: colStatus, Type: field.TypeInt, Default: 0},
	}
	// LessonsTable holds the schema information for the "lessons" table.
	LessonsTable = &schema.Table{
		Name:       lessonsTable,
		Columns:    LessonsColumns,
		PrimaryKey: []*schema.Column{LessonsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "lesson_date", Columns: []*schema.Column{LessonsColumns[1]}},
		},
	}
	// TeachersColumns holds the columns for the "teachers" table.
	TeachersColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt},
		{Name: colName, Type: field.TypeString, Size: 10, Nullable: true},
	}
	// TeachersTable holds the schema information for the "teachers" table.
	TeachersTable = &schema.Table{
		Name:       teachersTable,
		Columns:    TeachersColumns,
		PrimaryKey: []*schema.Column{TeachersColumns[0]},
	}
	// StudentsColumns holds the columns for the "students" table.
	StudentsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt},
		{Name: colName, Type: field.TypeString, Size: 10, Nullable: true},
	}
	// StudentsTable holds the schema information for the "students" table.
	StudentsTable = &schema.Table{
		Name:       studentsTable,
		Columns:    StudentsColumns,
		PrimaryKey: []*schema.Column{StudentsColumns[0]},
	}
	// LessonTeachersColumns holds the columns for the "lesson_teachers" table.
	LessonTeachersColumns = []*schema.Column{
		{Name: colLessonID, Type: field.TypeInt},
		{Name: colTeacherID, Type: field.TypeInt},
	}
	// LessonTeachersTable holds the schema information for the "lesson_teachers" table.
	LessonTeachersTable = &schema.Table{
		Name:       lessonTeachersTable,
		Columns:    LessonTeachersColumns,
		PrimaryKey: []*schema.Column{LessonTeachersColumns[0], LessonTeachersColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "lesson_teachers_lesson_id",
				Columns:    []*schema.Column{LessonTeachersColumns[0]},
				RefColumns: []*schema.Column{LessonsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "lesson_teachers_teacher_id",
				Columns:    []*schema.Column{LessonTeachersColumns[1]},
				RefColumns: []*schema.Column{TeachersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "lessonteacher_teacher_id", Columns: []*schema.Column{LessonTeachersColumns[1]}},
		},
	}
	// LessonStudentsColumns holds the columns for the "lesson_students" table.
	LessonStudentsColumns = []*schema.Column{
		{Name: colLessonID, Type: field.TypeInt},
		{Name: colStudentID, Type: field.TypeInt},
		{Name: colVisit, Type: field.TypeBool, Nullable: true},
	}
	// LessonStudentsTable holds the schema information for the "lesson_students" table.
	LessonStudentsTable = &schema.Table{
		Name:       lessonStudentsTable,
		Columns:    LessonStudentsColumns,
		PrimaryKey: []*schema.Column{LessonStudentsColumns[0], LessonStudentsColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "lesson_students_lesson_id",
				Columns:    []*schema.Column{LessonStudentsColumns[0]},
				RefColumns: []*schema.Column{LessonsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "lesson_students_student_id",
				Columns:    []*schema.Column{LessonStudentsColumns[1]},
				RefColumns: []*schema.Column{StudentsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		LessonsTable,
		TeachersTable,
		StudentsTable,
		LessonTeachersTable,
		LessonStudentsTable,
	}
)

func init() {
	LessonTeachersTable.ForeignKeys[0].RefTable = LessonsTable
	LessonTeachersTable.ForeignKeys[1].RefTable = TeachersTable
	LessonStudentsTable.ForeignKeys[0].RefTable = LessonsTable
	LessonStudentsTable.ForeignKeys[1].RefTable = StudentsTable
}

// Migrate creates or upgrades the lesson schema on the given driver.
func Migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv, schema.WithForeignKeys(true))
	if err != nil {
		return fmt.Errorf("db: create migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("db: migrate schema: %w", err)
	}
	return nil
}
