package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/eslsoft/lessonplan/internal/core"
)

// scheduleLessonsRequest is the JSON body accepted by POST /lessons.
type scheduleLessonsRequest struct {
	TeacherIDs   []int   `json:"teacherIds" validate:"required,min=1,unique,dive,gt=0"`
	Title        string  `json:"title" validate:"required,max=100"`
	Days         []int   `json:"days" validate:"required,min=1,unique,dive,gte=0,lte=6"`
	FirstDate    string  `json:"firstDate" validate:"required"`
	LastDate     *string `json:"lastDate"`
	LessonsCount *int    `json:"lessonsCount" validate:"omitnil,gt=0,lte=300"`
}

// newValidator returns a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeScheduleLessons reads and validates a recurrence command.
func decodeScheduleLessons(v *validator.Validate, body io.Reader) (core.ScheduleLessonsCommand, error) {
	var req scheduleLessonsRequest

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return core.ScheduleLessonsCommand{}, decodeError(err)
	}

	if err := v.Struct(req); err != nil {
		return core.ScheduleLessonsCommand{}, validationMessage(err)
	}

	firstDate, err := parseDate("firstDate", req.FirstDate)
	if err != nil {
		return core.ScheduleLessonsCommand{}, err
	}

	end, err := recurrenceEnd(req, firstDate)
	if err != nil {
		return core.ScheduleLessonsCommand{}, err
	}

	return core.ScheduleLessonsCommand{
		TeacherIDs: req.TeacherIDs,
		Title:      req.Title,
		Recurrence: core.Recurrence{
			FirstDate: firstDate,
			Days:      lo.Map(req.Days, func(d int, _ int) time.Weekday { return time.Weekday(d) }),
			End:       end,
		},
	}, nil
}

// recurrenceEnd turns the mutually exclusive lastDate/lessonsCount pair into
// a single recurrence end.
func recurrenceEnd(req scheduleLessonsRequest, firstDate time.Time) (core.RecurrenceEnd, error) {
	switch {
	case req.LastDate != nil && req.LessonsCount != nil:
		return nil, core.NewValidationError(`"value" contains a conflict between exclusive peers [lastDate, lessonsCount]`)
	case req.LessonsCount != nil:
		return core.EndAfter{Count: *req.LessonsCount}, nil
	case req.LastDate != nil:
		lastDate, err := parseDate("lastDate", *req.LastDate)
		if err != nil {
			return nil, err
		}
		if !lastDate.After(firstDate) {
			return nil, core.NewValidationError(`"lastDate" must be later than "firstDate"`)
		}
		if !lastDate.Before(firstDate.AddDate(0, 0, core.RecurrenceHorizonDays)) {
			return nil, core.NewValidationError(fmt.Sprintf(`"lastDate" must be less than %d days after "firstDate"`, core.RecurrenceHorizonDays))
		}
		return core.EndDate{Date: lastDate}, nil
	default:
		return nil, core.NewValidationError(`"value" must contain at least one of [lastDate, lessonsCount]`)
	}
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		return invalidf("%q must be a %s", typeErr.Field, jsonKind(typeErr.Type))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return core.NewValidationError("request body must be valid JSON")
	case errors.Is(err, io.EOF):
		return core.NewValidationError("request body is required")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return invalidf("%q is not allowed", field)
	default:
		return core.NewValidationError(err.Error())
	}
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Pointer:
		return jsonKind(t.Elem())
	default:
		return t.Kind().String()
	}
}

// validationMessage renders the first validator failure in a client friendly form.
func validationMessage(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return core.NewValidationError(err.Error())
	}

	fe := errs[0]
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return invalidf("%q is required", name)
	case "min":
		return invalidf("%q must contain at least %s items", name, fe.Param())
	case "max":
		return invalidf("%q length must be less than or equal to %s characters long", name, fe.Param())
	case "unique":
		return invalidf("%q contains a duplicate value", name)
	case "gt":
		if fe.Param() == "0" {
			return invalidf("%q must be a positive number", name)
		}
		return invalidf("%q must be greater than %s", name, fe.Param())
	case "gte":
		return invalidf("%q must be greater than or equal to %s", name, fe.Param())
	case "lte":
		return invalidf("%q must be less than or equal to %s", name, fe.Param())
	default:
		return invalidf("%q is invalid", name)
	}
}
