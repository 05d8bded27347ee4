package transport

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/eslsoft/lessonplan/internal/core"
)

func TestDecodeScheduleLessons_LastDate(t *testing.T) {
	cmd, err := decodeScheduleLessons(newValidator(), strings.NewReader(
		`{"teacherIds":[1,2],"title":"Spring","days":[0,1,6],"firstDate":"2021-07-01","lastDate":"2022-06-30"}`))
	if err != nil {
		t.Fatalf("decodeScheduleLessons() error = %v", err)
	}

	if len(cmd.TeacherIDs) != 2 || cmd.Title != "Spring" {
		t.Fatalf("unexpected command %#v", cmd)
	}
	wantDays := []time.Weekday{time.Sunday, time.Monday, time.Saturday}
	for i, d := range wantDays {
		if cmd.Recurrence.Days[i] != d {
			t.Fatalf("day %d: expected %s, got %s", i, d, cmd.Recurrence.Days[i])
		}
	}
	if got := cmd.Recurrence.FirstDate.Format(core.DateLayout); got != "2021-07-01" {
		t.Fatalf("unexpected first date %s", got)
	}
	end, ok := cmd.Recurrence.End.(core.EndDate)
	if !ok {
		t.Fatalf("expected end date, got %#v", cmd.Recurrence.End)
	}
	if got := end.Date.Format(core.DateLayout); got != "2022-06-30" {
		t.Fatalf("unexpected last date %s", got)
	}
}

func TestDecodeScheduleLessons_LessonsCount(t *testing.T) {
	cmd, err := decodeScheduleLessons(newValidator(), strings.NewReader(
		`{"teacherIds":[1],"title":"Spring","days":[3],"firstDate":"2021-07-01","lessonsCount":300}`))
	if err != nil {
		t.Fatalf("decodeScheduleLessons() error = %v", err)
	}
	end, ok := cmd.Recurrence.End.(core.EndAfter)
	if !ok || end.Count != 300 {
		t.Fatalf("expected end after 300 lessons, got %#v", cmd.Recurrence.End)
	}
}

func TestDecodeScheduleLessons_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "both ends",
			body:    `{"teacherIds":[1],"title":"A","days":[1],"firstDate":"2021-07-01","lastDate":"2021-08-01","lessonsCount":3}`,
			message: `"value" contains a conflict between exclusive peers [lastDate, lessonsCount]`,
		},
		{
			name:    "no end",
			body:    `{"teacherIds":[1],"title":"A","days":[1],"firstDate":"2021-07-01"}`,
			message: `"value" must contain at least one of [lastDate, lessonsCount]`,
		},
		{
			name:    "last date equals first date",
			body:    `{"teacherIds":[1],"title":"A","days":[1],"firstDate":"2021-07-01","lastDate":"2021-07-01"}`,
			message: `"lastDate" must be later than "firstDate"`,
		},
		{
			name:    "last date before first date",
			body:    `{"teacherIds":[1],"title":"A","days":[1],"firstDate":"2021-07-01","lastDate":"2021-06-01"}`,
			message: `"lastDate" must be later than "firstDate"`,
		},
		{
			name:    "last date a year out",
			body:    `{"teacherIds":[1],"title":"A","days":[1],"firstDate":"2021-07-01","lastDate":"2022-07-01"}`,
			message: `"lastDate" must be less than 365 days after "firstDate"`,
		},
		{
			name:    "too many lessons",
			body:    `{"teacherIds":[1],"title":"A","days":[1],"firstDate":"2021-07-01","lessonsCount":301}`,
			message: `"lessonsCount" must be less than or equal to 300`,
		},
		{
			name:    "zero lessons",
			body:    `{"teacherIds":[1],"title":"A","days":[1],"firstDate":"2021-07-01","lessonsCount":0}`,
			message: `"lessonsCount" must be a positive number`,
		},
		{
			name:    "missing teachers",
			body:    `{"title":"A","days":[1],"firstDate":"2021-07-01","lessonsCount":1}`,
			message: `"teacherIds" is required`,
		},
		{
			name:    "empty teachers",
			body:    `{"teacherIds":[],"title":"A","days":[1],"firstDate":"2021-07-01","lessonsCount":1}`,
			message: `"teacherIds" must contain at least 1 items`,
		},
		{
			name:    "duplicate days",
			body:    `{"teacherIds":[1],"title":"A","days":[1,1],"firstDate":"2021-07-01","lessonsCount":1}`,
			message: `"days" contains a duplicate value`,
		},
		{
			name:    "day out of range",
			body:    `{"teacherIds":[1],"title":"A","days":[7],"firstDate":"2021-07-01","lessonsCount":1}`,
			message: `"days[0]" must be less than or equal to 6`,
		},
		{
			name:    "missing title",
			body:    `{"teacherIds":[1],"days":[1],"firstDate":"2021-07-01","lessonsCount":1}`,
			message: `"title" is required`,
		},
		{
			name:    "title too long",
			body:    `{"teacherIds":[1],"title":"` + strings.Repeat("a", 101) + `","days":[1],"firstDate":"2021-07-01","lessonsCount":1}`,
			message: `"title" length must be less than or equal to 100 characters long`,
		},
		{
			name:    "bad first date",
			body:    `{"teacherIds":[1],"title":"A","days":[1],"firstDate":"soon","lessonsCount":1}`,
			message: `"firstDate" must be a valid date`,
		},
		{
			name:    "wrong type",
			body:    `{"teacherIds":"1","title":"A","days":[1],"firstDate":"2021-07-01","lessonsCount":1}`,
			message: `"teacherIds" must be a array`,
		},
		{
			name:    "unknown field",
			body:    `{"teacherIds":[1],"title":"A","days":[1],"firstDate":"2021-07-01","lessonsCount":1,"foo":1}`,
			message: `"foo" is not allowed`,
		},
		{
			name:    "malformed body",
			body:    `{"teacherIds":[1`,
			message: "request body must be valid JSON",
		},
		{
			name:    "empty body",
			body:    ``,
			message: "request body is required",
		},
	}

	v := newValidator()
	for _, tt := range tests {
		_, err := decodeScheduleLessons(v, strings.NewReader(tt.body))
		if err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
		if !errors.Is(err, core.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tt.name, err)
		}
		if err.Error() != tt.message {
			t.Fatalf("%s: expected %q, got %q", tt.name, tt.message, err.Error())
		}
	}
}

func TestDecodeScheduleLessons_LastDateWithinHorizon(t *testing.T) {
	_, err := decodeScheduleLessons(newValidator(), strings.NewReader(
		`{"teacherIds":[1],"title":"A","days":[1],"firstDate":"2021-07-01","lastDate":"2022-06-30"}`))
	if err != nil {
		t.Fatalf("expected last date 364 days out to be accepted, got %v", err)
	}
}
