package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslsoft/lessonplan/internal/adapter/db"
	"github.com/eslsoft/lessonplan/internal/core"
	"github.com/eslsoft/lessonplan/internal/metrics"
	"github.com/eslsoft/lessonplan/internal/usecase"
)

type stubScheduleService struct {
	listLessonsFn     func(ctx context.Context, filter core.LessonFilter) ([]core.LessonView, error)
	scheduleLessonsFn func(ctx context.Context, cmd core.ScheduleLessonsCommand) ([]int, error)
}

func (s *stubScheduleService) ListLessons(ctx context.Context, filter core.LessonFilter) ([]core.LessonView, error) {
	if s.listLessonsFn == nil {
		return nil, errors.New("unexpected ListLessons call")
	}
	return s.listLessonsFn(ctx, filter)
}

func (s *stubScheduleService) ScheduleLessons(ctx context.Context, cmd core.ScheduleLessonsCommand) ([]int, error) {
	if s.scheduleLessonsFn == nil {
		return nil, errors.New("unexpected ScheduleLessons call")
	}
	return s.scheduleLessonsFn(ctx, cmd)
}

func newTestRouter(service core.ScheduleService) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	NewLessonHandler(service, nil, metrics.NewMetrics()).Register(r)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLessonHandler_ListLessons(t *testing.T) {
	present := true
	var captured core.LessonFilter
	service := &stubScheduleService{
		listLessonsFn: func(ctx context.Context, filter core.LessonFilter) ([]core.LessonView, error) {
			captured = filter
			return []core.LessonView{{
				Lesson: core.Lesson{
					ID:     7,
					Date:   time.Date(2019, 10, 10, 0, 0, 0, 0, time.UTC),
					Title:  "Math",
					Status: core.LessonStatusOther,
				},
				VisitCount: 1,
				Teachers:   []core.Teacher{{ID: 1, Name: "Anna"}},
				Students: []core.StudentVisit{
					{Student: core.Student{ID: 2, Name: "Kate"}, Visit: &present},
					{Student: core.Student{ID: 3, Name: "Oleg"}},
				},
			}}, nil
		},
	}

	rec := doRequest(t, newTestRouter(service), http.MethodGet, "/?status=1&teacherIds=1&page=2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.JSONEq(t, `{"result":[{
		"id": 7,
		"date": "2019-10-10",
		"title": "Math",
		"status": 1,
		"visitCount": 1,
		"teachers": [{"id": 1, "name": "Anna"}],
		"students": [
			{"id": 2, "name": "Kate", "visit": true},
			{"id": 3, "name": "Oleg", "visit": null}
		]
	}]}`, rec.Body.String())

	require.NotNil(t, captured.Status)
	assert.Equal(t, core.LessonStatusOther, *captured.Status)
	assert.Equal(t, []int{1}, captured.TeacherIDs)
	assert.Equal(t, 2, captured.Page)
	assert.Equal(t, 5, captured.LessonsPerPage)
}

func TestLessonHandler_ListLessonsEmpty(t *testing.T) {
	service := &stubScheduleService{
		listLessonsFn: func(ctx context.Context, filter core.LessonFilter) ([]core.LessonView, error) {
			return []core.LessonView{}, nil
		},
	}

	rec := doRequest(t, newTestRouter(service), http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":[]}`, rec.Body.String())
}

func TestLessonHandler_ListLessonsInvalidFilter(t *testing.T) {
	rec := doRequest(t, newTestRouter(&stubScheduleService{}), http.MethodGet, "/?status=3", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"\"status\" must be less than or equal to 1"}`, rec.Body.String())
}

func TestLessonHandler_ListLessonsInternalError(t *testing.T) {
	service := &stubScheduleService{
		listLessonsFn: func(ctx context.Context, filter core.LessonFilter) ([]core.LessonView, error) {
			return nil, errors.New("connection refused")
		},
	}

	rec := doRequest(t, newTestRouter(service), http.MethodGet, "/", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}

func TestLessonHandler_ScheduleLessons(t *testing.T) {
	var captured core.ScheduleLessonsCommand
	service := &stubScheduleService{
		scheduleLessonsFn: func(ctx context.Context, cmd core.ScheduleLessonsCommand) ([]int, error) {
			captured = cmd
			return []int{11, 12}, nil
		},
	}

	rec := doRequest(t, newTestRouter(service), http.MethodPost, "/lessons",
		`{"teacherIds":[1],"title":"Spring","days":[1],"firstDate":"2021-07-01","lessonsCount":2}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":[11,12]}`, rec.Body.String())
	assert.Equal(t, "Spring", captured.Title)
	assert.Equal(t, core.EndAfter{Count: 2}, captured.Recurrence.End)
}

func TestLessonHandler_ScheduleLessonsValidationError(t *testing.T) {
	rec := doRequest(t, newTestRouter(&stubScheduleService{}), http.MethodPost, "/lessons",
		`{"teacherIds":[1],"title":"Spring","days":[1],"firstDate":"2021-07-01"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"\"value\" must contain at least one of [lastDate, lessonsCount]"}`, rec.Body.String())
}

func TestLessonHandler_ScheduleLessonsPersistenceError(t *testing.T) {
	service := &stubScheduleService{
		scheduleLessonsFn: func(ctx context.Context, cmd core.ScheduleLessonsCommand) ([]int, error) {
			return nil, &core.PersistenceError{Detail: `Key (teacher_id)=(99) is not present in table "teachers".`}
		},
	}

	rec := doRequest(t, newTestRouter(service), http.MethodPost, "/lessons",
		`{"teacherIds":[99],"title":"Spring","days":[1],"firstDate":"2021-07-01","lessonsCount":2}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Key (teacher_id)=(99) is not present in table \"teachers\"."}`, rec.Body.String())
}

func TestLessonHandler_EndToEnd(t *testing.T) {
	ctx := context.Background()

	drv, err := db.Open(db.DriverSQLite, "file:lesson_handler_e2e?mode=memory&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	defer drv.Close()
	require.NoError(t, db.Migrate(ctx, drv))
	require.NoError(t, drv.Exec(ctx, "INSERT INTO teachers (id, name) VALUES (?, ?)", []any{1, "Anna"}, nil))

	router := newTestRouter(usecase.NewScheduleService(db.NewLessonRepository(drv)))

	rec := doRequest(t, router, http.MethodPost, "/lessons",
		`{"teacherIds":[1],"title":"Spring","days":[0,1,2,3,4,5,6],"firstDate":"2021-07-01","lastDate":"2022-06-30"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created struct {
		Result []int `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Len(t, created.Result, core.MaxLessonsPerSeries)

	rec = doRequest(t, router, http.MethodGet, "/?date=2021-07-01,2021-07-03&lessonsPerPage=10", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var listed struct {
		Result []lessonResponse `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Result, 3)
	for i, lesson := range listed.Result {
		assert.Equal(t, fmt.Sprintf("2021-07-0%d", i+1), lesson.Date)
		assert.Equal(t, created.Result[i], lesson.ID)
		assert.Equal(t, "Spring", lesson.Title)
		assert.Equal(t, []teacherResponse{{ID: 1, Name: "Anna"}}, lesson.Teachers)
		assert.Empty(t, lesson.Students)
		assert.Zero(t, lesson.VisitCount)
	}

	rec = doRequest(t, router, http.MethodGet, "/?teacherIds=1&lessonsPerPage=2&page=150", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Result, 2)
	assert.Equal(t, created.Result[299], listed.Result[1].ID)

	rec = doRequest(t, router, http.MethodPost, "/lessons",
		`{"teacherIds":[1,99],"title":"Autumn","days":[1],"firstDate":"2022-09-01","lessonsCount":4}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/?date=2022-09-01,2022-10-01", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"result":[]}`, rec.Body.String())
}
