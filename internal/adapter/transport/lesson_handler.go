package transport

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/eslsoft/lessonplan/internal/core"
	"github.com/eslsoft/lessonplan/internal/metrics"
)

// LessonHandler serves the lesson listing and scheduling endpoints.
type LessonHandler struct {
	service  core.ScheduleService
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewLessonHandler builds a new lesson HTTP handler.
func NewLessonHandler(service core.ScheduleService, logger *slog.Logger, m *metrics.Metrics) *LessonHandler {
	return &LessonHandler{
		service:  service,
		validate: newValidator(),
		logger:   logger,
		metrics:  m,
	}
}

// Register mounts the lesson routes on r.
func (h *LessonHandler) Register(r chi.Router) {
	r.Get("/", h.ListLessons)
	r.Post("/lessons", h.ScheduleLessons)
}

type teacherResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type studentResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Visit *bool  `json:"visit"`
}

type lessonResponse struct {
	ID         int               `json:"id"`
	Date       string            `json:"date"`
	Title      string            `json:"title"`
	Status     int               `json:"status"`
	VisitCount int               `json:"visitCount"`
	Teachers   []teacherResponse `json:"teachers"`
	Students   []studentResponse `json:"students"`
}

// ListLessons handles GET / and returns one page of filtered lessons.
func (h *LessonHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	filter, err := parseLessonFilter(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	lessons, err := h.service.ListLessons(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.LessonsReturned.Observe(float64(len(lessons)))
	}
	writeResult(w, lo.Map(lessons, func(l core.LessonView, _ int) lessonResponse {
		return toLessonResponse(l)
	}))
}

// ScheduleLessons handles POST /lessons and returns the ids of the created lessons.
func (h *LessonHandler) ScheduleLessons(w http.ResponseWriter, r *http.Request) {
	cmd, err := decodeScheduleLessons(h.validate, r.Body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ids, err := h.service.ScheduleLessons(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.LessonsCreated.Add(float64(len(ids)))
	}
	writeResult(w, ids)
}

func (h *LessonHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, core.ErrValidation) && h.logger != nil {
		h.logger.ErrorContext(r.Context(), "lesson request failed",
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
	writeError(w, err)
}

func toLessonResponse(l core.LessonView) lessonResponse {
	return lessonResponse{
		ID:         l.ID,
		Date:       l.Date.Format(core.DateLayout),
		Title:      l.Title,
		Status:     int(l.Status),
		VisitCount: l.VisitCount,
		Teachers: lo.Map(l.Teachers, func(t core.Teacher, _ int) teacherResponse {
			return teacherResponse{ID: t.ID, Name: t.Name}
		}),
		Students: lo.Map(l.Students, func(s core.StudentVisit, _ int) studentResponse {
			return studentResponse{ID: s.ID, Name: s.Name, Visit: s.Visit}
		}),
	}
}
