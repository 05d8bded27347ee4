package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eslsoft/lessonplan/internal/adapter/transport"
	"github.com/eslsoft/lessonplan/internal/metrics"
)

// NewHTTPHandler wires the lesson handlers into a router ready for serving.
func NewHTTPHandler(handler *transport.LessonHandler, logger *slog.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(
		transport.RequestID,
		transport.RequestLogger(logger),
		transport.Instrument(m),
		middleware.Recoverer,
	)

	handler.Register(r)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
