//go:build wireinject

package server

import (
	"github.com/google/wire"

	"github.com/eslsoft/lessonplan/internal/adapter/db"
	adaptertransport "github.com/eslsoft/lessonplan/internal/adapter/transport"
	"github.com/eslsoft/lessonplan/internal/core"
	"github.com/eslsoft/lessonplan/internal/metrics"
	"github.com/eslsoft/lessonplan/internal/usecase"
)

// InitializeServer sets up the full HTTP server with all dependencies wired.
func InitializeServer() (*Server, error) {
	wire.Build(
		NewConfig,
		NewLogger,
		NewDatabase,
		metrics.NewMetrics,
		wire.Bind(new(core.LessonRepository), new(*db.LessonRepository)),
		db.NewLessonRepository,
		wire.Bind(new(core.ScheduleService), new(*usecase.ScheduleService)),
		usecase.NewScheduleService,
		adaptertransport.NewLessonHandler,
		NewHTTPHandler,
		NewServer,
	)
	return nil, nil
}
