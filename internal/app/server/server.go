package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/eslsoft/lessonplan/internal/config"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg        config.Config
	httpServer *http.Server
	drv        *entsql.Driver
	logger     *slog.Logger
}

// NewServer constructs a Server from the provided dependencies.
func NewServer(cfg config.Config, handler http.Handler, drv *entsql.Driver, logger *slog.Logger) *Server {
	return &Server{
		cfg: cfg,
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		drv:    drv,
		logger: logger,
	}
}

// Run starts the HTTP server and blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("http server listening", slog.String("address", s.cfg.HTTPAddress))
		if err := s.httpServer.ListenAndServe(); err != nil {
			errCh <- err
		} else {
			close(errCh)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("http server shutdown", slog.Any("error", err))
		}
		_ = s.drv.Close()
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = s.drv.Close()
			return err
		}
		return nil
	}
}
