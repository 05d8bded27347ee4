package server

import (
	"context"
	"log/slog"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/eslsoft/lessonplan/internal/adapter/db"
	"github.com/eslsoft/lessonplan/internal/config"
)

// NewDatabase opens the configured database and, unless disabled, migrates
// the schema.
func NewDatabase(cfg config.Config, logger *slog.Logger) (*entsql.Driver, error) {
	drv, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(context.Background(), drv); err != nil {
			_ = drv.Close()
			return nil, err
		}
		logger.Info("database schema is up to date", slog.String("driver", cfg.DatabaseDriver))
	}

	return drv, nil
}
