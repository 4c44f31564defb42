// Package backend opens the repository store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"fitclub/planner/internal/config"
	"fitclub/planner/internal/repository"
	"fitclub/planner/internal/repository/memory"
	"fitclub/planner/internal/repository/mongo"
	"fitclub/planner/internal/repository/postgres"

	"github.com/rs/zerolog/log"
)

// Open connects to the configured database driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*repository.Store, error) {
	log.Info().Str("driver", cfg.Driver).Msg("opening repository backend")
	switch cfg.Driver {
	case config.DriverMongo:
		return mongo.NewStore(ctx, cfg.URI, cfg.Name)
	case config.DriverPostgres:
		return postgres.NewStore(ctx, cfg.DSN)
	case config.DriverMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
