// Package repository selects the store backend named by the configuration.
package repository

import (
	"context"
	"fmt"

	"github.com/msomdec/shelfmate/internal/config"
	"github.com/msomdec/shelfmate/internal/domain"
	"github.com/msomdec/shelfmate/internal/repository/mongodb"
	"github.com/msomdec/shelfmate/internal/repository/sqlite"
)

// Open connects to the configured backend. Callers still need to run Migrate.
func Open(ctx context.Context, cfg config.Config) (domain.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongoDB:
		db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverSQLite:
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
