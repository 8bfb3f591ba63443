package app

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
	"github.com/vladislavdragonenkov/myshop/internal/health"
	"github.com/vladislavdragonenkov/myshop/internal/storage/memory"
	"github.com/vladislavdragonenkov/myshop/internal/storage/orm"
	"github.com/vladislavdragonenkov/myshop/internal/storage/postgres"
)

type storageDependencies struct {
	repos  domain.Repositories
	pinger health.Pinger
	close  func() error
}

// initStorage выбирает бэкенд хранилища.
// Подключение к PostgreSQL ленивое: неверные настройки не мешают старту и проявятся на первой операции.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (storageDependencies, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	switch driver {
	case "", StorageDriverMemory:
		logger.Info("using in-memory storage")
		return storageDependencies{
			repos:  memory.New(),
			pinger: health.PingerFunc(func(context.Context) error { return nil }),
			close:  func() error { return nil },
		}, nil
	case StorageDriverPostgres, StorageDriverORM:
		pg := postgres.Connect(cfg.DB, logger.WithField("component", "postgres"))
		if cfg.AutoMigrate {
			migrate(ctx, pg, logger)
		}

		deps := storageDependencies{pinger: pg, close: pg.Close}
		if driver == StorageDriverORM {
			deps.repos = orm.FromPostgres(pg, logger.WithField("component", "orm")).Repositories()
		} else {
			deps.repos = pg.Repositories()
		}
		logger.WithField("storage_driver", driver).Info("sql storage initialized")
		return deps, nil
	default:
		return storageDependencies{}, fmt.Errorf("unsupported storage driver %q (use memory|postgres|orm)", cfg.StorageDriver)
	}
}

func migrate(ctx context.Context, pg *postgres.Store, logger *log.Entry) {
	if err := pg.EnsureSchema(ctx); err != nil {
		logger.WithError(err).Warn("auto-migration skipped, storage operations will fail until the database is reachable")
		return
	}
	version, applied, err := pg.MigrationStatus(ctx)
	if err != nil {
		logger.WithError(err).Warn("failed to read migration status")
		return
	}
	logger.WithFields(log.Fields{"version": version, "applied": applied}).Info("schema is up to date")
}
