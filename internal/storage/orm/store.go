// Package orm реализует репозитории магазина поверх gorm.
// Таблицы те же, что у пакета postgres; схемой управляют его миграции.
package orm

import (
	"context"
	"database/sql"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
	pgstore "github.com/vladislavdragonenkov/myshop/internal/storage/postgres"
)

const (
	opTimeout     = 5 * time.Second
	slowThreshold = 200 * time.Millisecond
)

// Store держит сессию gorm поверх общего *sql.DB.
type Store struct {
	db      *gorm.DB
	initErr error
	logger  *log.Entry
}

// Open создаёт gorm-сессию над уже открытым пулом соединений без проверки связи.
func Open(sqlDB *sql.DB, logger *log.Entry) (*Store, error) {
	if logger == nil {
		logger = log.New().WithField("component", "orm")
	}
	if sqlDB == nil {
		return nil, errors.New("orm: sql db is nil")
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}
	return &Store{db: db, logger: logger}, nil
}

// FromPostgres переиспользует пул PostgreSQL-хранилища.
// Ошибка подготовки подключения откладывается до первой операции, как и в пакете postgres.
func FromPostgres(pg *pgstore.Store, logger *log.Entry) *Store {
	if logger == nil {
		logger = log.New().WithField("component", "orm")
	}
	if err := pg.Err(); err != nil {
		return &Store{initErr: err, logger: logger}
	}
	store, err := Open(pg.DB(), logger)
	if err != nil {
		return &Store{initErr: err, logger: logger}
	}
	return store
}

// Repositories возвращает репозитории ORM-бэкенда.
func (s *Store) Repositories() domain.Repositories {
	return domain.Repositories{
		Users:       &userRepository{store: s},
		UserDetails: &userDetailsRepository{store: s},
		Products:    &productRepository{store: s},
		Carts:       &cartRepository{store: s},
		Orders:      &orderRepository{store: s},
	}
}

// session возвращает gorm-сессию с ограничением времени операции.
func (s *Store) session(ctx context.Context, op string) (*gorm.DB, context.CancelFunc, error) {
	if s.initErr != nil {
		return nil, nil, s.failure(op, s.initErr)
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	return s.db.WithContext(ctx), cancel, nil
}

// transaction выполняет fn в gorm-транзакции; ошибки без доменного типа становятся StorageError.
func (s *Store) transaction(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	db, cancel, err := s.session(ctx, op)
	if err != nil {
		return err
	}
	defer cancel()

	if err := db.Transaction(fn); err != nil {
		if domain.IsStorageFailure(err) {
			return err
		}
		return s.failure(op, err)
	}
	return nil
}

// read выполняет запрос без транзакции.
func (s *Store) read(ctx context.Context, op string, fn func(db *gorm.DB) error) error {
	db, cancel, err := s.session(ctx, op)
	if err != nil {
		return err
	}
	defer cancel()

	if err := fn(db); err != nil {
		return s.failure(op, err)
	}
	return nil
}

// requireAffected превращает пустой результат изменения в ErrNotFound.
func (s *Store) requireAffected(op string, result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		s.logger.WithField("op", op).Warn("no rows affected")
		return domain.NotFoundError(op)
	}
	return nil
}

func (s *Store) failure(op string, err error) error {
	s.logger.WithField("op", op).WithError(err).Error("storage operation failed")
	return domain.NewStorageError(op, err)
}

// Close ничего не закрывает: пулом владеет postgres.Store.
func (s *Store) Close() error {
	return nil
}
