package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

const (
	driverName             = "pgx"
	jdbcPrefix             = "jdbc:"
	defaultConnTimeout     = 5 * time.Second
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
)

// ErrMissingURL возвращается, когда адрес базы не задан.
var ErrMissingURL = errors.New("database url is not configured")

// ConnConfig описывает параметры подключения: адрес, пользователь, пароль.
type ConnConfig struct {
	URL      string
	User     string
	Password string
}

// DSN собирает строку подключения для pgx.
// Префикс "jdbc:" допускается и отбрасывается, учётные данные подставляются в URL.
func (c ConnConfig) DSN() (string, error) {
	raw := strings.TrimSpace(c.URL)
	raw = strings.TrimPrefix(raw, jdbcPrefix)
	if raw == "" {
		return "", ErrMissingURL
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	switch parsed.Scheme {
	case "postgres", "postgresql":
	default:
		return "", fmt.Errorf("unsupported database url scheme %q", parsed.Scheme)
	}

	if c.User != "" {
		if c.Password != "" {
			parsed.User = url.UserPassword(c.User, c.Password)
		} else {
			parsed.User = url.User(c.User)
		}
	}
	return parsed.String(), nil
}

// Store оборачивает SQL-подключение к PostgreSQL.
// Если подключение не удалось подготовить, ошибка возвращается при первом обращении.
type Store struct {
	db      *sql.DB
	initErr error
	logger  *log.Entry
}

func newStore(db *sql.DB, logger *log.Entry) *Store {
	if logger == nil {
		logger = log.New().WithField("component", "postgres")
	}
	return &Store{db: db, logger: logger}
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)
	return db, nil
}

// Open открывает подключение к PostgreSQL и проверяет доступность базы.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return newStore(db, nil), nil
}

// Connect готовит пул без обращения к серверу.
// Ошибки конфигурации и сети проявляются на первой операции репозитория.
func Connect(cfg ConnConfig, logger *log.Entry) *Store {
	store := newStore(nil, logger)

	dsn, err := cfg.DSN()
	if err != nil {
		store.initErr = err
		store.logger.WithError(err).Warn("postgres connection is not configured")
		return store
	}
	db, err := openDB(dsn)
	if err != nil {
		store.initErr = err
		store.logger.WithError(err).Warn("postgres connection cannot be prepared")
		return store
	}
	store.db = db
	return store
}

// NewWithDB оборачивает уже открытый *sql.DB (например, sqlmock в тестах).
func NewWithDB(db *sql.DB, logger *log.Entry) *Store {
	return newStore(db, logger)
}

// DB возвращает raw SQL DB, когда нужен низкоуровневый доступ.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.db
}

// Err возвращает ошибку подготовки подключения, если она была.
func (s *Store) Err() error {
	if s == nil {
		return errors.New("postgres store is not initialized")
	}
	if s.initErr != nil {
		return s.initErr
	}
	if s.db == nil {
		return errors.New("postgres store is not initialized")
	}
	return nil
}

// Logger возвращает логгер хранилища.
func (s *Store) Logger() *log.Entry {
	return s.logger
}

// conn возвращает пул или StorageError, если подключение не готово.
func (s *Store) conn(op string) (*sql.DB, error) {
	if err := s.Err(); err != nil {
		return nil, s.failure(op, err)
	}
	return s.db, nil
}

// Ping проверяет доступность подключения.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.Err(); err != nil {
		return err
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	return s.db.PingContext(pingCtx)
}

// EnsureSchema применяет все up-миграции.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.MigrateUp(ctx, 0)
}

// Repositories возвращает все репозитории поверх этого подключения.
func (s *Store) Repositories() domain.Repositories {
	return domain.Repositories{
		Users:       NewUserRepository(s),
		UserDetails: NewUserDetailsRepository(s),
		Products:    NewProductRepository(s),
		Carts:       NewCartRepository(s),
		Orders:      NewOrderRepository(s),
	}
}

// Close закрывает подключение к БД.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
