package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// failure оборачивает сбой хранилища и пишет его в лог.
func (s *Store) failure(op string, err error) error {
	entry := s.logger.WithField("op", op).WithError(err)
	if code := pgErrorCode(err); code != "" {
		entry = entry.WithField("pg_code", code)
	}
	entry.Error("storage operation failed")
	return domain.NewStorageError(op, err)
}

func (s *Store) notFound(op string) error {
	s.logger.WithField("op", op).Warn("no rows affected")
	return domain.NotFoundError(op)
}

// rollback откатывает транзакцию, игнорируя уже завершённую.
func rollback(tx *sql.Tx, logger *log.Entry) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logger.WithError(err).Warn("rollback failed")
	}
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == codeUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == codeForeignKeyViolation
}
