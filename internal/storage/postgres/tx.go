package postgres

import (
	"context"
	"database/sql"
	"time"
)

const opTimeout = 5 * time.Second

// withTx выполняет fn в отдельной транзакции. Любая ошибка fn откатывает транзакцию.
func (s *Store) withTx(ctx context.Context, op string, fn func(ctx context.Context, tx *sql.Tx) error) error {
	db, err := s.conn(op)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return s.failure(op, err)
	}
	defer rollback(tx, s.logger)

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return s.failure(op, err)
	}
	return nil
}

// execAffecting выполняет одну команду в транзакции и требует хотя бы одну затронутую строку.
func (s *Store) execAffecting(ctx context.Context, op, query string, args ...any) error {
	return s.withTx(ctx, op, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return s.failure(op, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return s.failure(op, err)
		}
		if affected == 0 {
			return s.notFound(op)
		}
		return nil
	})
}

// insertReturningID выполняет INSERT ... RETURNING id в транзакции.
func (s *Store) insertReturningID(ctx context.Context, op, query string, args ...any) (int64, error) {
	var id int64
	err := s.withTx(ctx, op, func(ctx context.Context, tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return s.failure(op, err)
		}
		return nil
	})
	return id, err
}

// query выполняет SELECT без транзакции и передаёт каждую строку в scan.
func (s *Store) query(ctx context.Context, op string, scan func(rows *sql.Rows) error, query string, args ...any) error {
	db, err := s.conn(op)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return s.failure(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return s.failure(op, err)
		}
	}
	if err := rows.Err(); err != nil {
		return s.failure(op, err)
	}
	return nil
}
