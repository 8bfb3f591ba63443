package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	migrationsDir     = "sql/migrations"
	migrationLockKey  = int64(73112045)
	migrationTableDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
)

var (
	//go:embed sql/migrations/*.sql
	migrationsFS embed.FS

	migrationFileName = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_]+)\.(up|down)\.sql$`)

	errStoreNotInitialized = errors.New("postgres store is not initialized")
)

// Direction задаёт направление миграции.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection разбирает значение флага командной строки.
func ParseDirection(raw string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(raw))); d {
	case DirectionUp, DirectionDown:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported migration direction %q", raw)
	}
}

type migration struct {
	Version int64
	Name    string
	Up      string
	Down    string
}

func (m migration) String() string {
	return fmt.Sprintf("%04d_%s", m.Version, m.Name)
}

func (m migration) script(d Direction) string {
	if d == DirectionDown {
		return m.Down
	}
	return m.Up
}

// MigrateUp применяет up-миграции; steps=0 применяет все ожидающие.
func (s *Store) MigrateUp(ctx context.Context, steps int) error {
	return s.Migrate(ctx, DirectionUp, steps)
}

// MigrateDown откатывает миграции; steps<=0 означает один шаг.
func (s *Store) MigrateDown(ctx context.Context, steps int) error {
	if steps <= 0 {
		steps = 1
	}
	return s.Migrate(ctx, DirectionDown, steps)
}

// Migrate выполняет миграции под advisory lock, чтобы параллельные экземпляры не конфликтовали.
func (s *Store) Migrate(ctx context.Context, direction Direction, steps int) error {
	if s == nil || s.db == nil {
		return errStoreNotInitialized
	}
	if direction != DirectionUp && direction != DirectionDown {
		return fmt.Errorf("unsupported migration direction %q", direction)
	}

	plan, err := loadMigrations(migrationsFS)
	if err != nil {
		return err
	}

	// advisory lock живёт на соединении, поэтому все шаги идут через один *sql.Conn
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire db connection: %w", err)
	}
	defer conn.Close()

	unlock, err := lockMigrations(ctx, conn)
	if err != nil {
		return err
	}
	defer unlock()

	book := ledger{q: conn}
	applied, err := book.applied(ctx)
	if err != nil {
		return err
	}

	for _, m := range pending(plan, applied, direction, steps) {
		if err := book.apply(ctx, conn, m, direction); err != nil {
			return err
		}
		s.logger.WithFields(log.Fields{
			"migration": m.String(),
			"direction": string(direction),
		}).Info("migration applied")
	}
	return nil
}

// MigrationStatus возвращает последнюю применённую версию и число записей в журнале.
func (s *Store) MigrationStatus(ctx context.Context) (int64, int, error) {
	if s == nil || s.db == nil {
		return 0, 0, errStoreNotInitialized
	}

	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return ledger{q: s.db}.status(queryCtx)
}

func lockMigrations(ctx context.Context, conn *sql.Conn) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if _, err := conn.ExecContext(lockCtx, `SELECT pg_advisory_lock($1)`, migrationLockKey); err != nil {
		return nil, fmt.Errorf("acquire migration lock: %w", err)
	}
	return func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, migrationLockKey)
	}, nil
}

// pending выбирает миграции для выполнения: для up по возрастанию среди неприменённых,
// для down по убыванию среди применённых.
func pending(plan []migration, applied map[int64]bool, direction Direction, steps int) []migration {
	selected := make([]migration, 0, len(plan))
	if direction == DirectionUp {
		for _, m := range plan {
			if !applied[m.Version] {
				selected = append(selected, m)
			}
		}
	} else {
		for i := len(plan) - 1; i >= 0; i-- {
			if applied[plan[i].Version] {
				selected = append(selected, plan[i])
			}
		}
	}
	if steps > 0 && len(selected) > steps {
		selected = selected[:steps]
	}
	return selected
}

// querier: общее у *sql.DB и *sql.Conn.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ledger ведёт журнал schema_migrations.
type ledger struct {
	q querier
}

func (l ledger) ensure(ctx context.Context) error {
	if _, err := l.q.ExecContext(ctx, migrationTableDDL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	return nil
}

func (l ledger) applied(ctx context.Context) (map[int64]bool, error) {
	if err := l.ensure(ctx); err != nil {
		return nil, err
	}
	rows, err := l.q.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read migration ledger: %w", err)
	}
	defer rows.Close()

	versions := make(map[int64]bool)
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("read migration ledger: %w", err)
		}
		versions[v] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read migration ledger: %w", err)
	}
	return versions, nil
}

func (l ledger) status(ctx context.Context) (version int64, count int, err error) {
	if err := l.ensure(ctx); err != nil {
		return 0, 0, err
	}
	err = l.q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0), COUNT(*) FROM schema_migrations`,
	).Scan(&version, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("read migration status: %w", err)
	}
	return version, count, nil
}

// apply выполняет скрипт и правит журнал в одной транзакции.
func (l ledger) apply(ctx context.Context, conn *sql.Conn, m migration, direction Direction) (err error) {
	step := fmt.Sprintf("%s %s", direction, m)
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migration %s: begin: %w", step, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, m.script(direction)); err != nil {
		return fmt.Errorf("migration %s: %w", step, err)
	}

	record := `DELETE FROM schema_migrations WHERE version = $1`
	args := []any{m.Version}
	if direction == DirectionUp {
		record = `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`
		args = append(args, m.Name)
	}
	if _, err = tx.ExecContext(ctx, record, args...); err != nil {
		return fmt.Errorf("migration %s: update ledger: %w", step, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("migration %s: commit: %w", step, err)
	}
	return nil
}

// loadMigrations собирает пары NNNN_name.up.sql / NNNN_name.down.sql в план по возрастанию версии.
func loadMigrations(fsys fs.FS) ([]migration, error) {
	files, err := fs.Glob(fsys, migrationsDir+"/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no migration files found")
	}

	byVersion := make(map[int64]*migration)
	for _, file := range files {
		if err := addMigrationFile(fsys, file, byVersion); err != nil {
			return nil, err
		}
	}

	plan := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Up == "" || m.Down == "" {
			return nil, fmt.Errorf("migration %s must have both up and down files", m)
		}
		plan = append(plan, *m)
	}
	sort.Slice(plan, func(i, j int) bool { return plan[i].Version < plan[j].Version })
	return plan, nil
}

func addMigrationFile(fsys fs.FS, file string, byVersion map[int64]*migration) error {
	base := path.Base(file)
	match := migrationFileName.FindStringSubmatch(base)
	if match == nil {
		return fmt.Errorf("invalid migration file name: %s", base)
	}
	version, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return fmt.Errorf("migration %s: bad version: %w", base, err)
	}
	name, direction := match[2], Direction(match[3])

	raw, err := fs.ReadFile(fsys, file)
	if err != nil {
		return fmt.Errorf("migration %s: %w", base, err)
	}
	body := strings.TrimSpace(string(raw))
	if body == "" {
		return fmt.Errorf("migration file is empty: %s", base)
	}

	m := byVersion[version]
	switch {
	case m == nil:
		m = &migration{Version: version, Name: name}
		byVersion[version] = m
	case m.Name != name:
		return fmt.Errorf("migration name mismatch for version %d: %s vs %s", version, m.Name, name)
	}

	target := &m.Up
	if direction == DirectionDown {
		target = &m.Down
	}
	if *target != "" {
		return fmt.Errorf("duplicate %s migration for version %d", direction, version)
	}
	*target = body
	return nil
}
