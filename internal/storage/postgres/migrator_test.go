package postgres

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_Success(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"sql/migrations/0002_more.up.sql":   {Data: []byte("CREATE TABLE test_b (id INT);")},
		"sql/migrations/0002_more.down.sql": {Data: []byte("DROP TABLE IF EXISTS test_b;")},
		"sql/migrations/0001_init.up.sql":   {Data: []byte("CREATE TABLE test_a (id INT);")},
		"sql/migrations/0001_init.down.sql": {Data: []byte("DROP TABLE IF EXISTS test_a;")},
	}

	plan, err := loadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	require.Equal(t, "0001_init", plan[0].String())
	require.Equal(t, "0002_more", plan[1].String())
	require.Equal(t, "DROP TABLE IF EXISTS test_b;", plan[1].script(DirectionDown))
}

func TestLoadMigrations_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		fsys    fstest.MapFS
		wantMsg string
	}{
		{
			name:    "missing down",
			fsys:    fstest.MapFS{"sql/migrations/0001_init.up.sql": {Data: []byte("SELECT 1;")}},
			wantMsg: "both up and down",
		},
		{
			name:    "invalid file name",
			fsys:    fstest.MapFS{"sql/migrations/not_a_migration.sql": {Data: []byte("SELECT 1;")}},
			wantMsg: "invalid migration file name",
		},
		{
			name: "empty body",
			fsys: fstest.MapFS{
				"sql/migrations/0001_init.up.sql":   {Data: []byte("   \n")},
				"sql/migrations/0001_init.down.sql": {Data: []byte("DROP TABLE IF EXISTS test;")},
			},
			wantMsg: "empty",
		},
		{
			name: "name mismatch",
			fsys: fstest.MapFS{
				"sql/migrations/0001_init.up.sql":    {Data: []byte("SELECT 1;")},
				"sql/migrations/0001_other.down.sql": {Data: []byte("SELECT 1;")},
			},
			wantMsg: "name mismatch",
		},
		{
			name:    "no files",
			fsys:    fstest.MapFS{},
			wantMsg: "no migration files",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := loadMigrations(tc.fsys)
			require.Error(t, err)
			require.True(t, strings.Contains(err.Error(), tc.wantMsg), "unexpected error: %v", err)
		})
	}
}

func TestEmbeddedMigrationsCreateShopTables(t *testing.T) {
	t.Parallel()

	plan, err := loadMigrations(migrationsFS)
	require.NoError(t, err)
	require.NotEmpty(t, plan)
	require.Equal(t, int64(1), plan[0].Version)

	for _, table := range []string{"users", "user_details", "products", "shopping_cart", "orders"} {
		require.Contains(t, plan[0].Up, "CREATE TABLE IF NOT EXISTS "+table+" (")
		require.Contains(t, plan[0].Down, "DROP TABLE IF EXISTS "+table+";")
	}
	require.Contains(t, plan[0].Up, "ON DELETE CASCADE")
	require.Contains(t, plan[0].Up, "PRIMARY KEY (user_id, product_id)")
}

func TestPendingMigrations(t *testing.T) {
	t.Parallel()

	plan := []migration{{Version: 1}, {Version: 2}, {Version: 3}}
	applied := map[int64]bool{1: true, 2: true}

	up := pending(plan, applied, DirectionUp, 0)
	require.Len(t, up, 1)
	require.Equal(t, int64(3), up[0].Version)

	down := pending(plan, applied, DirectionDown, 0)
	require.Equal(t, []int64{2, 1}, versionsOf(down))

	downOne := pending(plan, applied, DirectionDown, 1)
	require.Equal(t, []int64{2}, versionsOf(downOne))

	require.Empty(t, pending(plan, map[int64]bool{}, DirectionDown, 5))
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	d, err := ParseDirection(" UP ")
	require.NoError(t, err)
	require.Equal(t, DirectionUp, d)

	d, err = ParseDirection("down")
	require.NoError(t, err)
	require.Equal(t, DirectionDown, d)

	_, err = ParseDirection("sideways")
	require.Error(t, err)
}

func versionsOf(plan []migration) []int64 {
	out := make([]int64, 0, len(plan))
	for _, m := range plan {
		out = append(out, m.Version)
	}
	return out
}

func TestMigrationStatus_ReadsLedger(t *testing.T) {
	store, mock, _ := newMockStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(version), 0), COUNT(*) FROM schema_migrations`)).
		WillReturnRows(sqlmock.NewRows([]string{"max", "count"}).AddRow(int64(1), 1))

	version, count, err := store.MigrationStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), version)
	require.Equal(t, 1, count)
}
