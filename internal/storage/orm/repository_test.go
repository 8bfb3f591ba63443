package orm

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
	pgstore "github.com/vladislavdragonenkov/myshop/internal/storage/postgres"
)

func newMockRepositories(t *testing.T) (domain.Repositories, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger, _ := logtest.NewNullLogger()
	store, err := Open(db, logger.WithField("component", "orm"))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return store.Repositories(), mock
}

func TestProductRepository_CreateReturnsID(t *testing.T) {
	repos, mock := newMockRepositories(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectCommit()

	product, err := repos.Products.Create(context.Background(), domain.Product{
		Name:  "Laptop",
		Price: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)
	require.Equal(t, int64(11), product.ID)
	require.Equal(t, "Laptop", product.Name)
}

func TestProductRepository_FindByIDAbsent(t *testing.T) {
	repos, mock := newMockRepositories(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_name", "price"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_name", "price"}).AddRow(int64(2), "Mouse", "50.00"))

	_, ok, err := repos.Products.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, ok)

	product, ok, err := repos.Products.FindByID(context.Background(), 2)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, product.Price.Equal(decimal.NewFromInt(50)))
}

func TestProductRepository_UpdateMissingRow(t *testing.T) {
	repos, mock := newMockRepositories(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repos.Products.Update(context.Background(), domain.Product{ID: 5, Name: "Ghost", Price: decimal.NewFromInt(1)})
	require.True(t, domain.IsStorageFailure(err))
	require.True(t, domain.IsNotFound(err))
}

func TestProductRepository_UpdateExecErrorIsStorageFailure(t *testing.T) {
	repos, mock := newMockRepositories(t)

	cause := errors.New("connection reset by peer")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET`)).WillReturnError(cause)
	mock.ExpectRollback()

	err := repos.Products.Update(context.Background(), domain.Product{ID: 5, Name: "X", Price: decimal.NewFromInt(1)})
	require.True(t, domain.IsStorageFailure(err))
	require.False(t, domain.IsNotFound(err))
	require.ErrorIs(t, err, cause)
}

func TestCartRepository_AddProductUsesOnConflict(t *testing.T) {
	repos, mock := newMockRepositories(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "shopping_cart" .* ON CONFLICT \("user_id","product_id"\) DO UPDATE SET "quantity"=shopping_cart\.quantity \+ EXCLUDED\.quantity`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repos.Carts.AddProduct(context.Background(), 1, 2, 3))
}

func TestCartRepository_RemoveMissingAndClearEmpty(t *testing.T) {
	repos, mock := newMockRepositories(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "shopping_cart" WHERE user_id = $1 AND product_id = $2`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "shopping_cart" WHERE user_id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repos.Carts.RemoveProduct(context.Background(), 1, 2)
	require.True(t, domain.IsNotFound(err))

	require.NoError(t, repos.Carts.Clear(context.Background(), 1))
}

func TestCartRepository_InvalidArgumentsSkipDatabase(t *testing.T) {
	repos, _ := newMockRepositories(t)

	require.ErrorIs(t, repos.Carts.AddProduct(context.Background(), 1, 2, 0), domain.ErrInvalidArgument)
	require.ErrorIs(t, repos.Carts.AddProduct(context.Background(), 0, 2, 1), domain.ErrInvalidArgument)
	require.ErrorIs(t, repos.Carts.Clear(context.Background(), -1), domain.ErrInvalidArgument)
	_, err := repos.Users.Create(context.Background(), domain.User{ID: 1})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestUserDetailsRepository_UpdateMissing(t *testing.T) {
	repos, mock := newMockRepositories(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "user_details" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repos.UserDetails.Update(context.Background(), domain.UserDetails{UserID: 3, Phone: "123"})
	require.True(t, domain.IsNotFound(err))
}

func TestOrderRepository_FindByUserID(t *testing.T) {
	repos, mock := newMockRepositories(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE user_id = $1 ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "ordered_products", "total_amount"}).
			AddRow(int64(1), int64(7), "Laptop, Mouse", "200.00").
			AddRow(int64(2), int64(7), "", "0.00"))

	orders, err := repos.Orders.FindByUserID(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, "Laptop, Mouse", orders[0].OrderedProducts)
	require.True(t, orders[0].TotalAmount.Equal(decimal.NewFromInt(200)))
}

func TestOrderRepository_FindAllCanceledContext(t *testing.T) {
	repos, _ := newMockRepositories(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repos.Orders.FindAll(ctx)
	require.True(t, domain.IsStorageFailure(err))
}

func TestFromPostgres_DefersConnectionError(t *testing.T) {
	pg := pgstore.Connect(pgstore.ConnConfig{}, nil)
	store := FromPostgres(pg, nil)

	_, err := store.Repositories().Orders.FindAll(context.Background())
	require.True(t, domain.IsStorageFailure(err))
	require.ErrorIs(t, err, pgstore.ErrMissingURL)
	require.NoError(t, store.Close())
}
