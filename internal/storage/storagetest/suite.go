// Package storagetest содержит общий набор контрактных тестов репозиториев.
// Каждый бэкенд хранения запускает его через suite.Run со своей фабрикой.
package storagetest

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

// RepositorySuite проверяет контракт domain.Repositories.
type RepositorySuite struct {
	suite.Suite

	// NewRepositories должна возвращать репозитории над пустым хранилищем.
	NewRepositories func(t *testing.T) domain.Repositories

	repos domain.Repositories
	ctx   context.Context
}

func (s *RepositorySuite) SetupTest() {
	s.Require().NotNil(s.NewRepositories, "NewRepositories factory is required")
	s.repos = s.NewRepositories(s.T())
	s.ctx = context.Background()
}

func (s *RepositorySuite) createUser(name string) domain.User {
	user, err := s.repos.Users.Create(s.ctx, domain.User{Username: name, Email: name + "@example.com"})
	s.Require().NoError(err)
	s.Require().NotZero(user.ID)
	return user
}

func (s *RepositorySuite) createProduct(name, price string) domain.Product {
	product, err := s.repos.Products.Create(s.ctx, domain.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
	})
	s.Require().NoError(err)
	s.Require().NotZero(product.ID)
	return product
}

func (s *RepositorySuite) TestProductCreateThenFindByID() {
	cases := []struct {
		name  string
		price string
	}{
		{name: "Laptop", price: "1999.99"},
		{name: "Mouse", price: "0.00"},
		{name: "Кружка", price: "12.50"},
		{name: "Max", price: "99999999.99"},
	}

	for _, tc := range cases {
		created := s.createProduct(tc.name, tc.price)

		found, ok, err := s.repos.Products.FindByID(s.ctx, created.ID)
		s.Require().NoError(err)
		s.Require().True(ok, "product %d must be found", created.ID)
		s.Require().Equal(created.ID, found.ID)
		s.Require().Equal(tc.name, found.Name)
		s.Require().True(decimal.RequireFromString(tc.price).Equal(found.Price),
			"price mismatch: want %s got %s", tc.price, found.Price)
	}

	all, err := s.repos.Products.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, len(cases))
	for i := 1; i < len(all); i++ {
		s.Require().Less(all[i-1].ID, all[i].ID, "products must be ordered by id")
	}
}

func (s *RepositorySuite) TestFindByIDAbsent() {
	_, ok, err := s.repos.Products.FindByID(s.ctx, 987654)
	s.Require().NoError(err)
	s.Require().False(ok)

	_, ok, err = s.repos.Users.FindByID(s.ctx, 987654)
	s.Require().NoError(err)
	s.Require().False(ok)

	_, ok, err = s.repos.UserDetails.FindByUserID(s.ctx, 987654)
	s.Require().NoError(err)
	s.Require().False(ok)
}

func (s *RepositorySuite) TestCreateWithPresetIDRejected() {
	_, err := s.repos.Users.Create(s.ctx, domain.User{ID: 5, Username: "preset"})
	s.Require().True(domain.IsInvalidArgument(err), "users: %v", err)

	_, err = s.repos.Products.Create(s.ctx, domain.Product{ID: 5, Name: "preset", Price: decimal.NewFromInt(1)})
	s.Require().True(domain.IsInvalidArgument(err), "products: %v", err)

	_, err = s.repos.Orders.Create(s.ctx, domain.Order{ID: 5, UserID: 1, TotalAmount: decimal.Zero})
	s.Require().True(domain.IsInvalidArgument(err), "orders: %v", err)

	err = s.repos.UserDetails.Create(s.ctx, domain.UserDetails{FirstName: "no user id"})
	s.Require().True(domain.IsInvalidArgument(err), "user details: %v", err)

	users, err := s.repos.Users.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Empty(users)

	products, err := s.repos.Products.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Empty(products)

	orders, err := s.repos.Orders.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Empty(orders)
}

func (s *RepositorySuite) TestAddToCartAccumulatesQuantity() {
	user := s.createUser("alice")
	product := s.createProduct("Keyboard", "49.90")

	s.Require().NoError(s.repos.Carts.AddProduct(s.ctx, user.ID, product.ID, 2))
	s.Require().NoError(s.repos.Carts.AddProduct(s.ctx, user.ID, product.ID, 3))

	lines, err := s.repos.Carts.FindByUserID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Equal([]domain.CartLine{{UserID: user.ID, ProductID: product.ID, Quantity: 5}}, lines)
}

func (s *RepositorySuite) TestAddToCartInvalidArguments() {
	user := s.createUser("bob")
	product := s.createProduct("Monitor", "150.00")

	cases := []struct {
		name      string
		userID    int64
		productID int64
		quantity  int32
	}{
		{name: "zero quantity", userID: user.ID, productID: product.ID, quantity: 0},
		{name: "negative quantity", userID: user.ID, productID: product.ID, quantity: -1},
		{name: "missing user", userID: 0, productID: product.ID, quantity: 1},
		{name: "missing product", userID: user.ID, productID: 0, quantity: 1},
	}
	for _, tc := range cases {
		err := s.repos.Carts.AddProduct(s.ctx, tc.userID, tc.productID, tc.quantity)
		s.Require().True(domain.IsInvalidArgument(err), "%s: %v", tc.name, err)
	}

	lines, err := s.repos.Carts.FindByUserID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Empty(lines)
}

func (s *RepositorySuite) TestAddToCartQuantityOverflowRejected() {
	user := s.createUser("olga")
	product := s.createProduct("Bolt", "0.10")

	s.Require().NoError(s.repos.Carts.AddProduct(s.ctx, user.ID, product.ID, math.MaxInt32))

	err := s.repos.Carts.AddProduct(s.ctx, user.ID, product.ID, 1)
	s.Require().True(domain.IsStorageFailure(err), "expected storage failure, got %v", err)
	s.Require().False(domain.IsInvalidArgument(err))

	lines, err := s.repos.Carts.FindByUserID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	s.Require().Equal(int32(math.MaxInt32), lines[0].Quantity, "failed upsert must leave the line unchanged")
}

func (s *RepositorySuite) TestCartLinesOrderedByProduct() {
	user := s.createUser("carol")
	first := s.createProduct("A", "1.00")
	second := s.createProduct("B", "2.00")

	s.Require().NoError(s.repos.Carts.AddProduct(s.ctx, user.ID, second.ID, 1))
	s.Require().NoError(s.repos.Carts.AddProduct(s.ctx, user.ID, first.ID, 4))

	lines, err := s.repos.Carts.FindByUserID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Len(lines, 2)
	s.Require().Equal(first.ID, lines[0].ProductID)
	s.Require().Equal(second.ID, lines[1].ProductID)
}

func (s *RepositorySuite) TestClearCart() {
	user := s.createUser("dave")
	other := s.createUser("erin")
	product := s.createProduct("Cable", "5.00")

	// Очистка пустой корзины не считается ошибкой.
	s.Require().NoError(s.repos.Carts.Clear(s.ctx, user.ID))

	s.Require().NoError(s.repos.Carts.AddProduct(s.ctx, user.ID, product.ID, 1))
	s.Require().NoError(s.repos.Carts.AddProduct(s.ctx, other.ID, product.ID, 1))
	s.Require().NoError(s.repos.Carts.Clear(s.ctx, user.ID))

	lines, err := s.repos.Carts.FindByUserID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Empty(lines)

	otherLines, err := s.repos.Carts.FindByUserID(s.ctx, other.ID)
	s.Require().NoError(err)
	s.Require().Len(otherLines, 1, "clear must not touch other users")
}

func (s *RepositorySuite) TestRemoveProductFromCart() {
	user := s.createUser("frank")
	product := s.createProduct("Lamp", "30.00")

	err := s.repos.Carts.RemoveProduct(s.ctx, user.ID, product.ID)
	s.Require().True(domain.IsStorageFailure(err), "expected storage failure, got %v", err)
	s.Require().True(domain.IsNotFound(err))

	s.Require().NoError(s.repos.Carts.AddProduct(s.ctx, user.ID, product.ID, 2))
	s.Require().NoError(s.repos.Carts.RemoveProduct(s.ctx, user.ID, product.ID))

	lines, err := s.repos.Carts.FindByUserID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Empty(lines)
}

func (s *RepositorySuite) TestUpdateAndDeleteMissingRows() {
	const missing = int64(424242)

	err := s.repos.Products.Update(s.ctx, domain.Product{ID: missing, Name: "ghost", Price: decimal.NewFromInt(1)})
	s.requireNotFound(err, "update product")
	s.requireNotFound(s.repos.Products.DeleteByID(s.ctx, missing), "delete product")

	err = s.repos.Users.Update(s.ctx, domain.User{ID: missing, Username: "ghost"})
	s.requireNotFound(err, "update user")
	s.requireNotFound(s.repos.Users.DeleteByID(s.ctx, missing), "delete user")

	err = s.repos.UserDetails.Update(s.ctx, domain.UserDetails{UserID: missing, FirstName: "ghost"})
	s.requireNotFound(err, "update user details")
	s.requireNotFound(s.repos.UserDetails.DeleteByUserID(s.ctx, missing), "delete user details")
}

func (s *RepositorySuite) TestUpdateWithoutIDRejected() {
	err := s.repos.Products.Update(s.ctx, domain.Product{Name: "no id", Price: decimal.NewFromInt(1)})
	s.Require().True(domain.IsInvalidArgument(err), "products: %v", err)

	err = s.repos.Users.Update(s.ctx, domain.User{Username: "no id"})
	s.Require().True(domain.IsInvalidArgument(err), "users: %v", err)

	err = s.repos.UserDetails.Update(s.ctx, domain.UserDetails{FirstName: "no id"})
	s.Require().True(domain.IsInvalidArgument(err), "user details: %v", err)
}

func (s *RepositorySuite) TestProductUpdateAndDelete() {
	product := s.createProduct("Phone", "500.00")

	product.Name = "Phone Pro"
	product.Price = decimal.RequireFromString("650.25")
	s.Require().NoError(s.repos.Products.Update(s.ctx, product))

	found, ok, err := s.repos.Products.FindByID(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Require().Equal("Phone Pro", found.Name)
	s.Require().True(found.Price.Equal(decimal.RequireFromString("650.25")))

	s.Require().NoError(s.repos.Products.DeleteByID(s.ctx, product.ID))
	_, ok, err = s.repos.Products.FindByID(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Require().False(ok)
}

func (s *RepositorySuite) TestUserLifecycleWithDetails() {
	user := s.createUser("grace")

	user.Email = "grace@shop.test"
	s.Require().NoError(s.repos.Users.Update(s.ctx, user))

	found, ok, err := s.repos.Users.FindByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Require().Equal(user, found)

	details := domain.UserDetails{
		UserID:    user.ID,
		FirstName: "Grace",
		LastName:  "Hopper",
		Address:   "Arlington",
		Phone:     "+1-555-0100",
	}
	s.Require().NoError(s.repos.UserDetails.Create(s.ctx, details))

	duplicate := s.repos.UserDetails.Create(s.ctx, details)
	s.Require().True(domain.IsStorageFailure(duplicate), "duplicate details: %v", duplicate)

	details.Phone = "+1-555-0199"
	s.Require().NoError(s.repos.UserDetails.Update(s.ctx, details))

	gotDetails, ok, err := s.repos.UserDetails.FindByUserID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Require().Equal(details, gotDetails)

	allDetails, err := s.repos.UserDetails.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(allDetails, 1)

	// Удаление пользователя каскадно удаляет профиль.
	s.Require().NoError(s.repos.Users.DeleteByID(s.ctx, user.ID))
	_, ok, err = s.repos.UserDetails.FindByUserID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().False(ok)
}

func (s *RepositorySuite) TestUserDetailsRequireExistingUser() {
	err := s.repos.UserDetails.Create(s.ctx, domain.UserDetails{UserID: 777777, FirstName: "orphan"})
	s.Require().True(domain.IsStorageFailure(err), "expected storage failure, got %v", err)
}

func (s *RepositorySuite) TestOrderTotalOverflowIsStorageFailure() {
	user := s.createUser("pavel")

	_, err := s.repos.Orders.Create(s.ctx, domain.Order{
		UserID:      user.ID,
		TotalAmount: decimal.RequireFromString("100000000.00"),
	})
	s.Require().True(domain.IsStorageFailure(err), "expected storage failure, got %v", err)
	s.Require().ErrorIs(err, domain.ErrAmountOutOfRange)
	s.Require().False(domain.IsInvalidArgument(err))

	orders, err := s.repos.Orders.FindByUserID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Empty(orders)
}

func (s *RepositorySuite) TestOrdersCreateAndFind() {
	alice := s.createUser("heidi")
	bob := s.createUser("ivan")

	first, err := s.repos.Orders.Create(s.ctx, domain.Order{
		UserID:          alice.ID,
		OrderedProducts: "Laptop, Mouse",
		TotalAmount:     decimal.RequireFromString("200.00"),
	})
	s.Require().NoError(err)
	s.Require().NotZero(first.ID)

	second, err := s.repos.Orders.Create(s.ctx, domain.Order{UserID: alice.ID, TotalAmount: decimal.Zero})
	s.Require().NoError(err)
	s.Require().Greater(second.ID, first.ID)

	_, err = s.repos.Orders.Create(s.ctx, domain.Order{
		UserID:          bob.ID,
		OrderedProducts: "Cable",
		TotalAmount:     decimal.RequireFromString("5.00"),
	})
	s.Require().NoError(err)

	aliceOrders, err := s.repos.Orders.FindByUserID(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().Len(aliceOrders, 2)
	s.Require().Equal(first.ID, aliceOrders[0].ID)
	s.Require().Equal("Laptop, Mouse", aliceOrders[0].OrderedProducts)
	s.Require().True(aliceOrders[0].TotalAmount.Equal(decimal.RequireFromString("200")))
	s.Require().Equal("", aliceOrders[1].OrderedProducts)
	s.Require().True(aliceOrders[1].TotalAmount.IsZero())

	none, err := s.repos.Orders.FindByUserID(s.ctx, 999999)
	s.Require().NoError(err)
	s.Require().Empty(none)

	all, err := s.repos.Orders.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
}

func (s *RepositorySuite) requireNotFound(err error, op string) {
	s.T().Helper()
	require.Truef(s.T(), domain.IsStorageFailure(err), "%s: expected storage failure, got %v", op, err)
	require.Truef(s.T(), domain.IsNotFound(err), "%s: expected not found, got %v", op, err)
}
