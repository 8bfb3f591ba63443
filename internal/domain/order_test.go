package domain_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

// helper для создания корректного нового заказа.
func makeOrder() domain.Order {
	return domain.Order{
		UserID:          10,
		OrderedProducts: "Laptop, Mouse",
		TotalAmount:     decimal.RequireFromString("200.00"),
	}
}

func TestOrderValidateForCreate_Ok(t *testing.T) {
	order := makeOrder()
	if err := order.ValidateForCreate(); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}

	empty := domain.Order{UserID: 1, TotalAmount: decimal.Zero}
	if err := empty.ValidateForCreate(); err != nil {
		t.Fatalf("zero-total order must be valid, got %v", err)
	}
}

func TestOrderValidateForCreate_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
	}{
		{
			name: "preset id",
			mut: func(o *domain.Order) {
				o.ID = 5
			},
		},
		{
			name: "no user",
			mut: func(o *domain.Order) {
				o.UserID = 0
			},
		},
		{
			name: "negative total",
			mut: func(o *domain.Order) {
				o.TotalAmount = decimal.RequireFromString("-0.01")
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)

			err := order.ValidateForCreate()
			if !domain.IsInvalidArgument(err) {
				t.Fatalf("expected invalid argument for case %s, got %v", tc.name, err)
			}
		})
	}
}

func TestOrderTotalRangeIsCheckedByStorage(t *testing.T) {
	order := makeOrder()
	order.TotalAmount = decimal.RequireFromString("199999999.98")

	if err := order.ValidateForCreate(); err != nil {
		t.Fatalf("large total is not a caller error, got %v", err)
	}
	if domain.AmountFits(order.TotalAmount) {
		t.Fatal("199999999.98 must not fit decimal(10,2)")
	}
	if !domain.AmountFits(decimal.RequireFromString("99999999.994")) {
		t.Fatal("99999999.994 rounds to 99999999.99 and must fit")
	}
	if domain.AmountFits(decimal.RequireFromString("99999999.995")) {
		t.Fatal("99999999.995 rounds past the column limit")
	}

	err := domain.AmountOutOfRange(order.TotalAmount)
	if !errors.Is(err, domain.ErrAmountOutOfRange) {
		t.Fatalf("expected ErrAmountOutOfRange, got %v", err)
	}
	if domain.IsInvalidArgument(err) {
		t.Fatal("out of range total must not be an invalid argument")
	}
}

func TestProductValidation(t *testing.T) {
	valid := domain.Product{Name: "Laptop", Price: decimal.RequireFromString("999.99")}
	if err := valid.ValidateForCreate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	withID := valid
	withID.ID = 3
	if err := withID.ValidateForCreate(); !domain.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for preset id, got %v", err)
	}
	if err := withID.ValidateForUpdate(); err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if err := valid.ValidateForUpdate(); !domain.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for update without id, got %v", err)
	}

	longName := valid
	longName.Name = strings.Repeat("я", domain.MaxProductNameLength+1)
	if err := longName.ValidateForCreate(); !domain.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for long name, got %v", err)
	}

	exactName := valid
	exactName.Name = strings.Repeat("я", domain.MaxProductNameLength)
	if err := exactName.ValidateForCreate(); err != nil {
		t.Fatalf("name of max length must be valid, got %v", err)
	}

	negative := valid
	negative.Price = decimal.RequireFromString("-1")
	if err := negative.ValidateForCreate(); !domain.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for negative price, got %v", err)
	}
}

func TestValidateCartLine(t *testing.T) {
	cases := []struct {
		name      string
		userID    int64
		productID int64
		quantity  int32
		wantErr   bool
	}{
		{name: "valid", userID: 1, productID: 2, quantity: 1},
		{name: "zero quantity", userID: 1, productID: 2, quantity: 0, wantErr: true},
		{name: "negative quantity", userID: 1, productID: 2, quantity: -3, wantErr: true},
		{name: "missing user", userID: 0, productID: 2, quantity: 1, wantErr: true},
		{name: "missing product", userID: 1, productID: 0, quantity: 1, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := domain.ValidateCartLine(tc.userID, tc.productID, tc.quantity)
			if tc.wantErr && !domain.IsInvalidArgument(err) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestUserValidation(t *testing.T) {
	if err := (domain.User{ID: 1}).ValidateForCreate(); !domain.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if err := (domain.User{}).ValidateForUpdate(); !domain.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if err := (domain.UserDetails{}).Validate(); !domain.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if err := (domain.UserDetails{UserID: 4}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRoundMoney(t *testing.T) {
	got := domain.RoundMoney(decimal.RequireFromString("10.005"))
	if !got.Equal(decimal.RequireFromString("10.01")) {
		t.Fatalf("unexpected rounding: %s", got)
	}
}

func TestNewOrderPlacedEvent(t *testing.T) {
	order := makeOrder()
	order.ID = 42

	event := domain.NewOrderPlacedEvent(order)

	if event.EventID == "" {
		t.Fatal("event id should be generated")
	}
	if event.EventType != domain.EventTypeOrderPlaced {
		t.Fatalf("unexpected event type: %s", event.EventType)
	}
	if event.OrderID != 42 || event.UserID != order.UserID {
		t.Fatalf("unexpected event ids: %+v", event)
	}
	if !event.TotalAmount.Equal(order.TotalAmount) {
		t.Fatalf("unexpected total: %s", event.TotalAmount)
	}
	if time.Since(event.Timestamp) > time.Second {
		t.Error("timestamp should be close to current time")
	}

	other := domain.NewOrderPlacedEvent(order)
	if other.EventID == event.EventID {
		t.Fatal("event ids must be unique")
	}
}
