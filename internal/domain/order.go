package domain

import "github.com/shopspring/decimal"

// OrderedProductsSeparator разделяет названия товаров в снимке заказа.
const OrderedProductsSeparator = ", "

// Order: неизменяемый снимок оформленной корзины.
// OrderedProducts носит информационный характер: позиции заказа отдельно не хранятся.
type Order struct {
	ID              int64
	UserID          int64
	OrderedProducts string
	TotalAmount     decimal.Decimal
}

// ValidateForCreate проверяет инварианты нового заказа.
func (o Order) ValidateForCreate() error {
	if o.ID != 0 {
		return InvalidArgumentf("order id must be empty on create, got %d", o.ID)
	}
	if err := RequireID("order user_id", o.UserID); err != nil {
		return err
	}
	// верхнюю границу decimal(10,2) проверяет хранилище
	if RoundMoney(o.TotalAmount).IsNegative() {
		return InvalidArgumentf("order total %s is negative", o.TotalAmount.String())
	}
	return nil
}
