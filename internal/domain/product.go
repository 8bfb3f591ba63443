package domain

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxProductNameLength соответствует products.product_name varchar(50).
const MaxProductNameLength = 50

// Product: товар каталога.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// ValidateForCreate проверяет поля нового товара; ID должен быть пустым.
func (p Product) ValidateForCreate() error {
	if p.ID != 0 {
		return InvalidArgumentf("product id must be empty on create, got %d", p.ID)
	}
	return p.validateFields()
}

// ValidateForUpdate проверяет поля обновляемого товара; ID обязателен.
func (p Product) ValidateForUpdate() error {
	if err := RequireID("product id", p.ID); err != nil {
		return err
	}
	return p.validateFields()
}

func (p Product) validateFields() error {
	if n := utf8.RuneCountInString(p.Name); n > MaxProductNameLength {
		return InvalidArgumentf("product name is %d characters long, max %d", n, MaxProductNameLength)
	}
	if !validMoney(p.Price) {
		return InvalidArgumentf("product price %s is out of range", p.Price.String())
	}
	return nil
}
