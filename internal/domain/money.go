package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MoneyScale: количество знаков после запятой в колонках decimal(10,2).
	MoneyScale = 2
	// moneyPrecision: общее количество значащих цифр decimal(10,2).
	moneyPrecision = 10
)

// maxMoney: первое значение, которое уже не помещается в decimal(10,2).
var maxMoney = decimal.New(1, moneyPrecision-MoneyScale)

// RoundMoney приводит сумму к масштабу хранилища.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyScale)
}

// validMoney проверяет, что сумма неотрицательна и помещается в decimal(10,2).
func validMoney(amount decimal.Decimal) bool {
	return !RoundMoney(amount).IsNegative() && AmountFits(amount)
}

// AmountFits сообщает, поместится ли сумма после округления в колонку decimal(10,2).
func AmountFits(amount decimal.Decimal) bool {
	return RoundMoney(amount).LessThan(maxMoney)
}

// AmountOutOfRange описывает переполнение колонки; бэкенды оборачивают её в StorageError.
func AmountOutOfRange(amount decimal.Decimal) error {
	return fmt.Errorf("%w: %s does not fit decimal(%d,%d)", ErrAmountOutOfRange, amount.String(), moneyPrecision, MoneyScale)
}
