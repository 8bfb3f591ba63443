package domain

// CartLine: намерение пользователя купить Quantity единиц товара.
// Ключ составной: (UserID, ProductID).
type CartLine struct {
	UserID    int64
	ProductID int64
	Quantity  int32
}

// ValidateCartLine проверяет аргументы добавления в корзину.
func ValidateCartLine(userID, productID int64, quantity int32) error {
	if err := RequireID("user id", userID); err != nil {
		return err
	}
	if err := RequireID("product id", productID); err != nil {
		return err
	}
	if quantity <= 0 {
		return InvalidArgumentf("quantity must be greater than zero, got %d", quantity)
	}
	return nil
}
