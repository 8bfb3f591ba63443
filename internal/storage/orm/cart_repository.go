package orm

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

// cartUpsert увеличивает количество существующей строки вместо конфликта.
var cartUpsert = clause.OnConflict{
	Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
	DoUpdates: clause.Assignments(map[string]any{
		"quantity": gorm.Expr("shopping_cart.quantity + EXCLUDED.quantity"),
	}),
}

type cartRepository struct {
	store *Store
}

func (r *cartRepository) AddProduct(ctx context.Context, userID, productID int64, quantity int32) error {
	if err := domain.ValidateCartLine(userID, productID, quantity); err != nil {
		return err
	}

	line := cartLineModel{UserID: userID, ProductID: productID, Quantity: quantity}
	op := fmt.Sprintf("add product %d to cart of user %d", productID, userID)
	return r.store.transaction(ctx, op, func(tx *gorm.DB) error {
		return tx.Clauses(cartUpsert).Create(&line).Error
	})
}

func (r *cartRepository) RemoveProduct(ctx context.Context, userID, productID int64) error {
	if err := domain.RequireID("user id", userID); err != nil {
		return err
	}
	if err := domain.RequireID("product id", productID); err != nil {
		return err
	}

	op := fmt.Sprintf("remove product %d from cart of user %d", productID, userID)
	return r.store.transaction(ctx, op, func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&cartLineModel{})
		return r.store.requireAffected(op, result)
	})
}

func (r *cartRepository) FindByUserID(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	if err := domain.RequireID("user id", userID); err != nil {
		return nil, err
	}

	var models []cartLineModel
	if err := r.store.read(ctx, fmt.Sprintf("select cart of user %d", userID), func(db *gorm.DB) error {
		return db.Where("user_id = ?", userID).Order("product_id").Find(&models).Error
	}); err != nil {
		return nil, err
	}

	lines := make([]domain.CartLine, 0, len(models))
	for _, m := range models {
		lines = append(lines, domain.CartLine{UserID: m.UserID, ProductID: m.ProductID, Quantity: m.Quantity})
	}
	return lines, nil
}

func (r *cartRepository) Clear(ctx context.Context, userID int64) error {
	if err := domain.RequireID("user id", userID); err != nil {
		return err
	}

	return r.store.transaction(ctx, fmt.Sprintf("clear cart of user %d", userID), func(tx *gorm.DB) error {
		return tx.Where("user_id = ?", userID).Delete(&cartLineModel{}).Error
	})
}

var _ domain.CartRepository = (*cartRepository)(nil)
