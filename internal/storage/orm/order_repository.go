package orm

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

type orderRepository struct {
	store *Store
}

func (r *orderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	if err := order.ValidateForCreate(); err != nil {
		return domain.Order{}, err
	}
	op := fmt.Sprintf("insert order for user %d", order.UserID)
	if !domain.AmountFits(order.TotalAmount) {
		return domain.Order{}, r.store.failure(op, domain.AmountOutOfRange(order.TotalAmount))
	}

	model := orderModel{
		UserID:          order.UserID,
		OrderedProducts: order.OrderedProducts,
		TotalAmount:     domain.RoundMoney(order.TotalAmount),
	}
	if err := r.store.transaction(ctx, op, func(tx *gorm.DB) error {
		return tx.Create(&model).Error
	}); err != nil {
		return domain.Order{}, err
	}
	return model.toDomain(), nil
}

func (r *orderRepository) FindByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	if err := domain.RequireID("user id", userID); err != nil {
		return nil, err
	}
	return r.list(ctx, fmt.Sprintf("select orders of user %d", userID), func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	})
}

func (r *orderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, "select orders", func(db *gorm.DB) *gorm.DB { return db })
}

func (r *orderRepository) list(ctx context.Context, op string, scope func(*gorm.DB) *gorm.DB) ([]domain.Order, error) {
	var models []orderModel
	if err := r.store.read(ctx, op, func(db *gorm.DB) error {
		return db.Scopes(scope).Order("id").Find(&models).Error
	}); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(models))
	for _, m := range models {
		orders = append(orders, m.toDomain())
	}
	return orders, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
