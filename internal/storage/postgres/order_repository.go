package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

const selectOrders = `SELECT id, user_id, ordered_products, total_amount FROM orders`

type orderRepository struct {
	store *Store
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{store: store}
}

func (r *orderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	if err := order.ValidateForCreate(); err != nil {
		return domain.Order{}, err
	}
	op := fmt.Sprintf("insert order for user %d", order.UserID)
	if !domain.AmountFits(order.TotalAmount) {
		return domain.Order{}, r.store.failure(op, domain.AmountOutOfRange(order.TotalAmount))
	}
	order.TotalAmount = domain.RoundMoney(order.TotalAmount)

	id, err := r.store.insertReturningID(ctx, op, `
		INSERT INTO orders (user_id, ordered_products, total_amount)
		VALUES ($1, $2, $3)
		RETURNING id
	`, order.UserID, order.OrderedProducts, order.TotalAmount)
	if err != nil {
		return domain.Order{}, err
	}
	order.ID = id
	return order, nil
}

func (r *orderRepository) FindByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	if err := domain.RequireID("user id", userID); err != nil {
		return nil, err
	}
	return r.list(ctx, fmt.Sprintf("select orders of user %d", userID),
		selectOrders+` WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *orderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, "select orders", selectOrders+` ORDER BY id`)
}

func (r *orderRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Order, error) {
	orders := make([]domain.Order, 0)
	err := r.store.query(ctx, op, func(rows *sql.Rows) error {
		var (
			order    domain.Order
			products sql.NullString
		)
		if err := rows.Scan(&order.ID, &order.UserID, &products, &order.TotalAmount); err != nil {
			return fmt.Errorf("scan order row: %w", err)
		}
		order.OrderedProducts = products.String
		orders = append(orders, order)
		return nil
	}, query, args...)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
