package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

type cartRepository struct {
	store *Store
}

// NewCartRepository создаёт PostgreSQL-реализацию CartRepository.
func NewCartRepository(store *Store) domain.CartRepository {
	return &cartRepository{store: store}
}

// AddProduct увеличивает количество одной командой upsert, без чтения перед записью.
func (r *cartRepository) AddProduct(ctx context.Context, userID, productID int64, quantity int32) error {
	if err := domain.ValidateCartLine(userID, productID, quantity); err != nil {
		return err
	}

	op := fmt.Sprintf("add product %d to cart of user %d", productID, userID)
	return r.store.withTx(ctx, op, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO shopping_cart (user_id, product_id, quantity)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, product_id)
			DO UPDATE SET quantity = shopping_cart.quantity + EXCLUDED.quantity
		`, userID, productID, quantity); err != nil {
			return r.store.failure(op, err)
		}
		return nil
	})
}

func (r *cartRepository) RemoveProduct(ctx context.Context, userID, productID int64) error {
	if err := domain.RequireID("user id", userID); err != nil {
		return err
	}
	if err := domain.RequireID("product id", productID); err != nil {
		return err
	}
	return r.store.execAffecting(ctx, fmt.Sprintf("remove product %d from cart of user %d", productID, userID),
		`DELETE FROM shopping_cart WHERE user_id = $1 AND product_id = $2`, userID, productID)
}

func (r *cartRepository) FindByUserID(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	if err := domain.RequireID("user id", userID); err != nil {
		return nil, err
	}

	lines := make([]domain.CartLine, 0)
	err := r.store.query(ctx, fmt.Sprintf("select cart of user %d", userID), func(rows *sql.Rows) error {
		var line domain.CartLine
		if err := rows.Scan(&line.UserID, &line.ProductID, &line.Quantity); err != nil {
			return fmt.Errorf("scan cart row: %w", err)
		}
		lines = append(lines, line)
		return nil
	}, `
		SELECT user_id, product_id, quantity
		FROM shopping_cart
		WHERE user_id = $1
		ORDER BY product_id
	`, userID)
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// Clear не проверяет число удалённых строк: пустая корзина не ошибка.
func (r *cartRepository) Clear(ctx context.Context, userID int64) error {
	if err := domain.RequireID("user id", userID); err != nil {
		return err
	}

	op := fmt.Sprintf("clear cart of user %d", userID)
	return r.store.withTx(ctx, op, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM shopping_cart WHERE user_id = $1`, userID); err != nil {
			return r.store.failure(op, err)
		}
		return nil
	})
}

var _ domain.CartRepository = (*cartRepository)(nil)
