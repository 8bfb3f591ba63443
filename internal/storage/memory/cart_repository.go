package memory

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

type cartRepositoryInMemory struct {
	store *Store
}

// NewCartRepository возвращает in-memory репозиторий корзин.
func NewCartRepository(store *Store) domain.CartRepository {
	return &cartRepositoryInMemory{store: store}
}

// AddProduct выполняет upsert под одной блокировкой, поэтому гонки чтения-записи нет.
func (r *cartRepositoryInMemory) AddProduct(ctx context.Context, userID, productID int64, quantity int32) error {
	if err := domain.ValidateCartLine(userID, productID, quantity); err != nil {
		return err
	}
	if err := checkContext(ctx, "upsert cart line"); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := cartKey{userID: userID, productID: productID}
	next := int64(r.store.cart[key]) + int64(quantity)
	if next > math.MaxInt32 {
		// как INT в PostgreSQL: переполнение отклоняется, строка не меняется
		return domain.NewStorageError(
			fmt.Sprintf("upsert cart line of user %d product %d", userID, productID),
			fmt.Errorf("%w: quantity %d", domain.ErrQuantityOutOfRange, next),
		)
	}
	r.store.cart[key] = int32(next)
	return nil
}

func (r *cartRepositoryInMemory) RemoveProduct(ctx context.Context, userID, productID int64) error {
	if err := domain.RequireID("user id", userID); err != nil {
		return err
	}
	if err := domain.RequireID("product id", productID); err != nil {
		return err
	}
	if err := checkContext(ctx, "delete cart line"); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := cartKey{userID: userID, productID: productID}
	if _, ok := r.store.cart[key]; !ok {
		return domain.NotFoundError(fmt.Sprintf("remove product %d from cart of user %d", productID, userID))
	}
	delete(r.store.cart, key)
	return nil
}

func (r *cartRepositoryInMemory) FindByUserID(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	if err := domain.RequireID("user id", userID); err != nil {
		return nil, err
	}
	if err := checkContext(ctx, "select cart"); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	lines := make([]domain.CartLine, 0)
	for key, qty := range r.store.cart {
		if key.userID != userID {
			continue
		}
		lines = append(lines, domain.CartLine{UserID: key.userID, ProductID: key.productID, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

// Clear идемпотентна: очистка пустой корзины не является ошибкой.
func (r *cartRepositoryInMemory) Clear(ctx context.Context, userID int64) error {
	if err := domain.RequireID("user id", userID); err != nil {
		return err
	}
	if err := checkContext(ctx, "clear cart"); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for key := range r.store.cart {
		if key.userID == userID {
			delete(r.store.cart, key)
		}
	}
	return nil
}

var _ domain.CartRepository = (*cartRepositoryInMemory)(nil)
