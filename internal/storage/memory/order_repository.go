package memory

import (
	"context"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

// orderRepositoryInMemory: простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	store *Store
}

// NewOrderRepository возвращает in-memory репозиторий заказов.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepositoryInMemory{store: store}
}

// Create сохраняет новый заказ и назначает ему ID.
func (r *orderRepositoryInMemory) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	if err := order.ValidateForCreate(); err != nil {
		return domain.Order{}, err
	}
	if err := checkContext(ctx, "insert order"); err != nil {
		return domain.Order{}, err
	}
	if !domain.AmountFits(order.TotalAmount) {
		return domain.Order{}, domain.NewStorageError("insert order", domain.AmountOutOfRange(order.TotalAmount))
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextOrderID++
	order.ID = r.store.nextOrderID
	order.TotalAmount = domain.RoundMoney(order.TotalAmount)
	r.store.orders[order.ID] = order
	return order, nil
}

// FindByUserID возвращает заказы пользователя в порядке создания.
func (r *orderRepositoryInMemory) FindByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	if err := domain.RequireID("user id", userID); err != nil {
		return nil, err
	}
	if err := checkContext(ctx, "select orders"); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.Order, 0)
	for _, order := range sortedValues(r.store.orders) {
		if order.UserID == userID {
			result = append(result, order)
		}
	}
	return result, nil
}

func (r *orderRepositoryInMemory) FindAll(ctx context.Context) ([]domain.Order, error) {
	if err := checkContext(ctx, "select orders"); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return sortedValues(r.store.orders), nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
