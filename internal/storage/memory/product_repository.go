package memory

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

type productRepositoryInMemory struct {
	store *Store
}

// NewProductRepository возвращает in-memory репозиторий товаров.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepositoryInMemory{store: store}
}

func (r *productRepositoryInMemory) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := product.ValidateForCreate(); err != nil {
		return domain.Product{}, err
	}
	if err := checkContext(ctx, "insert product"); err != nil {
		return domain.Product{}, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextProductID++
	product.ID = r.store.nextProductID
	// Храним цену так же, как decimal(10,2).
	product.Price = domain.RoundMoney(product.Price)
	r.store.products[product.ID] = product
	return product, nil
}

func (r *productRepositoryInMemory) FindAll(ctx context.Context) ([]domain.Product, error) {
	if err := checkContext(ctx, "select products"); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return sortedValues(r.store.products), nil
}

func (r *productRepositoryInMemory) FindByID(ctx context.Context, id int64) (domain.Product, bool, error) {
	if err := domain.RequireID("product id", id); err != nil {
		return domain.Product{}, false, err
	}
	if err := checkContext(ctx, "select product"); err != nil {
		return domain.Product{}, false, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	product, ok := r.store.products[id]
	return product, ok, nil
}

func (r *productRepositoryInMemory) Update(ctx context.Context, product domain.Product) error {
	if err := product.ValidateForUpdate(); err != nil {
		return err
	}
	if err := checkContext(ctx, "update product"); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[product.ID]; !ok {
		return domain.NotFoundError(fmt.Sprintf("update product %d", product.ID))
	}
	product.Price = domain.RoundMoney(product.Price)
	r.store.products[product.ID] = product
	return nil
}

// DeleteByID не трогает строки корзины: у shopping_cart нет внешнего ключа на products.
func (r *productRepositoryInMemory) DeleteByID(ctx context.Context, id int64) error {
	if err := domain.RequireID("product id", id); err != nil {
		return err
	}
	if err := checkContext(ctx, "delete product"); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[id]; !ok {
		return domain.NotFoundError(fmt.Sprintf("delete product %d", id))
	}
	delete(r.store.products, id)
	return nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
