package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

type cartKey struct {
	userID    int64
	productID int64
}

// Store: общее in-memory хранилище всех таблиц магазина.
// Один мьютекс на всё хранилище заменяет транзакцию: каждая операция атомарна.
type Store struct {
	mu sync.RWMutex

	users       map[int64]domain.User
	userDetails map[int64]domain.UserDetails
	products    map[int64]domain.Product
	cart        map[cartKey]int32
	orders      map[int64]domain.Order

	nextUserID    int64
	nextProductID int64
	nextOrderID   int64
}

// NewStore создаёт пустое хранилище для локальной разработки и тестов.
func NewStore() *Store {
	return &Store{
		users:       make(map[int64]domain.User),
		userDetails: make(map[int64]domain.UserDetails),
		products:    make(map[int64]domain.Product),
		cart:        make(map[cartKey]int32),
		orders:      make(map[int64]domain.Order),
	}
}

// New возвращает полный набор in-memory репозиториев над одним хранилищем.
func New() domain.Repositories {
	return NewStore().Repositories()
}

// Repositories возвращает репозитории, разделяющие это хранилище.
func (s *Store) Repositories() domain.Repositories {
	return domain.Repositories{
		Users:       NewUserRepository(s),
		UserDetails: NewUserDetailsRepository(s),
		Products:    NewProductRepository(s),
		Carts:       NewCartRepository(s),
		Orders:      NewOrderRepository(s),
	}
}

// checkContext превращает отменённый контекст в ошибку хранилища.
func checkContext(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError(op, err)
	}
	return nil
}

// sortedValues возвращает значения map, упорядоченные по ключу.
func sortedValues[V any](items map[int64]V) []V {
	keys := make([]int64, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	result := make([]V, 0, len(keys))
	for _, k := range keys {
		result = append(result, items[k])
	}
	return result
}
