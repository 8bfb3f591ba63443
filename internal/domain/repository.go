package domain

import "context"

// Общие правила для всех репозиториев:
//   - ErrInvalidArgument возвращается до обращения к хранилищу;
//   - любые сбои хранилища оборачиваются в *StorageError;
//   - поиск одной записи возвращает ok=false, а не ошибку, если записи нет;
//   - update/delete без затронутых строк: StorageError с причиной ErrNotFound;
//   - каждая изменяющая операция выполняется в собственной транзакции.

// UserRepository описывает хранилище пользователей.
type UserRepository interface {
	// Create сохраняет пользователя и возвращает его с назначенным ID.
	Create(ctx context.Context, user User) (User, error)
	FindAll(ctx context.Context) ([]User, error)
	// FindByID возвращает ok=false, если пользователя нет.
	FindByID(ctx context.Context, id int64) (User, bool, error)
	Update(ctx context.Context, user User) error
	DeleteByID(ctx context.Context, id int64) error
}

// UserDetailsRepository описывает хранилище профилей пользователей.
type UserDetailsRepository interface {
	// Create сохраняет профиль; UserID задаёт вызывающая сторона.
	Create(ctx context.Context, details UserDetails) error
	FindAll(ctx context.Context) ([]UserDetails, error)
	FindByUserID(ctx context.Context, userID int64) (UserDetails, bool, error)
	Update(ctx context.Context, details UserDetails) error
	DeleteByUserID(ctx context.Context, userID int64) error
}

// ProductRepository описывает хранилище товаров.
type ProductRepository interface {
	Create(ctx context.Context, product Product) (Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id int64) (Product, bool, error)
	Update(ctx context.Context, product Product) error
	DeleteByID(ctx context.Context, id int64) error
}

// CartRepository описывает хранилище корзин.
type CartRepository interface {
	// AddProduct добавляет товар в корзину или увеличивает количество существующей строки.
	AddProduct(ctx context.Context, userID, productID int64, quantity int32) error
	// RemoveProduct удаляет строку корзины; отсутствие строки считается ошибкой.
	RemoveProduct(ctx context.Context, userID, productID int64) error
	// FindByUserID возвращает строки корзины, упорядоченные по product_id.
	FindByUserID(ctx context.Context, userID int64) ([]CartLine, error)
	// Clear удаляет все строки пользователя; пустая корзина не считается ошибкой.
	Clear(ctx context.Context, userID int64) error
}

// OrderRepository описывает хранилище заказов. Заказы не изменяются после создания.
type OrderRepository interface {
	Create(ctx context.Context, order Order) (Order, error)
	FindByUserID(ctx context.Context, userID int64) ([]Order, error)
	FindAll(ctx context.Context) ([]Order, error)
}

// Repositories группирует реализации одного бэкенда хранения.
type Repositories struct {
	Users       UserRepository
	UserDetails UserDetailsRepository
	Products    ProductRepository
	Carts       CartRepository
	Orders      OrderRepository
}
