package memory

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

type userRepositoryInMemory struct {
	store *Store
}

// NewUserRepository возвращает in-memory репозиторий пользователей.
func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepositoryInMemory{store: store}
}

func (r *userRepositoryInMemory) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if err := user.ValidateForCreate(); err != nil {
		return domain.User{}, err
	}
	if err := checkContext(ctx, "insert user"); err != nil {
		return domain.User{}, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextUserID++
	user.ID = r.store.nextUserID
	r.store.users[user.ID] = user
	return user, nil
}

func (r *userRepositoryInMemory) FindAll(ctx context.Context) ([]domain.User, error) {
	if err := checkContext(ctx, "select users"); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return sortedValues(r.store.users), nil
}

func (r *userRepositoryInMemory) FindByID(ctx context.Context, id int64) (domain.User, bool, error) {
	if err := domain.RequireID("user id", id); err != nil {
		return domain.User{}, false, err
	}
	if err := checkContext(ctx, "select user"); err != nil {
		return domain.User{}, false, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	return user, ok, nil
}

func (r *userRepositoryInMemory) Update(ctx context.Context, user domain.User) error {
	if err := user.ValidateForUpdate(); err != nil {
		return err
	}
	if err := checkContext(ctx, "update user"); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[user.ID]; !ok {
		return domain.NotFoundError(fmt.Sprintf("update user %d", user.ID))
	}
	r.store.users[user.ID] = user
	return nil
}

// DeleteByID удаляет пользователя вместе с профилем (ON DELETE CASCADE).
func (r *userRepositoryInMemory) DeleteByID(ctx context.Context, id int64) error {
	if err := domain.RequireID("user id", id); err != nil {
		return err
	}
	if err := checkContext(ctx, "delete user"); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id]; !ok {
		return domain.NotFoundError(fmt.Sprintf("delete user %d", id))
	}
	delete(r.store.users, id)
	delete(r.store.userDetails, id)
	return nil
}

var _ domain.UserRepository = (*userRepositoryInMemory)(nil)
