package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

// errDuplicateKey и errForeignKey имитируют нарушения ограничений PostgreSQL.
var (
	errDuplicateKey = errors.New("duplicate key value violates primary key")
	errForeignKey   = errors.New("foreign key violation: user does not exist")
)

type userDetailsRepositoryInMemory struct {
	store *Store
}

// NewUserDetailsRepository возвращает in-memory репозиторий профилей.
func NewUserDetailsRepository(store *Store) domain.UserDetailsRepository {
	return &userDetailsRepositoryInMemory{store: store}
}

func (r *userDetailsRepositoryInMemory) Create(ctx context.Context, details domain.UserDetails) error {
	if err := details.Validate(); err != nil {
		return err
	}
	op := fmt.Sprintf("insert user details %d", details.UserID)
	if err := checkContext(ctx, op); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[details.UserID]; !ok {
		return domain.NewStorageError(op, errForeignKey)
	}
	if _, exists := r.store.userDetails[details.UserID]; exists {
		return domain.NewStorageError(op, errDuplicateKey)
	}
	r.store.userDetails[details.UserID] = details
	return nil
}

func (r *userDetailsRepositoryInMemory) FindAll(ctx context.Context) ([]domain.UserDetails, error) {
	if err := checkContext(ctx, "select user details"); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return sortedValues(r.store.userDetails), nil
}

func (r *userDetailsRepositoryInMemory) FindByUserID(ctx context.Context, userID int64) (domain.UserDetails, bool, error) {
	if err := domain.RequireID("user id", userID); err != nil {
		return domain.UserDetails{}, false, err
	}
	if err := checkContext(ctx, "select user details"); err != nil {
		return domain.UserDetails{}, false, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	details, ok := r.store.userDetails[userID]
	return details, ok, nil
}

func (r *userDetailsRepositoryInMemory) Update(ctx context.Context, details domain.UserDetails) error {
	if err := details.Validate(); err != nil {
		return err
	}
	if err := checkContext(ctx, "update user details"); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.userDetails[details.UserID]; !ok {
		return domain.NotFoundError(fmt.Sprintf("update user details %d", details.UserID))
	}
	r.store.userDetails[details.UserID] = details
	return nil
}

func (r *userDetailsRepositoryInMemory) DeleteByUserID(ctx context.Context, userID int64) error {
	if err := domain.RequireID("user id", userID); err != nil {
		return err
	}
	if err := checkContext(ctx, "delete user details"); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.userDetails[userID]; !ok {
		return domain.NotFoundError(fmt.Sprintf("delete user details %d", userID))
	}
	delete(r.store.userDetails, userID)
	return nil
}

var _ domain.UserDetailsRepository = (*userDetailsRepositoryInMemory)(nil)
