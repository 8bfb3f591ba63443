package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

type userRepository struct {
	store *Store
}

// NewUserRepository создаёт PostgreSQL-реализацию UserRepository.
func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if err := user.ValidateForCreate(); err != nil {
		return domain.User{}, err
	}

	id, err := r.store.insertReturningID(ctx, "insert user", `
		INSERT INTO users (username, email)
		VALUES ($1, $2)
		RETURNING id
	`, user.Username, user.Email)
	if err != nil {
		return domain.User{}, err
	}
	user.ID = id
	return user, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0)
	err := r.store.query(ctx, "select users", func(rows *sql.Rows) error {
		user, err := scanUser(rows)
		if err != nil {
			return err
		}
		users = append(users, user)
		return nil
	}, `SELECT id, username, email FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (domain.User, bool, error) {
	if err := domain.RequireID("user id", id); err != nil {
		return domain.User{}, false, err
	}

	var (
		user  domain.User
		found bool
	)
	err := r.store.query(ctx, fmt.Sprintf("select user %d", id), func(rows *sql.Rows) error {
		var err error
		user, err = scanUser(rows)
		found = err == nil
		return err
	}, `SELECT id, username, email FROM users WHERE id = $1`, id)
	if err != nil {
		return domain.User{}, false, err
	}
	return user, found, nil
}

func (r *userRepository) Update(ctx context.Context, user domain.User) error {
	if err := user.ValidateForUpdate(); err != nil {
		return err
	}
	return r.store.execAffecting(ctx, fmt.Sprintf("update user %d", user.ID), `
		UPDATE users
		SET username = $1,
		    email = $2
		WHERE id = $3
	`, user.Username, user.Email, user.ID)
}

// DeleteByID удаляет пользователя; профиль удаляется каскадно внешним ключом.
func (r *userRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := domain.RequireID("user id", id); err != nil {
		return err
	}
	return r.store.execAffecting(ctx, fmt.Sprintf("delete user %d", id),
		`DELETE FROM users WHERE id = $1`, id)
}

func scanUser(rows *sql.Rows) (domain.User, error) {
	var (
		user            domain.User
		username, email sql.NullString
	)
	if err := rows.Scan(&user.ID, &username, &email); err != nil {
		return domain.User{}, fmt.Errorf("scan user row: %w", err)
	}
	user.Username = username.String
	user.Email = email.String
	return user, nil
}

var _ domain.UserRepository = (*userRepository)(nil)
