package orm

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if err := user.ValidateForCreate(); err != nil {
		return domain.User{}, err
	}

	model := userModel{Username: user.Username, Email: user.Email}
	if err := r.store.transaction(ctx, "insert user", func(tx *gorm.DB) error {
		return tx.Create(&model).Error
	}); err != nil {
		return domain.User{}, err
	}
	return model.toDomain(), nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	var models []userModel
	if err := r.store.read(ctx, "select users", func(db *gorm.DB) error {
		return db.Order("id").Find(&models).Error
	}); err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(models))
	for _, m := range models {
		users = append(users, m.toDomain())
	}
	return users, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (domain.User, bool, error) {
	if err := domain.RequireID("user id", id); err != nil {
		return domain.User{}, false, err
	}

	var models []userModel
	if err := r.store.read(ctx, fmt.Sprintf("select user %d", id), func(db *gorm.DB) error {
		return db.Where("id = ?", id).Limit(1).Find(&models).Error
	}); err != nil {
		return domain.User{}, false, err
	}
	if len(models) == 0 {
		return domain.User{}, false, nil
	}
	return models[0].toDomain(), true, nil
}

func (r *userRepository) Update(ctx context.Context, user domain.User) error {
	if err := user.ValidateForUpdate(); err != nil {
		return err
	}

	op := fmt.Sprintf("update user %d", user.ID)
	return r.store.transaction(ctx, op, func(tx *gorm.DB) error {
		result := tx.Model(&userModel{}).Where("id = ?", user.ID).Updates(map[string]any{
			"username": user.Username,
			"email":    user.Email,
		})
		return r.store.requireAffected(op, result)
	})
}

// DeleteByID полагается на ON DELETE CASCADE для user_details.
func (r *userRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := domain.RequireID("user id", id); err != nil {
		return err
	}

	op := fmt.Sprintf("delete user %d", id)
	return r.store.transaction(ctx, op, func(tx *gorm.DB) error {
		return r.store.requireAffected(op, tx.Where("id = ?", id).Delete(&userModel{}))
	})
}

var _ domain.UserRepository = (*userRepository)(nil)
