package orm

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

type userDetailsRepository struct {
	store *Store
}

func (r *userDetailsRepository) Create(ctx context.Context, details domain.UserDetails) error {
	if err := details.Validate(); err != nil {
		return err
	}

	model := newUserDetailsModel(details)
	return r.store.transaction(ctx, fmt.Sprintf("insert user details %d", details.UserID), func(tx *gorm.DB) error {
		return tx.Create(&model).Error
	})
}

func (r *userDetailsRepository) FindAll(ctx context.Context) ([]domain.UserDetails, error) {
	var models []userDetailsModel
	if err := r.store.read(ctx, "select user details", func(db *gorm.DB) error {
		return db.Order("user_id").Find(&models).Error
	}); err != nil {
		return nil, err
	}

	all := make([]domain.UserDetails, 0, len(models))
	for _, m := range models {
		all = append(all, m.toDomain())
	}
	return all, nil
}

func (r *userDetailsRepository) FindByUserID(ctx context.Context, userID int64) (domain.UserDetails, bool, error) {
	if err := domain.RequireID("user id", userID); err != nil {
		return domain.UserDetails{}, false, err
	}

	var models []userDetailsModel
	if err := r.store.read(ctx, fmt.Sprintf("select user details %d", userID), func(db *gorm.DB) error {
		return db.Where("user_id = ?", userID).Limit(1).Find(&models).Error
	}); err != nil {
		return domain.UserDetails{}, false, err
	}
	if len(models) == 0 {
		return domain.UserDetails{}, false, nil
	}
	return models[0].toDomain(), true, nil
}

func (r *userDetailsRepository) Update(ctx context.Context, details domain.UserDetails) error {
	if err := details.Validate(); err != nil {
		return err
	}

	op := fmt.Sprintf("update user details %d", details.UserID)
	return r.store.transaction(ctx, op, func(tx *gorm.DB) error {
		result := tx.Model(&userDetailsModel{}).Where("user_id = ?", details.UserID).Updates(map[string]any{
			"first_name": details.FirstName,
			"last_name":  details.LastName,
			"address":    details.Address,
			"phone":      details.Phone,
		})
		return r.store.requireAffected(op, result)
	})
}

func (r *userDetailsRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	if err := domain.RequireID("user id", userID); err != nil {
		return err
	}

	op := fmt.Sprintf("delete user details %d", userID)
	return r.store.transaction(ctx, op, func(tx *gorm.DB) error {
		return r.store.requireAffected(op, tx.Where("user_id = ?", userID).Delete(&userDetailsModel{}))
	})
}

var _ domain.UserDetailsRepository = (*userDetailsRepository)(nil)
