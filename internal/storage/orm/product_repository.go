package orm

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

type productRepository struct {
	store *Store
}

func (r *productRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := product.ValidateForCreate(); err != nil {
		return domain.Product{}, err
	}

	model := productModel{Name: product.Name, Price: domain.RoundMoney(product.Price)}
	err := r.store.transaction(ctx, "insert product", func(tx *gorm.DB) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.Product{}, err
	}
	return model.toDomain(), nil
}

func (r *productRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	var models []productModel
	if err := r.store.read(ctx, "select products", func(db *gorm.DB) error {
		return db.Order("id").Find(&models).Error
	}); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(models))
	for _, m := range models {
		products = append(products, m.toDomain())
	}
	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id int64) (domain.Product, bool, error) {
	if err := domain.RequireID("product id", id); err != nil {
		return domain.Product{}, false, err
	}

	var models []productModel
	if err := r.store.read(ctx, fmt.Sprintf("select product %d", id), func(db *gorm.DB) error {
		return db.Where("id = ?", id).Limit(1).Find(&models).Error
	}); err != nil {
		return domain.Product{}, false, err
	}
	if len(models) == 0 {
		return domain.Product{}, false, nil
	}
	return models[0].toDomain(), true, nil
}

func (r *productRepository) Update(ctx context.Context, product domain.Product) error {
	if err := product.ValidateForUpdate(); err != nil {
		return err
	}

	op := fmt.Sprintf("update product %d", product.ID)
	return r.store.transaction(ctx, op, func(tx *gorm.DB) error {
		result := tx.Model(&productModel{}).Where("id = ?", product.ID).Updates(map[string]any{
			"product_name": product.Name,
			"price":        domain.RoundMoney(product.Price),
		})
		return r.store.requireAffected(op, result)
	})
}

func (r *productRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := domain.RequireID("product id", id); err != nil {
		return err
	}

	op := fmt.Sprintf("delete product %d", id)
	return r.store.transaction(ctx, op, func(tx *gorm.DB) error {
		return r.store.requireAffected(op, tx.Where("id = ?", id).Delete(&productModel{}))
	})
}

var _ domain.ProductRepository = (*productRepository)(nil)
