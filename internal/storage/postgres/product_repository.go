package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

type productRepository struct {
	store *Store
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{store: store}
}

func (r *productRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := product.ValidateForCreate(); err != nil {
		return domain.Product{}, err
	}
	product.Price = domain.RoundMoney(product.Price)

	id, err := r.store.insertReturningID(ctx, "insert product", `
		INSERT INTO products (product_name, price)
		VALUES ($1, $2)
		RETURNING id
	`, product.Name, product.Price)
	if err != nil {
		return domain.Product{}, err
	}
	product.ID = id
	return product, nil
}

func (r *productRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	err := r.store.query(ctx, "select products", func(rows *sql.Rows) error {
		product, err := scanProduct(rows)
		if err != nil {
			return err
		}
		products = append(products, product)
		return nil
	}, `SELECT id, product_name, price FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id int64) (domain.Product, bool, error) {
	if err := domain.RequireID("product id", id); err != nil {
		return domain.Product{}, false, err
	}

	var (
		product domain.Product
		found   bool
	)
	err := r.store.query(ctx, fmt.Sprintf("select product %d", id), func(rows *sql.Rows) error {
		var err error
		product, err = scanProduct(rows)
		found = err == nil
		return err
	}, `SELECT id, product_name, price FROM products WHERE id = $1`, id)
	if err != nil {
		return domain.Product{}, false, err
	}
	return product, found, nil
}

func (r *productRepository) Update(ctx context.Context, product domain.Product) error {
	if err := product.ValidateForUpdate(); err != nil {
		return err
	}
	return r.store.execAffecting(ctx, fmt.Sprintf("update product %d", product.ID), `
		UPDATE products
		SET product_name = $1,
		    price = $2
		WHERE id = $3
	`, product.Name, domain.RoundMoney(product.Price), product.ID)
}

func (r *productRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := domain.RequireID("product id", id); err != nil {
		return err
	}
	return r.store.execAffecting(ctx, fmt.Sprintf("delete product %d", id),
		`DELETE FROM products WHERE id = $1`, id)
}

func scanProduct(rows *sql.Rows) (domain.Product, error) {
	var (
		product domain.Product
		name    sql.NullString
	)
	if err := rows.Scan(&product.ID, &name, &product.Price); err != nil {
		return domain.Product{}, fmt.Errorf("scan product row: %w", err)
	}
	product.Name = name.String
	return product, nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
