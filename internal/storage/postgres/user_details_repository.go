package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

type userDetailsRepository struct {
	store *Store
}

// NewUserDetailsRepository создаёт PostgreSQL-реализацию UserDetailsRepository.
func NewUserDetailsRepository(store *Store) domain.UserDetailsRepository {
	return &userDetailsRepository{store: store}
}

func (r *userDetailsRepository) Create(ctx context.Context, details domain.UserDetails) error {
	if err := details.Validate(); err != nil {
		return err
	}

	op := fmt.Sprintf("insert user details %d", details.UserID)
	return r.store.withTx(ctx, op, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO user_details (user_id, first_name, last_name, address, phone)
			VALUES ($1, $2, $3, $4, $5)
		`, details.UserID, details.FirstName, details.LastName, details.Address, details.Phone)
		switch {
		case err == nil:
			return nil
		case isUniqueViolation(err):
			return r.store.failure(op, fmt.Errorf("details already exist: %w", err))
		case isForeignKeyViolation(err):
			return r.store.failure(op, fmt.Errorf("user does not exist: %w", err))
		default:
			return r.store.failure(op, err)
		}
	})
}

func (r *userDetailsRepository) FindAll(ctx context.Context) ([]domain.UserDetails, error) {
	all := make([]domain.UserDetails, 0)
	err := r.store.query(ctx, "select user details", func(rows *sql.Rows) error {
		details, err := scanUserDetails(rows)
		if err != nil {
			return err
		}
		all = append(all, details)
		return nil
	}, `
		SELECT user_id, first_name, last_name, address, phone
		FROM user_details
		ORDER BY user_id
	`)
	if err != nil {
		return nil, err
	}
	return all, nil
}

func (r *userDetailsRepository) FindByUserID(ctx context.Context, userID int64) (domain.UserDetails, bool, error) {
	if err := domain.RequireID("user id", userID); err != nil {
		return domain.UserDetails{}, false, err
	}

	var (
		details domain.UserDetails
		found   bool
	)
	err := r.store.query(ctx, fmt.Sprintf("select user details %d", userID), func(rows *sql.Rows) error {
		var err error
		details, err = scanUserDetails(rows)
		found = err == nil
		return err
	}, `
		SELECT user_id, first_name, last_name, address, phone
		FROM user_details
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return domain.UserDetails{}, false, err
	}
	return details, found, nil
}

func (r *userDetailsRepository) Update(ctx context.Context, details domain.UserDetails) error {
	if err := details.Validate(); err != nil {
		return err
	}
	return r.store.execAffecting(ctx, fmt.Sprintf("update user details %d", details.UserID), `
		UPDATE user_details
		SET first_name = $1,
		    last_name = $2,
		    address = $3,
		    phone = $4
		WHERE user_id = $5
	`, details.FirstName, details.LastName, details.Address, details.Phone, details.UserID)
}

func (r *userDetailsRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	if err := domain.RequireID("user id", userID); err != nil {
		return err
	}
	return r.store.execAffecting(ctx, fmt.Sprintf("delete user details %d", userID),
		`DELETE FROM user_details WHERE user_id = $1`, userID)
}

func scanUserDetails(rows *sql.Rows) (domain.UserDetails, error) {
	var (
		details                             domain.UserDetails
		firstName, lastName, address, phone sql.NullString
	)
	if err := rows.Scan(&details.UserID, &firstName, &lastName, &address, &phone); err != nil {
		return domain.UserDetails{}, fmt.Errorf("scan user details row: %w", err)
	}
	details.FirstName = firstName.String
	details.LastName = lastName.String
	details.Address = address.String
	details.Phone = phone.String
	return details, nil
}

var _ domain.UserDetailsRepository = (*userDetailsRepository)(nil)
