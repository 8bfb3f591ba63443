package domain

// User: покупатель магазина. ID назначается хранилищем при создании.
type User struct {
	ID       int64
	Username string
	Email    string
}

// UserDetails: необязательный профиль пользователя (один к одному, ключ: UserID).
type UserDetails struct {
	UserID    int64
	FirstName string
	LastName  string
	Address   string
	Phone     string
}

// ValidateForCreate проверяет, что ID ещё не назначен.
func (u User) ValidateForCreate() error {
	if u.ID != 0 {
		return InvalidArgumentf("user id must be empty on create, got %d", u.ID)
	}
	return nil
}

// ValidateForUpdate проверяет, что у пользователя есть ID.
func (u User) ValidateForUpdate() error {
	return RequireID("user id", u.ID)
}

// Validate проверяет ключ профиля; он общий для create и update.
func (d UserDetails) Validate() error {
	return RequireID("user details user_id", d.UserID)
}

// RequireID возвращает ErrInvalidArgument, если идентификатор не задан.
func RequireID(field string, id int64) error {
	if id <= 0 {
		return InvalidArgumentf("%s is required, got %d", field, id)
	}
	return nil
}
