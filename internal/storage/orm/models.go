package orm

import (
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

type userModel struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	Username string `gorm:"column:username;size:50"`
	Email    string `gorm:"column:email;size:100"`
}

func (userModel) TableName() string { return "users" }

func (m userModel) toDomain() domain.User {
	return domain.User{ID: m.ID, Username: m.Username, Email: m.Email}
}

type userDetailsModel struct {
	UserID    int64  `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	FirstName string `gorm:"column:first_name;size:50"`
	LastName  string `gorm:"column:last_name;size:50"`
	Address   string `gorm:"column:address;size:255"`
	Phone     string `gorm:"column:phone;size:20"`
}

func (userDetailsModel) TableName() string { return "user_details" }

func newUserDetailsModel(d domain.UserDetails) userDetailsModel {
	return userDetailsModel{
		UserID:    d.UserID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Address:   d.Address,
		Phone:     d.Phone,
	}
}

func (m userDetailsModel) toDomain() domain.UserDetails {
	return domain.UserDetails{
		UserID:    m.UserID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Address:   m.Address,
		Phone:     m.Phone,
	}
}

type productModel struct {
	ID    int64           `gorm:"column:id;primaryKey"`
	Name  string          `gorm:"column:product_name;size:50"`
	Price decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null"`
}

func (productModel) TableName() string { return "products" }

func (m productModel) toDomain() domain.Product {
	return domain.Product{ID: m.ID, Name: m.Name, Price: m.Price}
}

type cartLineModel struct {
	UserID    int64 `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	ProductID int64 `gorm:"column:product_id;primaryKey;autoIncrement:false"`
	Quantity  int32 `gorm:"column:quantity;not null"`
}

func (cartLineModel) TableName() string { return "shopping_cart" }

type orderModel struct {
	ID              int64           `gorm:"column:id;primaryKey"`
	UserID          int64           `gorm:"column:user_id;not null"`
	OrderedProducts string          `gorm:"column:ordered_products"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:decimal(10,2);not null"`
}

func (orderModel) TableName() string { return "orders" }

func (m orderModel) toDomain() domain.Order {
	return domain.Order{
		ID:              m.ID,
		UserID:          m.UserID,
		OrderedProducts: m.OrderedProducts,
		TotalAmount:     m.TotalAmount,
	}
}
