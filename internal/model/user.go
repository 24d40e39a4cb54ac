package model

import "time"

// Role 用户角色
const (
	RoleCustomer        = "CUSTOMER"
	RoleRestaurantOwner = "RESTAURANT_OWNER"
	RoleAdmin           = "ADMIN"
)

// User 用户（身份解析由外部认证服务完成，这里仅作为订单的关联记录）
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	FullName  string    `json:"full_name" gorm:"type:varchar(255)"`
	Phone     string    `json:"phone" gorm:"type:varchar(20)"`
	Role      string    `json:"role" gorm:"type:varchar(20);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Address 收货地址，归属于某个用户
type Address struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index:idx_address_user;not null"`
	Line1     string    `json:"line1" gorm:"type:varchar(255);not null"`
	City      string    `json:"city" gorm:"type:varchar(100)"`
	Pincode   string    `json:"pincode" gorm:"type:varchar(20)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Address) TableName() string { return "addresses" }
