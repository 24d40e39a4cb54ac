package model

import "time"

// Restaurant 餐厅（下单时只读查询；OwnerID 用于餐厅侧操作鉴权）
type Restaurant struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID   string    `json:"owner_id" gorm:"type:varchar(36);index:idx_restaurant_owner;not null"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Address   string    `json:"address" gorm:"type:varchar(255)"`
	IsOpen    bool      `json:"is_open" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Restaurant) TableName() string { return "restaurants" }

// MenuItem 菜品；下单时快照 Name/Price 到订单行
type MenuItem struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RestaurantID string    `json:"restaurant_id" gorm:"type:varchar(36);index:idx_menu_restaurant;not null"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Description  string    `json:"description" gorm:"type:text"`
	Price        float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	IsAvailable  bool      `json:"is_available" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (MenuItem) TableName() string { return "menu_items" }
