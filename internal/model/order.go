package model

import (
	"strings"
	"time"

	"github.com/d60-Lab/food-ordering/pkg/apperr"
)

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusConfirmed      OrderStatus = "CONFIRMED"
	OrderStatusPreparing      OrderStatus = "PREPARING"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// Terminal 终态判断：DELIVERED / CANCELLED 之后状态不再推进
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// ParseOrderStatus 在边界将状态名解析为枚举，未知名字报 InvalidRequest
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return st, nil
	default:
		return "", apperr.InvalidRequest("unknown order status %q", s)
	}
}

// PaymentStatus 支付状态
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Order 订单模型
type Order struct {
	ID                string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID        string        `json:"customer_id" gorm:"type:varchar(36);index:idx_order_customer_created;not null"`
	RestaurantID      string        `json:"restaurant_id" gorm:"type:varchar(36);index:idx_order_restaurant;not null"`
	DeliveryAddressID string        `json:"delivery_address_id" gorm:"type:varchar(36);not null"`
	Items             []OrderItem   `json:"items" gorm:"foreignKey:OrderID"`
	TotalAmount       float64       `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	DeliveryFee       float64       `json:"delivery_fee" gorm:"type:decimal(10,2)"`
	TaxAmount         float64       `json:"tax_amount" gorm:"type:decimal(10,2)"`
	Status            OrderStatus   `json:"status" gorm:"type:varchar(20);index;not null"`
	PaymentMethod     string        `json:"payment_method" gorm:"type:varchar(20)"`
	PaymentStatus     PaymentStatus `json:"payment_status" gorm:"type:varchar(20);not null"`
	Instructions      string        `json:"special_instructions" gorm:"type:text"`
	// ProgressEpoch 取消时递增；过期的定时回调据此失效
	ProgressEpoch int64      `json:"-" gorm:"not null;default:0"`
	CreatedAt     time.Time  `json:"created_at" gorm:"index:idx_order_customer_created;not null"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeliveredAt   *time.Time `json:"delivered_at"`
	Delivery      *Delivery  `json:"delivery,omitempty" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string { return "orders" }

// OrderItem 订单行：下单时快照菜品名称与价格，之后不再变更
type OrderItem struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID    string    `json:"order_id" gorm:"type:varchar(36);index:idx_item_order;not null"`
	MenuItemID string    `json:"menu_item_id" gorm:"type:varchar(36);not null"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	Price      float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	Subtotal   float64   `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }
