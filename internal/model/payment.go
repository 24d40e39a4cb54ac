package model

import "time"

// Payment 支付记录，与订单一对一；下单时以 PENDING 创建，由支付网关解析一次
type Payment struct {
	ID            string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID       string        `json:"order_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	Amount        float64       `json:"amount" gorm:"type:decimal(10,2);not null"`
	Method        string        `json:"payment_method" gorm:"type:varchar(20);not null"`
	Status        PaymentStatus `json:"status" gorm:"type:varchar(20);not null"`
	TransactionID string        `json:"transaction_id" gorm:"type:varchar(64)"`
	CreatedAt     time.Time     `json:"created_at" gorm:"not null"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }
