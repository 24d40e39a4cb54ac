package model

import (
	"strings"
	"time"

	"github.com/d60-Lab/food-ordering/pkg/apperr"
)

// DeliveryStatus 配送状态
type DeliveryStatus string

const (
	DeliveryStatusScheduled DeliveryStatus = "SCHEDULED"
	DeliveryStatusPickedUp  DeliveryStatus = "PICKED_UP"
	DeliveryStatusInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryStatusDelivered DeliveryStatus = "DELIVERED"
)

// ParseDeliveryStatus 在边界将状态名解析为枚举，未知名字报 InvalidRequest
func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	switch st := DeliveryStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case DeliveryStatusScheduled, DeliveryStatusPickedUp, DeliveryStatusInTransit, DeliveryStatusDelivered:
		return st, nil
	default:
		return "", apperr.InvalidRequest("unknown delivery status %q", s)
	}
}

// Delivery 配送记录，支付成功后才创建，与订单一对一
type Delivery struct {
	ID             string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID        string         `json:"order_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	Status         DeliveryStatus `json:"status" gorm:"type:varchar(20);not null"`
	AssignedDriver string         `json:"assigned_driver" gorm:"type:varchar(64)"`
	// EtaSeconds 配送总时长预算（秒），创建时在 [30,120] 内均匀抽取
	EtaSeconds  int       `json:"eta_seconds" gorm:"not null"`
	ScheduledAt time.Time `json:"scheduled_at" gorm:"not null"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Delivery) TableName() string { return "deliveries" }
