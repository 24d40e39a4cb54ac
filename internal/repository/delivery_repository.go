package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/food-ordering/internal/model"
)

type DeliveryRepository interface {
	Create(ctx context.Context, delivery *model.Delivery) error
	GetByID(ctx context.Context, id string) (*model.Delivery, error)
	GetByOrderID(ctx context.Context, orderID string) (*model.Delivery, error)
	Save(ctx context.Context, delivery *model.Delivery) error
}

type deliveryRepository struct{ db *gorm.DB }

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository { return &deliveryRepository{db: db} }

func (r *deliveryRepository) Create(ctx context.Context, delivery *model.Delivery) error {
	return r.db.WithContext(ctx).Create(delivery).Error
}

func (r *deliveryRepository) GetByID(ctx context.Context, id string) (*model.Delivery, error) {
	var delivery model.Delivery
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&delivery).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *deliveryRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Delivery, error) {
	var delivery model.Delivery
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&delivery).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *deliveryRepository) Save(ctx context.Context, delivery *model.Delivery) error {
	return r.db.WithContext(ctx).Save(delivery).Error
}
