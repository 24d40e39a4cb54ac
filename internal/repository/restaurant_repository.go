package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/food-ordering/internal/model"
)

// RestaurantRepository 餐厅与菜单的只读查询（下单时使用）
type RestaurantRepository interface {
	GetByID(ctx context.Context, id string) (*model.Restaurant, error)
	GetMenuItem(ctx context.Context, id string) (*model.MenuItem, error)
}

type restaurantRepository struct{ db *gorm.DB }

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository { return &restaurantRepository{db: db} }

func (r *restaurantRepository) GetByID(ctx context.Context, id string) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepository) GetMenuItem(ctx context.Context, id string) (*model.MenuItem, error) {
	var item model.MenuItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}
