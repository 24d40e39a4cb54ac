package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/food-ordering/internal/model"
)

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Create 创建订单（连同订单行）
	Create(ctx context.Context, order *model.Order) error

	// GetByID 根据订单ID查询订单（预加载订单行与配送记录）
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// Save 保存订单快照
	Save(ctx context.Context, order *model.Order) error

	// ListByCustomer 查询某客户的订单，按创建时间倒序
	ListByCustomer(ctx context.Context, customerID string) ([]*model.Order, error)

	// LatestByCustomer 查询某客户最近一笔订单
	LatestByCustomer(ctx context.Context, customerID string) (*model.Order, error)

	// ListByRestaurant 查询某餐厅的订单
	ListByRestaurant(ctx context.Context, restaurantID string) ([]*model.Order, error)

	// AdvanceStage 条件推进状态：epoch 过期或已到终态则不生效
	AdvanceStage(ctx context.Context, orderID string, status model.OrderStatus, epoch int64, at time.Time) (bool, error)

	// MarkDelivered 终态置为 DELIVERED 的条件更新，可被任意调用方安全重试
	MarkDelivered(ctx context.Context, orderID string, at time.Time) (bool, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepository{db: db} }

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Delivery").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Save(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Delivery").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) LatestByCustomer(ctx context.Context, customerID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Delivery").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Delivery").
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

var terminalStatuses = []model.OrderStatus{model.OrderStatusDelivered, model.OrderStatusCancelled}

func (r *orderRepository) AdvanceStage(ctx context.Context, orderID string, status model.OrderStatus, epoch int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND progress_epoch = ? AND status NOT IN ?", orderID, epoch, terminalStatuses).
		Updates(map[string]any{"status": status, "updated_at": at})
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepository) MarkDelivered(ctx context.Context, orderID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status NOT IN ?", orderID, terminalStatuses).
		Updates(map[string]any{"status": model.OrderStatusDelivered, "delivered_at": at, "updated_at": at})
	return res.RowsAffected > 0, res.Error
}
