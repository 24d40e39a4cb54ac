package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/food-ordering/internal/model"
	"github.com/d60-Lab/food-ordering/internal/repository"
	"github.com/d60-Lab/food-ordering/pkg/apperr"
)

const (
	// DeliveryFee 固定配送费；TaxRate 按菜品小计的 5% 计税（配送费不计税）
	DeliveryFee = 30.0
	TaxRate     = 0.05
)

// CreateOrderInput 下单入参
type CreateOrderInput struct {
	RestaurantID      string
	DeliveryAddressID string
	Items             []OrderItemInput
	PaymentMethod     string
	Instructions      string
}

type OrderItemInput struct {
	MenuItemID string
	Quantity   int
}

// OrderService 订单生命周期管理
type OrderService interface {
	CreateOrder(ctx context.Context, identity Identity, input CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	ListCustomerOrders(ctx context.Context, identity Identity) ([]*model.Order, error)
	LatestCustomerOrder(ctx context.Context, identity Identity) (*model.Order, error)
	ListRestaurantOrders(ctx context.Context, identity Identity, restaurantID string) ([]*model.Order, error)
	UpdateOrderStatus(ctx context.Context, identity Identity, orderID, status string) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*model.Order, error)
}

type orderService struct {
	orders      repository.OrderRepository
	payments    repository.PaymentRepository
	restaurants repository.RestaurantRepository
	addresses   repository.AddressRepository
	notifier    Notifier
	sched       Scheduler
}

func NewOrderService(
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	restaurants repository.RestaurantRepository,
	addresses repository.AddressRepository,
	notifier Notifier,
	sched Scheduler,
) OrderService {
	return &orderService{
		orders:      orders,
		payments:    payments,
		restaurants: restaurants,
		addresses:   addresses,
		notifier:    notifier,
		sched:       sched,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, identity Identity, input CreateOrderInput) (*model.Order, error) {
	if _, err := s.restaurants.GetByID(ctx, input.RestaurantID); err != nil {
		return nil, orNotFound(err, "restaurant not found")
	}

	address, err := s.addresses.GetByID(ctx, input.DeliveryAddressID)
	if err != nil {
		return nil, orNotFound(err, "address not found")
	}
	if address.UserID != identity.UserID {
		return nil, apperr.InvalidRequest("address does not belong to the customer")
	}

	if len(input.Items) == 0 {
		return nil, apperr.InvalidRequest("order must contain at least one item")
	}

	now := time.Now()
	orderID := uuid.New().String()

	items := make([]model.OrderItem, 0, len(input.Items))
	itemsTotal := 0.0
	for _, in := range input.Items {
		if in.Quantity < 1 {
			return nil, apperr.InvalidRequest("item quantity must be at least 1")
		}
		menuItem, err := s.restaurants.GetMenuItem(ctx, in.MenuItemID)
		if err != nil {
			return nil, orNotFound(err, "menu item not found")
		}
		if !menuItem.IsAvailable {
			return nil, apperr.InvalidRequest("menu item %s is not available", menuItem.Name)
		}
		subtotal := menuItem.Price * float64(in.Quantity)
		itemsTotal += subtotal
		items = append(items, model.OrderItem{
			ID:         uuid.New().String(),
			OrderID:    orderID,
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   in.Quantity,
			Subtotal:   subtotal,
			CreatedAt:  now,
		})
	}

	taxAmount := itemsTotal * TaxRate
	totalAmount := itemsTotal + DeliveryFee + taxAmount

	order := &model.Order{
		ID:                orderID,
		CustomerID:        identity.UserID,
		RestaurantID:      input.RestaurantID,
		DeliveryAddressID: input.DeliveryAddressID,
		Items:             items,
		TotalAmount:       totalAmount,
		DeliveryFee:       DeliveryFee,
		TaxAmount:         taxAmount,
		Status:            model.OrderStatusPending,
		PaymentMethod:     input.PaymentMethod,
		PaymentStatus:     model.PaymentStatusPending,
		Instructions:      input.Instructions,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	payment := &model.Payment{
		ID:        uuid.New().String(),
		OrderID:   orderID,
		Amount:    totalAmount,
		Method:    input.PaymentMethod,
		Status:    model.PaymentStatusPending,
		CreatedAt: now,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.notifyOrder(order)
	s.startProgression(orderID, order.ProgressEpoch)

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, orNotFound(err, "order not found")
	}
	return order, nil
}

func (s *orderService) ListCustomerOrders(ctx context.Context, identity Identity) ([]*model.Order, error) {
	return s.orders.ListByCustomer(ctx, identity.UserID)
}

func (s *orderService) LatestCustomerOrder(ctx context.Context, identity Identity) (*model.Order, error) {
	order, err := s.orders.LatestByCustomer(ctx, identity.UserID)
	if err != nil {
		return nil, orNotFound(err, "no orders found for user")
	}
	return order, nil
}

func (s *orderService) ListRestaurantOrders(ctx context.Context, identity Identity, restaurantID string) ([]*model.Order, error) {
	restaurant, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, orNotFound(err, "restaurant not found")
	}
	if restaurant.OwnerID != identity.UserID {
		return nil, apperr.PermissionDenied("not authorized to view orders for this restaurant")
	}
	return s.orders.ListByRestaurant(ctx, restaurantID)
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, identity Identity, orderID, status string) (*model.Order, error) {
	newStatus, err := model.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, orNotFound(err, "order not found")
	}

	restaurant, err := s.restaurants.GetByID(ctx, order.RestaurantID)
	if err != nil {
		return nil, orNotFound(err, "restaurant not found")
	}
	if restaurant.OwnerID != identity.UserID {
		return nil, apperr.PermissionDenied("not authorized to update status for this order")
	}

	now := time.Now()
	order.Status = newStatus
	order.UpdatedAt = now
	if newStatus == model.OrderStatusDelivered {
		order.DeliveredAt = &now
	} else {
		order.DeliveredAt = nil
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	s.notifyOrder(order)
	return order, nil
}

func (s *orderService) CancelOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, orNotFound(err, "order not found")
	}

	if order.Status == model.OrderStatusDelivered {
		return nil, apperr.InvalidState("cannot cancel delivered order")
	}
	if order.Status == model.OrderStatusOutForDelivery {
		return nil, apperr.InvalidState("cannot cancel order that is out for delivery")
	}

	order.Status = model.OrderStatusCancelled
	order.UpdatedAt = time.Now()
	// epoch 递增使所有已排期的推进回调失效
	order.ProgressEpoch++
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	s.notifyOrder(order)
	return order, nil
}

// notifyOrder 订单快照三路广播：订单频道、餐厅频道、客户个人频道
func (s *orderService) notifyOrder(order *model.Order) {
	s.notifier.Publish(OrderTopic(order.ID), order)
	s.notifier.Publish(RestaurantOrdersTopic(order.RestaurantID), order)
	s.notifier.PublishToUser(order.CustomerID, order)
}

func orNotFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(format, args...)
	}
	return err
}
