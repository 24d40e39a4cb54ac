package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/food-ordering/internal/model"
	"github.com/d60-Lab/food-ordering/internal/repository"
)

// DeliveryService 配送定时链：创建配送记录并排期
// SCHEDULED→PICKED_UP→IN_TRANSIT→DELIVERED 的延时回调
type DeliveryService interface {
	ScheduleDelivery(ctx context.Context, order *model.Order) (*model.Delivery, error)
	UpdateDeliveryStatus(ctx context.Context, deliveryID, status string) (*model.Delivery, error)
}

type deliveryService struct {
	deliveries repository.DeliveryRepository
	orders     repository.OrderRepository
	notifier   Notifier
	sched      Scheduler
}

func NewDeliveryService(deliveries repository.DeliveryRepository, orders repository.OrderRepository, notifier Notifier, sched Scheduler) DeliveryService {
	return &deliveryService{deliveries: deliveries, orders: orders, notifier: notifier, sched: sched}
}

func (s *deliveryService) ScheduleDelivery(ctx context.Context, order *model.Order) (*model.Delivery, error) {
	// 每笔订单只创建一次配送；重复的支付解析不再生成第二条链
	if existing, err := s.deliveries.GetByOrderID(ctx, order.ID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	etaSeconds := 30 + rand.Intn(91) // 30..120 秒
	delivery := &model.Delivery{
		ID:             uuid.New().String(),
		OrderID:        order.ID,
		Status:         model.DeliveryStatusScheduled,
		AssignedDriver: fmt.Sprintf("Driver-%d", rand.Intn(90)+10),
		EtaSeconds:     etaSeconds,
		ScheduledAt:    now,
		UpdatedAt:      now,
	}
	if err := s.deliveries.Create(ctx, delivery); err != nil {
		return nil, fmt.Errorf("create delivery: %w", err)
	}

	order.Delivery = delivery

	s.notifier.Publish(OrderTopic(order.ID), delivery)
	s.notifier.PublishToUser(order.CustomerID, delivery)

	pickedUpDelay := 5 * time.Second
	inTransitDelay := time.Duration(max(10, etaSeconds/2)) * time.Second
	deliveredDelay := time.Duration(etaSeconds) * time.Second

	deliveryID := delivery.ID
	s.sched.AfterFunc(pickedUpDelay, func() { s.applyStatus(deliveryID, model.DeliveryStatusPickedUp) })
	s.sched.AfterFunc(inTransitDelay, func() { s.applyStatus(deliveryID, model.DeliveryStatusInTransit) })
	s.sched.AfterFunc(deliveredDelay, func() { s.applyStatus(deliveryID, model.DeliveryStatusDelivered) })

	return delivery, nil
}

func (s *deliveryService) UpdateDeliveryStatus(ctx context.Context, deliveryID, status string) (*model.Delivery, error) {
	newStatus, err := model.ParseDeliveryStatus(status)
	if err != nil {
		return nil, err
	}

	delivery, err := s.deliveries.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, orNotFound(err, "delivery not found")
	}

	delivery.Status = newStatus
	delivery.UpdatedAt = time.Now()
	if err := s.deliveries.Save(ctx, delivery); err != nil {
		return nil, fmt.Errorf("save delivery: %w", err)
	}

	s.notifyDelivery(ctx, delivery)
	if newStatus == model.DeliveryStatusDelivered {
		s.completeOrder(ctx, delivery.OrderID)
	}
	return delivery, nil
}

// applyStatus 定时回调：配送记录已不存在则静默退出
func (s *deliveryService) applyStatus(deliveryID string, status model.DeliveryStatus) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	delivery, err := s.deliveries.GetByID(ctx, deliveryID)
	if err != nil {
		return
	}
	delivery.Status = status
	delivery.UpdatedAt = time.Now()
	if err := s.deliveries.Save(ctx, delivery); err != nil {
		return
	}

	s.notifyDelivery(ctx, delivery)
	if status == model.DeliveryStatusDelivered {
		s.completeOrder(ctx, delivery.OrderID)
	}
}

// completeOrder 配送完成时对父订单做条件终态更新；
// 已取消或已送达时不生效，任意调用方可安全重试
func (s *deliveryService) completeOrder(ctx context.Context, orderID string) {
	ok, err := s.orders.MarkDelivered(ctx, orderID, time.Now())
	if err != nil || !ok {
		return
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return
	}
	s.notifier.Publish(OrderTopic(order.ID), order)
	s.notifier.PublishToUser(order.CustomerID, order)
}

// notifyDelivery 配送快照广播到订单频道与客户个人频道
func (s *deliveryService) notifyDelivery(ctx context.Context, delivery *model.Delivery) {
	s.notifier.Publish(OrderTopic(delivery.OrderID), delivery)
	if order, err := s.orders.GetByID(ctx, delivery.OrderID); err == nil {
		s.notifier.PublishToUser(order.CustomerID, delivery)
	}
}
