package service

import (
	"context"
	"time"

	"github.com/d60-Lab/food-ordering/internal/model"
)

// 自动推进序列：下单后 10s CONFIRMED、40s PREPARING、70s OUT_FOR_DELIVERY。
// 终态 DELIVERED 由配送链独占推进，避免两条链竞争同一终态迁移。
var progressionStages = []struct {
	After  time.Duration
	Status model.OrderStatus
}{
	{10 * time.Second, model.OrderStatusConfirmed},
	{40 * time.Second, model.OrderStatusPreparing},
	{70 * time.Second, model.OrderStatusOutForDelivery},
}

func (s *orderService) startProgression(orderID string, epoch int64) {
	for _, stage := range progressionStages {
		stage := stage
		s.sched.AfterFunc(stage.After, func() {
			s.advanceStage(orderID, stage.Status, epoch)
		})
	}
}

// advanceStage 定时回调：epoch 过期或订单已到终态时不生效。
// 回调没有调用方可上报，任何失败一律吞掉。
func (s *orderService) advanceStage(orderID string, status model.OrderStatus, epoch int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ok, err := s.orders.AdvanceStage(ctx, orderID, status, epoch, time.Now())
	if err != nil || !ok {
		return
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return
	}
	s.notifyOrder(order)
}
