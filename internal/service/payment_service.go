package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/food-ordering/internal/model"
	"github.com/d60-Lab/food-ordering/internal/repository"
	"github.com/d60-Lab/food-ordering/pkg/logger"
)

// PaymentRequest 支付请求；MockOutcome 为空默认成功，
// 否则大小写不敏感匹配 COMPLETED/SUCCESS，其余一律失败
type PaymentRequest struct {
	Method      string
	MockOutcome string
}

// PaymentService 支付闸：解析支付结果并应用成功/失败分支
type PaymentService interface {
	ProcessPayment(ctx context.Context, orderID string, req PaymentRequest) (*model.Order, error)
}

type paymentService struct {
	orders     repository.OrderRepository
	payments   repository.PaymentRepository
	deliveries DeliveryService
}

func NewPaymentService(orders repository.OrderRepository, payments repository.PaymentRepository, deliveries DeliveryService) PaymentService {
	return &paymentService{orders: orders, payments: payments, deliveries: deliveries}
}

// ProcessPayment 期望每笔订单只调用一次；未加幂等护栏，
// 重复调用会重新解析并落库（重复排期由配送侧的已存在检查挡住）。
func (s *paymentService) ProcessPayment(ctx context.Context, orderID string, req PaymentRequest) (*model.Order, error) {
	payment, err := s.payments.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, orNotFound(err, "payment record not found for order")
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, orNotFound(err, "order not found")
	}

	outcome := strings.ToUpper(strings.TrimSpace(req.MockOutcome))
	success := outcome == "" || outcome == "COMPLETED" || outcome == "SUCCESS"
	now := time.Now()

	if success {
		payment.Status = model.PaymentStatusCompleted
		payment.TransactionID = "MOCK_TXN_" + uuid.New().String()
		payment.UpdatedAt = now
		if err := s.payments.Save(ctx, payment); err != nil {
			return nil, fmt.Errorf("save payment: %w", err)
		}

		order.PaymentStatus = model.PaymentStatusCompleted
		order.Status = model.OrderStatusConfirmed
		order.UpdatedAt = now
		if err := s.orders.Save(ctx, order); err != nil {
			return nil, fmt.Errorf("save order: %w", err)
		}

		// 配送排期失败不回滚支付
		if _, err := s.deliveries.ScheduleDelivery(ctx, order); err != nil {
			logger.Warn("delivery scheduling failed", zap.String("order_id", orderID), zap.Error(err))
		}
		return order, nil
	}

	payment.Status = model.PaymentStatusFailed
	payment.TransactionID = "MOCK_TXN_FAILED_" + uuid.New().String()
	payment.UpdatedAt = now
	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, fmt.Errorf("save payment: %w", err)
	}

	order.PaymentStatus = model.PaymentStatusFailed
	order.Status = model.OrderStatusCancelled
	order.UpdatedAt = now
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	return order, nil
}
