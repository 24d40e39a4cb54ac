package handler

import (
	"github.com/d60-Lab/food-ordering/internal/service"
)

// Handler 聚合各业务服务的 HTTP 处理器
type Handler struct {
	orderSvc    service.OrderService
	paymentSvc  service.PaymentService
	deliverySvc service.DeliveryService
}

func NewHandler(orderSvc service.OrderService, paymentSvc service.PaymentService, deliverySvc service.DeliveryService) *Handler {
	return &Handler{orderSvc: orderSvc, paymentSvc: paymentSvc, deliverySvc: deliverySvc}
}
