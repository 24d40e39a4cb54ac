package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/food-ordering/internal/service"
	"github.com/d60-Lab/food-ordering/pkg/response"
)

type paymentRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,paymethod"`
	// MockOutcome 缺省为成功；COMPLETED/SUCCESS 之外的值视为失败
	MockOutcome string `json:"mock_outcome"`
}

// ProcessPayment 解析订单支付结果
// @Summary 支付订单
// @Tags 支付
// @Accept json
// @Produce json
// @Param id path string true "订单ID"
// @Param request body paymentRequest true "支付信息"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/orders/{id}/pay [post]
func (h *Handler) ProcessPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := h.paymentSvc.ProcessPayment(c.Request.Context(), c.Param("id"), service.PaymentRequest{
		Method:      req.PaymentMethod,
		MockOutcome: req.MockOutcome,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, order)
}
