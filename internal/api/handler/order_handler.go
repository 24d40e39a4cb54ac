package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/food-ordering/internal/api/middleware"
	"github.com/d60-Lab/food-ordering/internal/service"
	"github.com/d60-Lab/food-ordering/pkg/response"
)

type orderItemRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
}

type createOrderRequest struct {
	RestaurantID        string             `json:"restaurant_id" binding:"required"`
	DeliveryAddressID   string             `json:"delivery_address_id" binding:"required"`
	Items               []orderItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod       string             `json:"payment_method" binding:"required,paymethod"`
	SpecialInstructions string             `json:"special_instructions"`
}

// CreateOrder 创建订单并启动自动推进
// @Summary 下单
// @Tags 订单
// @Accept json
// @Produce json
// @Param request body createOrderRequest true "订单信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	items := make([]service.OrderItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.OrderItemInput{MenuItemID: it.MenuItemID, Quantity: it.Quantity}
	}
	input := service.CreateOrderInput{
		RestaurantID:      req.RestaurantID,
		DeliveryAddressID: req.DeliveryAddressID,
		Items:             items,
		PaymentMethod:     req.PaymentMethod,
		Instructions:      req.SpecialInstructions,
	}

	order, err := h.orderSvc.CreateOrder(c.Request.Context(), middleware.IdentityFrom(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, order)
}

// GetOrder 查询单笔订单
// @Summary 订单详情
// @Tags 订单
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response
// @Router /api/v1/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.orderSvc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders 查询当前客户的订单（按创建时间倒序）
// @Summary 我的订单
// @Tags 订单
// @Success 200 {object} response.Response
// @Router /api/v1/orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orderSvc.ListCustomerOrders(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, orders)
}

// LatestOrder 查询当前客户最近一笔订单
// @Summary 最近订单
// @Tags 订单
// @Success 200 {object} response.Response
// @Router /api/v1/orders/latest [get]
func (h *Handler) LatestOrder(c *gin.Context) {
	order, err := h.orderSvc.LatestCustomerOrder(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消订单
// @Summary 取消订单
// @Tags 订单
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/orders/{id}/cancel [put]
func (h *Handler) CancelOrder(c *gin.Context) {
	order, err := h.orderSvc.CancelOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 餐厅侧更新订单状态
// @Summary 更新订单状态
// @Tags 订单
// @Param id path string true "订单ID"
// @Param status query string true "目标状态"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/orders/{id}/status [put]
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		response.BadRequest(c, "status is required")
		return
	}
	order, err := h.orderSvc.UpdateOrderStatus(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, order)
}

// ListRestaurantOrders 餐厅侧查询本店订单
// @Summary 餐厅订单列表
// @Tags 订单
// @Param id path string true "餐厅ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/restaurants/{id}/orders [get]
func (h *Handler) ListRestaurantOrders(c *gin.Context) {
	orders, err := h.orderSvc.ListRestaurantOrders(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, orders)
}
