package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/food-ordering/pkg/response"
)

// UpdateDeliveryStatus 外部触发的配送状态更新
// @Summary 更新配送状态
// @Tags 配送
// @Param id path string true "配送ID"
// @Param status query string true "目标状态"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/deliveries/{id}/status [put]
func (h *Handler) UpdateDeliveryStatus(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		response.BadRequest(c, "status is required")
		return
	}
	delivery, err := h.deliverySvc.UpdateDeliveryStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, delivery)
}
