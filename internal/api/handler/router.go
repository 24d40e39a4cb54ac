package handler

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/food-ordering/config"
	"github.com/d60-Lab/food-ordering/internal/api/middleware"
)

// 支持的支付方式；大小写不敏感
var paymentMethods = map[string]bool{
	"CARD": true, "CASH": true, "UPI": true, "WALLET": true,
}

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("paymethod", func(fl validator.FieldLevel) bool {
			return paymentMethods[strings.ToUpper(fl.Field().String())]
		})
	}
}

// NewRouter 组装路由与中间件
func NewRouter(cfg *config.Config, h *Handler) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	registerValidations()

	r := gin.New()
	r.Use(
		gin.Logger(),
		middleware.Recovery(),
		gzip.Gzip(gzip.DefaultCompression),
		otelgin.Middleware("food-ordering"),
		middleware.RateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1", middleware.Auth(cfg.JWT.Secret))
	{
		orders := api.Group("/orders")
		{
			orders.POST("", h.CreateOrder)
			orders.GET("", h.ListOrders)
			orders.GET("/latest", h.LatestOrder)
			orders.GET("/:id", h.GetOrder)
			orders.PUT("/:id/cancel", h.CancelOrder)
			orders.PUT("/:id/status", h.UpdateOrderStatus)
			orders.POST("/:id/pay", h.ProcessPayment)
		}
		api.PUT("/deliveries/:id/status", h.UpdateDeliveryStatus)
		api.GET("/restaurants/:id/orders", h.ListRestaurantOrders)
	}

	return r
}
