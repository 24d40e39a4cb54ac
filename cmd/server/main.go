package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/food-ordering/config"
	"github.com/d60-Lab/food-ordering/internal/api/handler"
	"github.com/d60-Lab/food-ordering/internal/bootstrap"
	"github.com/d60-Lab/food-ordering/internal/model"
	"github.com/d60-Lab/food-ordering/internal/repository"
	"github.com/d60-Lab/food-ordering/internal/service"
	"github.com/d60-Lab/food-ordering/pkg/database"
	"github.com/d60-Lab/food-ordering/pkg/logger"
	"github.com/d60-Lab/food-ordering/pkg/tracing"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Server.Mode); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	if cfg.Tracing.Endpoint != "" {
		shutdown := must(tracing.Init(ctx, "food-ordering", cfg.Tracing.Endpoint))
		defer func() { _ = shutdown(context.Background()) }()
	}

	db := must(database.InitDB(cfg))
	must(0, db.AutoMigrate(
		&model.User{}, &model.Address{},
		&model.Restaurant{}, &model.MenuItem{},
		&model.Order{}, &model.OrderItem{},
		&model.Payment{}, &model.Delivery{},
	))
	if cfg.Server.Seed {
		must(0, bootstrap.Seed(db))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	notifier := service.NewRedisNotifier(rdb, cfg.Notify.QueueSize)
	stopNotifier := notifier.Start()

	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	addressRepo := repository.NewAddressRepository(db)

	sched := service.NewScheduler()
	deliverySvc := service.NewDeliveryService(deliveryRepo, orderRepo, notifier, sched)
	orderSvc := service.NewOrderService(orderRepo, paymentRepo, restaurantRepo, addressRepo, notifier, sched)
	paymentSvc := service.NewPaymentService(orderRepo, paymentRepo, deliverySvc)

	h := handler.NewHandler(orderSvc, paymentSvc, deliverySvc)
	router := handler.NewRouter(cfg, h)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	if err := stopNotifier(shutdownCtx); err != nil {
		logger.Warn("notifier drain interrupted", zap.Error(err))
	}
	_ = rdb.Close()
}
