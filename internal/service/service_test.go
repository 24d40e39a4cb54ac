package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/food-ordering/internal/model"
	"github.com/d60-Lab/food-ordering/internal/repository"
)

// fakeScheduler 虚拟时钟：Advance 推进后按到期顺序执行回调
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []fakeTimer
}

type fakeTimer struct {
	at time.Duration
	fn func()
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers = append(s.timers, fakeTimer{at: s.now + d, fn: fn})
}

func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due, rest []fakeTimer
	for _, t := range s.timers {
		if t.at <= s.now {
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	s.timers = rest
	s.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

// memoryNotifier 记录所有发布事件，便于断言
type memoryNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Channel string
	Payload any
}

func (n *memoryNotifier) Publish(topic string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, publishedEvent{Channel: topic, Payload: payload})
}

func (n *memoryNotifier) PublishToUser(userID string, payload any) {
	n.Publish(UserChannel(userID), payload)
}

func (n *memoryNotifier) channels() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Channel
	}
	return out
}

const (
	testCustomerID   = "cust-1"
	testOwnerID      = "owner-1"
	testRestaurantID = "rest-1"
	testAddressID    = "addr-1"
	testItemPaneerID = "menu-1" // 100.0
	testItemNaanID   = "menu-2" // 50.0
	testItemOffID    = "menu-3" // 不可售
)

var (
	asCustomer = Identity{UserID: testCustomerID, Email: "customer@example.com", Role: model.RoleCustomer}
	asOwner    = Identity{UserID: testOwnerID, Email: "owner@example.com", Role: model.RoleRestaurantOwner}
)

type fixture struct {
	db         *gorm.DB
	sched      *fakeScheduler
	notifier   *memoryNotifier
	orderRepo  repository.OrderRepository
	deliveries repository.DeliveryRepository
	payments   repository.PaymentRepository

	orderSvc    OrderService
	paymentSvc  PaymentService
	deliverySvc DeliveryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Address{},
		&model.Restaurant{}, &model.MenuItem{},
		&model.Order{}, &model.OrderItem{},
		&model.Payment{}, &model.Delivery{},
	))

	now := time.Now()
	require.NoError(t, db.Create(&model.Restaurant{
		ID: testRestaurantID, OwnerID: testOwnerID, Name: "Spice Garden", IsOpen: true, CreatedAt: now,
	}).Error)
	require.NoError(t, db.Create(&model.Address{
		ID: testAddressID, UserID: testCustomerID, Line1: "42 Lake View", CreatedAt: now,
	}).Error)
	require.NoError(t, db.Create(&model.MenuItem{
		ID: testItemPaneerID, RestaurantID: testRestaurantID, Name: "Paneer Tikka", Price: 100.0, IsAvailable: true, CreatedAt: now,
	}).Error)
	require.NoError(t, db.Create(&model.MenuItem{
		ID: testItemNaanID, RestaurantID: testRestaurantID, Name: "Butter Naan", Price: 50.0, IsAvailable: true, CreatedAt: now,
	}).Error)
	require.NoError(t, db.Create(&model.MenuItem{
		ID: testItemOffID, RestaurantID: testRestaurantID, Name: "Seasonal Special", Price: 150.0, IsAvailable: false, CreatedAt: now,
	}).Error)

	sched := &fakeScheduler{}
	notifier := &memoryNotifier{}

	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	addressRepo := repository.NewAddressRepository(db)

	deliverySvc := NewDeliveryService(deliveryRepo, orderRepo, notifier, sched)
	orderSvc := NewOrderService(orderRepo, paymentRepo, restaurantRepo, addressRepo, notifier, sched)
	paymentSvc := NewPaymentService(orderRepo, paymentRepo, deliverySvc)

	return &fixture{
		db:          db,
		sched:       sched,
		notifier:    notifier,
		orderRepo:   orderRepo,
		deliveries:  deliveryRepo,
		payments:    paymentRepo,
		orderSvc:    orderSvc,
		paymentSvc:  paymentSvc,
		deliverySvc: deliverySvc,
	}
}

// twoItemOrder 两行订单：100×1 + 50×2，小计 200
func twoItemOrder() CreateOrderInput {
	return CreateOrderInput{
		RestaurantID:      testRestaurantID,
		DeliveryAddressID: testAddressID,
		Items: []OrderItemInput{
			{MenuItemID: testItemPaneerID, Quantity: 1},
			{MenuItemID: testItemNaanID, Quantity: 2},
		},
		PaymentMethod: "CARD",
	}
}

func (f *fixture) reloadOrder(t *testing.T, orderID string) *model.Order {
	t.Helper()
	order, err := f.orderRepo.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	return order
}
