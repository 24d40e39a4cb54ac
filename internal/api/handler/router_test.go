package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/food-ordering/config"
	"github.com/d60-Lab/food-ordering/internal/api/middleware"
	"github.com/d60-Lab/food-ordering/internal/bootstrap"
	"github.com/d60-Lab/food-ordering/internal/model"
	"github.com/d60-Lab/food-ordering/internal/repository"
	"github.com/d60-Lab/food-ordering/internal/service"
)

const testSecret = "test-secret"

type dropNotifier struct{}

func (dropNotifier) Publish(string, any)       {}
func (dropNotifier) PublishToUser(string, any) {}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Address{},
		&model.Restaurant{}, &model.MenuItem{},
		&model.Order{}, &model.OrderItem{},
		&model.Payment{}, &model.Delivery{},
	))
	require.NoError(t, bootstrap.Seed(db))

	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	addressRepo := repository.NewAddressRepository(db)

	sched := service.NewScheduler()
	notifier := dropNotifier{}
	deliverySvc := service.NewDeliveryService(deliveryRepo, orderRepo, notifier, sched)
	orderSvc := service.NewOrderService(orderRepo, paymentRepo, restaurantRepo, addressRepo, notifier, sched)
	paymentSvc := service.NewPaymentService(orderRepo, paymentRepo, deliverySvc)

	cfg := &config.Config{}
	cfg.Server.Mode = "release"
	cfg.Server.RateLimit = 1000
	cfg.Server.RateBurst = 1000
	cfg.JWT.Secret = testSecret

	return NewRouter(cfg, NewHandler(orderSvc, paymentSvc, deliverySvc))
}

func signToken(t *testing.T, userID, email, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &middleware.Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouterRequiresAuth(t *testing.T) {
	h := newTestRouter(t)

	w := doJSON(t, h, http.MethodGet, "/api/v1/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/orders", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthIsPublic(t *testing.T) {
	h := newTestRouter(t)
	w := doJSON(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateOrderEndToEnd(t *testing.T) {
	h := newTestRouter(t)
	token := signToken(t, bootstrap.SeedCustomerID, "customer@kmato.com", model.RoleCustomer)

	body := map[string]any{
		"restaurant_id":       bootstrap.SeedRestaurantID,
		"delivery_address_id": bootstrap.SeedAddressID,
		"payment_method":      "CARD",
		"items": []map[string]any{
			{"menu_item_id": "00000000-0000-0000-0000-000000000301", "quantity": 2},
		},
	}
	w := doJSON(t, h, http.MethodPost, "/api/v1/orders", token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data model.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.OrderStatusPending, resp.Data.Status)
	assert.InDelta(t, 240.0, resp.Data.TotalAmount, 1e-9)

	// 支付后订单进入 CONFIRMED
	w = doJSON(t, h, http.MethodPost, "/api/v1/orders/"+resp.Data.ID+"/pay", token,
		map[string]any{"payment_method": "CARD"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.OrderStatusConfirmed, resp.Data.Status)
}

func TestCreateOrderRejectsUnknownPaymentMethod(t *testing.T) {
	h := newTestRouter(t)
	token := signToken(t, bootstrap.SeedCustomerID, "customer@kmato.com", model.RoleCustomer)

	body := map[string]any{
		"restaurant_id":       bootstrap.SeedRestaurantID,
		"delivery_address_id": bootstrap.SeedAddressID,
		"payment_method":      "BARTER",
		"items": []map[string]any{
			{"menu_item_id": "00000000-0000-0000-0000-000000000301", "quantity": 1},
		},
	}
	w := doJSON(t, h, http.MethodPost, "/api/v1/orders", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatusForbiddenForNonOwner(t *testing.T) {
	h := newTestRouter(t)
	customer := signToken(t, bootstrap.SeedCustomerID, "customer@kmato.com", model.RoleCustomer)

	body := map[string]any{
		"restaurant_id":       bootstrap.SeedRestaurantID,
		"delivery_address_id": bootstrap.SeedAddressID,
		"payment_method":      "CARD",
		"items": []map[string]any{
			{"menu_item_id": "00000000-0000-0000-0000-000000000301", "quantity": 1},
		},
	}
	w := doJSON(t, h, http.MethodPost, "/api/v1/orders", customer, body)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data model.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(t, h, http.MethodPut, "/api/v1/orders/"+resp.Data.ID+"/status?status=PREPARING", customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	owner := signToken(t, bootstrap.SeedOwnerID, "owner@kmato.com", model.RoleRestaurantOwner)
	w = doJSON(t, h, http.MethodPut, "/api/v1/orders/"+resp.Data.ID+"/status?status=PREPARING", owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
