package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"food-ordering-api/config"
	"food-ordering-api/handlers"
	"food-ordering-api/payment"
	"food-ordering-api/routes"
	"food-ordering-api/service"
	"food-ordering-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	engine  *gin.Engine
	store   *storage.GormStore
	gateway *payment.RazorpayGateway
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:          "test_secret",
		TaxRateBasisPoints: 800,
	}
	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Seed(context.Background()))

	// test-mode gateway: local intents, real HMAC verification
	gateway := payment.NewRazorpayGateway("", "rzp_test", "rzp_secret", time.Second)
	orders := service.NewOrderService(store, gateway, cfg.TaxRateBasisPoints)
	h := handlers.New(cfg, store, orders)

	r := gin.New()
	routes.SetupRoutes(r, h, []byte(cfg.JWTSecret))
	return &testServer{engine: r, store: store, gateway: gateway}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
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
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func (ts *testServer) registerCustomer(t *testing.T, username, email string) string {
	t.Helper()
	w, out := ts.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": "hunter22",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return out["token"].(string)
}

func (ts *testServer) loginAdmin(t *testing.T) string {
	t.Helper()
	w, out := ts.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "admin@foodordering.local",
		"password": "admin1234",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return out["token"].(string)
}

// orderBody builds a checkout payload; the forged amounts exercise the
// server-side re-pricing guarantee.
func orderBody(restaurantID, menuItemID uint, qty int) gin.H {
	return gin.H{
		"orderData": gin.H{
			"restaurant_id":    restaurantID,
			"total_amount":     "0.01", // forged, must be ignored
			"delivery_address": "42 Test Lane",
			"payment_method":   "card",
		},
		"items": []gin.H{
			{"menu_item_id": menuItemID, "quantity": qty, "price": "0.01"}, // forged
		},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	token := ts.registerCustomer(t, "alice", "alice@example.com")
	assert.NotEmpty(t, token)

	// duplicate registration conflicts
	w, _ := ts.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice2", "email": "alice@example.com", "password": "hunter22",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// wrong password
	w, _ = ts.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// session restore
	w, out := ts.do(t, http.MethodGet, "/api/auth/user", token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := out["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "customer", user["role"])
}

func TestSelfRegistrationNeverGrantsAdmin(t *testing.T) {
	ts := newTestServer(t)

	w, out := ts.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "mallory", "email": "mallory@example.com", "password": "hunter22",
		"role": "admin", // must be ignored
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	user := out["user"].(map[string]interface{})
	assert.Equal(t, "customer", user["role"])
}

func TestListRestaurantsByCategory(t *testing.T) {
	ts := newTestServer(t)

	w, out := ts.do(t, http.MethodGet, "/api/restaurants?category=italian", "", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	restaurants := out["restaurants"].([]interface{})
	require.Len(t, restaurants, 1)
	r := restaurants[0].(map[string]interface{})
	assert.Equal(t, "Mario's Pizzeria", r["name"])
}

func TestPlaceOrderIgnoresForgedAmounts(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerCustomer(t, "alice", "alice@example.com")

	// Classic Burger 12.99 x 2, Burger Palace delivery 3.99, 8% tax:
	// 25.98 + 3.99 + 2.08 = 32.05
	w, out := ts.do(t, http.MethodPost, "/api/orders", token, orderBody(1, 1, 2), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	order := out["order"].(map[string]interface{})
	assert.Equal(t, "32.05", order["total_amount"])
	assert.Equal(t, "25.98", order["subtotal"])
	assert.Equal(t, "2.08", order["tax"])
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "pending", order["payment_status"])

	items := out["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "12.99", items[0].(map[string]interface{})["price"])
}

func TestPlaceOrderRequiresAuth(t *testing.T) {
	ts := newTestServer(t)
	w, _ := ts.do(t, http.MethodPost, "/api/orders", "", orderBody(1, 1, 1), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPlaceOrderMixedCartConflict(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerCustomer(t, "alice", "alice@example.com")

	body := orderBody(1, 1, 1)
	body["items"] = []gin.H{
		{"menu_item_id": 1, "quantity": 1}, // Burger Palace
		{"menu_item_id": 3, "quantity": 1}, // Mario's Pizzeria
	}
	w, out := ts.do(t, http.MethodPost, "/api/orders", token, body, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_cart", out["kind"])
}

func TestPlaceOrderIdempotencyKey(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerCustomer(t, "alice", "alice@example.com")
	headers := map[string]string{"Idempotency-Key": "checkout-1"}

	w, out := ts.do(t, http.MethodPost, "/api/orders", token, orderBody(1, 1, 1), headers)
	require.Equal(t, http.StatusCreated, w.Code)
	firstID := out["order"].(map[string]interface{})["id"]

	w, out = ts.do(t, http.MethodPost, "/api/orders", token, orderBody(1, 1, 1), headers)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, firstID, out["order"].(map[string]interface{})["id"])
}

func TestOrderVisibility(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.registerCustomer(t, "alice", "alice@example.com")
	bob := ts.registerCustomer(t, "bob", "bob@example.com")
	admin := ts.loginAdmin(t)

	w, out := ts.do(t, http.MethodPost, "/api/orders", alice, orderBody(1, 1, 1), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := fmt.Sprintf("%v", out["order"].(map[string]interface{})["id"])

	w, _ = ts.do(t, http.MethodGet, "/api/orders/"+orderID, bob, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = ts.do(t, http.MethodGet, "/api/orders/"+orderID, alice, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = ts.do(t, http.MethodGet, "/api/orders/"+orderID, admin, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = ts.do(t, http.MethodGet, "/api/orders/9999", admin, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderStatusTransitions(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.registerCustomer(t, "alice", "alice@example.com")
	admin := ts.loginAdmin(t)

	w, out := ts.do(t, http.MethodPost, "/api/orders", alice, orderBody(1, 1, 1), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := fmt.Sprintf("%v", out["order"].(map[string]interface{})["id"])
	statusPath := "/api/orders/" + orderID + "/status"

	// customer cannot confirm
	w, out = ts.do(t, http.MethodPatch, statusPath, alice, gin.H{"status": "confirmed"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_transition", out["kind"])

	// admin confirms, then starts preparing
	w, _ = ts.do(t, http.MethodPatch, statusPath, admin, gin.H{"status": "confirmed"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = ts.do(t, http.MethodPatch, statusPath, admin, gin.H{"status": "preparing"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// cancellation window has closed for the customer
	w, out = ts.do(t, http.MethodPatch, statusPath, alice, gin.H{"status": "cancelled"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_transition", out["kind"])
}

func TestCustomerCancelPendingOrder(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.registerCustomer(t, "alice", "alice@example.com")

	w, out := ts.do(t, http.MethodPost, "/api/orders", alice, orderBody(1, 1, 1), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := fmt.Sprintf("%v", out["order"].(map[string]interface{})["id"])

	w, out = ts.do(t, http.MethodPatch, "/api/orders/"+orderID+"/status", alice, gin.H{"status": "cancelled"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", out["order"].(map[string]interface{})["status"])
}

func TestPaymentCreateAndVerify(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.registerCustomer(t, "alice", "alice@example.com")

	w, out := ts.do(t, http.MethodPost, "/api/orders", alice, orderBody(1, 1, 2), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	orderNum := out["order"].(map[string]interface{})["id"].(float64)
	orderID := uint(orderNum)

	w, out = ts.do(t, http.MethodPost, "/api/payment/create", alice, gin.H{"order_id": orderID}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	intentID := out["intent_id"].(string)
	assert.Equal(t, "32.05", out["amount"])

	// provider-signed completion verifies and confirms the order
	sig := ts.gateway.Sign(intentID, "pay_123")
	w, out = ts.do(t, http.MethodPost, "/api/payment/verify", alice, gin.H{
		"order_id":            orderID,
		"razorpay_order_id":   intentID,
		"razorpay_payment_id": "pay_123",
		"razorpay_signature":  sig,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	order := out["order"].(map[string]interface{})
	assert.Equal(t, "completed", order["payment_status"])
	assert.Equal(t, "confirmed", order["status"])
}

func TestPaymentVerifyRejectsForgedSignature(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.registerCustomer(t, "alice", "alice@example.com")

	w, out := ts.do(t, http.MethodPost, "/api/orders", alice, orderBody(1, 1, 1), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := uint(out["order"].(map[string]interface{})["id"].(float64))

	w, out = ts.do(t, http.MethodPost, "/api/payment/create", alice, gin.H{"order_id": orderID}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	intentID := out["intent_id"].(string)

	w, out = ts.do(t, http.MethodPost, "/api/payment/verify", alice, gin.H{
		"order_id":            orderID,
		"razorpay_order_id":   intentID,
		"razorpay_payment_id": "pay_123",
		"razorpay_signature":  "forged",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "payment_rejected", out["kind"])
}

func TestAdminSurfaceRequiresAdminRole(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.registerCustomer(t, "alice", "alice@example.com")
	admin := ts.loginAdmin(t)

	w, _ := ts.do(t, http.MethodGet, "/api/admin/stats", alice, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, out := ts.do(t, http.MethodGet, "/api/admin/stats", admin, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), out["total_restaurants"])
}

func TestAdminManagesCatalog(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.loginAdmin(t)

	w, out := ts.do(t, http.MethodPost, "/api/admin/restaurants", admin, gin.H{
		"name":          "Taco Fiesta",
		"cuisine":       "Mexican",
		"delivery_time": "20-30 min",
		"delivery_fee":  "2.49",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	restaurantID := uint(out["restaurant"].(map[string]interface{})["id"].(float64))

	w, _ = ts.do(t, http.MethodPost, "/api/admin/menu-items", admin, gin.H{
		"restaurant_id": restaurantID,
		"name":          "Carnitas Taco",
		"price":         "4.99",
		"category":      "Tacos",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// soft-deactivation hides it from customers but keeps the record
	w, _ = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/restaurants/%d", restaurantID), admin, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = ts.do(t, http.MethodGet, fmt.Sprintf("/api/restaurants/%d", restaurantID), "", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, out = ts.do(t, http.MethodGet, "/api/admin/restaurants", admin, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(5), out["count"])
}

func TestAdminForceStatusOverride(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.registerCustomer(t, "alice", "alice@example.com")
	admin := ts.loginAdmin(t)

	w, out := ts.do(t, http.MethodPost, "/api/orders", alice, orderBody(1, 1, 1), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := fmt.Sprintf("%v", out["order"].(map[string]interface{})["id"])

	w, out = ts.do(t, http.MethodPatch, "/api/admin/orders/"+orderID+"/status", admin, gin.H{
		"status": "delivered",
		"reason": "courier confirmed by phone",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "delivered", out["new_status"])
}
