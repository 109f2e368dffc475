package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	adminctl "storefront/api/admin"
	authctl "storefront/api/auth"
	cartctl "storefront/api/cart"
	"storefront/api/health"
	orderctl "storefront/api/order"
	paymentctl "storefront/api/payment"
	userctl "storefront/api/user"
	adminapp "storefront/application/admin"
	authapp "storefront/application/auth"
	cartapp "storefront/application/cart"
	checkoutapp "storefront/application/checkout"
	orderapp "storefront/application/order"
	paymentapp "storefront/application/payment"
	userapp "storefront/application/user"
	"storefront/config"
	"storefront/domain/identity"
	"storefront/domain/order"
	"storefront/infrastructure/auth"
	"storefront/infrastructure/cartstore"
	"storefront/infrastructure/export"
	"storefront/infrastructure/gateway"
	"storefront/infrastructure/persistence/memory"
	"storefront/infrastructure/persistence/retry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
}

type testServer struct {
	engine   *gin.Engine
	tokens   *auth.TokenManager
	orders   *memory.OrderRepository
	seed     *memory.SampleData
	gateway  *httptest.Server
	lastAuth string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	ts := &testServer{}

	ts.gateway = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.lastAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)
	}))
	t.Cleanup(ts.gateway.Close)

	cfg := &config.Config{
		App: config.AppConfig{Name: "storefront", Version: "test", Env: "test"},
		Auth: config.AuthConfig{
			UserCookie:    "auth-token",
			AdminCookie:   "admin-token",
			UserTokenTTL:  7 * 24 * time.Hour,
			AdminTokenTTL: 8 * time.Hour,
			AdminUsername: "admin",
		},
		Gateway: config.GatewayConfig{
			Mode:       "sandbox",
			ClientKey:  "client",
			SecretKey:  "secret",
			SandboxURL: ts.gateway.URL,
			Timeout:    2 * time.Second,
		},
		Storefront: config.StorefrontConfig{BaseURL: "https://shop.example.com"},
		CORS: config.CORSConfig{
			AllowOrigins:     []string{"https://shop.example.com"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           time.Hour,
		},
	}

	tokens, err := auth.NewTokenManager("0123456789abcdef0123456789abcdef", "storefront-test")
	require.NoError(t, err)
	ts.tokens = tokens
	hasher := auth.NewHasher(bcrypt.MinCost)
	adminHash, err := hasher.Hash("admin-secret")
	require.NoError(t, err)

	users := memory.NewUserRepository()
	ts.orders = memory.NewOrderRepository()
	ts.seed, err = memory.Seed(ctx, users, ts.orders, "unused")
	require.NoError(t, err)

	retryCfg := retry.DefaultConfig
	retryCfg.InitialDelay = time.Millisecond
	uow := memory.NewUnitOfWorkFactory(nil)
	mutator := orderapp.NewMutator(ts.orders, uow, retryCfg)
	carts := cartstore.NewMemoryStore()

	authService := authapp.NewService(users, uow, tokens, hasher, authapp.Settings{
		UserTokenTTL:      cfg.Auth.UserTokenTTL,
		AdminTokenTTL:     cfg.Auth.AdminTokenTTL,
		AdminUsername:     "admin",
		AdminPasswordHash: adminHash,
	})
	checkoutService := checkoutapp.NewService(ts.orders, users, uow, checkoutapp.GatewaySettings{ClientKey: "client"})
	paymentService := paymentapp.NewService(ts.orders, mutator, carts, gateway.NewClient(cfg.Gateway), paymentapp.Options{
		StorefrontURL: cfg.Storefront.BaseURL,
	})

	router := NewRouter(cfg, tokens, Controllers{
		Health:  health.NewController(cfg, nil),
		Auth:    authctl.NewController(authService, authctl.CookieSettings{UserCookie: "auth-token", AdminCookie: "admin-token"}),
		User:    userctl.NewController(userapp.NewApplicationService(users, uow, retryCfg)),
		Cart:    cartctl.NewController(cartapp.NewService(carts)),
		Order:   orderctl.NewController(orderapp.NewApplicationService(ts.orders)),
		Payment: paymentctl.NewController(checkoutService, paymentService),
		Admin:   adminctl.NewController(adminapp.NewService(ts.orders, users, mutator, uow, retryCfg), nil),
	})
	router.SetupRoutes()
	ts.engine = router.GetEngine()
	return ts
}

func (ts *testServer) token(t *testing.T, id identity.Identity) string {
	t.Helper()
	token, err := ts.tokens.Issue(id, time.Hour)
	require.NoError(t, err)
	return token
}

func (ts *testServer) customerCookie(t *testing.T, index int) *http.Cookie {
	u := ts.seed.Users[index]
	return &http.Cookie{Name: "auth-token", Value: ts.token(t, identity.Identity{
		SubjectID: u.ID(), Role: identity.RoleCustomer, Email: u.Email().Value(),
	})}
}

func (ts *testServer) adminCookie(t *testing.T) *http.Cookie {
	return &http.Cookie{Name: "admin-token", Value: ts.token(t, identity.Identity{SubjectID: "admin", Role: identity.RoleAdmin})}
}

func (ts *testServer) do(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestGuards(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		cookie *http.Cookie
		status int
		code   string
	}{
		{"no session", "/api/orders", nil, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"garbage token", "/api/orders", &http.Cookie{Name: "auth-token", Value: "nope"}, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"admin on customer route", "/api/orders", &http.Cookie{Name: "auth-token", Value: ts.adminCookie(t).Value}, http.StatusForbidden, "FORBIDDEN"},
		{"customer on admin route", "/api/admin/orders", &http.Cookie{Name: "admin-token", Value: ts.customerCookie(t, 0).Value}, http.StatusForbidden, "FORBIDDEN"},
		{"customer cookie does not open admin", "/api/admin/users", ts.customerCookie(t, 0), http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"admin verify", "/api/admin/verify", ts.adminCookie(t), http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cookies []*http.Cookie
			if tt.cookie != nil {
				cookies = append(cookies, tt.cookie)
			}
			rec := ts.do(http.MethodGet, tt.path, nil, cookies...)
			assert.Equal(t, tt.status, rec.Code)
			env := decode(t, rec)
			assert.Equal(t, tt.code, env.Error)
			assert.NotEmpty(t, env.RequestID)
		})
	}
}

func TestSignupLoginAndProfile(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"email": "park@example.com", "password": "secret1", "name": "박지성", "phone": "010-2222-3333",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cookie := findCookie(rec, "auth-token")
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 7*24*60*60, cookie.MaxAge)
	assert.NotContains(t, rec.Body.String(), cookie.Value, "token only travels in the cookie")

	rec = ts.do(http.MethodGet, "/api/user/profile", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile userapp.UserResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &profile))
	assert.Equal(t, "박지성", profile.Name)

	rec = ts.do(http.MethodPut, "/api/user/profile", map[string]any{
		"name": "박지성", "phone": "010-0000-0000", "address": map[string]string{"street": "테헤란로 1", "city": "서울"},
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"email": "PARK@example.com", "password": "secret1", "name": "중복",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EMAIL_EXISTS", decode(t, rec).Error)

	rec = ts.do(http.MethodPost, "/api/auth/signup", map[string]string{"email": "x@example.com", "password": "123", "name": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "short password")

	rec = ts.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "park@example.com", "password": "secret1", "remember": "yes"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown fields are rejected")

	rec = ts.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "park@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decode(t, rec).Error)

	rec = ts.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "park@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, findCookie(rec, "auth-token"))

	rec = ts.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := findCookie(rec, "auth-token")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestCheckoutVerifyAndOrders(t *testing.T) {
	ts := newTestServer(t)
	buyer := ts.customerCookie(t, 0)

	rec := ts.do(http.MethodPost, "/api/payment/create-order", map[string]any{
		"items": []map[string]any{
			{"id": "1", "name": "클래식 베이스볼 캡", "price": 45000, "quantity": 2},
		},
		"shippingInfo":  map[string]string{"name": "홍길동", "phone": "010-1234-5678", "address": "서울"},
		"paymentMethod": "card",
		"totalAmount":   90000,
	}, buyer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created checkoutapp.CreateOrderResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &created))
	assert.Equal(t, int64(90000), created.PaymentData.Amount)

	rec = ts.do(http.MethodPost, "/api/payment/create-order", map[string]any{
		"items":        []map[string]any{},
		"shippingInfo": map[string]string{"name": "홍길동", "phone": "010", "address": "서울"},
	}, buyer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stranger := ts.customerCookie(t, 1)
	rec = ts.do(http.MethodPost, "/api/payment/verify", map[string]any{
		"orderId": created.OrderID, "paymentResult": map[string]any{"resultCode": "0000"},
	}, stranger)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodPost, "/api/payment/verify", map[string]any{
		"orderId": created.OrderID, "paymentResult": map[string]any{"resultCode": "0000", "tid": "T-1"},
	}, buyer)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var verified paymentapp.VerifyResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &verified))
	assert.True(t, verified.Success)
	assert.Equal(t, "paid", verified.Order.Status)
	assert.NotNil(t, verified.Order.PaidAt)

	rec = ts.do(http.MethodPost, "/api/payment/verify", map[string]any{
		"orderId": created.OrderID, "paymentResult": map[string]any{"resultCode": "0000"},
	}, buyer)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INVALID_ORDER_STATE", decode(t, rec).Error)

	rec = ts.do(http.MethodPost, "/api/payment/verify", map[string]any{
		"orderId": "ORDER_0_missing", "paymentResult": map[string]any{"resultCode": "0000"},
	}, buyer)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", decode(t, rec).Error)

	rec = ts.do(http.MethodGet, "/api/orders", nil, buyer)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []orderapp.OrderResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &mine))
	require.Len(t, mine, 2)
	assert.Equal(t, created.OrderID, mine[0].ID)

	rec = ts.do(http.MethodGet, "/api/orders/"+created.OrderID, nil, stranger)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVerifyFailureReturns400(t *testing.T) {
	ts := newTestServer(t)
	buyer := ts.customerCookie(t, 0)

	cases := []struct {
		name   string
		result any
	}{
		{"rejected code", map[string]any{"resultCode": "9999"}},
		{"null result", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o, err := order.NewOrder(order.PostOptions{
				UserID:   ts.seed.Users[0].ID(),
				Items:    []order.ItemRequest{{ProductID: "1", Name: "캡", UnitPrice: 1000, Quantity: 1}},
				Shipping: order.ShippingInfo{Name: "홍길동", Phone: "010", Address: "서울"},
			})
			require.NoError(t, err)
			require.NoError(t, ts.orders.Save(context.Background(), o))

			rec := ts.do(http.MethodPost, "/api/payment/verify", map[string]any{
				"orderId": o.ID(), "paymentResult": tc.result,
			}, buyer)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			env := decode(t, rec)
			assert.Equal(t, "PAYMENT_FAILED", env.Error)
			assert.Equal(t, "Payment verification failed", env.Message)

			stored, err := ts.orders.FindByID(context.Background(), o.ID())
			require.NoError(t, err)
			assert.Equal(t, order.StatusFailed, stored.Status())
		})
	}
}

func TestPaymentCallbackRedirects(t *testing.T) {
	ts := newTestServer(t)
	o, err := order.NewOrder(order.PostOptions{
		UserID:   ts.seed.Users[0].ID(),
		Items:    []order.ItemRequest{{ProductID: "1", Name: "캡", UnitPrice: 45000, Quantity: 1}},
		Shipping: order.ShippingInfo{Name: "홍길동", Phone: "010", Address: "서울"},
	})
	require.NoError(t, err)
	require.NoError(t, ts.orders.Save(context.Background(), o))

	post := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/payment/callback", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		ts.engine.ServeHTTP(rec, req)
		return rec
	}

	rec := post(url.Values{"ResultCode": {"3001"}, "Moid": {o.ID()}, "Amt": {"45000"}, "TID": {"T-9"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://shop.example.com/order-success?orderId="+o.ID(), rec.Header().Get("Location"))

	stored, err := ts.orders.FindByID(context.Background(), o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, stored.Status())
	assert.Equal(t, "T-9", stored.Payment().Raw["TID"])

	rec = post(url.Values{"ResultCode": {"3001"}, "Moid": {"ORDER_0_missing"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://shop.example.com/order-failed", rec.Header().Get("Location"))
}

func TestPaymentProxyPassesThrough(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/payments", `{"amount":45000,"orderId":"ORDER_1"}`, ts.customerCookie(t, 0))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"amount":45000,"orderId":"ORDER_1"}`, rec.Body.String())
	assert.Equal(t, "Basic Y2xpZW50OnNlY3JldA==", ts.lastAuth)

	ts.gateway.Close()
	rec = ts.do(http.MethodPost, "/api/payments", `{}`, ts.customerCookie(t, 0))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "UPSTREAM_FAILURE", decode(t, rec).Error)
}

func TestWebhook(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/webhook", map[string]any{"orderId": "ORDER_1", "resultCode": "0000"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, string(decode(t, rec).Data))
}

func TestCartEndpoints(t *testing.T) {
	ts := newTestServer(t)
	buyer := ts.customerCookie(t, 0)

	rec := ts.do(http.MethodPost, "/api/cart/items", map[string]any{"id": "1", "name": "캡", "price": 45000, "quantity": 2}, buyer)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPatch, "/api/cart/items/1", map[string]any{"quantity": 3}, buyer)
	require.Equal(t, http.StatusOK, rec.Code)
	var cart cartapp.Response
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &cart))
	assert.Equal(t, int64(135000), cart.Total)

	rec = ts.do(http.MethodDelete, "/api/cart", nil, buyer)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAdminEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/admin/login", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodPost, "/api/admin/login", map[string]string{"username": "admin", "password": "admin-secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	admin := findCookie(rec, "admin-token")
	require.NotNil(t, admin)
	assert.Equal(t, 8*60*60, admin.MaxAge)

	rec = ts.do(http.MethodGet, "/api/admin/orders?status=shipped", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var shipped []orderapp.OrderResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &shipped))
	require.Len(t, shipped, 1)

	rec = ts.do(http.MethodGet, "/api/admin/orders?status=lost", nil, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rec).Error)

	rec = ts.do(http.MethodPatch, "/api/admin/orders/"+shipped[0].ID, map[string]string{"status": "processing"}, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do(http.MethodPatch, "/api/admin/orders/"+shipped[0].ID, map[string]string{"status": "delivered"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodPatch, "/api/admin/users/"+ts.seed.Users[2].ID(), map[string]string{"action": "activate"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(http.MethodPatch, "/api/admin/users/"+ts.seed.Users[2].ID(), map[string]string{"action": "delete"}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/api/admin/users?status=active&search=LEE", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []userapp.UserResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &users))
	assert.Len(t, users, 1)

	rec = ts.do(http.MethodGet, "/api/admin/reports?period=year", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var report adminapp.Report
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &report))
	assert.Equal(t, 3, report.Orders)
	assert.Equal(t, int64(45000+76000+42000), report.Revenue)

	rec = ts.do(http.MethodGet, "/api/admin/reports?period=month&format=xlsx", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sales-report-month-")

	rec = ts.do(http.MethodGet, "/api/admin/reports?period=decade", nil, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/api/admin/dashboard-stats", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats adminapp.DashboardStats
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &stats))
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 3, stats.TotalOrders)

	rec = ts.do(http.MethodPost, "/api/admin/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, findCookie(rec, "admin-token").Value)
}

func TestHealthAndCORS(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec = httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
