package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"storefront/internal/db/dbtest"
	"storefront/internal/domain"
	"storefront/internal/metrics"
	"storefront/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "api-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	logs   *logtest.Hook
}

func newTestServer(t *testing.T, checks map[string]CheckFunc) *testServer {
	t.Helper()
	gdb := dbtest.Open(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	log, hook := logtest.NewNullLogger()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	r, err := NewRouter(Deps{
		Config:   RouterConfig{JWTSecret: testSecret, CORSOrigins: []string{"*"}},
		Log:      log,
		Metrics:  m,
		Gatherer: reg,
		Services: Services{
			Auth:      service.NewAuthService(gdb, rdb, log, testSecret, time.Hour, time.Minute),
			Products:  service.NewProductService(gdb, rdb, log, time.Minute),
			Cart:      service.NewCartService(gdb, rdb, log, m),
			Addresses: service.NewAddressService(gdb, log),
			Checkout:  service.NewCheckoutService(gdb, rdb, log, m),
			Orders:    service.NewOrderService(gdb, rdb, log, time.Minute),
		},
		Checks: checks,
	})
	require.NoError(t, err)
	return &testServer{t: t, router: r, db: gdb, logs: hook}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// register signs a user up and returns a session token.
func (s *testServer) register(email string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/signup", "", gin.H{
		"name": "Ada", "email": email, "password": "correct-horse", "phone": "5550100",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/login", "", gin.H{"email": email, "password": "correct-horse"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return decode[service.LoginResult](s.t, w).Token
}

func (s *testServer) seedProduct(name string, price int64, stock int) uint {
	s.t.Helper()
	p := domain.Product{Name: name, Price: price, Stock: stock}
	require.NoError(s.t, s.db.Create(&p).Error)
	return p.ID
}

func (s *testServer) stock(productID uint) int {
	s.t.Helper()
	var p domain.Product
	require.NoError(s.t, s.db.First(&p, productID).Error)
	return p.Stock
}

func TestSignupAndLogin(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPost, "/signup", "", gin.H{"name": "Ada", "email": "ada@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "correct-horse")
	assert.NotContains(t, w.Body.String(), `"password"`)

	w = s.do(http.MethodPost, "/signup", "", gin.H{"name": "Ada", "email": "ADA@example.com", "password": "correct-horse"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/signup", "", gin.H{"name": "Ada", "email": "not-an-email", "password": "correct-horse"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/signup", "", gin.H{"name": "Ada", "email": "short@example.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/login", "", gin.H{"email": "ada@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[service.LoginResult](t, w).Token)

	w = s.do(http.MethodPost, "/login", "", gin.H{"email": "ada@example.com", "password": "wrong-horse"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/login", "", gin.H{"email": "nobody@example.com", "password": "correct-horse"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, nil)
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/cart"},
		{http.MethodPost, "/cart"},
		{http.MethodPut, "/cart/1"},
		{http.MethodDelete, "/cart/1"},
		{http.MethodGet, "/addresses"},
		{http.MethodPost, "/addresses"},
		{http.MethodPost, "/checkout"},
		{http.MethodGet, "/orders"},
	} {
		w := s.do(route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.method+" "+route.path)
	}
}

func TestCartEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.register("ada@example.com")
	tee := s.seedProduct("tee", 1500, 10)

	w := s.do(http.MethodPost, "/cart", token, gin.H{"productId": tee, "quantity": 3, "size": "M"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	added := decode[struct {
		Item domain.CartItem `json:"item"`
	}](t, w)
	assert.Equal(t, 3, added.Item.Quantity)
	assert.Equal(t, 7, s.stock(tee))

	w = s.do(http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	lines := decode[[]domain.CartLine](t, w)
	require.Len(t, lines, 1)
	assert.Equal(t, "tee", lines[0].Name)
	assert.Equal(t, int64(1500), lines[0].Price)

	itemPath := "/cart/" + strconv.FormatUint(uint64(added.Item.ID), 10)

	w = s.do(http.MethodPut, itemPath, token, gin.H{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 5, s.stock(tee))

	w = s.do(http.MethodPut, itemPath, token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/cart/abc", token, gin.H{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/cart", token, gin.H{"productId": tee, "quantity": 50})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/cart", token, gin.H{"productId": 9999, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	other := s.register("bob@example.com")
	w = s.do(http.MethodDelete, itemPath, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, itemPath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, s.stock(tee))

	w = s.do(http.MethodGet, "/cart", token, nil)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.register("ada@example.com")
	tee := s.seedProduct("tee", 1500, 10)

	w := s.do(http.MethodPost, "/addresses", token, gin.H{
		"fullName": "Ada Lovelace", "phonenumber": "5550100", "line1": "12 Analytical Way",
		"city": "London", "state": "LDN", "pincode": "10001",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	addr := decode[domain.Address](t, w)
	assert.Equal(t, "Ada Lovelace", addr.FullName)

	w = s.do(http.MethodPost, "/addresses", token, gin.H{"fullName": "Ada Lovelace"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/checkout", token, gin.H{"addressId": addr.ID, "paymentMethod": "card"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cart is empty")

	w = s.do(http.MethodPost, "/cart", token, gin.H{"productId": tee, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/checkout", token, gin.H{"addressId": addr.ID, "paymentMethod": "card"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	placed := decode[struct {
		OrderID uint  `json:"orderId"`
		Total   int64 `json:"total"`
	}](t, w)
	assert.NotZero(t, placed.OrderID)
	assert.Equal(t, int64(3000), placed.Total)
	assert.Equal(t, 6, s.stock(tee))

	w = s.do(http.MethodGet, "/cart", token, nil)
	assert.JSONEq(t, "[]", w.Body.String())

	w = s.do(http.MethodGet, "/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	orders := decode[[]domain.OrderSummary](t, w)
	require.Len(t, orders, 1)
	assert.Equal(t, placed.OrderID, orders[0].ID)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "tee", orders[0].Items[0].Name)

	w = s.do(http.MethodGet, "/orders", token, nil)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
}

func TestSessionEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.register("ada@example.com")

	w := s.do(http.MethodGet, "/session", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"unauthenticated","decision":{"action":"redirect","location":"/","replace":true}}`, w.Body.String())

	w = s.do(http.MethodGet, "/session", "forged", nil)
	assert.Contains(t, w.Body.String(), `"unauthenticated"`)

	w = s.do(http.MethodGet, "/session", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "authenticated", body["state"])
	assert.Equal(t, "ada@example.com", body["email"])
	assert.Equal(t, map[string]any{"action": "render"}, body["decision"])
}

func TestAdminEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	userToken := s.register("ada@example.com")
	adminToken := s.register("root@example.com")
	require.NoError(t, s.db.Model(&domain.User{}).Where("email = ?", "root@example.com").Update("role", domain.RoleAdmin).Error)

	w := s.do(http.MethodGet, "/admin/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/admin/users?page=1&page_size=1", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[struct {
		Users      []domain.User `json:"users"`
		Total      int64         `json:"total"`
		TotalPages int           `json:"total_pages"`
		Cached     bool          `json:"cached"`
	}](t, w)
	assert.Len(t, page.Users, 1)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.False(t, page.Cached)

	w = s.do(http.MethodPost, "/admin/products", userToken, gin.H{"name": "mug", "price": 900, "stock": 4})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/admin/products", adminToken, gin.H{"name": "mug", "price": 900, "stock": 4})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := decode[[]domain.Product](t, w)
	require.Len(t, products, 1)
	assert.Equal(t, "mug", products[0].Name)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, map[string]CheckFunc{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})

	w := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"down","checks":{"database":"up","redis":"connection refused"}}`, w.Body.String())

	w = s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `storefront_http_requests_total{method="GET",route="/readyz",status="503"} 1`))
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestInternalErrorsAreLoggedWithRequestID(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.register("ada@example.com")
	require.NoError(t, s.db.Migrator().DropTable(&domain.CartItem{}))
	s.logs.Reset()

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", "req-500")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())

	var failure *logrus.Entry
	for _, entry := range s.logs.AllEntries() {
		if _, ok := entry.Data["error"]; ok {
			failure = entry
		}
	}
	require.NotNil(t, failure)
	assert.Equal(t, logrus.ErrorLevel, failure.Level)
	assert.Equal(t, "req-500", failure.Data["request_id"])
	assert.Equal(t, "/cart", failure.Data["path"])
}
