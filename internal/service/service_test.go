package service

import (
	"context"
	"io"
	"testing"
	"time"

	"storefront/internal/db/dbtest"
	"storefront/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	mr       *miniredis.Miniredis
	auth     *AuthService
	cart     *CartService
	address  *AddressService
	checkout *CheckoutService
	orders   *OrderService
	products *ProductService
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := dbtest.Open(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	log := newTestLogger()

	auth := NewAuthService(gdb, rdb, log, "test-secret", time.Hour, time.Minute)
	auth.cost = bcrypt.MinCost

	return &testEnv{
		db:       gdb,
		mr:       mr,
		auth:     auth,
		cart:     NewCartService(gdb, rdb, log, nil),
		address:  NewAddressService(gdb, log),
		checkout: NewCheckoutService(gdb, rdb, log, nil),
		orders:   NewOrderService(gdb, rdb, log, time.Minute),
		products: NewProductService(gdb, rdb, log, time.Minute),
	}
}

func (e *testEnv) seedUser(t *testing.T, email string) uint {
	t.Helper()
	user := domain.User{Name: "Test", Email: email, Password: "x", Role: domain.RoleUser}
	require.NoError(t, e.db.Create(&user).Error)
	return user.ID
}

func (e *testEnv) seedProduct(t *testing.T, name string, price int64, stock int) uint {
	t.Helper()
	product := domain.Product{Name: name, Price: price, Stock: stock}
	require.NoError(t, e.db.Create(&product).Error)
	return product.ID
}

func (e *testEnv) seedAddress(t *testing.T, userID uint) uint {
	t.Helper()
	addr, err := e.address.AddAddress(context.Background(), userID, AddressInput{
		FullName: "Ada Lovelace", PhoneNumber: "5550100", Line1: "12 Analytical Way",
		City: "London", State: "LDN", Pincode: "10001",
	})
	require.NoError(t, err)
	return addr.ID
}

func (e *testEnv) stock(t *testing.T, productID uint) int {
	t.Helper()
	var product domain.Product
	require.NoError(t, e.db.First(&product, productID).Error)
	return product.Stock
}

func (e *testEnv) cartQuantity(t *testing.T, userID, productID uint) int {
	t.Helper()
	var total int64
	require.NoError(t, e.db.Model(&domain.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error)
	return int(total)
}

func (e *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
