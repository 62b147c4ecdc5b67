package api

import (
	"net/http"
	"testing"
	"time"

	"shopease/internal/config"
	"shopease/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// deadRedis points at a port nothing listens on; cache reads then miss and
// cache writes fail silently, exercising the database path
func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	charge, err := decimal.NewFromString("60.00")
	require.NoError(t, err)
	rate, err := decimal.NewFromString("0.01")
	require.NoError(t, err)
	return &config.Config{DeliveryCharge: charge, LoyaltyRate: rate, JWTSecret: testJWTSecret}
}

func adminRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.GET("/admin/dashboard", AdminDashboardHandler(db))
	r.GET("/admin/orders", ListOrdersHandler(db, deadRedis()))
	r.POST("/admin/toggle_user_status", ToggleUserStatusHandler(db))
	r.POST("/admin/update_payment_status", UpdatePaymentStatusHandler(db, cfg))
	r.POST("/admin/sync_payment_status", SyncPaymentStatusHandler(db, cfg))
	r.POST("/admin/add_discount", AddDiscountHandler(db))
	return r
}

func seedOrderWithLine(t *testing.T, db *gorm.DB, userID, inventoryID uint, quantity int, price string, status domain.OrderStatus) domain.Order {
	t.Helper()
	p, err := decimal.NewFromString(price)
	require.NoError(t, err)
	order := domain.Order{UserID: userID, Status: status}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&domain.OrderItem{
		OrderID: order.ID, InventoryID: inventoryID, Quantity: quantity, PriceOnSale: p,
	}).Error)
	return order
}

func TestToggleUserStatusBanAndUnban(t *testing.T) {
	db := newTestDB(t)
	router := adminRouter(db, testConfig(t))
	user := seedAccount(t, db, "alice", "supersecret", domain.RoleCustomer, domain.StatusActive)

	w := doJSON(t, router, http.MethodPost, "/admin/toggle_user_status",
		gin.H{"user_id": user.ID, "action": "ban"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var got domain.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, domain.StatusBanned, got.Status)

	w = doJSON(t, router, http.MethodPost, "/admin/toggle_user_status",
		gin.H{"user_id": user.ID, "action": "unban"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, domain.StatusActive, got.Status)
}

func TestToggleUserStatusProtectsAdmins(t *testing.T) {
	db := newTestDB(t)
	router := adminRouter(db, testConfig(t))
	admin := seedAccount(t, db, "root", "supersecret", domain.RoleAdmin, domain.StatusActive)

	w := doJSON(t, router, http.MethodPost, "/admin/toggle_user_status",
		gin.H{"user_id": admin.ID, "action": "ban"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var got domain.User
	require.NoError(t, db.First(&got, admin.ID).Error)
	assert.Equal(t, domain.StatusActive, got.Status)
}

func TestToggleUserStatusRejectsUnknownAction(t *testing.T) {
	db := newTestDB(t)
	router := adminRouter(db, testConfig(t))
	user := seedAccount(t, db, "alice", "supersecret", domain.RoleCustomer, domain.StatusActive)

	w := doJSON(t, router, http.MethodPost, "/admin/toggle_user_status",
		gin.H{"user_id": user.ID, "action": "delete"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePaymentStatusBackfillsMissingPayment(t *testing.T) {
	db := newTestDB(t)
	router := adminRouter(db, testConfig(t))
	seller := seedAccount(t, db, "seller", "supersecret", domain.RoleSeller, domain.StatusActive)
	customer := seedAccount(t, db, "alice", "supersecret", domain.RoleCustomer, domain.StatusActive)
	product := domain.Product{Name: "Phone", Category: "electronics"}
	require.NoError(t, db.Create(&product).Error)
	price, _ := decimal.NewFromString("500.00")
	inv := domain.Inventory{ProductID: product.ID, SellerID: seller.ID, PricePerUnit: price, CurrentStock: 5}
	require.NoError(t, db.Create(&inv).Error)
	order := seedOrderWithLine(t, db, customer.ID, inv.ID, 2, "500.00", domain.OrderPending)

	w := doJSON(t, router, http.MethodPost, "/admin/update_payment_status",
		gin.H{"order_id": order.ID, "payment_status": "completed"}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var payment domain.Payment
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&payment).Error)
	assert.Equal(t, domain.PaymentCompleted, payment.Status)
	// 2 x 500.00 + 60.00 delivery
	want, _ := decimal.NewFromString("1060.00")
	assert.True(t, want.Equal(payment.Amount), "got %s", payment.Amount)
}

func TestUpdatePaymentStatusRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	router := adminRouter(db, testConfig(t))

	w := doJSON(t, router, http.MethodPost, "/admin/update_payment_status",
		gin.H{"order_id": 1, "payment_status": "refunded"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncPaymentStatus(t *testing.T) {
	db := newTestDB(t)
	router := adminRouter(db, testConfig(t))
	seller := seedAccount(t, db, "seller", "supersecret", domain.RoleSeller, domain.StatusActive)
	customer := seedAccount(t, db, "alice", "supersecret", domain.RoleCustomer, domain.StatusActive)
	product := domain.Product{Name: "Phone", Category: "electronics"}
	require.NoError(t, db.Create(&product).Error)
	price, _ := decimal.NewFromString("100.00")
	inv := domain.Inventory{ProductID: product.ID, SellerID: seller.ID, PricePerUnit: price, CurrentStock: 50}
	require.NoError(t, db.Create(&inv).Error)

	// Delivered order with a pending payment: the payment completes
	delivered := seedOrderWithLine(t, db, customer.ID, inv.ID, 1, "100.00", domain.OrderDelivered)
	amount, _ := decimal.NewFromString("160.00")
	require.NoError(t, db.Create(&domain.Payment{
		OrderID: delivered.ID, Amount: amount, Method: domain.PaymentMethodCOD, Status: domain.PaymentPending,
	}).Error)
	// Cancelled order with no payment: a failed payment is backfilled
	cancelled := seedOrderWithLine(t, db, customer.ID, inv.ID, 2, "100.00", domain.OrderCancelled)
	// Pending order with no payment: a pending payment is backfilled
	pending := seedOrderWithLine(t, db, customer.ID, inv.ID, 3, "100.00", domain.OrderPending)

	w := doJSON(t, router, http.MethodPost, "/admin/sync_payment_status", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decodeBody(t, w)["created"])

	var p domain.Payment
	require.NoError(t, db.Where("order_id = ?", delivered.ID).First(&p).Error)
	assert.Equal(t, domain.PaymentCompleted, p.Status)

	p = domain.Payment{}
	require.NoError(t, db.Where("order_id = ?", cancelled.ID).First(&p).Error)
	assert.Equal(t, domain.PaymentFailed, p.Status)
	wantCancelled, _ := decimal.NewFromString("260.00")
	assert.True(t, wantCancelled.Equal(p.Amount), "got %s", p.Amount)

	p = domain.Payment{}
	require.NoError(t, db.Where("order_id = ?", pending.ID).First(&p).Error)
	assert.Equal(t, domain.PaymentPending, p.Status)
}

func TestAddDiscountValidation(t *testing.T) {
	db := newTestDB(t)
	router := adminRouter(db, testConfig(t))

	w := doJSON(t, router, http.MethodPost, "/admin/add_discount", gin.H{
		"discount_code":  "  summer20 ",
		"discount_type":  "percentage",
		"discount_value": "20",
		"start_date":     "2026-08-01",
		"end_date":       "2026-09-01",
		"use_limit":      5,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var d domain.Discount
	require.NoError(t, db.Where("code = ?", "SUMMER20").First(&d).Error)
	assert.Equal(t, domain.DiscountPercentage, d.Type)
	assert.Equal(t, 5, d.UseLimit)

	// End date before start date
	w = doJSON(t, router, http.MethodPost, "/admin/add_discount", gin.H{
		"discount_code":  "BROKEN",
		"discount_type":  "fixed",
		"discount_value": "50",
		"start_date":     "2026-09-01",
		"end_date":       "2026-08-01",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Duplicate code
	w = doJSON(t, router, http.MethodPost, "/admin/add_discount", gin.H{
		"discount_code":  "summer20",
		"discount_type":  "percentage",
		"discount_value": "10",
		"start_date":     "2026-08-01",
		"end_date":       "2026-09-01",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Discount code already exists", decodeBody(t, w)["error"])
}

func TestAdminDashboardCounters(t *testing.T) {
	db := newTestDB(t)
	router := adminRouter(db, testConfig(t))
	seedAccount(t, db, "root", "supersecret", domain.RoleAdmin, domain.StatusActive)
	seedAccount(t, db, "alice", "supersecret", domain.RoleCustomer, domain.StatusActive)
	seedAccount(t, db, "bob", "supersecret", domain.RoleSeller, domain.StatusActive)
	require.NoError(t, db.Create(&domain.Product{Name: "Phone", Category: "electronics"}).Error)
	require.NoError(t, db.Create(&domain.Discount{
		Code: "LIVE", Type: domain.DiscountFixed, Value: decimal.NewFromInt(10),
		StartDate: time.Now().AddDate(0, 0, -1), EndDate: time.Now().AddDate(0, 0, 1), UseLimit: 1,
	}).Error)
	require.NoError(t, db.Create(&domain.Discount{
		Code: "OLD", Type: domain.DiscountFixed, Value: decimal.NewFromInt(10),
		StartDate: time.Now().AddDate(0, -2, 0), EndDate: time.Now().AddDate(0, -1, 0), UseLimit: 1,
	}).Error)

	w := doJSON(t, router, http.MethodGet, "/admin/dashboard", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, 2, body["total_users"], "admin accounts are not counted")
	assert.EqualValues(t, 1, body["total_products"])
	assert.EqualValues(t, 1, body["active_discounts"])
}

func TestListOrdersFallsBackWithoutCache(t *testing.T) {
	db := newTestDB(t)
	router := adminRouter(db, testConfig(t))
	seller := seedAccount(t, db, "seller", "supersecret", domain.RoleSeller, domain.StatusActive)
	customer := seedAccount(t, db, "alice", "supersecret", domain.RoleCustomer, domain.StatusActive)
	product := domain.Product{Name: "Phone", Category: "electronics"}
	require.NoError(t, db.Create(&product).Error)
	price, _ := decimal.NewFromString("100.00")
	inv := domain.Inventory{ProductID: product.ID, SellerID: seller.ID, PricePerUnit: price, CurrentStock: 5}
	require.NoError(t, db.Create(&inv).Error)
	seedOrderWithLine(t, db, customer.ID, inv.ID, 1, "100.00", domain.OrderPending)
	seedOrderWithLine(t, db, customer.ID, inv.ID, 1, "100.00", domain.OrderDelivered)

	w := doJSON(t, router, http.MethodGet, "/admin/orders", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, 2, body["total"])
	assert.Equal(t, false, body["cached"])

	w = doJSON(t, router, http.MethodGet, "/admin/orders?status=delivered", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["total"])
}
