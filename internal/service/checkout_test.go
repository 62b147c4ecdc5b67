package service

import (
	"testing"
	"time"

	"shopease/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func checkoutInput(t *testing.T, userID uint, discountID *uint) CheckoutInput {
	t.Helper()
	return CheckoutInput{
		UserID:          userID,
		DeliveryAddress: "12 Main St",
		DiscountID:      discountID,
		DeliveryCharge:  dec(t, "60.00"),
		LoyaltyRate:     dec(t, "0.01"),
	}
}

func TestPlaceOrderWithPercentageDiscount(t *testing.T) {
	db := newTestDB(t)
	seller := seedUser(t, db, "seller", domain.RoleSeller, domain.StatusActive)
	customer := seedUser(t, db, "customer", domain.RoleCustomer, domain.StatusActive)
	inv := seedListing(t, db, seller.ID, "Phone", "electronics", "500.00", 5)
	seedCartLine(t, db, customer.ID, inv.ID, 2)
	discount := seedDiscount(t, db, "SAVE20", domain.DiscountPercentage, "20", 3,
		time.Now().Add(-time.Hour), time.Now().Add(time.Hour))

	result, err := PlaceOrder(db, checkoutInput(t, customer.ID, &discount.ID))
	require.NoError(t, err)

	// 500 x 2 = 1000, 20% = 200 (under the 50% cap), +60 delivery
	assert.True(t, dec(t, "1000.00").Equal(result.Subtotal), "subtotal %s", result.Subtotal)
	assert.True(t, dec(t, "200.00").Equal(result.DiscountAmount), "discount %s", result.DiscountAmount)
	assert.True(t, dec(t, "800.00").Equal(result.DiscountedSubtotal))
	assert.True(t, dec(t, "860.00").Equal(result.Total), "total %s", result.Total)
	assert.Equal(t, 8, result.LoyaltyPoints)

	// Stock decremented by the purchased quantity
	var after domain.Inventory
	require.NoError(t, db.First(&after, inv.ID).Error)
	assert.Equal(t, 3, after.CurrentStock)

	// Cart wiped
	var cartCount int64
	require.NoError(t, db.Model(&domain.CartItem{}).Where("user_id = ?", customer.ID).Count(&cartCount).Error)
	assert.Zero(t, cartCount)

	// Payment matches the invariant amount
	var payment domain.Payment
	require.NoError(t, db.Where("order_id = ?", result.OrderID).First(&payment).Error)
	assert.True(t, dec(t, "860.00").Equal(payment.Amount))
	assert.Equal(t, domain.PaymentMethodCOD, payment.Method)
	assert.Equal(t, domain.PaymentPending, payment.Status)

	// Order item snapshots the placement price
	var items []domain.OrderItem
	require.NoError(t, db.Where("order_id = ?", result.OrderID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.True(t, dec(t, "500.00").Equal(items[0].PriceOnSale))
	assert.Equal(t, 2, items[0].Quantity)

	// Loyalty credited, discount consumed
	var user domain.User
	require.NoError(t, db.First(&user, customer.ID).Error)
	assert.Equal(t, 8, user.LoyaltyPoints)
	var d domain.Discount
	require.NoError(t, db.First(&d, discount.ID).Error)
	assert.Equal(t, 2, d.UseLimit)

	// Purchase activity recorded after commit
	var activity int64
	require.NoError(t, db.Model(&domain.UserActivity{}).
		Where("user_id = ? AND activity_type = ?", customer.ID, domain.ActivityPurchase).
		Count(&activity).Error)
	assert.Equal(t, int64(1), activity)
}

func TestPlaceOrderFixedDiscountCappedAtSubtotal(t *testing.T) {
	db := newTestDB(t)
	seller := seedUser(t, db, "seller", domain.RoleSeller, domain.StatusActive)
	customer := seedUser(t, db, "customer", domain.RoleCustomer, domain.StatusActive)
	inv := seedListing(t, db, seller.ID, "Phone", "electronics", "500.00", 5)
	seedCartLine(t, db, customer.ID, inv.ID, 2)
	discount := seedDiscount(t, db, "MEGA", domain.DiscountFixed, "1500.00", 1,
		time.Now().Add(-time.Hour), time.Now().Add(time.Hour))

	result, err := PlaceOrder(db, checkoutInput(t, customer.ID, &discount.ID))
	require.NoError(t, err)

	// Fixed 1500 capped at the 1000 subtotal: only delivery remains
	assert.True(t, dec(t, "1000.00").Equal(result.DiscountAmount))
	assert.True(t, result.DiscountedSubtotal.IsZero())
	assert.True(t, dec(t, "60.00").Equal(result.Total))
	assert.Equal(t, 0, result.LoyaltyPoints)

	var user domain.User
	require.NoError(t, db.First(&user, customer.ID).Error)
	assert.Equal(t, 0, user.LoyaltyPoints)
}

func TestPlaceOrderWithoutDiscount(t *testing.T) {
	db := newTestDB(t)
	seller := seedUser(t, db, "seller", domain.RoleSeller, domain.StatusActive)
	customer := seedUser(t, db, "customer", domain.RoleCustomer, domain.StatusActive)
	a := seedListing(t, db, seller.ID, "Mouse", "electronics", "25.50", 10)
	b := seedListing(t, db, seller.ID, "Desk", "furniture", "120.00", 2)
	seedCartLine(t, db, customer.ID, a.ID, 3)
	seedCartLine(t, db, customer.ID, b.ID, 1)

	result, err := PlaceOrder(db, checkoutInput(t, customer.ID, nil))
	require.NoError(t, err)

	// 76.50 + 120.00 = 196.50, +60 delivery
	assert.True(t, dec(t, "196.50").Equal(result.Subtotal))
	assert.True(t, result.DiscountAmount.IsZero())
	assert.True(t, dec(t, "256.50").Equal(result.Total))
	assert.Equal(t, 1, result.LoyaltyPoints) // floor(1.965)

	var items []domain.OrderItem
	require.NoError(t, db.Where("order_id = ?", result.OrderID).Find(&items).Error)
	assert.Len(t, items, 2)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := newTestDB(t)
	customer := seedUser(t, db, "customer", domain.RoleCustomer, domain.StatusActive)

	_, err := PlaceOrder(db, checkoutInput(t, customer.ID, nil))
	assert.ErrorIs(t, err, ErrEmptyCart)

	var orders int64
	require.NoError(t, db.Model(&domain.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestPlaceOrderOutOfStockRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	seller := seedUser(t, db, "seller", domain.RoleSeller, domain.StatusActive)
	customer := seedUser(t, db, "customer", domain.RoleCustomer, domain.StatusActive)
	ok := seedListing(t, db, seller.ID, "Mouse", "electronics", "25.50", 10)
	scarce := seedListing(t, db, seller.ID, "Desk", "furniture", "120.00", 1)
	seedCartLine(t, db, customer.ID, ok.ID, 2)
	seedCartLine(t, db, customer.ID, scarce.ID, 3) // More than in stock

	_, err := PlaceOrder(db, checkoutInput(t, customer.ID, nil))
	assert.ErrorIs(t, err, ErrOutOfStock)

	// Nothing committed: no orders, stock untouched, cart preserved
	var orders, payments, cartLines int64
	require.NoError(t, db.Model(&domain.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&domain.Payment{}).Count(&payments).Error)
	require.NoError(t, db.Model(&domain.CartItem{}).Where("user_id = ?", customer.ID).Count(&cartLines).Error)
	assert.Zero(t, orders)
	assert.Zero(t, payments)
	assert.Equal(t, int64(2), cartLines)

	var first domain.Inventory
	require.NoError(t, db.First(&first, ok.ID).Error)
	assert.Equal(t, 10, first.CurrentStock) // The earlier decrement rolled back too
}

func TestPlaceOrderExpiredDiscountFailsBeforeStockMutation(t *testing.T) {
	db := newTestDB(t)
	seller := seedUser(t, db, "seller", domain.RoleSeller, domain.StatusActive)
	customer := seedUser(t, db, "customer", domain.RoleCustomer, domain.StatusActive)
	inv := seedListing(t, db, seller.ID, "Phone", "electronics", "500.00", 5)
	seedCartLine(t, db, customer.ID, inv.ID, 1)
	expired := seedDiscount(t, db, "OLD", domain.DiscountPercentage, "10", 5,
		time.Now().Add(-48*time.Hour), time.Now().Add(-24*time.Hour))

	_, err := PlaceOrder(db, checkoutInput(t, customer.ID, &expired.ID))
	assert.ErrorIs(t, err, ErrDiscountInvalid)

	var after domain.Inventory
	require.NoError(t, db.First(&after, inv.ID).Error)
	assert.Equal(t, 5, after.CurrentStock)

	var cartLines int64
	require.NoError(t, db.Model(&domain.CartItem{}).Where("user_id = ?", customer.ID).Count(&cartLines).Error)
	assert.Equal(t, int64(1), cartLines)
}

func TestPlaceOrderExhaustedDiscountRejected(t *testing.T) {
	db := newTestDB(t)
	seller := seedUser(t, db, "seller", domain.RoleSeller, domain.StatusActive)
	customer := seedUser(t, db, "customer", domain.RoleCustomer, domain.StatusActive)
	inv := seedListing(t, db, seller.ID, "Phone", "electronics", "500.00", 5)
	seedCartLine(t, db, customer.ID, inv.ID, 1)
	spent := seedDiscount(t, db, "SPENT", domain.DiscountFixed, "50.00", 0,
		time.Now().Add(-time.Hour), time.Now().Add(time.Hour))

	_, err := PlaceOrder(db, checkoutInput(t, customer.ID, &spent.ID))
	assert.ErrorIs(t, err, ErrDiscountInvalid)
}

func TestPlaceOrderLastUnitOnlyOnce(t *testing.T) {
	db := newTestDB(t)
	seller := seedUser(t, db, "seller", domain.RoleSeller, domain.StatusActive)
	first := seedUser(t, db, "first", domain.RoleCustomer, domain.StatusActive)
	second := seedUser(t, db, "second", domain.RoleCustomer, domain.StatusActive)
	inv := seedListing(t, db, seller.ID, "Phone", "electronics", "500.00", 1)
	// Both customers carted the last unit before either checked out
	seedCartLine(t, db, first.ID, inv.ID, 1)
	seedCartLine(t, db, second.ID, inv.ID, 1)

	_, err := PlaceOrder(db, checkoutInput(t, first.ID, nil))
	require.NoError(t, err)

	// The guarded decrement rejects the second checkout outright
	_, err = PlaceOrder(db, checkoutInput(t, second.ID, nil))
	assert.ErrorIs(t, err, ErrOutOfStock)

	var after domain.Inventory
	require.NoError(t, db.First(&after, inv.ID).Error)
	assert.Equal(t, 0, after.CurrentStock) // Never negative

	var orders int64
	require.NoError(t, db.Model(&domain.Order{}).Count(&orders).Error)
	assert.Equal(t, int64(1), orders)
}

func TestFindValidDiscount(t *testing.T) {
	db := newTestDB(t)
	seedDiscount(t, db, "SAVE20", domain.DiscountPercentage, "20", 3,
		time.Now().Add(-time.Hour), time.Now().Add(time.Hour))

	d, err := FindValidDiscount(db, "save20") // Case-insensitive
	require.NoError(t, err)
	assert.Equal(t, "SAVE20", d.Code)

	_, err = FindValidDiscount(db, "NOPE")
	assert.ErrorIs(t, err, ErrDiscountInvalid)

	_, err = FindValidDiscount(db, "")
	assert.ErrorIs(t, err, ErrDiscountInvalid)
}

// Guard against the transaction helper swallowing unexpected errors: a
// failed placement must surface something, never a silent half-commit.
func TestPlaceOrderUnknownDiscountID(t *testing.T) {
	db := newTestDB(t)
	seller := seedUser(t, db, "seller", domain.RoleSeller, domain.StatusActive)
	customer := seedUser(t, db, "customer", domain.RoleCustomer, domain.StatusActive)
	inv := seedListing(t, db, seller.ID, "Phone", "electronics", "500.00", 5)
	seedCartLine(t, db, customer.ID, inv.ID, 1)

	ghost := uint(9999)
	_, err := PlaceOrder(db, checkoutInput(t, customer.ID, &ghost))
	assert.ErrorIs(t, err, ErrDiscountInvalid)

	var orders int64
	require.NoError(t, db.Session(&gorm.Session{}).Model(&domain.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}
