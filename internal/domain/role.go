package domain

// Role is the closed set of account roles
type Role string

// Account roles
const (
	RoleCustomer Role = "customer" // Shops, carts, orders
	RoleSeller   Role = "seller"   // Lists and sells inventory
	RoleAdmin    Role = "admin"    // Manages users, orders, discounts
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// UserStatus is the closed set of account statuses
type UserStatus string

// Account statuses
const (
	StatusActive UserStatus = "active" // May authenticate and act
	StatusBanned UserStatus = "banned" // Locked out entirely
)

// OrderStatus is the closed set of order lifecycle states
type OrderStatus string

// Order lifecycle states
const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// PaymentStatus is the closed set of payment states
type PaymentStatus string

// Payment states
const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Valid reports whether s is a known payment status
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

// DiscountType is the closed set of discount kinds
type DiscountType string

// Discount kinds
const (
	DiscountPercentage DiscountType = "percentage" // Value is a percent of the subtotal
	DiscountFixed      DiscountType = "fixed"      // Value is a flat amount
)

// ActivityType is the closed set of tracked customer activities
type ActivityType string

// Tracked activities
const (
	ActivityView     ActivityType = "view"
	ActivityWishlist ActivityType = "wishlist"
	ActivityPurchase ActivityType = "purchase"
)
