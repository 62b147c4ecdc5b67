package service

import (
	"strconv" // Month label formatting
	"time"    // Month bucketing

	"shopease/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Currency amounts
	"gorm.io/gorm"                  // GORM ORM library
)

// sellerSaleRow is one sold line of the seller's inventory, the unit all
// analytics aggregate over. Cancelled orders are excluded at query time.
type sellerSaleRow struct {
	OrderID     uint            // Owning order
	OrderDate   time.Time       // Placement time
	Quantity    int             // Units sold
	PriceOnSale decimal.Decimal // Snapshot unit price
}

// sellerSales fetches every non-cancelled sold line for a seller,
// optionally restricted to [from, to)
func sellerSales(db *gorm.DB, sellerID uint, from, to *time.Time) ([]sellerSaleRow, error) {
	q := db.Table("order_items").
		Select("orders.id as order_id, orders.order_date as order_date, order_items.quantity as quantity, order_items.price_on_sale as price_on_sale").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN inventories ON inventories.id = order_items.inventory_id").
		Where("inventories.seller_id = ? AND orders.status <> ?", sellerID, domain.OrderCancelled)
	if from != nil {
		q = q.Where("orders.order_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("orders.order_date < ?", *to)
	}
	var rows []sellerSaleRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MonthlyStats summarizes one month of a seller's sales
type MonthlyStats struct {
	OrdersCount   int             `json:"orders_count"`    // Distinct orders
	TotalRevenue  decimal.Decimal `json:"total_revenue"`   // Sum of qty x snapshot price
	ItemsSold     int             `json:"items_sold"`      // Units across all orders
	AvgOrderValue decimal.Decimal `json:"avg_order_value"` // Revenue per order, zero when no orders
}

// aggregate folds sale rows into MonthlyStats
func aggregate(rows []sellerSaleRow) MonthlyStats {
	stats := MonthlyStats{TotalRevenue: decimal.Zero, AvgOrderValue: decimal.Zero}
	orders := make(map[uint]bool)
	for _, r := range rows {
		orders[r.OrderID] = true
		stats.ItemsSold += r.Quantity
		stats.TotalRevenue = stats.TotalRevenue.Add(LineTotal(r.Quantity, r.PriceOnSale))
	}
	stats.OrdersCount = len(orders)
	stats.TotalRevenue = Round(stats.TotalRevenue)
	if stats.OrdersCount > 0 {
		stats.AvgOrderValue = Round(stats.TotalRevenue.Div(decimal.NewFromInt(int64(stats.OrdersCount))))
	}
	return stats
}

// monthStart truncates t to the first instant of its month
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// SellerMonthlyStats summarizes the seller's current calendar month
func SellerMonthlyStats(db *gorm.DB, sellerID uint, now time.Time) (*MonthlyStats, error) {
	from := monthStart(now)
	to := from.AddDate(0, 1, 0)
	rows, err := sellerSales(db, sellerID, &from, &to)
	if err != nil {
		return nil, err
	}
	stats := aggregate(rows)
	return &stats, nil
}

// BestMonth names the seller's highest-revenue month
type BestMonth struct {
	Month   string          `json:"month"`   // e.g. "August 2025"
	Orders  int             `json:"orders"`  // Distinct orders that month
	Revenue decimal.Decimal `json:"revenue"` // Revenue that month
}

// BestProduct names the seller's best-selling product by units
type BestProduct struct {
	Name      string          `json:"name"`       // Product name
	Brand     string          `json:"brand"`      // Product brand
	TotalSold int             `json:"total_sold"` // Units sold all-time
	Revenue   decimal.Decimal `json:"revenue"`    // Revenue all-time
}

// MonthComparison sets the current month against the previous one
type MonthComparison struct {
	Current  MonthlyStats `json:"current"`  // Current calendar month
	Previous MonthlyStats `json:"previous"` // Month before
}

// AnalyticsSummary is the seller analytics popup payload
type AnalyticsSummary struct {
	BestMonth   *BestMonth      `json:"best_month"`   // Nil with no sales history
	BestProduct *BestProduct    `json:"best_product"` // Nil with no sales history
	Comparison  MonthComparison `json:"monthly_comparison"`
}

// SellerAnalytics builds the seller's analytics summary. Aggregation runs
// in Go over the seller's sold lines so the same query works on every SQL
// dialect the repo targets.
func SellerAnalytics(db *gorm.DB, sellerID uint, now time.Time) (*AnalyticsSummary, error) {
	rows, err := sellerSales(db, sellerID, nil, nil)
	if err != nil {
		return nil, err
	}

	// Best month: bucket rows by calendar month, pick the top revenue
	type monthKey struct {
		year  int
		month time.Month
	}
	byMonth := make(map[monthKey][]sellerSaleRow)
	for _, r := range rows {
		k := monthKey{r.OrderDate.Year(), r.OrderDate.Month()}
		byMonth[k] = append(byMonth[k], r)
	}
	var best *BestMonth
	for k, monthRows := range byMonth {
		stats := aggregate(monthRows)
		if stats.TotalRevenue.IsZero() {
			continue
		}
		if best == nil || stats.TotalRevenue.GreaterThan(best.Revenue) {
			best = &BestMonth{
				Month:   k.month.String() + " " + strconv.Itoa(k.year),
				Orders:  stats.OrdersCount,
				Revenue: stats.TotalRevenue,
			}
		}
	}

	bestProduct, err := sellerBestProduct(db, sellerID)
	if err != nil {
		return nil, err
	}

	// Current vs previous month
	current, err := SellerMonthlyStats(db, sellerID, now)
	if err != nil {
		return nil, err
	}
	prevFrom := monthStart(now).AddDate(0, -1, 0)
	prevTo := monthStart(now)
	prevRows, err := sellerSales(db, sellerID, &prevFrom, &prevTo)
	if err != nil {
		return nil, err
	}

	return &AnalyticsSummary{
		BestMonth:   best,
		BestProduct: bestProduct,
		Comparison:  MonthComparison{Current: *current, Previous: aggregate(prevRows)},
	}, nil
}

// sellerBestProduct finds the product with the most units sold
func sellerBestProduct(db *gorm.DB, sellerID uint) (*BestProduct, error) {
	type productRow struct {
		Name        string
		Brand       string
		Quantity    int
		PriceOnSale decimal.Decimal
	}
	var rows []productRow
	err := db.Table("order_items").
		Select("products.name as name, products.brand as brand, order_items.quantity as quantity, order_items.price_on_sale as price_on_sale").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN inventories ON inventories.id = order_items.inventory_id").
		Joins("JOIN products ON products.id = inventories.product_id").
		Where("inventories.seller_id = ? AND orders.status <> ?", sellerID, domain.OrderCancelled).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	type agg struct {
		brand   string
		sold    int
		revenue decimal.Decimal
	}
	totals := make(map[string]*agg)
	for _, r := range rows {
		a := totals[r.Name]
		if a == nil {
			a = &agg{brand: r.Brand, revenue: decimal.Zero}
			totals[r.Name] = a
		}
		a.sold += r.Quantity
		a.revenue = a.revenue.Add(LineTotal(r.Quantity, r.PriceOnSale))
	}
	var best *BestProduct
	for name, a := range totals {
		if a.sold == 0 {
			continue
		}
		if best == nil || a.sold > best.TotalSold {
			best = &BestProduct{Name: name, Brand: a.brand, TotalSold: a.sold, Revenue: Round(a.revenue)}
		}
	}
	return best, nil
}
