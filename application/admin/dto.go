package admin

import (
	"time"

	"storefront/infrastructure/export"
)

// UpdateOrderRequest 管理员只能推进履约状态
type UpdateOrderRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber" binding:"max=64"`
	Description    string `json:"description" binding:"max=255"`
}

type UpdateUserRequest struct {
	Action string `json:"action" binding:"required,oneof=suspend activate"`
}

type DashboardStats struct {
	TotalUsers    int   `json:"totalUsers"`
	TotalOrders   int   `json:"totalOrders"`
	TotalRevenue  int64 `json:"totalRevenue"`
	PendingOrders int   `json:"pendingOrders"`
}

type ProductSales struct {
	Name    string `json:"name"`
	Sales   int    `json:"sales"`
	Revenue int64  `json:"revenue"`
}

// Report 销售报表，窗口为 [From, To]
type Report struct {
	Period            string         `json:"period"`
	From              time.Time      `json:"from"`
	To                time.Time      `json:"to"`
	Revenue           int64          `json:"revenue"`
	Orders            int            `json:"orders"`
	Customers         int            `json:"customers"`
	AverageOrderValue int64          `json:"averageOrderValue"`
	TopProducts       []ProductSales `json:"topProducts"`
}

// Tables lays the report out as worksheets.
func (r *Report) Tables() []export.Table {
	summary := export.Table{
		Name:   "Summary",
		Header: []string{"Metric", "Value"},
		Rows: [][]any{
			{"Period", r.Period},
			{"From", r.From.Format(time.DateTime)},
			{"To", r.To.Format(time.DateTime)},
			{"Revenue (KRW)", r.Revenue},
			{"Orders", r.Orders},
			{"Customers", r.Customers},
			{"Average order value (KRW)", r.AverageOrderValue},
		},
	}
	products := export.Table{
		Name:   "Top products",
		Header: []string{"Product", "Units sold", "Revenue (KRW)"},
	}
	for _, p := range r.TopProducts {
		products.Rows = append(products.Rows, []any{p.Name, p.Sales, p.Revenue})
	}
	return []export.Table{summary, products}
}
