package admin

import (
	"cmp"
	"slices"
	"time"

	"storefront/domain/order"
	"storefront/domain/shared"
)

const topProductLimit = 5

// ReportPeriods lists the accepted period names.
var ReportPeriods = []string{"week", "month", "quarter", "year"}

// windowStart returns the start of the reporting window ending at now.
func windowStart(period string, now time.Time) (time.Time, bool) {
	switch period {
	case "week":
		return now.AddDate(0, 0, -7), true
	case "month":
		return now.AddDate(0, -1, 0), true
	case "quarter":
		return now.AddDate(0, -3, 0), true
	case "year":
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

// buildReport aggregates orders already restricted to the window.
// Orders counts every order placed; revenue, average and products only
// count orders whose status counts as revenue.
func buildReport(period string, from, to time.Time, orders []*order.Order) *Report {
	report := &Report{Period: period, From: from, To: to, Orders: len(orders), TopProducts: []ProductSales{}}

	customers := make(map[string]struct{})
	products := make(map[string]*ProductSales)
	paidOrders := 0
	for _, o := range orders {
		customers[o.UserID()] = struct{}{}
		if !o.Status().CountsAsRevenue() {
			continue
		}
		paidOrders++
		report.Revenue += o.TotalAmount().Amount()
		for _, item := range o.Items() {
			p, ok := products[item.Name()]
			if !ok {
				p = &ProductSales{Name: item.Name()}
				products[item.Name()] = p
			}
			p.Sales += item.Quantity()
			p.Revenue += item.Subtotal().Amount()
		}
	}
	report.Customers = len(customers)
	if paidOrders > 0 {
		report.AverageOrderValue = report.Revenue / int64(paidOrders)
	}

	for _, p := range products {
		report.TopProducts = append(report.TopProducts, *p)
	}
	slices.SortFunc(report.TopProducts, func(a, b ProductSales) int {
		if c := cmp.Compare(b.Revenue, a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if len(report.TopProducts) > topProductLimit {
		report.TopProducts = report.TopProducts[:topProductLimit]
	}
	return report
}

func dashboardStats(totalUsers int, orders []*order.Order) DashboardStats {
	stats := DashboardStats{TotalUsers: totalUsers, TotalOrders: len(orders)}
	for _, o := range orders {
		if o.Status().CountsAsRevenue() {
			stats.TotalRevenue += o.TotalAmount().Amount()
		}
		if o.Status() == order.StatusPending {
			stats.PendingOrders++
		}
	}
	return stats
}

func allOrders() shared.Specification[*order.Order] {
	return shared.All[*order.Order]{}
}
