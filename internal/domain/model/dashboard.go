//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import "time"

// DashboardStats are the headline counters with period-over-period change in percent.
type DashboardStats struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	RevenueChange  float64 `json:"revenueChange"`
	TotalOrders    int     `json:"totalOrders"`
	OrdersChange   float64 `json:"ordersChange"`
	TotalProducts  int     `json:"totalProducts"`
	ProductsChange float64 `json:"productsChange"`
	TotalUsers     int     `json:"totalUsers"`
	UsersChange    float64 `json:"usersChange"`
}

// BackendActivity is an event from the backend's own activity feed.
type BackendActivity struct {
	ID          string    `json:"_id"`
	Type        string    `json:"type"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

func (a BackendActivity) RecordID() string { return a.ID }

// SalesPoint is one point of the revenue series.
type SalesPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// DashboardCharts groups chart series.
type DashboardCharts struct {
	SalesOverTime []SalesPoint `json:"salesOverTime"`
}

// DashboardData is the payload of GET /dashboard/admin.
type DashboardData struct {
	Stats            DashboardStats    `json:"stats"`
	RecentOrders     []Order           `json:"recentOrders"`
	LowStockProducts []Product         `json:"lowStockProducts"`
	ActivityLog      []BackendActivity `json:"activityLog"`
	Charts           DashboardCharts   `json:"charts"`
}

// MaxRevenue returns the tallest bar of the sales series, for chart scaling.
func (d DashboardData) MaxRevenue() float64 {
	m := 0.0
	for _, p := range d.Charts.SalesOverTime {
		if p.Revenue > m {
			m = p.Revenue
		}
	}
	return m
}
