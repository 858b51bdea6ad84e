package domain

// DashboardStats is the headline metrics block of the overview page.
type DashboardStats struct {
	TotalRevenue      float64 `json:"total_revenue"`
	RevenueChange     float64 `json:"revenue_change"`
	TotalOrders       int     `json:"total_orders"`
	OrdersChange      float64 `json:"orders_change"`
	TotalProducts     int     `json:"total_products"`
	LowStockProducts  int     `json:"low_stock_products"`
	OpenConversations int     `json:"open_conversations"`
	AvgResponseTime   float64 `json:"avg_response_time"` // hours
}

// SalesData is one bucket of the sales time series.
type SalesData struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
	Date    string  `json:"date"`
}

// SalesPeriods are the ranges accepted by the sales endpoint.
var SalesPeriods = []string{"7d", "30d", "90d", "12m"}
