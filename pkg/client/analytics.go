package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/justcom/justcom-admin/pkg/domain"
)

// DefaultSalesPeriod is used when GetSalesData is called with an empty period.
const DefaultSalesPeriod = "30d"

// GetDashboardStats returns the headline metrics.
func (c *Client) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.Do(ctx, Request{Method: http.MethodGet, Endpoint: "/admin/analytics/dashboard"}, &stats); err != nil {
		return nil, fmt.Errorf("client.GetDashboardStats: %w", err)
	}
	return &stats, nil
}

// GetSalesData returns the sales series for period ("7d", "30d", "90d", "12m").
func (c *Client) GetSalesData(ctx context.Context, period string) ([]domain.SalesData, error) {
	if period == "" {
		period = DefaultSalesPeriod
	}
	params := url.Values{}
	params.Set("period", period)

	var data []domain.SalesData
	if err := c.getList(ctx, "/admin/analytics/sales?"+params.Encode(), "data", &data); err != nil {
		return nil, fmt.Errorf("client.GetSalesData: %w", err)
	}
	return data, nil
}
