package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/justcom/justcom-admin/pkg/domain"
)

// ListOrders fetches all orders.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.getList(ctx, "/admin/orders", "orders", &orders); err != nil {
		return nil, fmt.Errorf("client.ListOrders: %w", err)
	}
	return orders, nil
}

// GetOrder fetches a single order by ID.
func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := c.Do(ctx, Request{Method: http.MethodGet, Endpoint: "/admin/orders/" + url.PathEscape(id)}, &o); err != nil {
		return nil, fmt.Errorf("client.GetOrder: %w", err)
	}
	return &o, nil
}

// UpdateOrderStatus moves an order to status.
func (c *Client) UpdateOrderStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	var o domain.Order
	req := Request{
		Method:   http.MethodPut,
		Endpoint: "/admin/orders/" + url.PathEscape(id) + "/status",
		Body:     map[string]string{"status": status},
	}
	if err := c.Do(ctx, req, &o); err != nil {
		return nil, fmt.Errorf("client.UpdateOrderStatus: %w", err)
	}
	return &o, nil
}
