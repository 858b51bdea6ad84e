package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/justcom/justcom-admin/pkg/domain"
)

// ProductFilter narrows ListProducts. Zero values mean no filter.
type ProductFilter struct {
	Category string
	Featured bool
}

// ListProducts fetches the catalog.
func (c *Client) ListProducts(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	params := url.Values{}
	if f.Category != "" {
		params.Set("category", f.Category)
	}
	if f.Featured {
		params.Set("featured", "true")
	}
	endpoint := "/products"
	if q := params.Encode(); q != "" {
		endpoint += "?" + q
	}

	var products []domain.Product
	if err := c.getList(ctx, endpoint, "products", &products); err != nil {
		return nil, fmt.Errorf("client.ListProducts: %w", err)
	}
	return products, nil
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := c.Do(ctx, Request{Method: http.MethodGet, Endpoint: "/products/" + url.PathEscape(id)}, &p); err != nil {
		return nil, fmt.Errorf("client.GetProduct: %w", err)
	}
	return &p, nil
}

// CreateProduct creates a new product.
func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	var p domain.Product
	if err := c.Do(ctx, Request{Method: http.MethodPost, Endpoint: "/admin/products", Body: in}, &p); err != nil {
		return nil, fmt.Errorf("client.CreateProduct: %w", err)
	}
	return &p, nil
}

// UpdateProduct applies a partial update to a product.
func (c *Client) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	var p domain.Product
	if err := c.Do(ctx, Request{Method: http.MethodPut, Endpoint: "/admin/products/" + url.PathEscape(id), Body: in}, &p); err != nil {
		return nil, fmt.Errorf("client.UpdateProduct: %w", err)
	}
	return &p, nil
}

// DeleteProduct deletes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if err := c.Do(ctx, Request{Method: http.MethodDelete, Endpoint: "/admin/products/" + url.PathEscape(id)}, nil); err != nil {
		return fmt.Errorf("client.DeleteProduct: %w", err)
	}
	return nil
}
