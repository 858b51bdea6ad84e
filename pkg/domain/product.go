package domain

import "time"

// Product is a catalog item.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"original_price,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	HealthRating  int       `json:"health_rating"` // 1-5 refurbishment condition
	Category      string    `json:"category"`
	IsFeatured    bool      `json:"is_featured"`
	UrgencyBadge  string    `json:"urgency_badge,omitempty"`
	StockCount    int       `json:"stock_count"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LowStockThreshold is the stock count at or below which a product is flagged.
const LowStockThreshold = 5

// LowStock reports whether the product should be restocked.
func (p Product) LowStock() bool {
	return p.StockCount <= LowStockThreshold
}

// ProductCategories lists the catalog categories in display order.
var ProductCategories = []string{"iphone", "macbook", "ipad", "watch", "accessories"}

// ProductInput is the payload for creating or updating a product.
// Nil fields are omitted so updates stay partial.
type ProductInput struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty"`
	HealthRating  *int     `json:"health_rating,omitempty"`
	Category      *string  `json:"category,omitempty"`
	IsFeatured    *bool    `json:"is_featured,omitempty"`
	UrgencyBadge  *string  `json:"urgency_badge,omitempty"`
	StockCount    *int     `json:"stock_count,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
}
