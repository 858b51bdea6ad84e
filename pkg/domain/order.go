package domain

import "time"

// Order statuses as reported by the backend.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// OrderStatuses is the fulfilment pipeline in order.
var OrderStatuses = []string{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}

// Order is a customer order as seen by an admin.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	OrderNumber     string          `json:"order_number"`
	Status          string          `json:"status"`
	TotalAmount     float64         `json:"total_amount"`
	Currency        string          `json:"currency"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	CustomerName    string          `json:"customer_name,omitempty"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID           string  `json:"id"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image,omitempty"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	TotalPrice   float64 `json:"total_price"`
}

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// NextOrderStatus returns the status that follows current in the fulfilment
// pipeline. Delivered and cancelled orders are final and return "".
func NextOrderStatus(current string) string {
	switch current {
	case OrderPending:
		return OrderProcessing
	case OrderProcessing:
		return OrderShipped
	case OrderShipped:
		return OrderDelivered
	default:
		return ""
	}
}
