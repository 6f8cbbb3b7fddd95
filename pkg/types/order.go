package types

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tkbshop/storefront/pkg/enums"
)

// OrderItem is one purchased line inside an order.
type OrderItem struct {
	ProductID     string          `json:"productId"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	SelectedColor string          `json:"selectedColor"`
	SelectedSize  string          `json:"selectedSize"`
	Image         string          `json:"image"`
}

// Order is the backend's view of a placed order.
type Order struct {
	ID               string            `json:"id"`
	OrderID          string            `json:"orderId"`
	Items            []OrderItem       `json:"items"`
	Status           enums.OrderStatus `json:"status"`
	Total            decimal.Decimal   `json:"total"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
	Shipping         decimal.Decimal   `json:"shipping"`
	ShippingAddress  map[string]string `json:"shippingAddress"`
	PaymentSessionID string            `json:"paymentSessionId,omitempty"`
	CreatedAt        time.Time         `json:"createdAt,omitzero"`
	UpdatedAt        time.Time         `json:"updatedAt,omitzero"`
}

// OrderInput creates an order from purchased items.
type OrderInput struct {
	Items           []OrderItem       `json:"items" validate:"required,min=1"`
	ShippingAddress map[string]string `json:"shippingAddress" validate:"required"`
}
