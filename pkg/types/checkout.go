package types

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tkbshop/storefront/pkg/enums"
)

// CheckoutItem is the cart line shape the payments endpoint expects.
type CheckoutItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image"`
	SelectedColor string          `json:"selectedColor"`
	SelectedSize  string          `json:"selectedSize"`
	Quantity      int             `json:"quantity"`
}

// CheckoutRequest opens a redirect-based checkout session.
type CheckoutRequest struct {
	Items           []CheckoutItem    `json:"items" validate:"required,min=1"`
	ShippingAddress map[string]string `json:"shippingAddress" validate:"required"`
}

// CheckoutSession is the redirect handle returned by the payments endpoint.
type CheckoutSession struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// CheckoutStatus reports the state of a checkout session.
type CheckoutStatus struct {
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	Status        string              `json:"status"`
	AmountTotal   decimal.Decimal     `json:"amount_total"`
	Currency      string              `json:"currency"`
}

// Transaction is one row of the payment transaction history.
type Transaction struct {
	ID            string              `json:"id"`
	SessionID     string              `json:"sessionId"`
	OrderID       string              `json:"orderId,omitempty"`
	Amount        decimal.Decimal     `json:"amount"`
	Currency      string              `json:"currency"`
	PaymentStatus enums.PaymentStatus `json:"paymentStatus"`
	CreatedAt     time.Time           `json:"createdAt,omitzero"`
}

// AdminStats is the dashboard aggregate exposed to admin users.
type AdminStats struct {
	TotalUsers    int             `json:"totalUsers"`
	TotalOrders   int             `json:"totalOrders"`
	TotalProducts int             `json:"totalProducts"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}
