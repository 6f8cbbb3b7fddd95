package rest

import (
	"context"
	"net/http"

	pkgerrors "github.com/tkbshop/storefront/pkg/errors"
	"github.com/tkbshop/storefront/pkg/types"
)

// CreateCheckoutSession opens a redirect-based checkout for the given
// cart snapshot and returns the payment page URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, req types.CheckoutRequest) (*types.CheckoutSession, error) {
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout requires at least one item")
	}
	var out types.CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/payments/checkout/session", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckoutStatus polls the state of a checkout session after redirect.
func (c *Client) CheckoutStatus(ctx context.Context, sessionID string) (*types.CheckoutStatus, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	var out types.CheckoutStatus
	if err := c.do(ctx, http.MethodGet, "/payments/checkout/status/"+sessionID, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTransactions fetches the signed-in user's payment history.
func (c *Client) ListTransactions(ctx context.Context) ([]types.Transaction, error) {
	var out []types.Transaction
	if err := c.do(ctx, http.MethodGet, "/payments/transactions", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
