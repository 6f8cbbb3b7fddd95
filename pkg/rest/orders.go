package rest

import (
	"context"
	"net/http"

	pkgerrors "github.com/tkbshop/storefront/pkg/errors"
	"github.com/tkbshop/storefront/pkg/types"
)

// CreateOrder places an order for the signed-in user.
func (c *Client) CreateOrder(ctx context.Context, input types.OrderInput) (*types.Order, error) {
	var out types.Order
	if err := c.do(ctx, http.MethodPost, "/orders/", nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListOrders fetches the signed-in user's order history.
func (c *Client) ListOrders(ctx context.Context) ([]types.Order, error) {
	var out []types.Order
	if err := c.do(ctx, http.MethodGet, "/orders/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOrder fetches one order by its backend id.
func (c *Client) GetOrder(ctx context.Context, id string) (*types.Order, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	var out types.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelOrder cancels an order that has not shipped yet.
func (c *Client) CancelOrder(ctx context.Context, id string) (*types.Order, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	var out types.Order
	if err := c.do(ctx, http.MethodPut, "/orders/"+id+"/cancel", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
