package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tkbshop/storefront/pkg/enums"
	pkgerrors "github.com/tkbshop/storefront/pkg/errors"
	"github.com/tkbshop/storefront/pkg/types"
)

// AdminUserInput creates or replaces a user from the admin panel.
type AdminUserInput struct {
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	Password  string         `json:"password,omitempty"`
	Role      enums.UserRole `json:"role,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Address   string         `json:"address,omitempty"`
}

// AdminStats fetches the dashboard aggregates.
func (c *Client) AdminStats(ctx context.Context) (*types.AdminStats, error) {
	var out types.AdminStats
	if err := c.do(ctx, http.MethodGet, "/admin/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminListUsers pages through registered users.
func (c *Client) AdminListUsers(ctx context.Context, skip, limit int) ([]types.User, error) {
	query := url.Values{}
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out []types.User
	if err := c.do(ctx, http.MethodGet, "/admin/users", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminCreateUser registers a user on someone else's behalf.
func (c *Client) AdminCreateUser(ctx context.Context, input AdminUserInput) (*types.User, error) {
	var out types.User
	if err := c.do(ctx, http.MethodPost, "/admin/users", nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminUpdateUser modifies a user record.
func (c *Client) AdminUpdateUser(ctx context.Context, id string, input AdminUserInput) (*types.User, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	var out types.User
	if err := c.do(ctx, http.MethodPut, "/admin/users/"+id, nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminDeleteUser removes a user record.
func (c *Client) AdminDeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return c.do(ctx, http.MethodDelete, "/admin/users/"+id, nil, nil, nil)
}

// AdminListOrders pages through all orders.
func (c *Client) AdminListOrders(ctx context.Context, skip, limit int) ([]types.Order, error) {
	query := url.Values{}
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out []types.Order
	if err := c.do(ctx, http.MethodGet, "/admin/orders", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminUpdateOrderStatus advances an order through its lifecycle.
func (c *Client) AdminUpdateOrderStatus(ctx context.Context, id string, status enums.OrderStatus) (*types.Order, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	payload := map[string]enums.OrderStatus{"status": status}
	var out types.Order
	if err := c.do(ctx, http.MethodPut, "/admin/orders/"+id+"/status", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminDeleteOrder removes an order record.
func (c *Client) AdminDeleteOrder(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return c.do(ctx, http.MethodDelete, "/admin/orders/"+id, nil, nil, nil)
}
