package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	pkgerrors "github.com/tkbshop/storefront/pkg/errors"
	"github.com/tkbshop/storefront/pkg/types"
)

// ListProducts fetches the catalog, optionally narrowed by filters.
func (c *Client) ListProducts(ctx context.Context, filters types.ProductFilters) ([]types.Product, error) {
	query := url.Values{}
	if filters.Category != "" {
		query.Set("category", filters.Category)
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}
	if filters.Skip > 0 {
		query.Set("skip", strconv.Itoa(filters.Skip))
	}
	if filters.Limit > 0 {
		query.Set("limit", strconv.Itoa(filters.Limit))
	}

	var out []types.Product
	if err := c.do(ctx, http.MethodGet, "/products/", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct fetches a single catalog record.
func (c *Client) GetProduct(ctx context.Context, id string) (*types.Product, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	var out types.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCategories fetches the catalog category list.
func (c *Client) ListCategories(ctx context.Context) ([]types.Category, error) {
	var out []types.Category
	if err := c.do(ctx, http.MethodGet, "/products/categories/list", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProduct adds a catalog record (admin surface).
func (c *Client) CreateProduct(ctx context.Context, input types.ProductInput) (*types.Product, error) {
	var out types.Product
	if err := c.do(ctx, http.MethodPost, "/products/", nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct replaces a catalog record (admin surface).
func (c *Client) UpdateProduct(ctx context.Context, id string, input types.ProductInput) (*types.Product, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	var out types.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+id, nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct removes a catalog record (admin surface).
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return c.do(ctx, http.MethodDelete, "/products/"+id, nil, nil, nil)
}
