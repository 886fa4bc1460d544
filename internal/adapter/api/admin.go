package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/keylab/storefront/internal/domain/model"
)

type roleUpdateRequest struct {
	IsAdmin bool `json:"is_admin"`
}

// AdminStats fetches the dashboard summary. Requires an administrator
// credential.
func (c *Client) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	var stats model.AdminStats
	if err := c.do(ctx, http.MethodGet, c.endpoint("admin", "stats"), nil, nil, "", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminUsers lists registered users, optionally filtered by name or email.
func (c *Client) AdminUsers(ctx context.Context, q string, page, limit int) ([]model.Identity, error) {
	query := url.Values{}
	if q != "" {
		query.Set("q", q)
	}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var users []model.Identity
	if err := c.do(ctx, http.MethodGet, c.endpoint("admin", "users"), query, nil, "", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetUserRole grants or revokes administrator rights.
func (c *Client) SetUserRole(ctx context.Context, userID string, isAdmin bool) (*model.Identity, error) {
	body, contentType, err := jsonBody(roleUpdateRequest{IsAdmin: isAdmin})
	if err != nil {
		return nil, err
	}
	var identity model.Identity
	if err := c.do(ctx, http.MethodPut, c.endpoint("admin", "users", userID, "role"), nil, body, contentType, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// AdminOrders lists every order in the system.
func (c *Client) AdminOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.do(ctx, http.MethodGet, c.endpoint("admin", "orders"), nil, nil, "", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AdminProducts lists the full catalog without search filtering.
func (c *Client) AdminProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, c.endpoint("admin", "products"), nil, nil, "", &products); err != nil {
		return nil, err
	}
	return products, nil
}
