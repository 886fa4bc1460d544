package api

import (
	"context"
	"net/http"

	"github.com/keylab/storefront/internal/domain/model"
)

type statusUpdateRequest struct {
	Status model.OrderStatus `json:"status"`
}

// PlaceOrder creates an order from the server-side cart.
func (c *Client) PlaceOrder(ctx context.Context) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, http.MethodPost, c.endpoint("orders"), nil, nil, "", &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Orders lists the current user's orders.
func (c *Client) Orders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.do(ctx, http.MethodGet, c.endpoint("orders"), nil, nil, "", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Order fetches one order by identifier.
func (c *Client) Order(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, http.MethodGet, c.endpoint("orders", id), nil, nil, "", &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus issues the privileged status-change command.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	body, contentType, err := jsonBody(statusUpdateRequest{Status: status})
	if err != nil {
		return nil, err
	}
	var order model.Order
	if err := c.do(ctx, http.MethodPut, c.endpoint("orders", id, "status"), nil, body, contentType, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
