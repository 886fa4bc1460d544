package api

import (
	"context"
	"net/http"

	"github.com/keylab/storefront/internal/domain/model"
)

// cartResponse mirrors the backend cart document.
type cartResponse struct {
	UserEmail string            `json:"user_email"`
	Items     []model.CartEntry `json:"items"`
}

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart fetches the server-side cart entries for the current user.
func (c *Client) Cart(ctx context.Context) ([]model.CartEntry, error) {
	var resp cartResponse
	if err := c.do(ctx, http.MethodGet, c.endpoint("cart"), nil, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// AddToCart sends an additive quantity update for one product.
func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) error {
	body, contentType, err := jsonBody(cartItemRequest{ProductID: productID, Quantity: quantity})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, c.endpoint("cart", "add"), nil, body, contentType, nil)
}

// UpdateCart overwrites one product's quantity. Quantity zero removes the
// line server-side.
func (c *Client) UpdateCart(ctx context.Context, productID string, quantity int) error {
	body, contentType, err := jsonBody(cartItemRequest{ProductID: productID, Quantity: quantity})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, c.endpoint("cart", "update"), nil, body, contentType, nil)
}

// RemoveFromCart deletes one product's line. Equivalent to a zero-quantity
// update, exposed by the backend as a separate route.
func (c *Client) RemoveFromCart(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, c.endpoint("cart", productID), nil, nil, "", nil)
}

// ClearCart empties the cart in one call.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, c.endpoint("cart"), nil, nil, "", nil)
}
