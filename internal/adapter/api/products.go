package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/keylab/storefront/internal/domain/model"
)

// ProductInput carries fields for product creation.
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     bool    `json:"in_stock"`
	ImageURL    string  `json:"image_url"`
}

// ProductUpdate carries optional field changes for PUT /products/{id}.
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	InStock     *bool    `json:"in_stock,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

// SearchProducts queries the catalog with optional filters and pagination.
func (c *Client) SearchProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	query := url.Values{}
	if filter.Query != "" {
		query.Set("q", filter.Query)
	}
	if filter.MinPrice != nil {
		query.Set("min_price", strconv.FormatFloat(*filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice != nil {
		query.Set("max_price", strconv.FormatFloat(*filter.MaxPrice, 'f', -1, 64))
	}
	if filter.InStock != nil {
		query.Set("in_stock", strconv.FormatBool(*filter.InStock))
	}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var products []model.Product
	if err := c.do(ctx, http.MethodGet, c.endpoint("products", "search"), query, nil, "", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches one catalog entry by identifier.
func (c *Client) Product(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, c.endpoint("products", id), nil, nil, "", &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Categories lists distinct product categories.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, http.MethodGet, c.endpoint("products", "categories"), nil, nil, "", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateProduct adds a catalog entry. Requires an administrator credential.
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error) {
	body, contentType, err := jsonBody(input)
	if err != nil {
		return nil, err
	}
	var product model.Product
	if err := c.do(ctx, http.MethodPost, c.endpoint("products"), nil, body, contentType, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct changes catalog fields. Requires an administrator credential.
func (c *Client) UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*model.Product, error) {
	body, contentType, err := jsonBody(update)
	if err != nil {
		return nil, err
	}
	var product model.Product
	if err := c.do(ctx, http.MethodPut, c.endpoint("products", id), nil, body, contentType, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a catalog entry. Requires an administrator credential.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.endpoint("products", id), nil, nil, "", nil)
}
