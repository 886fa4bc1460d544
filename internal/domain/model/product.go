package model

import "time"

// Product is a catalog entry.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	InStock     bool      `json:"in_stock"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductFilter narrows a catalog search. Zero values mean "no constraint".
type ProductFilter struct {
	Query    string
	MinPrice *float64
	MaxPrice *float64
	InStock  *bool
	Category string
	Page     int
	Limit    int
}
