package model

// AdminStats is the dashboard summary returned by the backend.
type AdminStats struct {
	TotalUsers     int                 `json:"total_users"`
	TotalProducts  int                 `json:"total_products"`
	TotalOrders    int                 `json:"total_orders"`
	OrdersByStatus map[OrderStatus]int `json:"orders_by_status"`
}
