package model

// LiveEventOrderStatus is the only event type the backend currently pushes.
const LiveEventOrderStatus = "order_status"

// LiveEvent is a transient server-pushed notification. Consumed once by all
// active subscribers, never persisted.
type LiveEvent struct {
	Type    string      `json:"type"`
	OrderID string      `json:"order_id"`
	Status  OrderStatus `json:"status"`
}
