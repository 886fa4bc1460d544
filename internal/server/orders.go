package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/keylab/storefront/internal/domain/model"
)

type statusUpdateRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

func (s *Server) handlePlaceOrder(c *gin.Context) {
	rec := currentUser(c)

	s.mu.Lock()
	items := s.carts[rec.Email]
	if len(items) == 0 {
		s.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Cart is empty"})
		return
	}

	orderItems := make([]model.OrderItem, 0, len(items))
	var total float64
	for _, item := range items {
		product, ok := s.products[item.ProductID]
		if !ok {
			s.mu.Unlock()
			c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("Product %s not found", item.ProductID)})
			return
		}
		orderItems = append(orderItems, model.OrderItem{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}

	now := time.Now().UTC()
	order := &model.Order{
		ID:         uuid.NewString(),
		UserEmail:  rec.Email,
		Items:      orderItems,
		TotalPrice: total,
		Status:     model.OrderStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.orders[order.ID] = order
	s.orderOrder = append(s.orderOrder, order.ID)
	s.carts[rec.Email] = nil
	result := *order
	s.mu.Unlock()

	c.JSON(http.StatusCreated, result)
}

func (s *Server) handleListOrders(c *gin.Context) {
	rec := currentUser(c)
	s.mu.Lock()
	out := make([]model.Order, 0)
	for _, id := range s.orderOrder {
		if order, ok := s.orders[id]; ok && order.UserEmail == rec.Email {
			out = append(out, *order)
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetOrder(c *gin.Context) {
	rec := currentUser(c)
	s.mu.Lock()
	order, ok := s.orders[c.Param("id")]
	if ok && order.UserEmail != rec.Email && !rec.IsAdmin {
		ok = false
	}
	var result model.Order
	if ok {
		result = *order
	}
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleUpdateOrderStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || !model.ValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid status value"})
		return
	}

	s.mu.Lock()
	order, ok := s.orders[c.Param("id")]
	if !ok {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
		return
	}
	order.Status = req.Status
	order.UpdatedAt = time.Now().UTC()
	result := *order
	s.mu.Unlock()

	s.hub.push(result.UserEmail, model.LiveEvent{
		Type:    model.LiveEventOrderStatus,
		OrderID: result.ID,
		Status:  result.Status,
	})

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleAdminOrders(c *gin.Context) {
	s.mu.Lock()
	out := make([]model.Order, 0, len(s.orderOrder))
	for _, id := range s.orderOrder {
		if order, ok := s.orders[id]; ok {
			out = append(out, *order)
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleAdminStats(c *gin.Context) {
	s.mu.Lock()
	stats := model.AdminStats{
		TotalUsers:     len(s.users),
		TotalProducts:  len(s.products),
		TotalOrders:    len(s.orders),
		OrdersByStatus: make(map[model.OrderStatus]int),
	}
	for _, status := range []model.OrderStatus{model.OrderStatusPending, model.OrderStatusShipped, model.OrderStatusDelivered, model.OrderStatusCancelled} {
		stats.OrdersByStatus[status] = 0
	}
	for _, order := range s.orders {
		stats.OrdersByStatus[order.Status]++
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, stats)
}
