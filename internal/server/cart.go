package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/keylab/storefront/internal/domain/model"
)

type cartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func cartResponse(email string, items []model.CartEntry) gin.H {
	if items == nil {
		items = []model.CartEntry{}
	}
	return gin.H{"user_email": email, "items": items}
}

func (s *Server) handleGetCart(c *gin.Context) {
	rec := currentUser(c)
	s.mu.Lock()
	items := append([]model.CartEntry(nil), s.carts[rec.Email]...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, cartResponse(rec.Email, items))
}

func (s *Server) handleAddToCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Quantity must be a positive integer"})
		return
	}

	rec := currentUser(c)
	s.mu.Lock()
	items := s.carts[rec.Email]
	found := false
	for i := range items {
		if items[i].ProductID == req.ProductID {
			items[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, model.CartEntry{ProductID: req.ProductID, Quantity: req.Quantity})
	}
	s.carts[rec.Email] = items
	result := append([]model.CartEntry(nil), items...)
	s.mu.Unlock()

	c.JSON(http.StatusOK, cartResponse(rec.Email, result))
}

func (s *Server) handleUpdateCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Quantity must not be negative"})
		return
	}

	rec := currentUser(c)
	s.mu.Lock()
	items := s.carts[rec.Email]

	if req.Quantity == 0 {
		filtered := items[:0:0]
		for _, item := range items {
			if item.ProductID != req.ProductID {
				filtered = append(filtered, item)
			}
		}
		if len(filtered) == len(items) {
			s.mu.Unlock()
			c.JSON(http.StatusNotFound, gin.H{"detail": "Item not found in cart"})
			return
		}
		s.carts[rec.Email] = filtered
		result := append([]model.CartEntry(nil), filtered...)
		s.mu.Unlock()
		c.JSON(http.StatusOK, cartResponse(rec.Email, result))
		return
	}

	updated := false
	for i := range items {
		if items[i].ProductID == req.ProductID {
			items[i].Quantity = req.Quantity
			updated = true
			break
		}
	}
	if !updated {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"detail": "Item not found in cart"})
		return
	}
	s.carts[rec.Email] = items
	result := append([]model.CartEntry(nil), items...)
	s.mu.Unlock()

	c.JSON(http.StatusOK, cartResponse(rec.Email, result))
}

func (s *Server) handleRemoveFromCart(c *gin.Context) {
	productID := c.Param("product_id")
	rec := currentUser(c)

	s.mu.Lock()
	items := s.carts[rec.Email]
	filtered := items[:0:0]
	for _, item := range items {
		if item.ProductID != productID {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == len(items) {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"detail": "Item not found in cart"})
		return
	}
	s.carts[rec.Email] = filtered
	result := append([]model.CartEntry(nil), filtered...)
	s.mu.Unlock()

	c.JSON(http.StatusOK, cartResponse(rec.Email, result))
}

func (s *Server) handleClearCart(c *gin.Context) {
	rec := currentUser(c)
	s.mu.Lock()
	s.carts[rec.Email] = nil
	s.mu.Unlock()
	c.JSON(http.StatusOK, cartResponse(rec.Email, nil))
}
