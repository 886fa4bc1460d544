package server

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/keylab/storefront/internal/domain/model"
)

type productInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     bool    `json:"in_stock"`
	ImageURL    string  `json:"image_url"`
}

type productUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	InStock     *bool    `json:"in_stock"`
	ImageURL    *string  `json:"image_url"`
}

func (s *Server) productList() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		if p, ok := s.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out
}

func (s *Server) handleSearchProducts(c *gin.Context) {
	q := c.Query("q")
	category := c.Query("category")
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 12)

	var minPrice, maxPrice *float64
	if v := c.Query("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			minPrice = &f
		}
	}
	if v := c.Query("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			maxPrice = &f
		}
	}
	var inStock *bool
	if v := c.Query("in_stock"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			inStock = &b
		}
	}

	var matched []model.Product
	for _, p := range s.productList() {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			continue
		}
		if minPrice != nil && p.Price < *minPrice {
			continue
		}
		if maxPrice != nil && p.Price > *maxPrice {
			continue
		}
		if inStock != nil && p.InStock != *inStock {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		matched = append(matched, p)
	}

	c.JSON(http.StatusOK, paginate(matched, page, limit))
}

func (s *Server) handleCategories(c *gin.Context) {
	seen := make(map[string]struct{})
	var categories []string
	for _, p := range s.productList() {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	c.JSON(http.StatusOK, categories)
}

func (s *Server) handleProduct(c *gin.Context) {
	s.mu.Lock()
	p, ok := s.products[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, *p)
}

func (s *Server) handleCreateProduct(c *gin.Context) {
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid product payload"})
		return
	}
	product := s.SeedProduct(model.Product{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		InStock:     input.InStock,
		ImageURL:    input.ImageURL,
		CreatedAt:   time.Now().UTC(),
	})
	c.JSON(http.StatusCreated, product)
}

func (s *Server) handleUpdateProduct(c *gin.Context) {
	var update productUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid product payload"})
		return
	}

	s.mu.Lock()
	p, ok := s.products[c.Param("id")]
	if !ok {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
		return
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.Category != nil {
		p.Category = *update.Category
	}
	if update.InStock != nil {
		p.InStock = *update.InStock
	}
	if update.ImageURL != nil {
		p.ImageURL = *update.ImageURL
	}
	result := *p
	s.mu.Unlock()

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleDeleteProduct(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	_, ok := s.products[id]
	delete(s.products, id)
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (s *Server) handleAdminProducts(c *gin.Context) {
	c.JSON(http.StatusOK, s.productList())
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func paginate(products []model.Product, page, limit int) []model.Product {
	start := (page - 1) * limit
	if start >= len(products) {
		return []model.Product{}
	}
	end := start + limit
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}
