package server

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/keylab/storefront/internal/domain/model"
)

type roleUpdateRequest struct {
	IsAdmin *bool `json:"is_admin" binding:"required"`
}

func (s *Server) handleAdminUsers(c *gin.Context) {
	q := strings.ToLower(c.Query("q"))
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	s.mu.Lock()
	all := make([]model.Identity, 0, len(s.users))
	for _, rec := range s.users {
		if q != "" && !strings.Contains(strings.ToLower(rec.Name), q) && !strings.Contains(strings.ToLower(rec.Email), q) {
			continue
		}
		all = append(all, *identityOf(rec))
	}
	s.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })

	start := (page - 1) * limit
	if start >= len(all) {
		c.JSON(http.StatusOK, []model.Identity{})
		return
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	c.JSON(http.StatusOK, all[start:end])
}

func (s *Server) handleSetUserRole(c *gin.Context) {
	var req roleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAdmin == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid role payload"})
		return
	}

	id := c.Param("id")
	s.mu.Lock()
	var target *userRecord
	for _, rec := range s.users {
		if rec.ID == id {
			target = rec
			break
		}
	}
	if target == nil {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}
	target.IsAdmin = *req.IsAdmin
	result := identityOf(target)
	s.mu.Unlock()

	c.JSON(http.StatusOK, result)
}
